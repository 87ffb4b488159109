package allocation

import (
	"errors"
	"math"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrNegativeCapacity is returned by New when a tier is configured with
// fewer than zero rooms.
var ErrNegativeCapacity = errors.New("allocation: negative capacity")

// Capacities holds the number of rooms each tier starts with.
type Capacities struct {
	Suite    int `json:"suite"`
	Deluxe   int `json:"deluxe"`
	Standard int `json:"standard"`
}

// DefaultCapacities is the hotel's stock inventory.
var DefaultCapacities = Capacities{Suite: 10, Deluxe: 15, Standard: 45}

func (c Capacities) array() [tierCount]int {
	return [tierCount]int{c.Suite, c.Deluxe, c.Standard}
}

// Engine owns the three tier counters and routes bids through the tiers in
// rank order.  It is safe for concurrent use: each Route call reads, decides
// and decrements under a single lock.
type Engine struct {
	mu        sync.Mutex
	rules     [tierCount]rule
	initial   [tierCount]int
	remaining [tierCount]int
}

// New builds an engine with the given starting capacities.
func New(c Capacities) (*Engine, error) {
	caps := c.array()
	for _, n := range caps {
		if n < 0 {
			return nil, ErrNegativeCapacity
		}
	}
	e := &Engine{initial: caps, remaining: caps}
	for _, t := range AllTiers {
		e.rules[t] = newRule(t)
	}
	return e, nil
}

// Route offers a bid to Suite, then Deluxe, then Standard and stops at the
// first tier that takes it.  Exactly one counter is decremented on
// acceptance and none otherwise.  Non-finite or non-positive prices yield an
// Invalid outcome.
func (e *Engine) Route(price float64) Outcome {
	out, _ := e.RouteSnapshot(price)
	return out
}

// RouteSnapshot is Route plus the inventory as it stood right after this
// bid, taken under the same lock.
func (e *Engine) RouteSnapshot(price float64) (Outcome, Inventory) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return Outcome{Status: Invalid, Price: price}, e.Snapshot()
	}
	p := decimal.NewFromFloat(price)

	e.mu.Lock()
	defer e.mu.Unlock()
	out := Outcome{Status: Rejected, Price: price}
	for _, r := range e.rules {
		if !r.eligible(p, &e.remaining) {
			continue
		}
		e.remaining[r.tier]--
		out = Outcome{Status: Accepted, Tier: r.tier, Price: price, Remaining: e.remaining[r.tier]}
		break
	}
	return out, Inventory{Initial: e.initial, Remaining: e.remaining}
}

// Remaining returns the rooms left in t.  Unknown tiers report zero.
func (e *Engine) Remaining(t Tier) int {
	if !t.Valid() {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining[t]
}

// Initial returns the capacity t was created with.
func (e *Engine) Initial(t Tier) int {
	if !t.Valid() {
		return 0
	}
	return e.initial[t]
}

// TotalRemaining sums the rooms left over all tiers.
func (e *Engine) TotalRemaining() int {
	return e.Snapshot().TotalRemaining()
}

// SoldOut reports whether every tier has run out of rooms.
func (e *Engine) SoldOut() bool { return e.TotalRemaining() == 0 }

// Sold returns the number of accepted bids so far.
func (e *Engine) Sold() int { return e.Snapshot().Sold() }

// Snapshot returns a consistent copy of all counters.
func (e *Engine) Snapshot() Inventory {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Inventory{Initial: e.initial, Remaining: e.remaining}
}

// Tiers describes the routing chain in rank order.
func (e *Engine) Tiers() []TierInfo {
	out := make([]TierInfo, 0, tierCount)
	for _, r := range e.rules {
		info := TierInfo{
			Tier:            r.tier,
			Name:            r.tier.String(),
			Rank:            int(r.tier),
			BaseRange:       r.base,
			BaseMin:         r.base.Min.StringFixed(2),
			InitialCapacity: e.initial[r.tier],
		}
		if !r.base.Unbounded {
			info.BaseMax = r.base.Max.StringFixed(2)
		}
		for _, h := range r.higher {
			info.OverflowFrom = append(info.OverflowFrom, h.String())
		}
		out = append(out, info)
	}
	return out
}

// Inventory is a point-in-time view of the counters.
type Inventory struct {
	Initial   [tierCount]int
	Remaining [tierCount]int
}

// RemainingOf returns the rooms left in t at snapshot time.
func (inv Inventory) RemainingOf(t Tier) int {
	if !t.Valid() {
		return 0
	}
	return inv.Remaining[t]
}

// InitialOf returns the starting capacity of t.
func (inv Inventory) InitialOf(t Tier) int {
	if !t.Valid() {
		return 0
	}
	return inv.Initial[t]
}

func (inv Inventory) TotalRemaining() int {
	n := 0
	for _, r := range inv.Remaining {
		n += r
	}
	return n
}

// Sold is the sum over tiers of initial minus remaining.
func (inv Inventory) Sold() int {
	n := 0
	for i := range inv.Initial {
		n += inv.Initial[i] - inv.Remaining[i]
	}
	return n
}

func (inv Inventory) SoldOut() bool { return inv.TotalRemaining() == 0 }

// ByName maps each tier name to its remaining rooms.
func (inv Inventory) ByName() map[string]int {
	m := make(map[string]int, tierCount)
	for _, t := range AllTiers {
		m[t.String()] = inv.Remaining[t]
	}
	return m
}
