// Package allocation routes room bids through the Suite, Deluxe and Standard
// tiers and owns the remaining-room counters each acceptance decrements.
package allocation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Tier identifies one of the three room categories.  The numeric value is
// the tier's rank: lower ranks are offered a bid first.
type Tier int

const (
	Suite    Tier = iota // rank 0
	Deluxe               // rank 1
	Standard             // rank 2
)

// tierCount is the fixed length of the routing chain.
const tierCount = 3

// AllTiers lists the tiers in routing order.
var AllTiers = [tierCount]Tier{Suite, Deluxe, Standard}

var tierNames = [tierCount]string{"Suite", "Deluxe", "Standard"}

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool { return t >= Suite && t <= Standard }

// ParseTier converts a tier name (case-insensitive) back into a Tier.
func ParseTier(s string) (Tier, bool) {
	s = strings.TrimSpace(s)
	for i, n := range tierNames {
		if strings.EqualFold(n, s) {
			return Tier(i), true
		}
	}
	return 0, false
}

// PriceRange is the half-open interval [Min, Max).  When Unbounded is set the
// range has no upper limit and Max is ignored.
type PriceRange struct {
	Min       decimal.Decimal
	Max       decimal.Decimal
	Unbounded bool
}

// Contains reports whether p lies inside the range.
func (r PriceRange) Contains(p decimal.Decimal) bool {
	if p.LessThan(r.Min) {
		return false
	}
	return r.Unbounded || p.LessThan(r.Max)
}

func (r PriceRange) String() string {
	if r.Unbounded {
		return fmt.Sprintf("[%s, inf)", r.Min.StringFixed(2))
	}
	return fmt.Sprintf("[%s, %s)", r.Min.StringFixed(2), r.Max.StringFixed(2))
}

// baseRanges are the prices each tier accepts while it has rooms left.
var baseRanges = [tierCount]PriceRange{
	Suite:    {Min: decimal.NewFromInt(280), Unbounded: true},
	Deluxe:   {Min: decimal.NewFromInt(150), Max: decimal.NewFromInt(280)},
	Standard: {Min: decimal.NewFromInt(80), Max: decimal.NewFromInt(150)},
}

// BaseRange returns the unconditional price range of t.
func BaseRange(t Tier) PriceRange { return baseRanges[t] }

// rule is the single data shape shared by every tier handler.  higher holds
// indices into the engine's counter array; a rule only ever reads them.
type rule struct {
	tier   Tier
	base   PriceRange
	higher []Tier
}

func newRule(t Tier) rule {
	higher := make([]Tier, 0, int(t))
	for h := Suite; h < t; h++ {
		higher = append(higher, h)
	}
	return rule{tier: t, base: baseRanges[t], higher: higher}
}

// eligible decides whether the tier takes a bid at price p given the current
// remaining counts.  It never mutates remaining.
func (r rule) eligible(p decimal.Decimal, remaining *[tierCount]int) bool {
	if remaining[r.tier] == 0 {
		return false
	}
	if r.base.Contains(p) {
		return true
	}
	if len(r.higher) == 0 {
		return false
	}
	inHigher := false
	for _, h := range r.higher {
		if remaining[h] != 0 {
			return false
		}
		if baseRanges[h].Contains(p) {
			inHigher = true
		}
	}
	return inHigher
}

// TierInfo describes a tier's static rules for display and reporting.
type TierInfo struct {
	Tier            Tier       `json:"-"`
	Name            string     `json:"name"`
	Rank            int        `json:"rank"`
	BaseRange       PriceRange `json:"-"`
	BaseMin         string     `json:"base_min"`
	BaseMax         string     `json:"base_max,omitempty"`
	InitialCapacity int        `json:"initial_capacity"`
	OverflowFrom    []string   `json:"overflow_from,omitempty"`
}

// OverflowRule renders the overflow condition of the tier in plain words.
func (ti TierInfo) OverflowRule() string {
	if len(ti.OverflowFrom) == 0 {
		return "none"
	}
	return fmt.Sprintf(">= %s when %s sold out", ti.BaseRange.Max.StringFixed(2), strings.Join(ti.OverflowFrom, " and "))
}
