// Package service coordinates a bid submission: validation, routing through
// the allocation engine, and the best-effort side channels (bid log,
// events, metrics).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iliyamo/hotel-bidding/internal/allocation"
	"github.com/iliyamo/hotel-bidding/internal/logger"
	"github.com/iliyamo/hotel-bidding/internal/metrics"
	"github.com/iliyamo/hotel-bidding/internal/model"
	"github.com/iliyamo/hotel-bidding/internal/queue"
	"github.com/iliyamo/hotel-bidding/internal/repository"
)

var (
	// ErrInvalidPrice is returned for prices that are not finite and > 0.
	ErrInvalidPrice = errors.New("price must be a positive number")
	// ErrSoldOut is returned once every tier has run out of rooms.
	ErrSoldOut = errors.New("all rooms are sold out")
)

// MaxPrice is the highest bid accepted for routing.  Larger prices are
// refused as invalid so every decided bid fits the bid log columns.
const MaxPrice = 1_000_000

// recentCap bounds the in-memory bid log.
const recentCap = 200

// OutcomeStore persists bid outcomes.  *repository.BidRepo satisfies it.
type OutcomeStore interface {
	Create(ctx context.Context, b *model.BidOutcome) error
	ListRecent(ctx context.Context, limit int) ([]model.BidOutcome, error)
	GetByBidID(ctx context.Context, bidID string) (*model.BidOutcome, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// EventPublisher fans bid events out.  *Publisher satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BidDecidedEvent) error
}

// Deps bundles the collaborators of a BidService.  Engine is required;
// everything else may be nil.
type Deps struct {
	Engine    *allocation.Engine
	Store     OutcomeStore
	Publisher EventPublisher
	Metrics   *metrics.Metrics
	Log       *slog.Logger
	Now       func() time.Time
}

type BidService struct {
	engine    *allocation.Engine
	store     OutcomeStore
	publisher EventPublisher
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	recent []model.BidOutcome // newest last
	counts map[string]int     // outcomes per status since start
}

// NewBidService wires a BidService.  It panics when no engine is given.
func NewBidService(d Deps) *BidService {
	if d.Engine == nil {
		panic("nil engine passed to NewBidService")
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New(prometheus.NewRegistry())
	}
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	s := &BidService{
		engine:    d.Engine,
		store:     d.Store,
		publisher: d.Publisher,
		metrics:   d.Metrics,
		log:       d.Log,
		now:       d.Now,
		counts:    map[string]int{},
	}
	s.metrics.SetInventory(d.Engine.Snapshot())
	return s
}

// Submit routes one bid.  Rejection is a normal result and comes back with
// a nil error; ErrInvalidPrice and ErrSoldOut mean the bid never reached
// the engine.
func (s *BidService) Submit(ctx context.Context, price float64) (model.BidOutcome, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return model.BidOutcome{}, ErrInvalidPrice
	}
	if price > MaxPrice {
		return model.BidOutcome{}, fmt.Errorf("%w: above %s", ErrInvalidPrice, allocation.FormatUSD(MaxPrice))
	}
	if s.engine.SoldOut() {
		return model.BidOutcome{}, ErrSoldOut
	}

	out, inv := s.engine.RouteSnapshot(price)
	rec := model.BidOutcome{
		BidID:     uuid.NewString(),
		Price:     price,
		Status:    out.Status.String(),
		Message:   out.String(),
		CreatedAt: s.now().UTC(),
	}
	if out.Accepted() {
		remaining := out.Remaining
		rec.Tier = out.Tier.String()
		rec.Remaining = &remaining
	}

	s.metrics.ObserveOutcome(out)
	s.metrics.SetInventory(inv)
	s.remember(rec)

	if s.store != nil {
		if err := s.store.Create(ctx, &rec); err != nil {
			s.metrics.SideEffectFailed("store")
			s.log.Error("bid log write failed", "bid_id", rec.BidID, "err", err)
		}
	}
	if s.publisher != nil {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := s.publisher.Publish(pctx, newEvent(rec, inv))
		cancel()
		if err != nil {
			s.metrics.SideEffectFailed("publish")
			s.log.Warn("bid event publish failed", "bid_id", rec.BidID, "err", err)
		}
	}

	s.log.Info("bid routed",
		"bid_id", rec.BidID,
		"price", price,
		"status", rec.Status,
		"tier", rec.Tier,
		"rooms_left", inv.TotalRemaining(),
	)
	return rec, nil
}

// Inventory returns the current counters.
func (s *BidService) Inventory() allocation.Inventory { return s.engine.Snapshot() }

// Tiers describes the routing chain.
func (s *BidService) Tiers() []allocation.TierInfo { return s.engine.Tiers() }

// Recent returns up to limit outcomes, newest first.  The store is used
// when configured; otherwise the in-memory log answers.
func (s *BidService) Recent(ctx context.Context, limit int) ([]model.BidOutcome, error) {
	if limit <= 0 {
		return []model.BidOutcome{}, nil
	}
	if s.store != nil {
		return s.store.ListRecent(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.BidOutcome, 0, min(limit, len(s.recent)))
	for i := len(s.recent) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.recent[i])
	}
	return out, nil
}

// Get returns the outcome of one bid, or repository.ErrNotFound.  Without a
// store only bids still held in memory can be found.
func (s *BidService) Get(ctx context.Context, bidID string) (model.BidOutcome, error) {
	if s.store != nil {
		b, err := s.store.GetByBidID(ctx, bidID)
		if err != nil {
			return model.BidOutcome{}, err
		}
		return *b, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.recent) - 1; i >= 0; i-- {
		if s.recent[i].BidID == bidID {
			return s.recent[i], nil
		}
	}
	return model.BidOutcome{}, repository.ErrNotFound
}

// CountByStatus reports how many bids ended in each status.  The store
// answers when configured, otherwise the counts since process start.
func (s *BidService) CountByStatus(ctx context.Context) (map[string]int, error) {
	if s.store != nil {
		counts, err := s.store.CountByStatus(ctx)
		if err != nil {
			s.log.Error("bid count failed", "err", err)
			return nil, err
		}
		return counts, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out, nil
}

func (s *BidService) remember(rec model.BidOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[rec.Status]++
	if len(s.recent) == recentCap {
		copy(s.recent, s.recent[1:])
		s.recent = s.recent[:recentCap-1]
	}
	s.recent = append(s.recent, rec)
}

func newEvent(rec model.BidOutcome, inv allocation.Inventory) queue.BidDecidedEvent {
	return queue.BidDecidedEvent{
		BidID:     rec.BidID,
		Status:    rec.Status,
		Tier:      rec.Tier,
		Price:     rec.Price,
		Remaining: rec.Remaining,
		Message:   rec.Message,
		Inventory: inv.ByName(),
		DecidedAt: rec.CreatedAt.Format(time.RFC3339),
	}
}
