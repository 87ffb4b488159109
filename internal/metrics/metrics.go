// Package metrics exposes bid routing counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iliyamo/hotel-bidding/internal/allocation"
)

type Metrics struct {
	BidsTotal          *prometheus.CounterVec
	RoomsRemaining     *prometheus.GaugeVec
	SideEffectFailures *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BidsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "bids_total",
			Help:      "Bids routed, by outcome status and accepting tier.",
		}, []string{"status", "tier"}),
		RoomsRemaining: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hotel",
			Name:      "rooms_remaining",
			Help:      "Unsold rooms per tier.",
		}, []string{"tier"}),
		SideEffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotel",
			Name:      "bid_side_effect_failures_total",
			Help:      "Bid log writes or event publishes that failed.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.BidsTotal, m.RoomsRemaining, m.SideEffectFailures)
	return m
}

// ObserveOutcome counts one routed bid.
func (m *Metrics) ObserveOutcome(o allocation.Outcome) {
	tier := "none"
	if o.Accepted() {
		tier = o.Tier.String()
	}
	m.BidsTotal.WithLabelValues(o.Status.String(), tier).Inc()
}

// SetInventory publishes the remaining counts of inv.
func (m *Metrics) SetInventory(inv allocation.Inventory) {
	for _, t := range allocation.AllTiers {
		m.RoomsRemaining.WithLabelValues(t.String()).Set(float64(inv.RemainingOf(t)))
	}
}

// SideEffectFailed counts a failed bid log write ("store") or event
// publish ("publish").
func (m *Metrics) SideEffectFailed(kind string) {
	m.SideEffectFailures.WithLabelValues(kind).Inc()
}
