package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-bidding/internal/allocation"
)

func TestObserveOutcomeAndInventory(t *testing.T) {
	m := New(prometheus.NewRegistry())
	e, err := allocation.New(allocation.Capacities{Suite: 1, Deluxe: 1, Standard: 1})
	require.NoError(t, err)

	m.ObserveOutcome(e.Route(300))
	m.ObserveOutcome(e.Route(20))
	m.SetInventory(e.Snapshot())
	m.SideEffectFailed("publish")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BidsTotal.WithLabelValues("ACCEPTED", "Suite")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BidsTotal.WithLabelValues("REJECTED", "none")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RoomsRemaining.WithLabelValues("Suite")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RoomsRemaining.WithLabelValues("Standard")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SideEffectFailures.WithLabelValues("publish")))
}
