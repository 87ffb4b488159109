package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/hotel-bidding/internal/allocation"
	"github.com/iliyamo/hotel-bidding/internal/model"
)

func TestBuildWorkbook(t *testing.T) {
	e, err := allocation.New(allocation.DefaultCapacities)
	require.NoError(t, err)
	accepted := e.Route(300)
	remaining := accepted.Remaining
	outcomes := []model.BidOutcome{
		{BidID: "b-1", Price: 300, Status: "ACCEPTED", Tier: "Suite", Remaining: &remaining, Message: accepted.String()},
		{BidID: "b-2", Price: 40, Status: "REJECTED", Message: e.Route(40).String()},
	}
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	f, err := Build(e.Snapshot(), e.Tiers(), outcomes, at)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetInventory, SheetRules, SheetBids}, f.GetSheetList())

	inv, err := f.GetRows(SheetInventory)
	require.NoError(t, err)
	assert.Equal(t, []string{"tier", "initial", "remaining", "sold"}, inv[0])
	assert.Equal(t, []string{"Suite", "10", "9", "1"}, inv[1])
	assert.Equal(t, []string{"Total", "70", "69", "1"}, inv[4])
	assert.Equal(t, "Rooms left: 69", inv[6][0])
	assert.Equal(t, "2026-10-19T12:00:00Z", inv[7][1])

	rules, err := f.GetRows(SheetRules)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "Standard", "[80.00, 150.00)", "45", ">= 150.00 when Suite and Deluxe sold out"}, rules[3])

	bids, err := f.GetRows(SheetBids)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	assert.Equal(t, "ACCEPTED: Suite booked at $300.00. Remaining: 9", bids[1][6])
	assert.Equal(t, "", bids[2][5])
}

func TestWriteSoldOutFooter(t *testing.T) {
	e, err := allocation.New(allocation.Capacities{Standard: 1})
	require.NoError(t, err)
	e.Route(100)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, e.Snapshot(), e.Tiers(), nil, time.Now()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(SheetInventory, "A7")
	require.NoError(t, err)
	assert.Equal(t, "SOLD OUT — No more rooms available.", v)
}

func TestRunScenarios(t *testing.T) {
	results, err := RunScenarios(ExampleScenarios)
	require.NoError(t, err)
	require.Len(t, results, len(ExampleScenarios))

	want := []string{
		"ACCEPTED: Suite booked at $300.00. Remaining: 9",
		"ACCEPTED: Deluxe booked at $200.00. Remaining: 14",
		"ACCEPTED: Standard booked at $90.00. Remaining: 44",
		"ACCEPTED: Deluxe booked at $300.00. Remaining: 14",
		"ACCEPTED: Standard booked at $140.00. Remaining: 44",
		"ACCEPTED: Standard booked at $180.00. Remaining: 44",
		"REJECTED: No room type available for $140.00. Try another price.",
	}
	for i, r := range results {
		assert.Equal(t, want[i], r.Outcome.String(), r.Name)
	}
	assert.Equal(t, 0, results[3].After.RemainingOf(allocation.Suite))
	assert.True(t, results[6].After.SoldOut())
}

func TestRunScenariosRejectsNegativeCapacity(t *testing.T) {
	_, err := RunScenarios([]Scenario{{Name: "bad", Start: allocation.Capacities{Suite: -1}, Price: 1}})
	assert.ErrorIs(t, err, allocation.ErrNegativeCapacity)
}

func TestWriteScenarios(t *testing.T) {
	results, err := RunScenarios(ExampleScenarios[:2])
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteScenarios(&buf, results))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetScenarios)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "Suite bid", "$300.00", "ACCEPTED: Suite booked at $300.00. Remaining: 9", "9", "15", "45", "Rooms left: 69"}, rows[1])
}
