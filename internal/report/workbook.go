// Package report renders inventory, tier rules and the bid log into an
// Excel workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/hotel-bidding/internal/allocation"
	"github.com/iliyamo/hotel-bidding/internal/model"
)

const (
	SheetInventory = "Inventory"
	SheetRules     = "Rules"
	SheetBids      = "Bids"
)

// Build assembles the workbook.  outcomes are written in the order given.
func Build(inv allocation.Inventory, tiers []allocation.TierInfo, outcomes []model.BidOutcome, generatedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(defaultSheet, SheetInventory); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, name := range []string{SheetRules, SheetBids} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	steps := []func() error{
		func() error { return writeInventory(f, inv, generatedAt, bold) },
		func() error { return writeRules(f, tiers, bold) },
		func() error { return writeBids(f, outcomes, bold) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, inv allocation.Inventory, tiers []allocation.TierInfo, outcomes []model.BidOutcome, generatedAt time.Time) error {
	f, err := Build(inv, tiers, outcomes, generatedAt)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(w)
}

func writeInventory(f *excelize.File, inv allocation.Inventory, generatedAt time.Time, bold int) error {
	rows := [][]interface{}{
		{"tier", "initial", "remaining", "sold"},
	}
	for _, t := range allocation.AllTiers {
		initial, remaining := inv.InitialOf(t), inv.RemainingOf(t)
		rows = append(rows, []interface{}{t.String(), initial, remaining, initial - remaining})
	}
	total := 0
	for _, t := range allocation.AllTiers {
		total += inv.InitialOf(t)
	}
	rows = append(rows,
		[]interface{}{"Total", total, inv.TotalRemaining(), inv.Sold()},
		[]interface{}{},
		[]interface{}{Footer(inv)},
		[]interface{}{"generated_at", generatedAt.UTC().Format(time.RFC3339)},
	)
	if err := setRows(f, SheetInventory, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetInventory, "A1", "D1", bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetInventory, "A", "A", 38)
}

func writeRules(f *excelize.File, tiers []allocation.TierInfo, bold int) error {
	rows := [][]interface{}{
		{"rank", "tier", "base_range", "initial_capacity", "overflow"},
	}
	for _, ti := range tiers {
		rows = append(rows, []interface{}{ti.Rank, ti.Name, ti.BaseRange.String(), ti.InitialCapacity, ti.OverflowRule()})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Chain: Suite -> Deluxe -> Standard. Each accept decrements inventory; stop when sold out."})
	if err := setRows(f, SheetRules, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetRules, "A1", "E1", bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetRules, "C", "E", 36)
}

func writeBids(f *excelize.File, outcomes []model.BidOutcome, bold int) error {
	rows := [][]interface{}{
		{"decided_at", "bid_id", "price", "status", "tier", "remaining", "message"},
	}
	for _, o := range outcomes {
		var remaining interface{} = ""
		if o.Remaining != nil {
			remaining = *o.Remaining
		}
		rows = append(rows, []interface{}{
			o.CreatedAt.UTC().Format(time.RFC3339),
			o.BidID,
			o.Price,
			o.Status,
			o.Tier,
			remaining,
			o.Message,
		})
	}
	if err := setRows(f, SheetBids, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetBids, "A1", "G1", bold); err != nil {
		return err
	}
	return f.SetColWidth(SheetBids, "G", "G", 70)
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// Footer is the one-line inventory summary shown under the counters.
func Footer(inv allocation.Inventory) string {
	if inv.SoldOut() {
		return allocation.SoldOutFooter
	}
	return fmt.Sprintf("Rooms left: %d", inv.TotalRemaining())
}
