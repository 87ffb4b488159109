package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/hotel-bidding/internal/allocation"
)

const SheetScenarios = "Scenarios"

// Scenario is a single bid against a freshly built engine.
type Scenario struct {
	Name  string
	Start allocation.Capacities
	Price float64
}

// ScenarioResult is what the engine did with a Scenario.
type ScenarioResult struct {
	Scenario
	Outcome allocation.Outcome
	After   allocation.Inventory
}

// ExampleScenarios are the walkthrough bids documented for the hotel.
var ExampleScenarios = []Scenario{
	{Name: "Suite bid", Start: allocation.DefaultCapacities, Price: 300},
	{Name: "Deluxe bid", Start: allocation.DefaultCapacities, Price: 200},
	{Name: "Standard bid", Start: allocation.DefaultCapacities, Price: 90},
	{Name: "Suites sold out", Start: allocation.Capacities{Deluxe: 15, Standard: 45}, Price: 300},
	{Name: "Suites and Deluxe sold out, Standard range", Start: allocation.Capacities{Standard: 45}, Price: 140},
	{Name: "Suites and Deluxe sold out, overflow", Start: allocation.Capacities{Standard: 45}, Price: 180},
	{Name: "Everything sold out", Start: allocation.Capacities{}, Price: 140},
}

// RunScenarios routes each scenario's bid through its own engine.
func RunScenarios(scs []Scenario) ([]ScenarioResult, error) {
	out := make([]ScenarioResult, 0, len(scs))
	for _, sc := range scs {
		e, err := allocation.New(sc.Start)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		o, inv := e.RouteSnapshot(sc.Price)
		out = append(out, ScenarioResult{Scenario: sc, Outcome: o, After: inv})
	}
	return out, nil
}

// WriteScenarios renders results on a single sheet and streams the
// workbook to w.
func WriteScenarios(w io.Writer, results []ScenarioResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetScenarios); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	rows := [][]interface{}{
		{"#", "scenario", "bid", "result", "suite", "deluxe", "standard", "footer"},
	}
	for i, r := range results {
		rows = append(rows, []interface{}{
			i + 1,
			r.Name,
			allocation.FormatUSD(r.Price),
			r.Outcome.String(),
			r.After.RemainingOf(allocation.Suite),
			r.After.RemainingOf(allocation.Deluxe),
			r.After.RemainingOf(allocation.Standard),
			Footer(r.After),
		})
	}
	if err := setRows(f, SheetScenarios, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetScenarios, "A1", "H1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetScenarios, "B", "B", 44); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetScenarios, "D", "D", 70); err != nil {
		return err
	}
	return f.Write(w)
}
