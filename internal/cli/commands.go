// Package cli holds the bidctl subcommands.
package cli

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/hotel-bidding/internal/allocation"
	"github.com/iliyamo/hotel-bidding/internal/config"
	"github.com/iliyamo/hotel-bidding/internal/database"
	"github.com/iliyamo/hotel-bidding/internal/report"
)

// RouteCmd routes prices through a fresh engine and prints the bid log.
func RouteCmd() *cobra.Command {
	var caps allocation.Capacities
	cmd := &cobra.Command{
		Use:   "route PRICE...",
		Short: "Route bids through a fresh inventory",
		Long:  "Routes each PRICE in order through Suite, Deluxe and Standard and prints one log line per bid followed by the remaining rooms.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := allocation.New(caps)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, raw := range args {
				if e.SoldOut() {
					fmt.Fprintln(out, allocation.SoldOutMessage)
					break
				}
				fmt.Fprintln(out, e.Route(parseArg(raw)).String())
			}
			inv := e.Snapshot()
			fmt.Fprintf(out, "Suite: %d  Deluxe: %d  Standard: %d\n",
				inv.RemainingOf(allocation.Suite), inv.RemainingOf(allocation.Deluxe), inv.RemainingOf(allocation.Standard))
			fmt.Fprintln(out, report.Footer(inv))
			return nil
		},
	}
	d := allocation.DefaultCapacities
	cmd.Flags().IntVar(&caps.Suite, "suite", d.Suite, "starting Suite rooms")
	cmd.Flags().IntVar(&caps.Deluxe, "deluxe", d.Deluxe, "starting Deluxe rooms")
	cmd.Flags().IntVar(&caps.Standard, "standard", d.Standard, "starting Standard rooms")
	return cmd
}

// ReportCmd writes the example scenario workbook.
func ReportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the example scenarios to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := report.RunScenarios(report.ExampleScenarios)
			if err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := report.WriteScenarios(f, results); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			for i, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, r.Outcome.String())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "scenarios.xlsx", "workbook path")
	return cmd
}

// MigrateCmd applies the bid log schema to the configured database.
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.DB.Enabled() {
				return fmt.Errorf("DB_HOST is not set")
			}
			db, err := database.Open(cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

// parseArg turns a command-line price into a float.  Anything unparsable
// becomes NaN so the engine reports it as invalid.
func parseArg(raw string) float64 {
	p, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(raw), "$"), 64)
	if err != nil {
		return math.NaN()
	}
	return p
}
