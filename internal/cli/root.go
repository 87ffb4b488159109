package cli

import "github.com/spf13/cobra"

// RootCmd assembles bidctl.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bidctl",
		Short:         "Hotel room bidding tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(RouteCmd(), ReportCmd(), MigrateCmd())
	return root
}
