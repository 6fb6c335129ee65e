package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vertextoedge/cache-size-report/internal/adapter"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cache-size-report %s (commit: %s)\n", Version, Commit)
	},
}

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "List supported catalog drivers",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range adapter.DefaultRegistry().Drivers() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}
