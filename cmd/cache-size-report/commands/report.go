package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vertextoedge/cache-size-report/internal/logger"
	"github.com/vertextoedge/cache-size-report/internal/render"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the cache size report",
	Long: `Build one report and print it.

Examples:
  # Table output
  cache-size-report report --config /etc/cache-size-report.yaml

  # JSON output
  cache-size-report report -o json`,
	PersistentPreRunE: loadConfig,
	RunE:              runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "table", "Output format (table|json)")
}

func runReport(cmd *cobra.Command, _ []string) error {
	defer logger.Sync()

	switch reportOutput {
	case "table", "json":
	default:
		return fmt.Errorf("invalid output format %q (want table or json)", reportOutput)
	}

	// Connecting and querying share one bound so a hung database fails fast
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.Database.GetQueryTimeout()+5*time.Second)
	defer cancel()

	catalog, reporter, err := openReporter(ctx)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), render.MessageError)
		return err
	}
	defer catalog.Close()

	report, err := reporter.BuildReport(ctx)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), render.MessageError)
		return err
	}

	out := cmd.OutOrStdout()
	if reportOutput == "json" {
		return render.WriteJSON(out, report)
	}
	return render.WriteText(out, report)
}
