// Package commands implements the cache-size-report CLI.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vertextoedge/cache-size-report/internal/adapter"
	"github.com/vertextoedge/cache-size-report/internal/config"
	"github.com/vertextoedge/cache-size-report/internal/logger"
	"github.com/vertextoedge/cache-size-report/internal/port"
	"github.com/vertextoedge/cache-size-report/internal/service/inventory"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"

	// Global flags.
	cfgFile string

	// Loaded by PersistentPreRunE for commands that need it.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cache-size-report",
	Short: "Report storage used by cache bin tables",
	Long: `cache-size-report reads the database catalog and reports the on-disk size
and row count of each cache bin table (cache_page, cache_render, ...), sorted by
size, with totals. It never modifies cache data.

Use "cache-size-report [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to configuration file (empty for defaults and environment only)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(driversCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig reads configuration and initializes the logger
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Init(c.Logging.Level, c.Logging.Format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	cfg = c
	return nil
}

// openReporter opens the configured catalog and wraps it in a reporter.
// The caller closes the catalog.
func openReporter(ctx context.Context) (port.Catalog, *inventory.Reporter, error) {
	zapLogger := logger.GetZapLogger()

	catalog, err := adapter.DefaultRegistry().Open(ctx, cfg.Database, zapLogger)
	if err != nil {
		return nil, nil, err
	}

	reporter := inventory.New(&inventory.Config{
		QueryTimeout: cfg.Database.GetQueryTimeout(),
	}, catalog, logger.Component("inventory"))

	zapLogger.Debug("reporter ready",
		zap.String("driver", cfg.Database.Driver),
		zap.Duration("query_timeout", cfg.Database.GetQueryTimeout()))

	return catalog, reporter, nil
}
