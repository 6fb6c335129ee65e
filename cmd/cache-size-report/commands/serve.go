package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vertextoedge/cache-size-report/internal/logger"
	"github.com/vertextoedge/cache-size-report/internal/metrics"
	"github.com/vertextoedge/cache-size-report/internal/service/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report over HTTP",
	Long: `Start the admin HTTP server.

Endpoints:
  /admin/cache-sizes  HTML report (basic auth when http.admin_password is set)
  /api/cache-sizes    JSON report
  /metrics            Prometheus metrics (metrics.enabled)
  /health             catalog connectivity`,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	defer logger.Sync()
	zapLogger := logger.GetZapLogger()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	catalog, reporter, err := openReporter(ctx)
	if err != nil {
		return err
	}
	defer catalog.Close()

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(metrics.NewCollector(reporter, cfg.Database.GetQueryTimeout()*2, logger.Component("metrics")))
		gatherer = reg
	}

	httpServer := server.New(&server.Config{
		BindAddr:          cfg.HTTP.BindAddr,
		AdminUsername:     cfg.HTTP.AdminUsername,
		AdminPassword:     cfg.HTTP.AdminPassword,
		AuthRetryInterval: cfg.HTTP.GetAuthRetryInterval(),
		ReadTimeout:       cfg.HTTP.GetReadTimeout(),
		WriteTimeout:      cfg.HTTP.GetWriteTimeout(),
		IdleTimeout:       cfg.HTTP.GetIdleTimeout(),
	}, catalog, reporter, gatherer, logger.Component("http"))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	if !cfg.HTTP.AdminAuthEnabled() {
		zapLogger.Warn("admin page is not password protected; set http.admin_password")
	}
	zapLogger.Info("application started successfully",
		zap.String("version", Version),
		zap.String("http_addr", cfg.HTTP.BindAddr),
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("metrics", cfg.Metrics.Enabled))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		zapLogger.Info("shutdown signal received, stopping server...")
	case err := <-serverErr:
		if err != nil {
			zapLogger.Error("HTTP server failed", zap.Error(err))
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		zapLogger.Error("failed to stop HTTP server gracefully", zap.Error(err))
		return err
	}

	zapLogger.Info("application stopped successfully")
	return nil
}
