package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vertextoedge/cache-size-report/internal/port"
	"github.com/vertextoedge/cache-size-report/internal/util/ratelimiter"
)

// Config contains HTTP server configuration
type Config struct {
	BindAddr      string
	AdminUsername string
	AdminPassword string
	PageTitle     string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration

	// AuthRetryInterval is how long a client waits after a failed login.
	// Zero disables the wait.
	AuthRetryInterval time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		BindAddr:          "127.0.0.1:8080",
		PageTitle:         "Cache Sizes",
		AuthRetryInterval: time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Server represents the HTTP admin server
type Server struct {
	config        *Config
	catalog       port.Catalog
	logger        *zap.Logger
	server        *http.Server
	reportHandler *ReportHandler
}

// New creates a new HTTP server. A nil gatherer disables /metrics.
func New(cfg *Config, catalog port.Catalog, reports port.ReportBuilder, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.PageTitle == "" {
		cfg.PageTitle = "Cache Sizes"
	}

	s := &Server{
		config:  cfg,
		catalog: catalog,
		logger:  logger,
	}

	s.reportHandler = NewReportHandler(reports, cfg.PageTitle, logger)

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Report endpoints and metrics expose the same figures and share auth
	page, api := s.reportHandler.HandlePage, s.reportHandler.HandleJSON
	var metricsHandler http.HandlerFunc
	if gatherer != nil {
		metricsHandler = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP
	}
	if cfg.AdminPassword != "" {
		var limiter *ratelimiter.Limiter
		if cfg.AuthRetryInterval > 0 {
			limiter = ratelimiter.New(cfg.AuthRetryInterval)
		}
		adminAuth := BasicAuthMiddleware(cfg.AdminUsername, cfg.AdminPassword, limiter, logger)
		page, api = adminAuth(page), adminAuth(api)
		if metricsHandler != nil {
			metricsHandler = adminAuth(metricsHandler)
		}
	}
	mux.HandleFunc("/admin/cache-sizes", page)
	mux.HandleFunc("/api/cache-sizes", api)
	if metricsHandler != nil {
		mux.HandleFunc("/metrics", metricsHandler)
	}

	s.server = &http.Server{
		Addr:         cfg.BindAddr,
		Handler:      LoggingMiddleware(logger)(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the root handler, for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.catalog.Ping(r.Context()); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		http.Error(w, "Database connection failed", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
