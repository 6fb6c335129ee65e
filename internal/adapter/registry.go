// Package adapter resolves the configured catalog driver.
package adapter

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vertextoedge/cache-size-report/internal/adapter/mysql"
	"github.com/vertextoedge/cache-size-report/internal/adapter/postgres"
	"github.com/vertextoedge/cache-size-report/internal/adapter/sqlite"
	"github.com/vertextoedge/cache-size-report/internal/config"
	"github.com/vertextoedge/cache-size-report/internal/domain"
	"github.com/vertextoedge/cache-size-report/internal/port"
)

// Factory opens a catalog for the given database settings
type Factory func(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (port.Catalog, error)

// Registry maps driver names to factories
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with the sqlite, mysql and postgres drivers
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("sqlite", openSQLite)
	r.Register("mysql", openMySQL)
	r.Register("postgres", openPostgres)
	return r
}

// Register adds or replaces the factory for name
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Drivers returns the registered driver names, sorted
func (r *Registry) Drivers() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open resolves cfg.Driver and opens the catalog
func (r *Registry) Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (port.Catalog, error) {
	f, ok := r.factories[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDriver, cfg.Driver)
	}

	catalog, err := f(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s catalog: %w", cfg.Driver, err)
	}

	logger.Info("catalog opened", zap.String("driver", cfg.Driver))
	return catalog, nil
}

func openSQLite(_ context.Context, cfg config.DatabaseConfig, _ *zap.Logger) (port.Catalog, error) {
	return sqlite.Open(cfg.Path, &sqlite.Options{
		BusyTimeoutMs: cfg.BusyTimeoutMs,
		MaxOpenConns:  cfg.MaxOpenConns,
	})
}

func openMySQL(ctx context.Context, cfg config.DatabaseConfig, _ *zap.Logger) (port.Catalog, error) {
	return mysql.Open(ctx, cfg.DSN, &mysql.Options{
		Timeout:      cfg.GetQueryTimeout(),
		MaxOpenConns: cfg.MaxOpenConns,
	})
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (port.Catalog, error) {
	return postgres.Open(ctx, cfg.DSN, &postgres.Options{
		MaxConns:         int32(cfg.MaxOpenConns),
		StatementTimeout: cfg.GetQueryTimeout(),
	}, logger)
}
