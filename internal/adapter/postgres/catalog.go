package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/vertextoedge/cache-size-report/internal/domain"
	"github.com/vertextoedge/cache-size-report/internal/port"
)

// Options tunes the PostgreSQL connection pool
type Options struct {
	MaxConns int32
	// StatementTimeout is applied server-side to every query
	StatementTimeout time.Duration
}

// Catalog implements port.Catalog over pg_class
type Catalog struct {
	pool *pgxpool.Pool
}

// Ensure Catalog implements port.Catalog
var _ port.Catalog = (*Catalog)(nil)

// ParseConfig builds a pool configuration from dsn and opts
func ParseConfig(dsn string, opts *Options) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: postgres dsn: %v", domain.ErrInvalidConfig, err)
	}
	// The reporter never writes.
	poolConfig.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"
	if opts == nil {
		return poolConfig, nil
	}
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = opts.MaxConns
	}
	if opts.StatementTimeout > 0 {
		poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%dms", opts.StatementTimeout.Milliseconds())
	}
	return poolConfig, nil
}

// Open creates a connection pool and verifies connectivity
func Open(ctx context.Context, dsn string, opts *Options, logger *zap.Logger) (*Catalog, error) {
	poolConfig, err := ParseConfig(dsn, opts)
	if err != nil {
		return nil, err
	}

	logger.Info("connecting to PostgreSQL",
		zap.String("host", poolConfig.ConnConfig.Host),
		zap.Uint16("port", poolConfig.ConnConfig.Port),
		zap.String("database", poolConfig.ConnConfig.Database),
		zap.Int32("max_conns", poolConfig.MaxConns))

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, domain.NewDataAccessError("connect postgres", err)
	}

	return &Catalog{pool: pool}, nil
}

// Close closes the connection pool
func (c *Catalog) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}

// Ping checks database connectivity
func (c *Catalog) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// tableStatsQuery covers heap, indexes and TOAST via pg_total_relation_size.
// reltuples is the planner estimate and is -1 before the first ANALYZE.
const tableStatsQuery = `
	SELECT
		c.relname,
		pg_total_relation_size(c.oid),
		GREATEST(c.reltuples, 0)::bigint
	FROM pg_class c
	JOIN pg_namespace n ON n.oid = c.relnamespace
	WHERE n.nspname = current_schema()
		AND c.relkind IN ('r', 'p')
		AND c.relname = ANY($1)
`

// TableStats returns the footprint of the requested tables that exist
func (c *Catalog) TableStats(ctx context.Context, tables []string) ([]domain.TableStat, error) {
	if len(tables) == 0 {
		return []domain.TableStat{}, nil
	}

	rows, err := c.pool.Query(ctx, tableStatsQuery, tables)
	if err != nil {
		return nil, domain.NewDataAccessError("query pg_class", err)
	}

	stats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TableStat, error) {
		var st domain.TableStat
		err := row.Scan(&st.Table, &st.SizeBytes, &st.Rows)
		return st, err
	})
	if err != nil {
		return nil, domain.NewDataAccessError("read pg_class rows", err)
	}

	return stats, nil
}
