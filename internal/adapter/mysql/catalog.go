package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/vertextoedge/cache-size-report/internal/domain"
	"github.com/vertextoedge/cache-size-report/internal/port"
)

// Options tunes the MySQL connection
type Options struct {
	// Timeout bounds dialing and each read/write on the connection
	Timeout      time.Duration
	MaxOpenConns int
}

// Catalog implements port.Catalog over information_schema.TABLES
type Catalog struct {
	db *sql.DB
}

// Ensure Catalog implements port.Catalog
var _ port.Catalog = (*Catalog)(nil)

// ParseDSN validates dsn and applies the connection timeouts in opts.
// The schema to report on is the DSN's database.
func ParseDSN(dsn string, opts *Options) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: mysql dsn: %v", domain.ErrInvalidConfig, err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("%w: mysql dsn has no database name", domain.ErrInvalidConfig)
	}
	if opts != nil && opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
		cfg.ReadTimeout = opts.Timeout
		cfg.WriteTimeout = opts.Timeout
	}
	return cfg, nil
}

// Open connects to MySQL/MariaDB using dsn
func Open(ctx context.Context, dsn string, opts *Options) (*Catalog, error) {
	cfg, err := ParseDSN(dsn, opts)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	if opts != nil && opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, domain.NewDataAccessError("connect mysql", err)
	}

	return &Catalog{db: db}, nil
}

// NewWithDB wraps an existing connection pool
func NewWithDB(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// Close closes the database connection
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ping checks database connectivity
func (c *Catalog) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// tableStatsQuery reads sizes and row estimates for the current database.
// table_rows is an estimate on InnoDB.
const tableStatsQuery = `
	SELECT
		table_name,
		COALESCE(data_length, 0) + COALESCE(index_length, 0),
		COALESCE(table_rows, 0)
	FROM information_schema.TABLES
	WHERE table_schema = DATABASE() AND table_name IN (%s)
`

// BuildQuery returns the catalog query and its bound arguments
func BuildQuery(tables []string) (string, []any) {
	args := make([]any, len(tables))
	for i, t := range tables {
		args[i] = t
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(tables)), ", ")
	return fmt.Sprintf(tableStatsQuery, marks), args
}

// TableStats returns the footprint of the requested tables that exist
func (c *Catalog) TableStats(ctx context.Context, tables []string) ([]domain.TableStat, error) {
	if len(tables) == 0 {
		return []domain.TableStat{}, nil
	}

	query, args := BuildQuery(tables)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewDataAccessError("query information_schema", err)
	}
	defer rows.Close()

	stats := make([]domain.TableStat, 0, len(tables))
	for rows.Next() {
		var st domain.TableStat
		if err := rows.Scan(&st.Table, &st.SizeBytes, &st.Rows); err != nil {
			return nil, domain.NewDataAccessError("scan information_schema row", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewDataAccessError("read information_schema rows", err)
	}

	return stats, nil
}
