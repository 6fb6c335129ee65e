package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vertextoedge/cache-size-report/internal/domain"
	"github.com/vertextoedge/cache-size-report/internal/port"
)

// Options tunes the SQLite connection
type Options struct {
	BusyTimeoutMs int
	MaxOpenConns  int
}

// DefaultOptions returns default connection options
func DefaultOptions() *Options {
	return &Options{
		BusyTimeoutMs: 5000,
		MaxOpenConns:  4,
	}
}

// Store implements port.Catalog using the SQLite dbstat virtual table
type Store struct {
	db *sql.DB
}

// Ensure Store implements port.Catalog
var _ port.Catalog = (*Store)(nil)

// Open opens a read-only connection to the existing SQLite database at
// dbPath. A missing file is a DataAccessError; it is never created.
func Open(dbPath string, opts *Options) (*Store, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	busyTimeout := opts.BusyTimeoutMs
	if busyTimeout <= 0 {
		busyTimeout = 5000
	}

	// mode=ro refuses to create the file, query_only rejects writes
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(%d)&_pragma=query_only(1)", dbPath, busyTimeout)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, domain.NewDataAccessError("connect sqlite", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB returns the underlying database connection
func (s *Store) DB() *sql.DB {
	return s.db
}

// tableStatsQuery sums every b-tree page owned by a table, its indexes
// included. Rows are the cells on the table b-tree's leaf pages.
const tableStatsQuery = `
	SELECT
		m.tbl_name,
		COALESCE(SUM(s.pgsize), 0),
		COALESCE(SUM(CASE WHEN s.name = m.tbl_name AND s.pagetype = 'leaf' THEN s.ncell ELSE 0 END), 0)
	FROM sqlite_master m
	JOIN dbstat s ON s.name = m.name
	WHERE m.type IN ('table', 'index') AND m.tbl_name IN (%s)
	GROUP BY m.tbl_name
`

// TableStats returns the footprint of the requested tables that exist
func (s *Store) TableStats(ctx context.Context, tables []string) ([]domain.TableStat, error) {
	if len(tables) == 0 {
		return []domain.TableStat{}, nil
	}

	query := fmt.Sprintf(tableStatsQuery, placeholders(len(tables)))
	args := make([]any, len(tables))
	for i, t := range tables {
		args[i] = t
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewDataAccessError("query dbstat", err)
	}
	defer rows.Close()

	stats := make([]domain.TableStat, 0, len(tables))
	for rows.Next() {
		var st domain.TableStat
		if err := rows.Scan(&st.Table, &st.SizeBytes, &st.Rows); err != nil {
			return nil, domain.NewDataAccessError("scan dbstat row", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewDataAccessError("read dbstat rows", err)
	}

	return stats, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
