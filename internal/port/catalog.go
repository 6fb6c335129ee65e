package port

import (
	"context"

	"github.com/vertextoedge/cache-size-report/internal/domain"
)

// Catalog reads table footprints from a database's metadata catalog.
// Implementations must be read-only.
type Catalog interface {
	// TableStats issues a single query for the given table names, bound as
	// parameters, scoped to the current schema. Tables that do not exist
	// are absent from the result. Failures are *domain.DataAccessError.
	TableStats(ctx context.Context, tables []string) ([]domain.TableStat, error)

	// Ping checks database connectivity
	Ping(ctx context.Context) error

	// Close closes the database connection
	Close() error
}
