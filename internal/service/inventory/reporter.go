// Package inventory builds the cache bin storage report.
package inventory

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/cache-size-report/internal/domain"
	"github.com/vertextoedge/cache-size-report/internal/port"
)

// Config contains reporter configuration
type Config struct {
	// QueryTimeout bounds the catalog query
	QueryTimeout time.Duration

}

// DefaultConfig returns default reporter configuration
func DefaultConfig() *Config {
	return &Config{
		QueryTimeout: 5 * time.Second,
	}
}

// Reporter resolves bins to tables, reads their footprint from the
// catalog and assembles a sorted, totaled report. It holds no mutable
// state and is safe for concurrent use.
type Reporter struct {
	config  Config
	bins    []domain.Bin
	catalog port.Catalog
	logger  *zap.Logger
}

// Ensure Reporter implements port.ReportBuilder
var _ port.ReportBuilder = (*Reporter)(nil)

// New creates a new Reporter
func New(cfg *Config, catalog port.Catalog, logger *zap.Logger) *Reporter {
	c := *DefaultConfig()
	if cfg != nil && cfg.QueryTimeout > 0 {
		c.QueryTimeout = cfg.QueryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reporter{
		config:  c,
		bins:    domain.KnownBins(),
		catalog: catalog,
		logger:  logger,
	}
}

// ListBinNames returns the bins the report covers
func (r *Reporter) ListBinNames() []domain.Bin {
	bins := make([]domain.Bin, len(r.bins))
	copy(bins, r.bins)
	return bins
}

// FetchCacheStats queries the catalog once for tables and returns one
// record per existing table. Duplicates are ignored and an empty input
// returns without querying.
func (r *Reporter) FetchCacheStats(ctx context.Context, tables []string) ([]domain.CacheRecord, error) {
	tables = dedupe(tables)
	if len(tables) == 0 {
		return []domain.CacheRecord{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.QueryTimeout)
	defer cancel()

	stats, err := r.catalog.TableStats(ctx, tables)
	if err != nil {
		r.logger.Error("catalog query failed",
			zap.Int("tables", len(tables)),
			zap.Duration("timeout", r.config.QueryTimeout),
			zap.Error(err))
		var de *domain.DataAccessError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, domain.NewDataAccessError("fetch cache stats", err)
	}

	requested := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		requested[t] = struct{}{}
	}

	records := make([]domain.CacheRecord, 0, len(stats))
	for _, st := range stats {
		if _, ok := requested[st.Table]; !ok {
			r.logger.Debug("ignoring unrequested catalog row", zap.String("table", st.Table))
			continue
		}
		// Each table is reported once.
		delete(requested, st.Table)

		bin, ok := domain.BinFromTable(st.Table)
		if !ok {
			bin = domain.Bin(st.Table)
		}
		records = append(records, domain.NewCacheRecord(bin, st))
	}

	r.logger.Debug("fetched cache stats",
		zap.Int("tables", len(tables)),
		zap.Int("records", len(records)))

	return records, nil
}

// BuildReport produces the sorted inventory of all known bins.
// Bins whose table does not exist are omitted. A *domain.DataAccessError
// is returned unchanged and never replaced by an empty report.
func (r *Reporter) BuildReport(ctx context.Context) (*domain.Report, error) {
	tables := domain.TableNames(r.ListBinNames())
	if len(tables) == 0 {
		return domain.EmptyReport(), nil
	}

	records, err := r.FetchCacheStats(ctx, tables)
	if err != nil {
		return nil, err
	}

	return domain.NewReport(records), nil
}

func dedupe(tables []string) []string {
	if len(tables) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tables))
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
