package adapter

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vertextoedge/cache-size-report/internal/config"
	"github.com/vertextoedge/cache-size-report/internal/domain"
	"github.com/vertextoedge/cache-size-report/internal/port"
)

type stubCatalog struct{}

func (stubCatalog) TableStats(context.Context, []string) ([]domain.TableStat, error) { return nil, nil }
func (stubCatalog) Ping(context.Context) error                                     { return nil }
func (stubCatalog) Close() error                                                   { return nil }

func TestDefaultRegistry_Drivers(t *testing.T) {
	assert.Equal(t, []string{"mysql", "postgres", "sqlite"}, DefaultRegistry().Drivers())
}

func TestRegistry_UnknownDriver(t *testing.T) {
	_, err := DefaultRegistry().Open(context.Background(), config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownDriver))
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	var got config.DatabaseConfig
	r.Register("stub", func(_ context.Context, cfg config.DatabaseConfig, _ *zap.Logger) (port.Catalog, error) {
		got = cfg
		return stubCatalog{}, nil
	})

	catalog, err := r.Open(context.Background(), config.DatabaseConfig{Driver: "stub", DSN: "x"}, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, catalog)
	assert.Equal(t, "x", got.DSN)
}

func TestRegistry_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry()
	r.Register("stub", func(context.Context, config.DatabaseConfig, *zap.Logger) (port.Catalog, error) {
		return nil, boom
	})

	_, err := r.Open(context.Background(), config.DatabaseConfig{Driver: "stub"}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestRegistry_OpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE cache_page (cid TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	catalog, err := DefaultRegistry().Open(context.Background(), config.DatabaseConfig{
		Driver:        "sqlite",
		Path:          path,
		BusyTimeoutMs: 1000,
	}, zap.NewNop())
	require.NoError(t, err)
	defer catalog.Close()

	stats, err := catalog.TableStats(context.Background(), []string{"cache_page"})
	require.NoError(t, err)
	assert.Len(t, stats, 1)
}

func TestRegistry_OpenMySQLInvalidDSN(t *testing.T) {
	_, err := DefaultRegistry().Open(context.Background(), config.DatabaseConfig{
		Driver: "mysql",
		DSN:    "not a dsn",
	}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
}
