//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("site"),
		tcpostgres.WithUsername("site"),
		tcpostgres.WithPassword("site"),
		testcontainers.WithWaitStrategyAndDeadline(2*time.Minute,
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestCatalog_TableStats_Integration(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	seed, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer seed.Close()

	for name, rows := range map[string]int{"cache_page": 120, "cache_render": 80} {
		_, err := seed.Exec(ctx, fmt.Sprintf(`CREATE TABLE %s (cid TEXT PRIMARY KEY, data BYTEA)`, name))
		require.NoError(t, err)
		_, err = seed.Exec(ctx, fmt.Sprintf(
			`INSERT INTO %s SELECT 'cid:' || g, decode(repeat('ab', 64), 'hex') FROM generate_series(1, %d) g`, name, rows))
		require.NoError(t, err)
		_, err = seed.Exec(ctx, fmt.Sprintf(`ANALYZE %s`, name))
		require.NoError(t, err)
	}

	catalog, err := Open(ctx, dsn, &Options{MaxConns: 2, StatementTimeout: 5 * time.Second}, zap.NewNop())
	require.NoError(t, err)
	defer catalog.Close()

	stats, err := catalog.TableStats(ctx, []string{"cache_page", "cache_render", "cache_missing"})
	require.NoError(t, err)
	require.Len(t, stats, 2)

	for _, st := range stats {
		assert.Positive(t, st.SizeBytes, st.Table)
		switch st.Table {
		case "cache_page":
			assert.Equal(t, int64(120), st.Rows)
		case "cache_render":
			assert.Equal(t, int64(80), st.Rows)
		default:
			t.Errorf("unexpected table %q", st.Table)
		}
	}
}
