package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertextoedge/cache-size-report/internal/domain"
)

// seedDatabase creates a database with cache tables through a separate,
// writable connection.
func seedDatabase(t *testing.T, tables map[string]int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "site.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())

	for name, rows := range tables {
		_, err := db.Exec(fmt.Sprintf(`CREATE TABLE %s (
			cid TEXT PRIMARY KEY,
			data BLOB,
			expire INTEGER NOT NULL DEFAULT 0
		)`, name))
		require.NoError(t, err)
		_, err = db.Exec(fmt.Sprintf(`CREATE INDEX idx_%s_expire ON %s(expire)`, name, name))
		require.NoError(t, err)

		for i := 0; i < rows; i++ {
			_, err := db.Exec(fmt.Sprintf(`INSERT INTO %s (cid, data, expire) VALUES (?, ?, ?)`, name),
				fmt.Sprintf("cid:%d", i), strings.Repeat("x", 64), i)
			require.NoError(t, err)
		}
	}

	return path
}

func TestStore_TableStats(t *testing.T) {
	path := seedDatabase(t, map[string]int{
		"cache_page":   120,
		"cache_render": 80,
		"users":        10,
	})

	store, err := Open(path, nil)
	require.NoError(t, err)
	defer store.Close()

	stats, err := store.TableStats(context.Background(), []string{"cache_page", "cache_render", "cache_missing"})
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byTable := make(map[string]domain.TableStat)
	for _, st := range stats {
		byTable[st.Table] = st
	}

	page, ok := byTable["cache_page"]
	require.True(t, ok, "cache_page missing from result")
	assert.Equal(t, int64(120), page.Rows)
	assert.Positive(t, page.SizeBytes)

	render, ok := byTable["cache_render"]
	require.True(t, ok, "cache_render missing from result")
	assert.Equal(t, int64(80), render.Rows)
	assert.Positive(t, render.SizeBytes)

	_, ok = byTable["users"]
	assert.False(t, ok, "unrequested table must not be returned")
}

func TestStore_TableStats_IncludesIndexes(t *testing.T) {
	path := seedDatabase(t, map[string]int{"cache_data": 500})

	store, err := Open(path, nil)
	require.NoError(t, err)
	defer store.Close()

	var tablePages int64
	err = store.DB().QueryRow(`SELECT COALESCE(SUM(pgsize), 0) FROM dbstat WHERE name = 'cache_data'`).Scan(&tablePages)
	require.NoError(t, err)

	stats, err := store.TableStats(context.Background(), []string{"cache_data"})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Greater(t, stats[0].SizeBytes, tablePages, "index pages should count toward size")
	assert.Equal(t, int64(500), stats[0].Rows)
}

func TestStore_TableStats_Empty(t *testing.T) {
	path := seedDatabase(t, map[string]int{"cache_page": 1})

	store, err := Open(path, nil)
	require.NoError(t, err)
	defer store.Close()

	stats, err := store.TableStats(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, stats)

	stats, err = store.TableStats(context.Background(), []string{"cache_missing"})
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestStore_TableStats_EmptyTable(t *testing.T) {
	path := seedDatabase(t, map[string]int{"cache_tags": 0})

	store, err := Open(path, nil)
	require.NoError(t, err)
	defer store.Close()

	stats, err := store.TableStats(context.Background(), []string{"cache_tags"})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(0), stats[0].Rows)
}

func TestStore_ReadOnly(t *testing.T) {
	path := seedDatabase(t, map[string]int{"cache_page": 1})

	store, err := Open(path, nil)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.DB().Exec(`DELETE FROM cache_page`)
	assert.Error(t, err, "writes must be rejected")
}

func TestOpen_MissingPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.db")

	store, err := Open(path, nil)
	require.Error(t, err)
	assert.Nil(t, store)
	assert.True(t, domain.IsDataAccessError(err), "got %v", err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "Open must not create %s", path)
}

func TestOpen_DoesNotMutateOptions(t *testing.T) {
	path := seedDatabase(t, nil)
	opts := &Options{}

	store, err := Open(path, opts)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, 0, opts.BusyTimeoutMs)
}

func TestStore_TableStats_Cancelled(t *testing.T) {
	path := seedDatabase(t, map[string]int{"cache_page": 1})

	store, err := Open(path, nil)
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.TableStats(ctx, []string{"cache_page"})
	require.Error(t, err)
	assert.True(t, domain.IsDataAccessError(err))
}

func TestStore_Ping(t *testing.T) {
	path := seedDatabase(t, nil)

	store, err := Open(path, &Options{BusyTimeoutMs: 1000, MaxOpenConns: 1})
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
