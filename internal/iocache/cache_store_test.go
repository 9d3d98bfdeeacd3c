package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/rateplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteCacheStore(t *testing.T) *CacheStoreImpl {
	t.Helper()
	store, err := NewCacheStore(aggregateTable, schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*CacheStoreImpl)
}

func TestGetCreateTableQuery(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    []string
	}{
		{schema.MySQLBackend, []string{"`aggregate_cache`", "LONGBLOB", "VARCHAR(255) PRIMARY KEY"}},
		{schema.PostgreSQLBackend, []string{`"aggregate_cache"`, "BYTEA", "TEXT PRIMARY KEY"}},
		{schema.SQLiteBackend, []string{`"aggregate_cache"`, "BLOB", "INTEGER NOT NULL"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			q := getCreateTableQuery(aggregateTable, tt.backend)
			assert.Contains(t, q, "CREATE TABLE IF NOT EXISTS")
			for _, s := range tt.want {
				assert.Contains(t, q, s)
			}
		})
	}
}

func TestGetUpsertQuery(t *testing.T) {
	assert.Contains(t, getUpsertQuery(aggregateTable, schema.MySQLBackend), "ON DUPLICATE KEY UPDATE")
	assert.Contains(t, getUpsertQuery(aggregateTable, schema.PostgreSQLBackend), "ON CONFLICT (cache_key)")
	assert.Contains(t, getUpsertQuery(aggregateTable, schema.PostgreSQLBackend), "$4")
	assert.Contains(t, getUpsertQuery(aggregateTable, schema.SQLiteBackend), "INSERT OR REPLACE")
}

func TestNewCacheStoreErrors(t *testing.T) {
	_, err := NewCacheStore("bad name", schema.SQLiteBackend, "")
	assert.Error(t, err)

	_, err = NewCacheStore(aggregateTable, "oracle", "")
	assert.Error(t, err)
}

func TestCacheStoreSQLite(t *testing.T) {
	store := newSQLiteCacheStore(t)

	t.Run("miss", func(t *testing.T) {
		_, _, _, err := store.Get("absent")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set("k1", []byte(`{"h1":{}}`), 2, 1700000000))
		value, version, ts, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"h1":{}}`), value)
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(1700000000), ts)
	})

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, store.Set("k1", []byte("new"), 3, 1700000100))
		value, version, _, err := store.Get("k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), value)
		assert.Equal(t, 3, version)
	})

	t.Run("status", func(t *testing.T) {
		require.NoError(t, store.Set("k2", []byte("x"), 3, 1600000000))
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, time.Unix(1700000100, 0), status.LastEntryTime)
		assert.Equal(t, time.Unix(1600000000, 0), status.OldestEntryTime)
		assert.Positive(t, status.TableSizeBytes)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, store.Clear())
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Zero(t, status.TotalEntries)
		_, _, _, err = store.Get("k1")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestCacheStoreNone(t *testing.T) {
	store, err := NewCacheStore(aggregateTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("k", []byte("v"), 1, 1))
	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}
