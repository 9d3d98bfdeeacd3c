package iocache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/rateplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &StoreManager{}
	t.Cleanup(func() {
		CloseStores()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &StoreManager{}
	})
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		resultsPath := filepath.Join(dir, "results.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, resultsPath))
		assert.NotNil(t, Manager.GetAggregateStore())
		assert.NotNil(t, Manager.GetResultsStore())

		_, err := os.Stat(cachePath)
		assert.NoError(t, err)
		_, err = os.Stat(resultsPath)
		assert.NoError(t, err)
	})

	t.Run("idempotent", func(t *testing.T) {
		resetGlobals(t)
		for range 3 {
			assert.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))
		}
		CloseStores()
		CloseStores()
	})

	t.Run("empty backend leaves store unset", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitStores("", "", schema.NoneBackend, ""))
		assert.Nil(t, Manager.GetAggregateStore())
		assert.NotNil(t, Manager.GetResultsStore())
	})

	t.Run("results failure closes cache", func(t *testing.T) {
		resetGlobals(t)
		err := InitStores(schema.NoneBackend, "", "oracle", "")
		assert.Error(t, err)
		assert.Nil(t, Manager.GetAggregateStore())
	})
}

func TestConcurrentManagerAccess(t *testing.T) {
	resetGlobals(t)
	require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			assert.NotNil(t, Manager.GetAggregateStore())
			assert.NotNil(t, Manager.GetResultsStore())
		})
	}
	wg.Wait()
}

func TestClearBackends(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		assert.NoError(t, ClearResults(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("sqlite needs a path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("none", func(t *testing.T) {
		assert.NoError(t, ClearResults(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, ClearCache("oracle", "", ""))
	})
}
