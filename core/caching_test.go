package core

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/rateplot/core/agg"
	"github.com/huangsam/rateplot/internal/iocache"
	"github.com/huangsam/rateplot/internal/source"
	"github.com/huangsam/rateplot/schema"
)

func TestGenerateCacheKey(t *testing.T) {
	dir := t.TempDir()
	a := writeSample(t, dir, "a.yaml", 1, map[string][]source.HistogramDoc{"d": {h1("histoLoose_el0", 1, 1)}})
	b := writeSample(t, dir, "b.yaml", 1, map[string][]source.HistogramDoc{"d": {h1("histoLoose_el0", 1, 1)}})
	opts := agg.Options{}

	base := generateCacheKey([]string{a, b}, "d", schema.MCSample, opts)
	assert.Len(t, base, 64)
	assert.Equal(t, base, generateCacheKey([]string{b, a}, "d", schema.MCSample, opts), "path order does not matter")
	assert.NotEqual(t, base, generateCacheKey([]string{a, b}, "other", schema.MCSample, opts))
	assert.NotEqual(t, base, generateCacheKey([]string{a, b}, "d", schema.DataSample, opts))
	assert.NotEqual(t, base, generateCacheKey([]string{a}, "d", schema.MCSample, opts))

	withComposites := agg.Options{Composites: map[schema.Flavor][]string{schema.Electron: {"HF"}}}
	assert.NotEqual(t, base, generateCacheKey([]string{a, b}, "d", schema.MCSample, withComposites))

	// Touching a source invalidates the key
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(a, later, later))
	assert.NotEqual(t, base, generateCacheKey([]string{a, b}, "d", schema.MCSample, opts))

	missing := generateCacheKey([]string{filepath.Join(dir, "gone.yaml")}, "d", schema.MCSample, opts)
	assert.Len(t, missing, 64)
}

func cachedSet(t *testing.T) []byte {
	t.Helper()
	set := schema.NewHistogramSet()
	set.H1["histoLoose_el0"] = rateHist(t, "histoLoose_el0", 7, 7)
	data, err := json.Marshal(set)
	require.NoError(t, err)
	return data
}

func TestCheckCacheHit(t *testing.T) {
	now := time.Now().Unix()
	tests := []struct {
		name    string
		data    []byte
		version int
		ts      int64
		err     error
		hit     bool
	}{
		{"fresh entry", cachedSet(t), currentCacheVersion, now, nil, true},
		{"lookup error", nil, 0, 0, errors.New("no rows"), false},
		{"old version", cachedSet(t), currentCacheVersion + 1, now, nil, false},
		{"stale entry", cachedSet(t), currentCacheVersion, now - int64((8 * 24 * time.Hour).Seconds()), nil, false},
		{"corrupt payload", []byte("{"), currentCacheVersion, now, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &iocache.MockCacheStore{}
			store.On("Get", "key").Return(tt.data, tt.version, tt.ts, tt.err)

			got := checkCacheHit(store, "key")
			if !tt.hit {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			h := got.H1["histoLoose_el0"]
			require.NotNil(t, h)
			assert.Equal(t, schema.Electron, h.Tags.Flavor, "tags are restored after decoding")
			assert.InDelta(t, 7.0, h.BinContent(1), 1e-12)
		})
	}
}

func TestCachedAggregate(t *testing.T) {
	root := t.TempDir()
	path := writeSample(t, root, "mc.yaml", 4, map[string][]source.HistogramDoc{
		schema.DefaultEffDir: {h1("histoLoose_el0", 8, 4)},
	})
	cfg := testConfig(root)
	reader := source.NewFileReader()

	t.Run("miss computes and stores", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", mock.Anything).Return(nil, 0, int64(0), errors.New("miss"))
		store.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(nil).Once()
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetAggregateStore").Return(store)

		set, err := cachedAggregate(quietCtx(), cfg, reader, mgr, []string{path}, schema.DefaultEffDir, schema.MCSample)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, set.H1["histoLoose_el0"].BinContent(1), 1e-12, "MC is normalized by its virtual lumi")
		store.AssertExpectations(t)
	})

	t.Run("hit skips the sources", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", mock.Anything).Return(cachedSet(t), currentCacheVersion, time.Now().Unix(), nil)
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetAggregateStore").Return(store)

		set, err := cachedAggregate(quietCtx(), cfg, reader, mgr, []string{filepath.Join(root, "missing.yaml")}, schema.DefaultEffDir, schema.MCSample)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, set.H1["histoLoose_el0"].BinContent(1), 1e-12)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure is not fatal", func(t *testing.T) {
		store := &iocache.MockCacheStore{}
		store.On("Get", mock.Anything).Return(nil, 0, int64(0), errors.New("miss"))
		store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("read-only"))
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetAggregateStore").Return(store)

		_, err := cachedAggregate(quietCtx(), cfg, reader, mgr, []string{path}, schema.DefaultEffDir, schema.MCSample)
		assert.NoError(t, err)
	})

	t.Run("no manager", func(t *testing.T) {
		set, err := cachedAggregate(quietCtx(), cfg, reader, nil, []string{path}, schema.DefaultEffDir, schema.MCSample)
		require.NoError(t, err)
		assert.Len(t, set.H1, 1)
	})
}

func TestAggregateOptions(t *testing.T) {
	cfg := testConfig("")
	assert.Empty(t, aggregateOptions(cfg).Composites)

	cfg.FakeSourcesEl = []string{"HF", "LF"}
	opts := aggregateOptions(cfg)
	assert.Equal(t, []string{"HF", "LF"}, opts.Composites[schema.Electron])
	assert.NotContains(t, opts.Composites, schema.Muon)
}
