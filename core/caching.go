package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/rateplot/core/agg"
	"github.com/huangsam/rateplot/internal/contract"
	"github.com/huangsam/rateplot/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// maxCacheAge is how long an aggregate entry stays usable.
const maxCacheAge = 7 * 24 * time.Hour

// aggregateOptions returns the per-source preparation implied by cfg.
func aggregateOptions(cfg *contract.Config) agg.Options {
	opts := agg.Options{Composites: map[schema.Flavor][]string{}}
	for _, f := range []schema.Flavor{schema.Electron, schema.Muon} {
		if tags := cfg.FakeSources(f); len(tags) > 0 {
			opts.Composites[f] = tags
		}
	}
	return opts
}

// cachedAggregate returns the unscaled sum of paths under dir, consulting the
// aggregate cache when one is configured.
func cachedAggregate(ctx context.Context, cfg *contract.Config, reader contract.SourceReader, mgr contract.CacheManager, paths []string, dir string, kind schema.SampleKind) (*schema.HistogramSet, error) {
	opts := aggregateOptions(cfg)

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetAggregateStore()
	}
	if store == nil {
		// Fallback to direct computation
		return agg.Aggregate(ctx, reader, paths, dir, kind, opts)
	}

	key := generateCacheKey(paths, dir, kind, opts)

	// Check for cache hit
	if result := checkCacheHit(store, key); result != nil {
		contract.LogDebug("getHistos", "Cache hit for %d %s files in %s", len(paths), kind, dir)
		return result, nil
	}

	// Cache miss: compute and store
	return computeAndStore(ctx, reader, store, key, paths, dir, kind, opts)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string) *schema.HistogramSet {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > maxCacheAge {
		return nil
	}
	var result schema.HistogramSet
	if err := json.Unmarshal(data, &result); err != nil || result.H1 == nil || result.H2 == nil {
		return nil
	}
	result.Retag()
	return &result
}

// computeAndStore computes the result and stores it in cache
func computeAndStore(ctx context.Context, reader contract.SourceReader, store contract.CacheStore, key string, paths []string, dir string, kind schema.SampleKind, opts agg.Options) (*schema.HistogramSet, error) {
	result, err := agg.Aggregate(ctx, reader, paths, dir, kind, opts)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache aggregate", err)
		}
	}

	return result, nil
}

// generateCacheKey creates a unique key from the sample, the directory, the
// composite tags and the size and modification time of every source.
func generateCacheKey(paths []string, dir string, kind schema.SampleKind, opts agg.Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s", kind, dir)
	for _, f := range []schema.Flavor{schema.Electron, schema.Muon} {
		fmt.Fprintf(&b, ":%s=%s", f, strings.Join(opts.Composites[f], ","))
	}

	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	for _, p := range sorted {
		if info, err := os.Stat(p); err == nil {
			fmt.Fprintf(&b, ":%s|%d|%d", p, info.Size(), info.ModTime().UnixNano())
		} else {
			fmt.Fprintf(&b, ":%s|missing", p)
		}
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(b.String())))
}
