// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/rateplot/schema"
)

// SourceReader opens histogram sources and reads named directories from them.
// This allows the aggregation logic to be tested without files on disk.
type SourceReader interface {
	// Open loads the source at path. A missing or unreadable source fails
	// with an error wrapping schema.ErrFatalIO.
	Open(ctx context.Context, path string) (*schema.SourceHandle, error)

	// ReadHistogramSet returns an independent copy of the histograms stored
	// under dir. A missing directory fails with an error wrapping
	// schema.ErrLookupMiss.
	ReadHistogramSet(handle *schema.SourceHandle, dir string) (*schema.HistogramSet, error)

	// ReadNormalizationValue returns the declared virtual luminosity, or 0.
	ReadNormalizationValue(handle *schema.SourceHandle) float64
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetAggregateStore() CacheStore
	GetResultsStore() ResultsStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Clear() error
	Close() error
}

// ResultsStore persists rate results and the runs that produced them.
type ResultsStore interface {
	// BeginRun records a new run and returns its unique ID.
	BeginRun(command string, startTime time.Time, configParams map[string]any) (string, error)

	// EndRun updates the run with completion data.
	EndRun(runID string, endTime time.Time, resultsWritten int) error

	// PutResult stores a result, replacing any entry with the same file key and name.
	PutResult(result schema.StoredResult) error

	// GetResult returns one stored result. A missing entry wraps schema.ErrLookupMiss.
	GetResult(fileKey, name string) (schema.StoredResult, error)

	// ListResults returns the stored results for a file key, ordered by name.
	// An empty file key lists every result.
	ListResults(fileKey string) ([]schema.StoredResult, error)

	// GetAllRuns returns every recorded run, oldest first.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetStatus returns status information about the results store.
	GetStatus() (schema.ResultsStatus, error)

	// Clear removes all runs and results.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}
