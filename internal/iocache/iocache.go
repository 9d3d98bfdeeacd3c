// Package iocache persists aggregated histogram sets and computed results.
package iocache

import (
	"sync"

	"github.com/huangsam/rateplot/internal/contract"
)

// StoreManager holds the aggregate cache and the results store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	aggregate    contract.CacheStore
	results      contract.ResultsStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetAggregateStore returns the aggregate CacheStore.
func (mgr *StoreManager) GetAggregateStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.aggregate
}

// GetResultsStore returns the ResultsStore.
func (mgr *StoreManager) GetResultsStore() contract.ResultsStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.results
}
