// Package iocache persists computed figures and the view log.
package iocache

import (
	"sync"

	"github.com/huangsam/blqdash/internal/contract"
)

// CacheStoreManager holds the figure cache and the view log.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	figures      contract.CacheStore
	views        contract.ViewStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetFigureStore returns the figure CacheStore.
func (mgr *CacheStoreManager) GetFigureStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.figures
}

// GetViewStore returns the view log store.
func (mgr *CacheStoreManager) GetViewStore() contract.ViewStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.views
}
