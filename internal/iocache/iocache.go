// Package iocache is for the durable I/O of busybee: measured history, saved forecasts and plans.
package iocache

import (
	"sync"

	"github.com/Dilusha-Ranasingha/Busy-Bee-VS-Project/internal/contract"
)

// StoreManager manages the history and forecast store instances.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	history      contract.HistoryStore
	forecast     contract.ForecastStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetHistoryStore returns the HistoryStore.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// GetForecastStore returns the ForecastStore.
func (mgr *StoreManager) GetForecastStore() contract.ForecastStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.forecast
}
