package models

import "sync"

// SnapshotRegistry hands out one StockSnapshotCache per location scope so
// every session working against the same branch shares one mirror.
type SnapshotRegistry struct {
	mu     sync.Mutex
	caches map[string]*StockSnapshotCache
}

func NewSnapshotRegistry() *SnapshotRegistry {
	return &SnapshotRegistry{caches: make(map[string]*StockSnapshotCache)}
}

func (r *SnapshotRegistry) ForScope(scope string) *StockSnapshotCache {
	r.mu.Lock()
	defer r.mu.Unlock()
	cache, ok := r.caches[scope]
	if !ok {
		cache = NewStockSnapshotCache(scope)
		r.caches[scope] = cache
	}
	return cache
}
