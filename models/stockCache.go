package models

import (
	"fmt"
	"sync"
)

// StockSnapshotCache is the client's best-known mirror of remote stock
// quantities for one location. It is not authoritative: it is refreshed
// wholesale from the remote after any confirmed intake, and mutated in
// place only by a confirmed dispensing transaction.
//
// All methods are safe for concurrent use; the dispensing workflow holds
// no lock across its remote call, so mutation happens in a single pass
// once the remote has confirmed.
type StockSnapshotCache struct {
	mu    sync.RWMutex
	scope string // branch id, empty for the central warehouse
	items map[string]CatalogItem
	order []string
}

func NewStockSnapshotCache(scope string) *StockSnapshotCache {
	return &StockSnapshotCache{
		scope: scope,
		items: make(map[string]CatalogItem),
	}
}

func (c *StockSnapshotCache) Scope() string {
	return c.scope
}

// ReplaceAll refreshes the mirror from an authoritative read. Always safe
// to call after any remote mutation.
func (c *StockSnapshotCache) ReplaceAll(items []CatalogItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]CatalogItem, len(items))
	c.order = c.order[:0]
	for _, item := range items {
		if _, dup := c.items[item.ID]; !dup {
			c.order = append(c.order, item.ID)
		}
		c.items[item.ID] = item
	}
}

func (c *StockSnapshotCache) Get(itemId string) (CatalogItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[itemId]
	return item, ok
}

func (c *StockSnapshotCache) Quantity(itemId string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[itemId]
	if !ok {
		return 0, false
	}
	return item.Quantity, true
}

// ApplyDelta adjusts an item's quantity: positive for intake or return,
// negative for dispensing. A would-be-negative result is a contract error
// (the caller must have pre-validated sufficiency), never a silent floor.
func (c *StockSnapshotCache) ApplyDelta(itemId string, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[itemId]
	if !ok {
		return fmt.Errorf("stock cache: unknown item %s", itemId)
	}
	next := item.Quantity + delta
	if next < 0 {
		return fmt.Errorf("stock cache: delta %d would drive item %s below zero (have %d)", delta, itemId, item.Quantity)
	}
	item.Quantity = next
	c.items[itemId] = item
	return nil
}

// DropIfZero removes an item from the available-for-selection view once it
// reaches quantity 0. The authoritative record (with 0 quantity) still
// exists remotely.
func (c *StockSnapshotCache) DropIfZero(itemId string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[itemId]
	if !ok || item.Quantity != 0 {
		return
	}
	delete(c.items, itemId)
	for i, id := range c.order {
		if id == itemId {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Items returns the selectable items in refresh order.
func (c *StockSnapshotCache) Items() []CatalogItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]CatalogItem, 0, len(c.order))
	for _, id := range c.order {
		if item, ok := c.items[id]; ok {
			out = append(out, item)
		}
	}
	return out
}

func (c *StockSnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
