package models_test

import (
	"testing"

	"github.com/jahongirdev1/med333-sub000/models"
)

func seedCache(t *testing.T, scope string, quantities map[string]int) *models.StockSnapshotCache {
	t.Helper()
	cache := models.NewStockSnapshotCache(scope)
	items := make([]models.CatalogItem, 0, len(quantities))
	for id, qty := range quantities {
		items = append(items, models.CatalogItem{
			ID:       id,
			Name:     "item " + id,
			Type:     models.ItemTypeMedicine,
			BranchId: scope,
			Quantity: qty,
		})
	}
	cache.ReplaceAll(items)
	return cache
}

func TestApplyDeltaAdjustsQuantity(t *testing.T) {
	cache := seedCache(t, "b1", map[string]int{"X": 5})

	if err := cache.ApplyDelta("X", -3); err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if qty, _ := cache.Quantity("X"); qty != 2 {
		t.Fatalf("quantity = %d, want 2", qty)
	}
	if err := cache.ApplyDelta("X", 4); err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if qty, _ := cache.Quantity("X"); qty != 6 {
		t.Fatalf("quantity = %d, want 6", qty)
	}
}

func TestApplyDeltaRefusesToGoBelowZero(t *testing.T) {
	cache := seedCache(t, "b1", map[string]int{"X": 5})

	if err := cache.ApplyDelta("X", -7); err == nil {
		t.Fatal("expected error, delta would drive quantity below zero")
	}
	// A refused delta leaves the cache untouched.
	if qty, _ := cache.Quantity("X"); qty != 5 {
		t.Fatalf("quantity = %d, want 5", qty)
	}
}

func TestApplyDeltaUnknownItem(t *testing.T) {
	cache := seedCache(t, "b1", map[string]int{"X": 5})
	if err := cache.ApplyDelta("nope", 1); err == nil {
		t.Fatal("expected error for unknown item")
	}
}

func TestQuantityNeverNegativeOverAnySequence(t *testing.T) {
	cache := seedCache(t, "b1", map[string]int{"X": 4})
	deltas := []int{-2, -3, 1, -1, -5, 2, -1}
	for _, d := range deltas {
		_ = cache.ApplyDelta("X", d) // refusals are fine; negatives never are
		qty, ok := cache.Quantity("X")
		if ok && qty < 0 {
			t.Fatalf("quantity went negative: %d after delta %d", qty, d)
		}
	}
}

func TestDropIfZeroRemovesOnlyExhaustedItems(t *testing.T) {
	cache := seedCache(t, "b1", map[string]int{"X": 2, "Y": 1})

	cache.DropIfZero("X") // quantity 2, must stay
	if _, ok := cache.Get("X"); !ok {
		t.Fatal("non-zero item dropped")
	}

	if err := cache.ApplyDelta("X", -2); err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	cache.DropIfZero("X")
	if _, ok := cache.Get("X"); ok {
		t.Fatal("exhausted item still selectable")
	}
	if len(cache.Items()) != 1 {
		t.Fatalf("Items() = %+v, want only Y", cache.Items())
	}
}

func TestReplaceAllResetsTheMirror(t *testing.T) {
	cache := seedCache(t, "b1", map[string]int{"X": 2})
	cache.ReplaceAll([]models.CatalogItem{
		{ID: "Z", Name: "item Z", Type: models.ItemTypeDevice, Quantity: 9},
	})
	if _, ok := cache.Get("X"); ok {
		t.Fatal("stale item survived ReplaceAll")
	}
	if qty, ok := cache.Quantity("Z"); !ok || qty != 9 {
		t.Fatalf("Z quantity = %d (ok=%v), want 9", qty, ok)
	}
}
