package workflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jahongirdev1/med333-sub000/models"
	"github.com/jahongirdev1/med333-sub000/remote"
	"github.com/jahongirdev1/med333-sub000/utils"
	"github.com/jahongirdev1/med333-sub000/workflow"
)

func snapshotWith(scope string, items ...models.CatalogItem) *models.StockSnapshotCache {
	cache := models.NewStockSnapshotCache(scope)
	cache.ReplaceAll(items)
	return cache
}

func medItem(id string, qty int) models.CatalogItem {
	return models.CatalogItem{ID: id, Name: "med " + id, Type: models.ItemTypeMedicine, Quantity: qty}
}

func TestDispenseRejectedLocallyWithoutRemoteCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	client := remote.NewClientWithBaseURL(srv.URL)

	snapshot := snapshotWith("b1", medItem("X", 5))
	cart := []models.CartLine{{ItemId: "X", Quantity: 7}}

	result, err := workflow.SubmitDispense(context.Background(), client, snapshot, "p1", "e1", cart)
	if err == nil {
		t.Fatal("expected local validation error")
	}
	if !utils.IsValidationError(err) {
		t.Fatalf("got %T, want ValidationError", err)
	}
	if result.State != workflow.DispenseStateRejectedLocal {
		t.Fatalf("state = %s, want rejected_local", result.State)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatal("remote was contacted despite local rejection")
	}
	if qty, _ := snapshot.Quantity("X"); qty != 5 {
		t.Fatalf("snapshot mutated on rejection: X = %d, want 5", qty)
	}
	if len(result.Violations) != 1 || result.Violations[0].Requested != 7 || result.Violations[0].Available != 5 {
		t.Fatalf("violations = %+v, want one with requested 7 available 5", result.Violations)
	}
}

func TestDispenseSuccessRollsTheMirrorForward(t *testing.T) {
	var body remote.DispenseRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dispensings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	client := remote.NewClientWithBaseURL(srv.URL)

	snapshot := snapshotWith("b1", medItem("X", 5), medItem("Y", 1))
	cart := []models.CartLine{
		{ItemId: "X", Quantity: 3},
		{ItemId: "Y", Quantity: 1},
		{Quantity: 0}, // empty form row rides along, never submitted
	}

	result, err := workflow.SubmitDispense(context.Background(), client, snapshot, "p1", "e1", cart)
	if err != nil {
		t.Fatalf("SubmitDispense: %v", err)
	}
	if result.State != workflow.DispenseStateApplied {
		t.Fatalf("state = %s, want applied", result.State)
	}
	if body.PatientId != "p1" || body.EmployeeId != "e1" || body.BranchId != "b1" {
		t.Fatalf("transaction scope = %+v", body)
	}
	if len(body.MedicineLines) != 2 {
		t.Fatalf("medicine lines = %+v, want 2", body.MedicineLines)
	}

	if qty, _ := snapshot.Quantity("X"); qty != 2 {
		t.Fatalf("X = %d, want 2", qty)
	}
	// Y hit zero: gone from the selectable view.
	if _, ok := snapshot.Get("Y"); ok {
		t.Fatal("exhausted item still selectable")
	}
	// The form comes back zeroed and unselected, one reset row per cart row.
	if len(result.ResetLines) != len(cart) {
		t.Fatalf("reset lines = %d, want %d", len(result.ResetLines), len(cart))
	}
	for _, line := range result.ResetLines {
		if line.ItemId != "" || line.Quantity != 0 {
			t.Fatalf("reset line not blank: %+v", line)
		}
	}
}

func TestDispenseInsufficientStockLeavesCacheUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"code": "insufficient_stock",
			"items": []map[string]any{
				{"type": "medicine", "requested": 3, "available": 1},
			},
		})
	}))
	defer srv.Close()
	client := remote.NewClientWithBaseURL(srv.URL)

	snapshot := snapshotWith("b1", medItem("X", 5))
	cart := []models.CartLine{{ItemId: "X", Quantity: 3}}

	result, err := workflow.SubmitDispense(context.Background(), client, snapshot, "p1", "e1", cart)
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if _, ok := remote.IsInsufficientStock(err); !ok {
		t.Fatalf("got %T, want InsufficientStockError", err)
	}
	if result.State != workflow.DispenseStateRejectedRemote {
		t.Fatalf("state = %s, want rejected_remote", result.State)
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0] != "medicine: requested 3, available 1" {
		t.Fatalf("diagnostics = %q", result.Diagnostics)
	}
	if err.Error() != "medicine: requested 3, available 1" {
		t.Fatalf("error text = %q", err.Error())
	}
	if qty, _ := snapshot.Quantity("X"); qty != 5 {
		t.Fatalf("snapshot mutated on remote rejection: X = %d, want 5", qty)
	}
}

func TestDispenseOpaqueFailureLeavesCacheUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	client := remote.NewClientWithBaseURL(srv.URL)

	snapshot := snapshotWith("b1", medItem("X", 5))
	cart := []models.CartLine{{ItemId: "X", Quantity: 2}}

	result, err := workflow.SubmitDispense(context.Background(), client, snapshot, "p1", "e1", cart)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *remote.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %T, want APIError", err)
	}
	if result.State != workflow.DispenseStateRejectedRemote {
		t.Fatalf("state = %s, want rejected_remote", result.State)
	}
	if qty, _ := snapshot.Quantity("X"); qty != 5 {
		t.Fatalf("snapshot mutated on opaque failure: X = %d, want 5", qty)
	}
}

func TestDispenseEmptyCartIsRefusedLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("remote contacted for an empty cart")
	}))
	defer srv.Close()
	client := remote.NewClientWithBaseURL(srv.URL)

	snapshot := snapshotWith("b1", medItem("X", 5))
	_, err := workflow.SubmitDispense(context.Background(), client, snapshot, "p1", "e1", []models.CartLine{{ItemId: "X", Quantity: 0}})
	if !utils.IsValidationError(err) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}
