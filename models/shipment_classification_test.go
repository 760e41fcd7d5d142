package models_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/jahongirdev1/med333-sub000/models"
)

func boolPtr(b bool) *bool       { return &b }
func strPtr(s string) *string    { return &s }

func TestReasonAloneMeansDeclined(t *testing.T) {
	s := models.Shipment{RejectionReason: strPtr("damaged box")}
	if !s.IsDeclined() {
		t.Fatal("rejection_reason present, want IsDeclined true")
	}
	if s.IsAccepted() {
		t.Fatal("rejection_reason present, want IsAccepted false")
	}
	if s.Classify() != models.ShipmentStatusDeclined {
		t.Fatalf("Classify() = %s, want declined", s.Classify())
	}
}

func TestStatusVocabularyVariants(t *testing.T) {
	cases := []struct {
		name     string
		shipment models.Shipment
		want     models.ShipmentStatus
	}{
		{"status accepted", models.Shipment{StatusRaw: "accepted"}, models.ShipmentStatusAccepted},
		{"status declined", models.Shipment{StatusRaw: "declined"}, models.ShipmentStatusDeclined},
		{"status rejected", models.Shipment{StatusRaw: "rejected"}, models.ShipmentStatusDeclined},
		{"accepted flag", models.Shipment{AcceptedFlag: boolPtr(true)}, models.ShipmentStatusAccepted},
		{"is_accepted flag", models.Shipment{IsAcceptedFlag: boolPtr(true)}, models.ShipmentStatusAccepted},
		{"rejected flag", models.Shipment{RejectedFlag: boolPtr(true)}, models.ShipmentStatusDeclined},
		{"is_rejected flag", models.Shipment{IsRejectedFlag: boolPtr(true)}, models.ShipmentStatusDeclined},
		{"reject_reason field", models.Shipment{RejectReason: strPtr("late")}, models.ShipmentStatusDeclined},
		{"no signal", models.Shipment{}, models.ShipmentStatusPending},
		{"explicit pending", models.Shipment{StatusRaw: "pending"}, models.ShipmentStatusPending},
		{"cancelled", models.Shipment{StatusRaw: "cancelled"}, models.ShipmentStatusCancelled},
		{"garbage status", models.Shipment{StatusRaw: "in-flight"}, models.ShipmentStatusUnknown},
		{"false flags stay pending", models.Shipment{AcceptedFlag: boolPtr(false), RejectedFlag: boolPtr(false)}, models.ShipmentStatusPending},
		{"empty reason is no signal", models.Shipment{RejectionReason: strPtr("")}, models.ShipmentStatusPending},
	}
	for _, tc := range cases {
		if got := tc.shipment.Classify(); got != tc.want {
			t.Errorf("%s: Classify() = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestDeclineWinsOverAcceptOnMalformedInput(t *testing.T) {
	s := models.Shipment{StatusRaw: "accepted", RejectionReason: strPtr("damaged box")}
	if s.Classify() != models.ShipmentStatusDeclined {
		t.Fatalf("Classify() = %s, want declined (reason is the stronger signal)", s.Classify())
	}
}

func TestEffectiveDateCandidateOrderAndDefault(t *testing.T) {
	s := models.Shipment{CreatedAt: "2024-03-01T10:00:00Z", DateRaw: "2020-01-01"}
	if got := s.EffectiveDate(); !got.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("EffectiveDate() = %v, want created_at value", got)
	}

	s = models.Shipment{DateRaw: "2020-01-02"}
	if got := s.EffectiveDate(); !got.Equal(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("EffectiveDate() = %v, want date value", got)
	}

	s = models.Shipment{CreatedAt: "not a date"}
	if got := s.EffectiveDate(); !got.Equal(time.Unix(0, 0).UTC()) {
		t.Fatalf("EffectiveDate() = %v, want epoch default", got)
	}
}

func TestShipmentDecodingToleratesFieldNameVariants(t *testing.T) {
	raw := `[
		{"id":"s1","branch_id":"b1","is_rejected":true,"reject_reason":"late","createdAt":"2024-05-01T00:00:00Z"},
		{"id":"s2","branch_id":"b1","accepted":true,"created_at":"2024-05-02T00:00:00Z"}
	]`
	var shipments []models.Shipment
	if err := json.Unmarshal([]byte(raw), &shipments); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !shipments[0].IsDeclined() || shipments[0].Reason() != "late" {
		t.Fatalf("s1 not classified declined: %+v", shipments[0])
	}
	if !shipments[1].IsAccepted() {
		t.Fatalf("s2 not classified accepted: %+v", shipments[1])
	}
}

func viewFixture() []models.Shipment {
	return []models.Shipment{
		{ID: "a", StatusRaw: "accepted", CreatedAt: "2024-01-02T00:00:00Z"},
		{ID: "b", RejectionReason: strPtr("damaged box"), CreatedAt: "2024-01-04T00:00:00Z"},
		{ID: "c", StatusRaw: "pending", CreatedAt: "2024-01-03T00:00:00Z"},
		{ID: "d", StatusRaw: "accepted", CreatedAt: "2024-01-05T00:00:00Z"},
		{ID: "e", StatusRaw: "accepted", CreatedAt: "2024-01-02T00:00:00Z"}, // tie with "a"
	}
}

func TestViewSortsNewestFirst(t *testing.T) {
	got := models.ShipmentView(viewFixture(), models.ShipmentSortNew, models.ShipmentFilterAll)
	for i := 1; i < len(got); i++ {
		if got[i-1].EffectiveDate().Before(got[i].EffectiveDate()) {
			t.Fatalf("order not non-increasing at %d: %s before %s", i, got[i-1].ID, got[i].ID)
		}
	}
	// Equal timestamps keep input order.
	var tied []string
	for _, s := range got {
		if s.ID == "a" || s.ID == "e" {
			tied = append(tied, s.ID)
		}
	}
	if !reflect.DeepEqual(tied, []string{"a", "e"}) {
		t.Fatalf("tie order = %v, want [a e]", tied)
	}
}

func TestViewSortsOldestFirst(t *testing.T) {
	got := models.ShipmentView(viewFixture(), models.ShipmentSortOld, models.ShipmentFilterAll)
	for i := 1; i < len(got); i++ {
		if got[i-1].EffectiveDate().After(got[i].EffectiveDate()) {
			t.Fatalf("order not non-decreasing at %d: %s before %s", i, got[i-1].ID, got[i].ID)
		}
	}
}

func TestViewFilters(t *testing.T) {
	accepted := models.ShipmentView(viewFixture(), models.ShipmentSortNew, models.ShipmentFilterAccepted)
	for _, s := range accepted {
		if !s.IsAccepted() {
			t.Fatalf("filter accepted leaked %s", s.ID)
		}
	}
	if len(accepted) != 3 {
		t.Fatalf("accepted count = %d, want 3", len(accepted))
	}

	declined := models.ShipmentView(viewFixture(), models.ShipmentSortNew, models.ShipmentFilterDeclined)
	if len(declined) != 1 || declined[0].ID != "b" {
		t.Fatalf("declined = %+v, want only b", declined)
	}
}

func TestViewNeverMutatesTheInput(t *testing.T) {
	input := viewFixture()
	snapshot := make([]models.Shipment, len(input))
	copy(snapshot, input)

	_ = models.ShipmentView(input, models.ShipmentSortOld, models.ShipmentFilterAll)
	if !reflect.DeepEqual(input, snapshot) {
		t.Fatal("input list mutated by ShipmentView")
	}
}
