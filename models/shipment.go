package models

import (
	"sort"
	"time"
)

// Shipment is a loosely-typed record as returned by the remote system.
// The status signal may arrive in more than one shape: an enumerated
// status string, a boolean flag (under either of two field names), or the
// mere presence of a rejection reason (again under either of two field
// names). The variant fields are all kept so classification can work over
// whatever the remote sent; the client never invents a status.
type Shipment struct {
	ID            string         `json:"id"`
	BranchId      string         `json:"branch_id"`
	MedicineLines []ShipmentLine `json:"medicine_lines"`
	DeviceLines   []ShipmentLine `json:"device_lines"`

	StatusRaw      string  `json:"status"`
	AcceptedFlag   *bool   `json:"accepted"`
	IsAcceptedFlag *bool   `json:"is_accepted"`
	RejectedFlag   *bool   `json:"rejected"`
	IsRejectedFlag *bool   `json:"is_rejected"`
	RejectionReason *string `json:"rejection_reason"`
	RejectReason    *string `json:"reject_reason"`

	CreatedAt    string `json:"created_at"`
	CreatedAtAlt string `json:"createdAt"`
	DateRaw      string `json:"date"`
}

type ShipmentLine struct {
	ItemId   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type NewShipment struct {
	BranchId      string         `json:"branch_id" binding:"required"`
	MedicineLines []ShipmentLine `json:"medicine_lines"`
	DeviceLines   []ShipmentLine `json:"device_lines"`
}

func flagSet(flags ...*bool) bool {
	for _, f := range flags {
		if f != nil && *f {
			return true
		}
	}
	return false
}

func reasonPresent(reasons ...*string) bool {
	for _, r := range reasons {
		if r != nil && *r != "" {
			return true
		}
	}
	return false
}

// Reason returns the rejection reason under whichever field name the
// remote used, or "" when absent.
func (s Shipment) Reason() string {
	if s.RejectionReason != nil && *s.RejectionReason != "" {
		return *s.RejectionReason
	}
	if s.RejectReason != nil && *s.RejectReason != "" {
		return *s.RejectReason
	}
	return ""
}

func (s Shipment) IsAccepted() bool {
	return s.StatusRaw == "accepted" || flagSet(s.AcceptedFlag, s.IsAcceptedFlag)
}

// IsDeclined treats a present, non-empty rejection reason as a decline on
// its own: it is the most reliable signal the remote gives us.
func (s Shipment) IsDeclined() bool {
	if s.StatusRaw == "declined" || s.StatusRaw == "rejected" {
		return true
	}
	if flagSet(s.RejectedFlag, s.IsRejectedFlag) {
		return true
	}
	return reasonPresent(s.RejectionReason, s.RejectReason)
}

// Classify derives the canonical status. Declined is checked first: when
// malformed input triggers both heuristics, the decline signal wins.
func (s Shipment) Classify() ShipmentStatus {
	if s.IsDeclined() {
		return ShipmentStatusDeclined
	}
	if s.IsAccepted() {
		return ShipmentStatusAccepted
	}
	switch s.StatusRaw {
	case "", "pending":
		return ShipmentStatusPending
	case "cancelled", "canceled":
		return ShipmentStatusCancelled
	default:
		return ShipmentStatusUnknown
	}
}

var shipmentDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseShipmentDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range shipmentDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// EffectiveDate is the first parseable field among the candidate date
// fields, defaulting to the epoch. It exists only for sorting.
func (s Shipment) EffectiveDate() time.Time {
	for _, raw := range []string{s.CreatedAt, s.CreatedAtAlt, s.DateRaw} {
		if t, ok := parseShipmentDate(raw); ok {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}

// ShipmentView filters then sorts a shipment list for display. It is pure:
// the input list is never reordered or mutated, and equal timestamps keep
// their relative input order.
func ShipmentView(list []Shipment, sortOrder ShipmentSortOrder, statusFilter ShipmentStatusFilter) []Shipment {
	out := make([]Shipment, 0, len(list))
	for _, s := range list {
		switch statusFilter {
		case ShipmentFilterAccepted:
			if !s.IsAccepted() {
				continue
			}
		case ShipmentFilterDeclined:
			if !s.IsDeclined() {
				continue
			}
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if sortOrder == ShipmentSortOld {
			return out[i].EffectiveDate().Before(out[j].EffectiveDate())
		}
		return out[i].EffectiveDate().After(out[j].EffectiveDate())
	})
	return out
}
