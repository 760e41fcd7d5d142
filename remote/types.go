package remote

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// IntakeRequest is one per-collaborator submission of an aggregated batch
// (medicine lines and device lines go to their own endpoints).
type IntakeRequest struct {
	BranchId string       `json:"branch_id,omitempty"`
	Lines    []IntakeLine `json:"lines"`
}

type IntakeLine struct {
	ItemId        string          `json:"item_id"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
}

// DispenseRequest is one atomic dispensing transaction scoped to one
// patient, one employee and one branch.
type DispenseRequest struct {
	PatientId     string         `json:"patient_id"`
	EmployeeId    string         `json:"employee_id"`
	BranchId      string         `json:"branch_id"`
	MedicineLines []DispenseLine `json:"medicine_lines"`
	DeviceLines   []DispenseLine `json:"device_lines"`
}

type DispenseLine struct {
	ItemId   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// errorBody is the wire shape of a structured remote rejection. Anything
// that does not parse into a known code is treated as an opaque message.
type errorBody struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Error   string                  `json:"error"`
	Items   []InsufficientStockItem `json:"items"`
}

const codeInsufficientStock = "insufficient_stock"

type InsufficientStockItem struct {
	Type      string `json:"type"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError carries the per-item breakdown of a rejected
// dispensing transaction. The diagnostic is rendered verbatim, one line
// per offending item.
type InsufficientStockError struct {
	Items []InsufficientStockItem
}

func (e *InsufficientStockError) Error() string {
	lines := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		lines = append(lines, fmt.Sprintf("%s: requested %d, available %d", item.Type, item.Requested, item.Available))
	}
	return strings.Join(lines, "\n")
}

// APIError is any other remote failure: network-level errors are returned
// as-is, HTTP-level failures become an APIError with the status attached.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote api error %d", e.Status)
	}
	return fmt.Sprintf("remote api error %d: %s", e.Status, e.Message)
}
