package models

import (
	"fmt"

	"github.com/jahongirdev1/med333-sub000/utils"
	"github.com/shopspring/decimal"
)

// DraftLine is one editable row of an intake form. It never reaches the
// remote system directly; AggregateDraftLines produces the canonical batch.
type DraftLine struct {
	ItemType      ItemType        `json:"item_type"`
	ItemId        string          `json:"item_id"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
}

// AggregationKey decides when two draft lines are "the same" receipt line.
// Prices take part in the identity: the same item received at a different
// price term stays a separate line.
type AggregationKey struct {
	ItemType      ItemType
	ItemId        string
	PurchasePrice string
	SellPrice     string
}

// decimal.Decimal is not a comparable key; normalized strings are.
func (l DraftLine) aggregationKey() AggregationKey {
	return AggregationKey{
		ItemType:      l.ItemType,
		ItemId:        l.ItemId,
		PurchasePrice: l.PurchasePrice.String(),
		SellPrice:     l.SellPrice.String(),
	}
}

// ValidateDraftLines rejects quantities below 1 on any line that has an
// item chosen. Rejection is a precondition of aggregation, never a silent
// clamp. Rows with no item yet are unfinished and are ignored here; the
// aggregation drops them.
func ValidateDraftLines(lines []DraftLine) error {
	for i, line := range lines {
		if line.ItemId == "" {
			continue
		}
		if !line.ItemType.IsValid() {
			return utils.NewValidationError(fmt.Sprintf("line %d: invalid item type %q", i+1, string(line.ItemType)))
		}
		if line.Quantity < 1 {
			return utils.NewValidationError(fmt.Sprintf("line %d: quantity must be at least 1", i+1))
		}
	}
	return nil
}

// AggregateDraftLines merges duplicate receipt lines before submission.
//
// Lines with no item chosen are dropped. The rest are grouped by
// AggregationKey; quantities are summed within a group and every other
// field is taken from the first line seen for that key. Output order is
// the order in which keys were first seen. The function is pure: the
// input slice is never mutated.
func AggregateDraftLines(lines []DraftLine) ([]DraftLine, error) {
	if err := ValidateDraftLines(lines); err != nil {
		return nil, err
	}

	merged := make(map[AggregationKey]int)
	order := make([]AggregationKey, 0, len(lines))
	first := make(map[AggregationKey]DraftLine)

	for _, line := range lines {
		if line.ItemId == "" {
			continue
		}
		key := line.aggregationKey()
		if _, seen := merged[key]; !seen {
			order = append(order, key)
			first[key] = line
		}
		merged[key] += line.Quantity
	}

	out := make([]DraftLine, 0, len(order))
	for _, key := range order {
		line := first[key]
		line.Quantity = merged[key]
		out = append(out, line)
	}
	return out, nil
}

// SumQuantities is the total unit count across lines that have an item
// chosen. Used for the "N unique items, M total units" submission report.
func SumQuantities(lines []DraftLine) int {
	total := 0
	for _, line := range lines {
		if line.ItemId == "" {
			continue
		}
		total += line.Quantity
	}
	return total
}
