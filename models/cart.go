package models

// CartLine is one requested-item line for dispensing. The set of CartLines
// submitted together forms one atomic transaction: either every quantity
// is applied or none are.
type CartLine struct {
	ItemId   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// ActiveCartLines filters out empty rows (no item, or nothing requested).
// Zero-quantity lines are legal in a cart; they are simply not submitted.
func ActiveCartLines(cart []CartLine) []CartLine {
	active := make([]CartLine, 0, len(cart))
	for _, line := range cart {
		if line.ItemId == "" || line.Quantity <= 0 {
			continue
		}
		active = append(active, line)
	}
	return active
}
