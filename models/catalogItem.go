package models

import "github.com/shopspring/decimal"

// CatalogItem is owned by the remote system of record. The local copy held
// in StockSnapshotCache is a read-mostly, best-effort mirror scoped to one
// location at a time.
type CatalogItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          ItemType        `json:"type"`
	BranchId      string          `json:"branch_id"` // empty for the central warehouse
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
}

type NewCatalogItem struct {
	Name          string          `json:"name" binding:"required"`
	Type          ItemType        `json:"type" binding:"required,itemtype"`
	BranchId      string          `json:"branch_id"`
	Quantity      int             `json:"quantity" binding:"gte=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellPrice     decimal.Decimal `json:"sell_price"`
}
