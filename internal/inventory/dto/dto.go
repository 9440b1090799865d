package dto

import "time"

type StockCheckResult struct {
	Available         bool    `json:"available"`
	QuantityAvailable float64 `json:"quantity_available"`
	SKU               string  `json:"sku"`
}

type MovementFilters struct {
	SKU          string
	ReferenceID  string
	MovementType string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}

type InventoryFilters struct {
	ProductID string
	LowStock  bool // available <= reorder_point, reorder_point > 0
	Page      int
	PageSize  int
}
