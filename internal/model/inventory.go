package model

import "time"

type MovementType string

const (
	MovementRestock     MovementType = "restock"
	MovementSale        MovementType = "sale"
	MovementReturn      MovementType = "return"
	MovementAdjustment  MovementType = "adjustment"
	MovementReservation MovementType = "reservation"
	MovementRelease     MovementType = "release"
)

type AlertType string

const (
	AlertLowStock   AlertType = "low_stock"
	AlertOutOfStock AlertType = "out_of_stock"
	AlertOverstock  AlertType = "overstock"
)

// InventoryItem carries the per-SKU counter triple. All three counters stay
// non-negative; mutation goes through the ledger operations only.
type InventoryItem struct {
	ID                string     `db:"id" json:"id"`
	SKU               string     `db:"sku" json:"sku"`
	ProductID         string     `db:"product_id" json:"product_id"`
	VariantID         *string    `db:"variant_id" json:"variant_id"`
	QuantityAvailable float64    `db:"quantity_available" json:"quantity_available"`
	QuantityReserved  float64    `db:"quantity_reserved" json:"quantity_reserved"`
	QuantitySold      float64    `db:"quantity_sold" json:"quantity_sold"`
	ReorderPoint      float64    `db:"reorder_point" json:"reorder_point"`
	ReorderQuantity   float64    `db:"reorder_quantity" json:"reorder_quantity"`
	Location          *string    `db:"location" json:"location"`
	LastRestockedAt   *time.Time `db:"last_restocked_at" json:"last_restocked_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// InventoryMovement is one append-only ledger entry. Rows are never updated
// or deleted; SettledAt is the single exception, the explicit idempotency
// marker stamped when a reservation is later released or confirmed. Counters
// must be reconstructable by replaying movements.
type InventoryMovement struct {
	ID              string       `db:"id" json:"id"`
	InventoryItemID string       `db:"inventory_item_id" json:"inventory_item_id"`
	MovementType    MovementType `db:"movement_type" json:"movement_type"`
	QuantityChange  float64      `db:"quantity_change" json:"quantity_change"`
	QuantityBefore  float64      `db:"quantity_before" json:"quantity_before"`
	QuantityAfter   float64      `db:"quantity_after" json:"quantity_after"`
	Reason          string       `db:"reason" json:"reason"`
	ReferenceID     *string      `db:"reference_id" json:"reference_id"`
	PerformedBy     *string      `db:"performed_by" json:"performed_by"`
	PerformedAt     time.Time    `db:"performed_at" json:"performed_at"`
	SettledAt       *time.Time   `db:"settled_at" json:"settled_at"`
}

// InventoryAlert is advisory only; it never blocks a mutation.
type InventoryAlert struct {
	ID              string     `db:"id" json:"id"`
	InventoryItemID string     `db:"inventory_item_id" json:"inventory_item_id"`
	AlertType       AlertType  `db:"alert_type" json:"alert_type"`
	Threshold       float64    `db:"threshold" json:"threshold"`
	CurrentQuantity float64    `db:"current_quantity" json:"current_quantity"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt      *time.Time `db:"resolved_at" json:"resolved_at"`
	ResolvedBy      *string    `db:"resolved_by" json:"resolved_by"`
}
