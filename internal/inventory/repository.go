package inventory

import (
	"context"

	"github.com/RimBin/yakiwood-shop-sub002/internal/inventory/dto"
	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
)

type Repository interface {
	// Items
	GetBySKU(ctx context.Context, sku string) (*model.InventoryItem, error)
	GetByProduct(ctx context.Context, productID string, variantID *string) (*model.InventoryItem, error)
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryItem, int, error)

	// Ledger operations. Each one runs counter update and movement append in
	// a single transaction; the check-then-mutate step is a conditional
	// update at the storage layer, never a read followed by a blind write.
	Reserve(ctx context.Context, lines []dto.ReservationLine, orderID string, performedBy *string) error
	Release(ctx context.Context, orderID string) ([]model.InventoryMovement, error)
	Confirm(ctx context.Context, orderID string) ([]model.InventoryMovement, error)
	Restock(ctx context.Context, sku string, qty float64, reason string, location *string, performedBy *string) (*model.InventoryItem, error)
	Adjust(ctx context.Context, sku string, delta float64, reason string, performedBy *string) (*model.InventoryItem, error)

	// Movements / audit
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)

	// Alerts
	CreateAlert(ctx context.Context, alert *model.InventoryAlert) error
	HasUnresolvedAlert(ctx context.Context, inventoryItemID string, alertType model.AlertType) (bool, error)
	ListAlerts(ctx context.Context, unresolvedOnly bool, page, pageSize int) ([]model.InventoryAlert, int, error)
	ResolveAlert(ctx context.Context, alertID string, resolvedBy *string) error
}
