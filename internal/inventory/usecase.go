package inventory

import (
	"context"

	"github.com/RimBin/yakiwood-shop-sub002/internal/inventory/dto"
	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
)

type UseCase interface {
	// Reads
	CheckStock(ctx context.Context, productID string, variantID *string, quantity float64) (*dto.StockCheckResult, error)
	GetItemBySKU(ctx context.Context, sku string) (*model.InventoryItem, error)
	ListLowStock(ctx context.Context, page, pageSize int) ([]model.InventoryItem, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)

	// Reservation lifecycle
	Reserve(ctx context.Context, input *dto.ReserveInput) error
	Release(ctx context.Context, orderID string) (int, error)
	Confirm(ctx context.Context, orderID string) (int, error)

	// Stock administration
	Restock(ctx context.Context, input *dto.RestockInput) (*model.InventoryItem, error)
	Adjust(ctx context.Context, input *dto.AdjustInput) (*model.InventoryItem, error)

	// Alerts (advisory)
	ListAlerts(ctx context.Context, unresolvedOnly bool, page, pageSize int) ([]model.InventoryAlert, int, error)
	ResolveAlert(ctx context.Context, alertID, userID string) error
}
