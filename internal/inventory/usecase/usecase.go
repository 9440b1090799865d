package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RimBin/yakiwood-shop-sub002/internal/inventory"
	"github.com/RimBin/yakiwood-shop-sub002/internal/inventory/dto"
	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo   inventory.Repository
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *inventoryUseCase) CheckStock(ctx context.Context, productID string, variantID *string, quantity float64) (*dto.StockCheckResult, error) {
	item, err := uc.repo.GetByProduct(ctx, productID, variantID)
	if err != nil {
		return nil, &model.PersistenceError{Op: "checking stock", Err: err}
	}
	if item == nil {
		return &dto.StockCheckResult{Available: false, QuantityAvailable: 0, SKU: "unknown"}, nil
	}
	return &dto.StockCheckResult{
		Available:         item.QuantityAvailable >= quantity,
		QuantityAvailable: item.QuantityAvailable,
		SKU:               item.SKU,
	}, nil
}

func (uc *inventoryUseCase) GetItemBySKU(ctx context.Context, sku string) (*model.InventoryItem, error) {
	item, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, &model.PersistenceError{Op: "loading inventory item", Err: err}
	}
	return item, nil
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, page, pageSize int) ([]model.InventoryItem, int, error) {
	return uc.repo.FindAll(ctx, &dto.InventoryFilters{
		LowStock: true,
		Page:     page,
		PageSize: pageSize,
	})
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

// Reserve validates everything up front, then hands the batch to the
// repository which performs the conditional mutations transactionally. The
// pre-check only improves error detail; the transaction is what guarantees
// all-or-nothing under concurrency.
func (uc *inventoryUseCase) Reserve(ctx context.Context, input *dto.ReserveInput) error {
	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		return &model.ValidationError{Field: "order_id", Reason: "required"}
	}
	if len(input.Items) == 0 {
		return &model.ValidationError{Field: "items", Reason: "at least one line required"}
	}

	skus := make([]string, 0, len(input.Items))
	for _, line := range input.Items {
		if line.SKU == "" {
			return &model.ValidationError{Field: "sku", Reason: "required"}
		}
		if line.Quantity <= 0 {
			return &model.ValidationError{Field: "quantity", Reason: "must be positive"}
		}
		skus = append(skus, line.SKU)
	}

	for _, line := range input.Items {
		item, err := uc.repo.GetBySKU(ctx, line.SKU)
		if err != nil {
			return &model.PersistenceError{Op: "checking reservation stock", Err: err}
		}
		if item == nil {
			return &model.ValidationError{Field: "sku", Reason: "inventory item not found: " + line.SKU}
		}
		if item.QuantityAvailable < line.Quantity {
			return &model.InsufficientStockError{
				SKU:       line.SKU,
				Requested: line.Quantity,
				Available: item.QuantityAvailable,
			}
		}
	}

	var performedBy *string
	if input.PerformedBy != "" {
		performedBy = &input.PerformedBy
	}

	if err := uc.repo.Reserve(ctx, input.Items, orderID, performedBy); err != nil {
		var insufficient *model.InsufficientStockError
		if errors.As(err, &insufficient) {
			return err
		}
		return &model.PersistenceError{Op: "reserving stock", Err: err}
	}

	uc.logger.Info("reserved stock",
		zap.String("order_id", orderID),
		zap.Strings("skus", skus),
	)

	uc.monitorAlerts(ctx, skus)
	return nil
}

func (uc *inventoryUseCase) Release(ctx context.Context, orderID string) (int, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return 0, &model.ValidationError{Field: "order_id", Reason: "required"}
	}

	released, err := uc.repo.Release(ctx, orderID)
	if err != nil {
		return 0, &model.PersistenceError{Op: "releasing reservation", Err: err}
	}
	if len(released) == 0 {
		// Nothing open for the order: either never reserved or already
		// settled. Repeated release is a clean no-op.
		return 0, nil
	}

	uc.logger.Info("released reservation",
		zap.String("order_id", orderID),
		zap.Int("movements", len(released)),
	)

	return len(released), nil
}

func (uc *inventoryUseCase) Confirm(ctx context.Context, orderID string) (int, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return 0, &model.ValidationError{Field: "order_id", Reason: "required"}
	}

	confirmed, err := uc.repo.Confirm(ctx, orderID)
	if err != nil {
		return 0, &model.PersistenceError{Op: "confirming sale", Err: err}
	}

	if len(confirmed) > 0 {
		uc.logger.Info("confirmed sale",
			zap.String("order_id", orderID),
			zap.Int("movements", len(confirmed)),
		)
	}
	return len(confirmed), nil
}

func (uc *inventoryUseCase) Restock(ctx context.Context, input *dto.RestockInput) (*model.InventoryItem, error) {
	if input.SKU == "" {
		return nil, &model.ValidationError{Field: "sku", Reason: "required"}
	}
	if input.Quantity <= 0 {
		return nil, &model.ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	reason := input.Reason
	if reason == "" {
		reason = "Inventory restocked"
	}
	var performedBy *string
	if input.PerformedBy != "" {
		performedBy = &input.PerformedBy
	}

	item, err := uc.repo.Restock(ctx, input.SKU, input.Quantity, reason, input.Location, performedBy)
	if err != nil {
		var validation *model.ValidationError
		if errors.As(err, &validation) {
			return nil, err
		}
		return nil, &model.PersistenceError{Op: "restocking", Err: err}
	}

	uc.logger.Info("restocked item",
		zap.String("sku", input.SKU),
		zap.Float64("quantity", input.Quantity),
	)

	uc.monitorAlerts(ctx, []string{input.SKU})
	return item, nil
}

func (uc *inventoryUseCase) Adjust(ctx context.Context, input *dto.AdjustInput) (*model.InventoryItem, error) {
	if input.SKU == "" {
		return nil, &model.ValidationError{Field: "sku", Reason: "required"}
	}
	if input.Delta == 0 {
		return nil, &model.ValidationError{Field: "delta", Reason: "must be non-zero"}
	}
	if input.Reason == "" {
		return nil, &model.ValidationError{Field: "reason", Reason: "required"}
	}

	var performedBy *string
	if input.PerformedBy != "" {
		performedBy = &input.PerformedBy
	}

	item, err := uc.repo.Adjust(ctx, input.SKU, input.Delta, input.Reason, performedBy)
	if err != nil {
		var insufficient *model.InsufficientStockError
		var validation *model.ValidationError
		if errors.As(err, &insufficient) || errors.As(err, &validation) {
			return nil, err
		}
		return nil, &model.PersistenceError{Op: "adjusting stock", Err: err}
	}

	uc.logger.Info("adjusted stock",
		zap.String("sku", input.SKU),
		zap.Float64("delta", input.Delta),
	)

	uc.monitorAlerts(ctx, []string{input.SKU})
	return item, nil
}

func (uc *inventoryUseCase) ListAlerts(ctx context.Context, unresolvedOnly bool, page, pageSize int) ([]model.InventoryAlert, int, error) {
	return uc.repo.ListAlerts(ctx, unresolvedOnly, page, pageSize)
}

func (uc *inventoryUseCase) ResolveAlert(ctx context.Context, alertID, userID string) error {
	if alertID == "" {
		return &model.ValidationError{Field: "alert_id", Reason: "required"}
	}
	var resolvedBy *string
	if userID != "" {
		resolvedBy = &userID
	}
	return uc.repo.ResolveAlert(ctx, alertID, resolvedBy)
}

// monitorAlerts compares counters to thresholds after a mutation. Advisory
// only: failures are logged and never propagated to the caller.
func (uc *inventoryUseCase) monitorAlerts(ctx context.Context, skus []string) {
	for _, sku := range skus {
		item, err := uc.repo.GetBySKU(ctx, sku)
		if err != nil || item == nil {
			continue
		}
		uc.evaluateItemAlerts(ctx, item)
	}
}

func (uc *inventoryUseCase) evaluateItemAlerts(ctx context.Context, item *model.InventoryItem) {
	var alertType model.AlertType
	var threshold float64

	switch {
	case item.QuantityAvailable <= 0:
		alertType = model.AlertOutOfStock
		threshold = 0
	case item.ReorderPoint > 0 && item.QuantityAvailable <= item.ReorderPoint:
		alertType = model.AlertLowStock
		threshold = item.ReorderPoint
	case item.ReorderPoint > 0 && item.ReorderQuantity > 0 &&
		item.QuantityAvailable > item.ReorderPoint+item.ReorderQuantity*2:
		alertType = model.AlertOverstock
		threshold = item.ReorderPoint + item.ReorderQuantity*2
	default:
		return
	}

	exists, err := uc.repo.HasUnresolvedAlert(ctx, item.ID, alertType)
	if err != nil {
		uc.logger.Warn("alert lookup failed", zap.String("sku", item.SKU), zap.Error(err))
		return
	}
	if exists {
		return
	}

	alert := &model.InventoryAlert{
		ID:              uuid.New().String(),
		InventoryItemID: item.ID,
		AlertType:       alertType,
		Threshold:       threshold,
		CurrentQuantity: item.QuantityAvailable,
		CreatedAt:       time.Now(),
	}
	if err := uc.repo.CreateAlert(ctx, alert); err != nil {
		uc.logger.Warn("failed to create inventory alert",
			zap.String("sku", item.SKU),
			zap.String("alert_type", string(alertType)),
			zap.Error(err),
		)
	}
}
