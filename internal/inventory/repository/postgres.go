package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/RimBin/yakiwood-shop-sub002/internal/inventory/dto"
	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetBySKU(ctx context.Context, sku string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	query := `SELECT * FROM inventory_items WHERE sku = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &item, query, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) GetByProduct(ctx context.Context, productID string, variantID *string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	query := `SELECT * FROM inventory_items WHERE product_id = $1`
	args := []interface{}{productID}

	if variantID != nil && *variantID != "" {
		query += ` AND variant_id = $2`
		args = append(args, *variantID)
	} else {
		query += ` AND variant_id IS NULL`
	}

	err := r.DB.GetContext(ctx, &item, query+` LIMIT 1`, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.InventoryItem, int, error) {
	base := psql.Select().From("inventory_items")
	if f.ProductID != "" {
		base = base.Where(sq.Eq{"product_id": f.ProductID})
	}
	if f.LowStock {
		base = base.Where("quantity_available <= reorder_point AND reorder_point > 0")
	}

	countQuery, countArgs, err := base.Columns("count(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var count int
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	listBuilder := base.Columns("*").OrderBy("updated_at DESC")
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		listBuilder = listBuilder.Limit(uint64(f.PageSize)).Offset(uint64((page - 1) * f.PageSize))
	}
	listQuery, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var items []model.InventoryItem
	err = r.DB.SelectContext(ctx, &items, listQuery, listArgs...)
	return items, count, err
}

// Reserve runs the whole batch in one transaction. Each line is a
// conditional update; zero affected rows means insufficient stock and rolls
// everything back, so a mid-batch failure leaves no partial reservation.
func (r *PGRepository) Reserve(ctx context.Context, lines []dto.ReservationLine, orderID string, performedBy *string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for _, line := range lines {
		var row struct {
			ID             string  `db:"id"`
			QuantityBefore float64 `db:"quantity_before"`
			QuantityAfter  float64 `db:"quantity_after"`
		}
		query := `
            UPDATE inventory_items
            SET quantity_available = quantity_available - $1,
                quantity_reserved = quantity_reserved + $1,
                updated_at = $2
            WHERE sku = $3 AND quantity_available >= $1
            RETURNING id, quantity_available + $1 AS quantity_before, quantity_available AS quantity_after
        `
		err := tx.GetContext(ctx, &row, query, line.Quantity, now, line.SKU)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// The guard refused: report the quantity actually on hand.
				available, availErr := availableInTx(ctx, tx, line.SKU)
				if availErr != nil {
					return availErr
				}
				return &model.InsufficientStockError{
					SKU:       line.SKU,
					Requested: line.Quantity,
					Available: available,
				}
			}
			return err
		}

		movement := &model.InventoryMovement{
			ID:              uuid.New().String(),
			InventoryItemID: row.ID,
			MovementType:    model.MovementReservation,
			QuantityChange:  -line.Quantity,
			QuantityBefore:  row.QuantityBefore,
			QuantityAfter:   row.QuantityAfter,
			Reason:          "Order reservation",
			ReferenceID:     &orderID,
			PerformedBy:     performedBy,
			PerformedAt:     now,
		}
		if err := insertMovementTx(ctx, tx, movement); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Release claims every unsettled reservation movement for the order and
// undoes it. A repeated call claims nothing and returns an empty slice.
func (r *PGRepository) Release(ctx context.Context, orderID string) ([]model.InventoryMovement, error) {
	return r.settleReservations(ctx, orderID, func(ctx context.Context, tx *sqlx.Tx, claimed model.InventoryMovement, now time.Time) (*model.InventoryMovement, error) {
		qty := -claimed.QuantityChange

		var after float64
		query := `
            UPDATE inventory_items
            SET quantity_available = quantity_available + $1,
                quantity_reserved = GREATEST(0, quantity_reserved - $1),
                updated_at = $2
            WHERE id = $3
            RETURNING quantity_available
        `
		if err := tx.GetContext(ctx, &after, query, qty, now, claimed.InventoryItemID); err != nil {
			return nil, err
		}

		return &model.InventoryMovement{
			ID:              uuid.New().String(),
			InventoryItemID: claimed.InventoryItemID,
			MovementType:    model.MovementRelease,
			QuantityChange:  qty,
			QuantityBefore:  after - qty,
			QuantityAfter:   after,
			Reason:          "Order cancelled/failed",
			ReferenceID:     claimed.ReferenceID,
			PerformedAt:     now,
		}, nil
	})
}

// Confirm claims every unsettled reservation for the order and converts it
// into a sale: reserved shrinks, sold grows, available is untouched.
func (r *PGRepository) Confirm(ctx context.Context, orderID string) ([]model.InventoryMovement, error) {
	return r.settleReservations(ctx, orderID, func(ctx context.Context, tx *sqlx.Tx, claimed model.InventoryMovement, now time.Time) (*model.InventoryMovement, error) {
		qty := -claimed.QuantityChange

		var available float64
		query := `
            UPDATE inventory_items
            SET quantity_reserved = GREATEST(0, quantity_reserved - $1),
                quantity_sold = quantity_sold + $1,
                updated_at = $2
            WHERE id = $3
            RETURNING quantity_available
        `
		if err := tx.GetContext(ctx, &available, query, qty, now, claimed.InventoryItemID); err != nil {
			return nil, err
		}

		return &model.InventoryMovement{
			ID:              uuid.New().String(),
			InventoryItemID: claimed.InventoryItemID,
			MovementType:    model.MovementSale,
			QuantityChange:  -qty,
			QuantityBefore:  available,
			QuantityAfter:   available,
			Reason:          "Sale confirmed",
			ReferenceID:     claimed.ReferenceID,
			PerformedAt:     now,
		}, nil
	})
}

// settleReservations stamps settled_at on the order's open reservation
// movements inside a transaction, then applies the per-movement counter
// update. The stamp is the explicit idempotency guard: a second invocation
// claims zero rows.
func (r *PGRepository) settleReservations(
	ctx context.Context,
	orderID string,
	apply func(ctx context.Context, tx *sqlx.Tx, claimed model.InventoryMovement, now time.Time) (*model.InventoryMovement, error),
) ([]model.InventoryMovement, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now()

	var claimed []model.InventoryMovement
	claimQuery := `
        UPDATE inventory_movements
        SET settled_at = $1
        WHERE reference_id = $2 AND movement_type = 'reservation' AND settled_at IS NULL
        RETURNING *
    `
	if err := tx.SelectContext(ctx, &claimed, claimQuery, now, orderID); err != nil {
		return nil, err
	}
	if len(claimed) == 0 {
		return nil, tx.Commit()
	}

	applied := make([]model.InventoryMovement, 0, len(claimed))
	for _, movement := range claimed {
		result, err := apply(ctx, tx, movement, now)
		if err != nil {
			return nil, err
		}
		if err := insertMovementTx(ctx, tx, result); err != nil {
			return nil, err
		}
		applied = append(applied, *result)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return applied, nil
}

func (r *PGRepository) Restock(ctx context.Context, sku string, qty float64, reason string, location *string, performedBy *string) (*model.InventoryItem, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now()
	var item model.InventoryItem
	query := `
        UPDATE inventory_items
        SET quantity_available = quantity_available + $1,
            location = COALESCE($2, location),
            last_restocked_at = $3,
            updated_at = $3
        WHERE sku = $4
        RETURNING *
    `
	if err := tx.GetContext(ctx, &item, query, qty, location, now, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &model.ValidationError{Field: "sku", Reason: fmt.Sprintf("inventory item not found: %s", sku)}
		}
		return nil, err
	}

	movement := &model.InventoryMovement{
		ID:              uuid.New().String(),
		InventoryItemID: item.ID,
		MovementType:    model.MovementRestock,
		QuantityChange:  qty,
		QuantityBefore:  item.QuantityAvailable - qty,
		QuantityAfter:   item.QuantityAvailable,
		Reason:          reason,
		PerformedBy:     performedBy,
		PerformedAt:     now,
	}
	if err := insertMovementTx(ctx, tx, movement); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) Adjust(ctx context.Context, sku string, delta float64, reason string, performedBy *string) (*model.InventoryItem, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now()
	var item model.InventoryItem
	// The guard keeps the counter from going negative under concurrency.
	query := `
        UPDATE inventory_items
        SET quantity_available = quantity_available + $1,
            updated_at = $2
        WHERE sku = $3 AND quantity_available + $1 >= 0
        RETURNING *
    `
	if err := tx.GetContext(ctx, &item, query, delta, now, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			available, availErr := availableInTx(ctx, tx, sku)
			if availErr != nil {
				return nil, availErr
			}
			return nil, &model.InsufficientStockError{SKU: sku, Requested: -delta, Available: available}
		}
		return nil, err
	}

	movement := &model.InventoryMovement{
		ID:              uuid.New().String(),
		InventoryItemID: item.ID,
		MovementType:    model.MovementAdjustment,
		QuantityChange:  delta,
		QuantityBefore:  item.QuantityAvailable - delta,
		QuantityAfter:   item.QuantityAvailable,
		Reason:          reason,
		PerformedBy:     performedBy,
		PerformedAt:     now,
	}
	if err := insertMovementTx(ctx, tx, movement); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	base := psql.Select().From("inventory_movements m")
	if f.SKU != "" {
		base = base.Join("inventory_items i ON i.id = m.inventory_item_id").Where(sq.Eq{"i.sku": f.SKU})
	}
	if f.ReferenceID != "" {
		base = base.Where(sq.Eq{"m.reference_id": f.ReferenceID})
	}
	if f.MovementType != "" {
		base = base.Where(sq.Eq{"m.movement_type": f.MovementType})
	}
	if f.StartDate != nil {
		base = base.Where(sq.GtOrEq{"m.performed_at": *f.StartDate})
	}
	if f.EndDate != nil {
		base = base.Where(sq.Lt{"m.performed_at": *f.EndDate})
	}

	countQuery, countArgs, err := base.Columns("count(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var count int
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	listBuilder := base.Columns("m.*").OrderBy("m.performed_at DESC")
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		listBuilder = listBuilder.Limit(uint64(f.PageSize)).Offset(uint64((page - 1) * f.PageSize))
	}
	listQuery, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var movements []model.InventoryMovement
	err = r.DB.SelectContext(ctx, &movements, listQuery, listArgs...)
	return movements, count, err
}

func (r *PGRepository) CreateAlert(ctx context.Context, alert *model.InventoryAlert) error {
	query := `
        INSERT INTO inventory_alerts (
            id, inventory_item_id, alert_type, threshold, current_quantity, created_at
        )
        VALUES (:id, :inventory_item_id, :alert_type, :threshold, :current_quantity, :created_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, alert)
	return err
}

func (r *PGRepository) HasUnresolvedAlert(ctx context.Context, inventoryItemID string, alertType model.AlertType) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS (
            SELECT 1 FROM inventory_alerts
            WHERE inventory_item_id = $1 AND alert_type = $2 AND resolved_at IS NULL
        )
    `
	err := r.DB.GetContext(ctx, &exists, query, inventoryItemID, alertType)
	return exists, err
}

func (r *PGRepository) ListAlerts(ctx context.Context, unresolvedOnly bool, page, pageSize int) ([]model.InventoryAlert, int, error) {
	base := psql.Select().From("inventory_alerts")
	if unresolvedOnly {
		base = base.Where("resolved_at IS NULL")
	}

	countQuery, countArgs, err := base.Columns("count(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var count int
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	listBuilder := base.Columns("*").OrderBy("created_at DESC")
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		listBuilder = listBuilder.Limit(uint64(pageSize)).Offset(uint64((page - 1) * pageSize))
	}
	listQuery, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var alerts []model.InventoryAlert
	err = r.DB.SelectContext(ctx, &alerts, listQuery, listArgs...)
	return alerts, count, err
}

func (r *PGRepository) ResolveAlert(ctx context.Context, alertID string, resolvedBy *string) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE inventory_alerts
        SET resolved_at = $1, resolved_by = $2
        WHERE id = $3 AND resolved_at IS NULL
    `, time.Now(), resolvedBy, alertID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if affected == 0 {
		return &model.ValidationError{Field: "alert_id", Reason: "alert not found or already resolved"}
	}
	return nil
}

func insertMovementTx(ctx context.Context, tx *sqlx.Tx, m *model.InventoryMovement) error {
	query := `
        INSERT INTO inventory_movements (
            id, inventory_item_id, movement_type, quantity_change,
            quantity_before, quantity_after, reason, reference_id,
            performed_by, performed_at, settled_at
        )
        VALUES (
            :id, :inventory_item_id, :movement_type, :quantity_change,
            :quantity_before, :quantity_after, :reason, :reference_id,
            :performed_by, :performed_at, :settled_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}
	return nil
}

func availableInTx(ctx context.Context, tx *sqlx.Tx, sku string) (float64, error) {
	var available float64
	err := tx.GetContext(ctx, &available, `SELECT quantity_available FROM inventory_items WHERE sku = $1`, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return available, nil
}
