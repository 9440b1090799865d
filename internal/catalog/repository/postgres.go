package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ProductsByIDs(ctx context.Context, ids []string) (map[string]model.Product, error) {
	result := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
        SELECT id, name, base_price, sale_price, is_active
        FROM products
        WHERE id IN (?)
    `, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var products []model.Product
	if err := r.DB.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}

	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

func (r *PGRepository) ActiveRoleDiscount(ctx context.Context, role string) (*model.RoleDiscount, error) {
	var discount model.RoleDiscount
	query := `
        SELECT role, discount_type, discount_value, currency, is_active
        FROM role_discounts
        WHERE role = $1 AND is_active = true
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &discount, query, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

func (r *PGRepository) ThicknessOptionIDByMm(ctx context.Context, mm float64) (*string, error) {
	if mm <= 0 {
		return nil, nil
	}

	var id string
	query := `
        SELECT id FROM catalog_options
        WHERE option_type = 'thickness' AND value_mm = $1 AND is_active = true
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &id, query, math.Round(mm))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}
