package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// ActiveRulesForProduct fetches the candidate set; ranking happens in code so
// the tie-break never depends on SQL null ordering.
func (r *PGRepository) ActiveRulesForProduct(ctx context.Context, productID string) ([]model.ConfigurationPriceRule, error) {
	var rules []model.ConfigurationPriceRule
	query := `
        SELECT id, product_id, usage_type, profile_variant_id, color_variant_id,
               thickness_option_id, width_mm, length_mm, min_cart_area_m2,
               max_cart_area_m2, unit_price_per_m2, is_active
        FROM configuration_price_rules
        WHERE product_id = $1 AND is_active = true
    `
	if err := r.DB.SelectContext(ctx, &rules, query, productID); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *PGRepository) CreateQuote(ctx context.Context, quote *model.PricingQuote) error {
	query := `
        INSERT INTO pricing_quotes (
            id, token_hash, status, currency, vat_rate,
            subtotal_gross_cents, shipping_gross_cents, total_gross_cents,
            subtotal_net_cents, vat_cents, items_snapshot, expires_at, created_at
        )
        VALUES (
            :id, :token_hash, :status, :currency, :vat_rate,
            :subtotal_gross_cents, :shipping_gross_cents, :total_gross_cents,
            :subtotal_net_cents, :vat_cents, :items_snapshot, :expires_at, :created_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, quote)
	return err
}

func (r *PGRepository) GetQuoteByHash(ctx context.Context, tokenHash string) (*model.PricingQuote, error) {
	var quote model.PricingQuote
	query := `SELECT * FROM pricing_quotes WHERE token_hash = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &quote, query, tokenHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

// TransitionQuoteStatus is the single-use gate: the conditional update plus
// rows-affected check means only one caller wins an active -> redeemed race.
func (r *PGRepository) TransitionQuoteStatus(ctx context.Context, id string, from, to model.QuoteStatus) (bool, error) {
	query := `
        UPDATE pricing_quotes
        SET status = $1,
            redeemed_at = CASE WHEN $1 = 'redeemed' THEN now() ELSE redeemed_at END
        WHERE id = $2 AND status = $3
    `
	res, err := r.DB.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting affected rows: %w", err)
	}
	return affected == 1, nil
}
