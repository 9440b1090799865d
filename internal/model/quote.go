package model

import (
	"encoding/json"
	"time"
)

type QuoteStatus string

const (
	QuoteStatusActive   QuoteStatus = "active"
	QuoteStatusRedeemed QuoteStatus = "redeemed"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// QuoteLine is one immutable line of a locked price snapshot. Amounts are
// integer cents; the winning rule id and specificity stay with the line for
// audit.
type QuoteLine struct {
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	UnitPriceCents int64           `json:"unit_price_cents"`
	LineTotalCents int64           `json:"line_total_cents"`
	UnitAreaM2     float64         `json:"unit_area_m2,omitempty"`
	MatchedRuleID  string          `json:"matched_rule_id,omitempty"`
	Specificity    int             `json:"specificity,omitempty"`
	Configuration  *PriceSelectors `json:"configuration,omitempty"`
}

// PricingQuote is the persisted price lock. The raw token is never stored,
// only its one-way hash. Monetary fields never change after creation; only
// the status moves.
type PricingQuote struct {
	ID                 string          `db:"id" json:"id"`
	TokenHash          string          `db:"token_hash" json:"-"`
	Status             QuoteStatus     `db:"status" json:"status"`
	Currency           string          `db:"currency" json:"currency"`
	VATRate            float64         `db:"vat_rate" json:"vat_rate"`
	SubtotalGrossCents int64           `db:"subtotal_gross_cents" json:"subtotal_gross_cents"`
	ShippingGrossCents int64           `db:"shipping_gross_cents" json:"shipping_gross_cents"`
	TotalGrossCents    int64           `db:"total_gross_cents" json:"total_gross_cents"`
	SubtotalNetCents   int64           `db:"subtotal_net_cents" json:"subtotal_net_cents"`
	VATCents           int64           `db:"vat_cents" json:"vat_cents"`
	ItemsSnapshot      json.RawMessage `db:"items_snapshot" json:"items_snapshot"`
	ExpiresAt          time.Time       `db:"expires_at" json:"expires_at"`
	RedeemedAt         *time.Time      `db:"redeemed_at" json:"redeemed_at"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
}

// Lines decodes the snapshot. Errors only on a corrupted row.
func (q *PricingQuote) Lines() ([]QuoteLine, error) {
	var lines []QuoteLine
	if err := json.Unmarshal(q.ItemsSnapshot, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
