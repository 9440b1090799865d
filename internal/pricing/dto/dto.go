package dto

import (
	"time"

	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
	"github.com/RimBin/yakiwood-shop-sub002/internal/pricing/area"
)

// ConfigurationQuote is the single-line pricing answer: resolver output plus
// the derived per-board and line amounts.
type ConfigurationQuote struct {
	UnitPricePerM2    float64                `json:"unit_price_per_m2"`
	AreaM2            float64                `json:"area_m2"`
	UnitPricePerBoard float64                `json:"unit_price_per_board"`
	QuantityBoards    int                    `json:"quantity_boards"`
	LineTotal         float64                `json:"line_total"`
	Conversion        *area.ConversionReport `json:"conversion,omitempty"`
	ResolvedBy        model.ResolvedPrice    `json:"resolved_by"`
}

// QuoteTotals are EUR amounts derived from the cents snapshot.
type QuoteTotals struct {
	SubtotalGross float64 `json:"subtotal_gross"`
	ShippingGross float64 `json:"shipping_gross"`
	TotalGross    float64 `json:"total_gross"`
	SubtotalNet   float64 `json:"subtotal_net"`
	VATAmount     float64 `json:"vat_amount"`
}

// LockedQuote is returned exactly once; the plaintext token is never
// reconstructable afterwards.
type LockedQuote struct {
	QuoteToken string      `json:"quote_token"`
	ExpiresAt  time.Time   `json:"expires_at"`
	Currency   string      `json:"currency"`
	Totals     QuoteTotals `json:"totals"`
}

// RedeemedQuote is the frozen snapshot handed to checkout on a successful
// single-use redemption.
type RedeemedQuote struct {
	QuoteID  string            `json:"quote_id"`
	Currency string            `json:"currency"`
	VATRate  float64           `json:"vat_rate"`
	Totals   QuoteTotals       `json:"totals"`
	Lines    []model.QuoteLine `json:"lines"`
}
