package model

// Product is the read model of the catalog collaborator: just enough to
// price a non-configurable line and to know the product is sellable.
type Product struct {
	ID        string   `db:"id" json:"id"`
	Name      string   `db:"name" json:"name"`
	BasePrice float64  `db:"base_price" json:"base_price"`
	SalePrice *float64 `db:"sale_price" json:"sale_price"`
	IsActive  bool     `db:"is_active" json:"is_active"`
}

// UnitPrice prefers an active sale price over the base price.
func (p *Product) UnitPrice() float64 {
	if p.SalePrice != nil && *p.SalePrice > 0 {
		return *p.SalePrice
	}
	return p.BasePrice
}

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// RoleDiscount maps an authenticated role to a discount applied at lock time.
type RoleDiscount struct {
	Role          string       `db:"role" json:"role"`
	DiscountType  DiscountType `db:"discount_type" json:"discount_type"`
	DiscountValue float64      `db:"discount_value" json:"discount_value"`
	Currency      *string      `db:"currency" json:"currency"`
	IsActive      bool         `db:"is_active" json:"is_active"`
}

// CatalogOption is a configurable dimension value, e.g. a thickness option
// addressed either by id or by its millimetre value.
type CatalogOption struct {
	ID         string  `db:"id" json:"id"`
	OptionType string  `db:"option_type" json:"option_type"`
	ValueMm    float64 `db:"value_mm" json:"value_mm"`
	IsActive   bool    `db:"is_active" json:"is_active"`
}
