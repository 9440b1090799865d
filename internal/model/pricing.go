package model

// UsageType mirrors the configurator's usage dimension.
type UsageType string

const (
	UsageFacade   UsageType = "facade"
	UsageTerrace  UsageType = "terrace"
	UsageInterior UsageType = "interior"
	UsageFence    UsageType = "fence"
)

// ValidUsageType reports whether s names a known usage dimension value. An
// unknown value is a client error, not a wildcard.
func ValidUsageType(s string) bool {
	switch UsageType(s) {
	case UsageFacade, UsageTerrace, UsageInterior, UsageFence:
		return true
	}
	return false
}

// ConfigurationPriceRule is one row of the pricing rule table. A nil scoping
// column is a wildcard for that dimension. Rows are read-only at quote time;
// catalog administration owns the writes.
type ConfigurationPriceRule struct {
	ID                string   `db:"id" json:"id"`
	ProductID         string   `db:"product_id" json:"product_id"`
	UsageType         *string  `db:"usage_type" json:"usage_type"`
	ProfileVariantID  *string  `db:"profile_variant_id" json:"profile_variant_id"`
	ColorVariantID    *string  `db:"color_variant_id" json:"color_variant_id"`
	ThicknessOptionID *string  `db:"thickness_option_id" json:"thickness_option_id"`
	WidthMm           *float64 `db:"width_mm" json:"width_mm"`
	LengthMm          *float64 `db:"length_mm" json:"length_mm"`
	MinCartAreaM2     *float64 `db:"min_cart_area_m2" json:"min_cart_area_m2"`
	MaxCartAreaM2     *float64 `db:"max_cart_area_m2" json:"max_cart_area_m2"`
	UnitPricePerM2    float64  `db:"unit_price_per_m2" json:"unit_price_per_m2"`
	IsActive          bool     `db:"is_active" json:"is_active"`
}

// PriceSelectors is the selector set a cart line presents to the resolver.
// ProductID is required; everything else is optional.
type PriceSelectors struct {
	ProductID         string   `json:"product_id"`
	UsageType         *string  `json:"usage_type,omitempty"`
	ProfileVariantID  *string  `json:"profile_variant_id,omitempty"`
	ColorVariantID    *string  `json:"color_variant_id,omitempty"`
	ThicknessOptionID *string  `json:"thickness_option_id,omitempty"`
	WidthMm           *float64 `json:"width_mm,omitempty"`
	LengthMm          *float64 `json:"length_mm,omitempty"`
	CartTotalAreaM2   *float64 `json:"cart_total_area_m2,omitempty"`
}

// ResolvedPrice is the resolver's only successful outcome.
type ResolvedPrice struct {
	UnitPricePerM2 float64 `json:"unit_price_per_m2"`
	MatchedRuleID  string  `json:"matched_rule_id"`
	Specificity    int     `json:"specificity"`
}
