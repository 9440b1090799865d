package dto

import "github.com/RimBin/yakiwood-shop-sub002/internal/pricing/area"

// ConfigurationSelection is the configurator state attached to a cart line.
// Thickness can arrive as an option id or as raw millimetres; millimetres are
// resolved to an option id through the catalog before rule matching.
type ConfigurationSelection struct {
	UsageType         *string  `json:"usage_type"`
	ProfileVariantID  *string  `json:"profile_variant_id"`
	ColorVariantID    *string  `json:"color_variant_id"`
	ThicknessOptionID *string  `json:"thickness_option_id"`
	ThicknessMm       *float64 `json:"thickness_mm"`
	WidthMm           *float64 `json:"width_mm"`
	LengthMm          *float64 `json:"length_mm"`
}

// QuoteConfigurationInput prices a single configured line without issuing a
// lock. Exactly one of QuantityBoards (board-count mode) or TargetAreaM2
// (area-target mode) drives the quantity.
type QuoteConfigurationInput struct {
	ProductID         string            `json:"product_id"`
	UsageType         *string           `json:"usage_type"`
	ProfileVariantID  *string           `json:"profile_variant_id"`
	ColorVariantID    *string           `json:"color_variant_id"`
	ThicknessOptionID *string           `json:"thickness_option_id"`
	ThicknessMm       *float64          `json:"thickness_mm"`
	WidthMm           float64           `json:"width_mm"`
	LengthMm          float64           `json:"length_mm"`
	QuantityBoards    int               `json:"quantity_boards"`
	TargetAreaM2      *float64          `json:"target_area_m2"`
	Rounding          area.RoundingMode `json:"rounding"`
}

// LockLineInput is one incoming cart line for a price lock.
type LockLineInput struct {
	ProductID     string                  `json:"id"`
	Name          string                  `json:"name"`
	Quantity      int                     `json:"quantity"`
	TargetAreaM2  *float64                `json:"target_area_m2"`
	Configuration *ConfigurationSelection `json:"configuration"`
}

// LockQuoteInput is the whole cart plus the authenticated role, if any.
type LockQuoteInput struct {
	Items []LockLineInput `json:"items"`
	Role  string          `json:"-"`
}
