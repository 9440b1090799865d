package catalog

import (
	"context"

	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
)

// Repository is the read surface of the catalog collaborator. The pricing
// core only consumes it; catalog administration lives elsewhere.
type Repository interface {
	ProductsByIDs(ctx context.Context, ids []string) (map[string]model.Product, error)
	ActiveRoleDiscount(ctx context.Context, role string) (*model.RoleDiscount, error)
	// ThicknessOptionIDByMm maps a raw millimetre value to the active
	// thickness option id, nil when none exists.
	ThicknessOptionIDByMm(ctx context.Context, mm float64) (*string, error)
}
