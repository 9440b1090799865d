package pricing

import (
	"context"

	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
)

type Repository interface {
	// Rules
	ActiveRulesForProduct(ctx context.Context, productID string) ([]model.ConfigurationPriceRule, error)

	// Quote snapshots
	CreateQuote(ctx context.Context, quote *model.PricingQuote) error
	GetQuoteByHash(ctx context.Context, tokenHash string) (*model.PricingQuote, error)
	// TransitionQuoteStatus flips status only when the quote is still in the
	// `from` state; reports whether the transition won.
	TransitionQuoteStatus(ctx context.Context, id string, from, to model.QuoteStatus) (bool, error)
}
