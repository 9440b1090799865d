package pricing

import (
	"context"
	"time"

	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
	"github.com/RimBin/yakiwood-shop-sub002/internal/pricing/dto"
)

// Cache is the optional redis-backed collaborator: a short-TTL front for the
// rule table plus a SETNX guard that suppresses duplicate lock submissions
// for the same cart. A nil Cache degrades to uncached, unguarded operation.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type UseCase interface {
	// ResolvePrice matches a selector set against the rule table and returns
	// the single winning rule or a NoPriceMatchError.
	ResolvePrice(ctx context.Context, sel model.PriceSelectors) (*model.ResolvedPrice, error)
	// QuoteConfiguration prices one configured line without locking.
	QuoteConfiguration(ctx context.Context, input *dto.QuoteConfigurationInput) (*dto.ConfigurationQuote, error)
	// LockQuote prices the whole cart and issues a time-boxed single-use
	// price lock token.
	LockQuote(ctx context.Context, input *dto.LockQuoteInput) (*dto.LockedQuote, error)
	// RedeemQuote consumes a price lock token exactly once.
	RedeemQuote(ctx context.Context, token string) (*dto.RedeemedQuote, error)
}
