package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RimBin/yakiwood-shop-sub002/config"
	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
	"github.com/RimBin/yakiwood-shop-sub002/internal/pricing/dto"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePricingRepo struct {
	rules  map[string][]model.ConfigurationPriceRule
	byHash map[string]*model.PricingQuote
	byID   map[string]*model.PricingQuote
}

func newFakePricingRepo() *fakePricingRepo {
	return &fakePricingRepo{
		rules:  map[string][]model.ConfigurationPriceRule{},
		byHash: map[string]*model.PricingQuote{},
		byID:   map[string]*model.PricingQuote{},
	}
}

func (f *fakePricingRepo) ActiveRulesForProduct(_ context.Context, productID string) ([]model.ConfigurationPriceRule, error) {
	return f.rules[productID], nil
}

func (f *fakePricingRepo) CreateQuote(_ context.Context, quote *model.PricingQuote) error {
	stored := *quote
	f.byHash[quote.TokenHash] = &stored
	f.byID[quote.ID] = &stored
	return nil
}

func (f *fakePricingRepo) GetQuoteByHash(_ context.Context, tokenHash string) (*model.PricingQuote, error) {
	q, ok := f.byHash[tokenHash]
	if !ok {
		return nil, nil
	}
	copied := *q
	return &copied, nil
}

func (f *fakePricingRepo) TransitionQuoteStatus(_ context.Context, id string, from, to model.QuoteStatus) (bool, error) {
	q, ok := f.byID[id]
	if !ok || q.Status != from {
		return false, nil
	}
	q.Status = to
	if to == model.QuoteStatusRedeemed {
		now := time.Now()
		q.RedeemedAt = &now
	}
	return true, nil
}

type fakeCatalogRepo struct {
	products  map[string]model.Product
	discounts map[string]*model.RoleDiscount
	thickness map[float64]string
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		products:  map[string]model.Product{},
		discounts: map[string]*model.RoleDiscount{},
		thickness: map[float64]string{},
	}
}

func (f *fakeCatalogRepo) ProductsByIDs(_ context.Context, ids []string) (map[string]model.Product, error) {
	out := map[string]model.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) ActiveRoleDiscount(_ context.Context, role string) (*model.RoleDiscount, error) {
	return f.discounts[role], nil
}

func (f *fakeCatalogRepo) ThicknessOptionIDByMm(_ context.Context, mm float64) (*string, error) {
	if id, ok := f.thickness[mm]; ok {
		return &id, nil
	}
	return nil, nil
}

// fakePricingCache backs the rule cache and the SETNX lock guard in memory.
type fakePricingCache struct {
	mu          sync.Mutex
	values      map[string]string
	locks       map[string]string
	rejectLocks bool
	acquired    []string
	released    []string
}

func newFakePricingCache() *fakePricingCache {
	return &fakePricingCache{
		values: map[string]string{},
		locks:  map[string]string{},
	}
}

func (f *fakePricingCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", errors.New("cache miss")
}

func (f *fakePricingCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

func (f *fakePricingCache) AcquireLock(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rejectLocks {
		return false, nil
	}
	if _, held := f.locks[key]; held {
		return false, nil
	}
	f.locks[key] = value
	f.acquired = append(f.acquired, key)
	return true, nil
}

func (f *fakePricingCache) ReleaseLock(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[key] == value {
		delete(f.locks, key)
		f.released = append(f.released, key)
	}
	return nil
}

func testPricingConfig() config.PricingConfig {
	return config.PricingConfig{
		Currency:         "EUR",
		VATRate:          0.21,
		QuoteTokenSecret: "test-secret",
		QuoteTTLMinutes:  30,
		RuleCacheTTLSec:  30,
	}
}

func testShippingConfig() config.ShippingConfig {
	return config.ShippingConfig{
		FreeThresholdGrossCents: 50000,
		FeeGrossCents:           1500,
	}
}

func newTestUseCase(repo *fakePricingRepo, cat *fakeCatalogRepo) *pricingUseCase {
	uc := NewPricingUseCase(repo, cat, nil, logger.NewNop(), testPricingConfig(), testShippingConfig())
	return uc.(*pricingUseCase)
}

func newTestUseCaseWithCache(repo *fakePricingRepo, cat *fakeCatalogRepo, c *fakePricingCache) *pricingUseCase {
	uc := NewPricingUseCase(repo, cat, c, logger.NewNop(), testPricingConfig(), testShippingConfig())
	return uc.(*pricingUseCase)
}

// 95x4000 boards at 50 EUR/m2: 0.38 m2 per board, 19.00 EUR per board.
func boardRules() []model.ConfigurationPriceRule {
	return []model.ConfigurationPriceRule{
		{ID: "r-base", ProductID: "board-1", UnitPricePerM2: 45, IsActive: true},
		{ID: "r-facade-95", ProductID: "board-1", UsageType: strPtr("facade"),
			WidthMm: f64Ptr(95), UnitPricePerM2: 50, IsActive: true},
	}
}

func configuredLine(quantity int) dto.LockLineInput {
	return dto.LockLineInput{
		ProductID: "board-1",
		Name:      "Thermo pine board",
		Quantity:  quantity,
		Configuration: &dto.ConfigurationSelection{
			UsageType: strPtr("facade"),
			WidthMm:   f64Ptr(95),
			LengthMm:  f64Ptr(4000),
		},
	}
}

func TestQuoteConfiguration(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = boardRules()
	uc := newTestUseCase(repo, newFakeCatalogRepo())

	quote, err := uc.QuoteConfiguration(context.Background(), &dto.QuoteConfigurationInput{
		ProductID:      "board-1",
		UsageType:      strPtr("facade"),
		WidthMm:        95,
		LengthMm:       4000,
		QuantityBoards: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, quote.UnitPricePerM2)
	assert.InDelta(t, 0.38, quote.AreaM2, 1e-9)
	assert.InDelta(t, 19.0, quote.UnitPricePerBoard, 1e-9)
	assert.Equal(t, 10, quote.QuantityBoards)
	assert.InDelta(t, 190.0, quote.LineTotal, 1e-9)
	assert.Equal(t, "r-facade-95", quote.ResolvedBy.MatchedRuleID)
	assert.Nil(t, quote.Conversion)
}

func TestQuoteConfigurationAreaTarget(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = boardRules()
	uc := newTestUseCase(repo, newFakeCatalogRepo())

	quote, err := uc.QuoteConfiguration(context.Background(), &dto.QuoteConfigurationInput{
		ProductID:    "board-1",
		UsageType:    strPtr("facade"),
		WidthMm:      95,
		LengthMm:     4000,
		TargetAreaM2: f64Ptr(100),
	})
	require.NoError(t, err)

	assert.Equal(t, 264, quote.QuantityBoards)
	require.NotNil(t, quote.Conversion)
	assert.InDelta(t, 100.32, quote.Conversion.ActualAreaM2, 1e-9)
	assert.InDelta(t, 0.32, quote.Conversion.DeltaM2, 1e-9)
}

func TestQuoteConfigurationValidation(t *testing.T) {
	uc := newTestUseCase(newFakePricingRepo(), newFakeCatalogRepo())

	var validation *model.ValidationError

	_, err := uc.QuoteConfiguration(context.Background(), &dto.QuoteConfigurationInput{
		WidthMm: 95, LengthMm: 4000, QuantityBoards: 1,
	})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "product_id", validation.Field)

	_, err = uc.QuoteConfiguration(context.Background(), &dto.QuoteConfigurationInput{
		ProductID: "board-1", WidthMm: -5, LengthMm: 4000, QuantityBoards: 1,
	})
	require.ErrorAs(t, err, &validation)

	_, err = uc.QuoteConfiguration(context.Background(), &dto.QuoteConfigurationInput{
		ProductID: "board-1", WidthMm: 95, LengthMm: 4000,
	})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "quantity", validation.Field)
}

func TestLockQuoteTotals(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = boardRules()
	uc := newTestUseCase(repo, newFakeCatalogRepo())

	// 10 boards at 19.00: subtotal 190.00, under the free-shipping
	// threshold so 15.00 shipping applies.
	locked, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(10)},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, locked.QuoteToken)
	assert.Equal(t, "EUR", locked.Currency)
	assert.InDelta(t, 190.0, locked.Totals.SubtotalGross, 1e-9)
	assert.InDelta(t, 15.0, locked.Totals.ShippingGross, 1e-9)
	assert.InDelta(t, 205.0, locked.Totals.TotalGross, 1e-9)

	// VAT backed out of gross at 21%: round(20500 * 0.21/1.21) = 3557.
	assert.InDelta(t, 35.57, locked.Totals.VATAmount, 1e-9)
	assert.InDelta(t, 169.43, locked.Totals.SubtotalNet, 1e-9)
	assert.InDelta(t, locked.Totals.TotalGross, locked.Totals.SubtotalNet+locked.Totals.VATAmount, 1e-9)

	assert.WithinDuration(t, time.Now().Add(30*time.Minute), locked.ExpiresAt, 5*time.Second)
}

func TestLockQuoteShippingThreshold(t *testing.T) {
	cat := newFakeCatalogRepo()
	cat.products["plain-1"] = model.Product{ID: "plain-1", Name: "Oil 1L", BasePrice: 100, IsActive: true}
	uc := newTestUseCase(newFakePricingRepo(), cat)

	// exactly at the threshold still pays shipping
	locked, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{{ProductID: "plain-1", Quantity: 5}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 500.0, locked.Totals.SubtotalGross, 1e-9)
	assert.InDelta(t, 15.0, locked.Totals.ShippingGross, 1e-9)

	// strictly above it ships free
	locked, err = uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{{ProductID: "plain-1", Quantity: 6}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 600.0, locked.Totals.SubtotalGross, 1e-9)
	assert.Zero(t, locked.Totals.ShippingGross)
}

func TestLockQuoteCatalogFallback(t *testing.T) {
	cat := newFakeCatalogRepo()
	sale := 80.0
	cat.products["plain-1"] = model.Product{
		ID: "plain-1", Name: "Oil 1L", BasePrice: 100, SalePrice: &sale, IsActive: true,
	}
	repo := newFakePricingRepo()
	uc := newTestUseCase(repo, cat)

	locked, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{{ProductID: "plain-1", Quantity: 2}},
	})
	require.NoError(t, err)

	// sale price wins over base price
	assert.InDelta(t, 160.0, locked.Totals.SubtotalGross, 1e-9)

	// unknown or inactive products are rejected with the line identity
	_, err = uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{{ProductID: "ghost", Quantity: 1}},
	})
	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "items[0].id", validation.Field)
}

func TestLockQuoteRoleDiscounts(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = boardRules()
	cat := newFakeCatalogRepo()
	cat.discounts["wholesale"] = &model.RoleDiscount{
		Role: "wholesale", DiscountType: model.DiscountPercent, DiscountValue: 10, IsActive: true,
	}
	cat.discounts["partner"] = &model.RoleDiscount{
		Role: "partner", DiscountType: model.DiscountFixed, DiscountValue: 5, IsActive: true,
	}
	uc := newTestUseCase(repo, cat)

	// 10% off 19.00 per board
	locked, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(10)},
		Role:  "wholesale",
	})
	require.NoError(t, err)
	assert.InDelta(t, 171.0, locked.Totals.SubtotalGross, 1e-9)

	// 5.00 off 19.00 per board
	locked, err = uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(10)},
		Role:  "partner",
	})
	require.NoError(t, err)
	assert.InDelta(t, 140.0, locked.Totals.SubtotalGross, 1e-9)

	// unknown role prices at list
	locked, err = uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(10)},
		Role:  "stranger",
	})
	require.NoError(t, err)
	assert.InDelta(t, 190.0, locked.Totals.SubtotalGross, 1e-9)
}

func TestLockQuoteVolumeTierUsesFullCartArea(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = []model.ConfigurationPriceRule{
		{ID: "r-base", ProductID: "board-1", UnitPricePerM2: 45, IsActive: true},
		{ID: "r-volume", ProductID: "board-1", MinCartAreaM2: f64Ptr(50), UnitPricePerM2: 38, IsActive: true},
	}
	uc := newTestUseCase(repo, newFakeCatalogRepo())

	// One line alone covers 19 m2, but two lines together cover 76 m2,
	// which puts every line into the volume tier.
	line := configuredLine(50)
	line.Configuration.UsageType = nil
	locked, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{line, line},
	})
	require.NoError(t, err)

	// 38 * 0.38 = 14.44 per board, 100 boards total.
	assert.InDelta(t, 1444.0, locked.Totals.SubtotalGross, 1e-9)
}

func TestLockQuoteFailingLineAbortsWholeCart(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = []model.ConfigurationPriceRule{
		{ID: "r-facade", ProductID: "board-1", UsageType: strPtr("facade"), UnitPricePerM2: 50, IsActive: true},
	}
	uc := newTestUseCase(repo, newFakeCatalogRepo())

	bad := configuredLine(5)
	bad.Configuration.UsageType = strPtr("terrace")

	_, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(5), bad},
	})

	var noMatch *model.NoPriceMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, "board-1", noMatch.ProductID)
	assert.Equal(t, 1, noMatch.LineIndex)
	assert.Empty(t, repo.byHash, "no quote may be persisted for a failed cart")
}

func TestLockQuoteEmptyCart(t *testing.T) {
	uc := newTestUseCase(newFakePricingRepo(), newFakeCatalogRepo())

	var validation *model.ValidationError
	_, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{})
	require.ErrorAs(t, err, &validation)

	// lines with no product id or no usable quantity are filtered out
	_, err = uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{{ProductID: "  "}, {ProductID: "board-1", Quantity: 0}},
	})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "items", validation.Field)
}

func TestRedeemQuote(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = boardRules()
	uc := newTestUseCase(repo, newFakeCatalogRepo())

	locked, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(10)},
	})
	require.NoError(t, err)

	redeemed, err := uc.RedeemQuote(context.Background(), locked.QuoteToken)
	require.NoError(t, err)

	assert.Equal(t, "EUR", redeemed.Currency)
	assert.InDelta(t, 0.21, redeemed.VATRate, 1e-9)
	assert.Equal(t, locked.Totals, redeemed.Totals)

	require.Len(t, redeemed.Lines, 2)
	assert.Equal(t, "board-1", redeemed.Lines[0].ProductID)
	assert.Equal(t, int64(1900), redeemed.Lines[0].UnitPriceCents)
	assert.Equal(t, int64(19000), redeemed.Lines[0].LineTotalCents)
	assert.Equal(t, "r-facade-95", redeemed.Lines[0].MatchedRuleID)
	assert.Equal(t, "shipping", redeemed.Lines[1].ProductID)
	assert.Equal(t, int64(1500), redeemed.Lines[1].LineTotalCents)

	// single use
	_, err = uc.RedeemQuote(context.Background(), locked.QuoteToken)
	assert.ErrorIs(t, err, model.ErrQuoteAlreadyRedeemed)
}

func TestRedeemQuoteUnknownToken(t *testing.T) {
	uc := newTestUseCase(newFakePricingRepo(), newFakeCatalogRepo())

	_, err := uc.RedeemQuote(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, model.ErrQuoteNotFound)
}

func TestRedeemQuoteExpired(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = boardRules()
	uc := newTestUseCase(repo, newFakeCatalogRepo())

	locked, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(1)},
	})
	require.NoError(t, err)

	// age the stored quote past its window
	for _, q := range repo.byID {
		q.ExpiresAt = time.Now().Add(-time.Minute)
	}

	_, err = uc.RedeemQuote(context.Background(), locked.QuoteToken)
	assert.ErrorIs(t, err, model.ErrQuoteExpired)

	// the expiry is materialized, so the next attempt reports the same
	_, err = uc.RedeemQuote(context.Background(), locked.QuoteToken)
	assert.ErrorIs(t, err, model.ErrQuoteExpired)
	for _, q := range repo.byID {
		assert.Equal(t, model.QuoteStatusExpired, q.Status)
	}
}

func TestRedeemedQuoteIsImmutable(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = boardRules()
	uc := newTestUseCase(repo, newFakeCatalogRepo())

	locked, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(10)},
	})
	require.NoError(t, err)

	// rules change after the lock; the snapshot must not move
	repo.rules["board-1"] = []model.ConfigurationPriceRule{
		{ID: "r-new", ProductID: "board-1", UnitPricePerM2: 999, IsActive: true},
	}

	redeemed, err := uc.RedeemQuote(context.Background(), locked.QuoteToken)
	require.NoError(t, err)
	assert.Equal(t, locked.Totals, redeemed.Totals)
	assert.Equal(t, int64(1900), redeemed.Lines[0].UnitPriceCents)
}

func TestLockQuoteDuplicateSubmissionGuard(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = boardRules()
	cache := newFakePricingCache()
	uc := newTestUseCaseWithCache(repo, newFakeCatalogRepo(), cache)

	// a successful lock acquires the guard and releases it afterwards
	_, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(10)},
	})
	require.NoError(t, err)
	require.Len(t, cache.acquired, 1)
	assert.True(t, strings.HasPrefix(cache.acquired[0], "pricing:lock:guard:"))
	assert.Equal(t, cache.acquired, cache.released)

	// while the guard is held, an identical cart is turned away
	cache.rejectLocks = true
	_, err = uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(10)},
	})
	assert.ErrorIs(t, err, model.ErrDuplicateLockRequest)
	assert.Len(t, repo.byHash, 1, "the rejected submission must not issue a quote")
}

func TestLockQuoteRuleCache(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = boardRules()
	cache := newFakePricingCache()
	uc := newTestUseCaseWithCache(repo, newFakeCatalogRepo(), cache)

	locked, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(10)},
	})
	require.NoError(t, err)
	assert.Contains(t, cache.values, "pricing:rules:board-1")

	// within the cache window, rule table changes are not observed
	repo.rules["board-1"] = nil
	again, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(10)},
	})
	require.NoError(t, err)
	assert.Equal(t, locked.Totals, again.Totals)
}

func TestLockQuoteErrorsNameTheOriginalCartLine(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = []model.ConfigurationPriceRule{
		{ID: "r-facade", ProductID: "board-1", UsageType: strPtr("facade"), UnitPricePerM2: 50, IsActive: true},
	}
	uc := newTestUseCase(repo, newFakeCatalogRepo())

	// index 0 is filtered out before pricing; the failing line is still
	// reported at its original position 2
	blank := dto.LockLineInput{ProductID: "   "}
	bad := configuredLine(5)
	bad.Configuration = &dto.ConfigurationSelection{
		UsageType: strPtr("terrace"),
		WidthMm:   f64Ptr(95),
		LengthMm:  f64Ptr(4000),
	}

	_, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{blank, configuredLine(5), bad},
	})

	var noMatch *model.NoPriceMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, 2, noMatch.LineIndex)

	// the same holds for product-availability failures
	_, err = uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{blank, configuredLine(5), {ProductID: "ghost", Quantity: 1}},
	})
	var validation *model.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "items[2].id", validation.Field)
}

func TestResolvePriceRejectsUnknownUsageType(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = boardRules()
	uc := newTestUseCase(repo, newFakeCatalogRepo())

	var validation *model.ValidationError

	_, err := uc.ResolvePrice(context.Background(), model.PriceSelectors{
		ProductID: "board-1",
		UsageType: strPtr("balcony"),
	})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "usage_type", validation.Field)

	_, err = uc.QuoteConfiguration(context.Background(), &dto.QuoteConfigurationInput{
		ProductID:      "board-1",
		UsageType:      strPtr("balcony"),
		WidthMm:        95,
		LengthMm:       4000,
		QuantityBoards: 1,
	})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "usage_type", validation.Field)
}

func TestLockQuoteRequiresTokenSecret(t *testing.T) {
	repo := newFakePricingRepo()
	repo.rules["board-1"] = boardRules()
	cfg := testPricingConfig()
	cfg.QuoteTokenSecret = ""
	uc := NewPricingUseCase(repo, newFakeCatalogRepo(), nil, logger.NewNop(), cfg, testShippingConfig())

	_, err := uc.LockQuote(context.Background(), &dto.LockQuoteInput{
		Items: []dto.LockLineInput{configuredLine(1)},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingTokenSecret))
}
