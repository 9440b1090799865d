package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/RimBin/yakiwood-shop-sub002/config"
	"github.com/RimBin/yakiwood-shop-sub002/internal/catalog"
	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
	"github.com/RimBin/yakiwood-shop-sub002/internal/pricing"
	"github.com/RimBin/yakiwood-shop-sub002/internal/pricing/area"
	"github.com/RimBin/yakiwood-shop-sub002/internal/pricing/dto"
	"github.com/RimBin/yakiwood-shop-sub002/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	shippingLineID = "shipping"

	// lockGuardTTL bounds how long a cart fingerprint blocks duplicate lock
	// submissions; the guard is released as soon as the first one settles.
	lockGuardTTL = 5 * time.Second
)

type pricingUseCase struct {
	repo     pricing.Repository
	catalog  catalog.Repository
	cache    pricing.Cache
	logger   logger.ZapLogger
	cfg      config.PricingConfig
	shipping config.ShippingConfig
}

func NewPricingUseCase(
	repo pricing.Repository,
	catalogRepo catalog.Repository,
	redis pricing.Cache,
	log logger.ZapLogger,
	cfg config.PricingConfig,
	shipping config.ShippingConfig,
) pricing.UseCase {
	return &pricingUseCase{
		repo:     repo,
		catalog:  catalogRepo,
		cache:    redis,
		logger:   log,
		cfg:      cfg,
		shipping: shipping,
	}
}

// rulesForProduct fronts the rule table with the injected short-TTL cache.
// Cache misses and cache failures both fall through to the store.
func (uc *pricingUseCase) rulesForProduct(ctx context.Context, productID string) ([]model.ConfigurationPriceRule, error) {
	cacheKey := "pricing:rules:" + productID

	if uc.cache != nil {
		if val, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var rules []model.ConfigurationPriceRule
			if err := json.Unmarshal([]byte(val), &rules); err == nil {
				return rules, nil
			}
		}
	}

	rules, err := uc.repo.ActiveRulesForProduct(ctx, productID)
	if err != nil {
		return nil, &model.PersistenceError{Op: "loading price rules", Err: err}
	}

	if uc.cache != nil {
		if data, err := json.Marshal(rules); err == nil {
			ttl := time.Duration(uc.cfg.RuleCacheTTLSec) * time.Second
			if ttl <= 0 {
				ttl = 30 * time.Second
			}
			if err := uc.cache.Set(ctx, cacheKey, string(data), ttl); err != nil {
				uc.logger.Warn("failed to cache price rules", zap.Error(err))
			}
		}
	}

	return rules, nil
}

func (uc *pricingUseCase) ResolvePrice(ctx context.Context, sel model.PriceSelectors) (*model.ResolvedPrice, error) {
	sel.ProductID = strings.TrimSpace(sel.ProductID)
	if sel.ProductID == "" {
		return nil, &model.ValidationError{Field: "product_id", Reason: "required"}
	}
	if sel.UsageType != nil && !model.ValidUsageType(*sel.UsageType) {
		return nil, &model.ValidationError{Field: "usage_type", Reason: "unknown usage type " + *sel.UsageType}
	}

	rules, err := uc.rulesForProduct(ctx, sel.ProductID)
	if err != nil {
		return nil, err
	}

	resolved, ok := resolveFromRules(rules, sel)
	if !ok {
		return nil, &model.NoPriceMatchError{ProductID: sel.ProductID, Selectors: sel, LineIndex: -1}
	}
	return resolved, nil
}

// resolveThickness turns a raw millimetre value into the catalog's thickness
// option id when no explicit id was supplied.
func (uc *pricingUseCase) resolveThickness(ctx context.Context, optionID *string, mm *float64) (*string, error) {
	if optionID != nil && strings.TrimSpace(*optionID) != "" {
		return optionID, nil
	}
	if mm == nil || *mm <= 0 {
		return nil, nil
	}
	id, err := uc.catalog.ThicknessOptionIDByMm(ctx, *mm)
	if err != nil {
		return nil, &model.PersistenceError{Op: "resolving thickness option", Err: err}
	}
	return id, nil
}

func (uc *pricingUseCase) QuoteConfiguration(ctx context.Context, input *dto.QuoteConfigurationInput) (*dto.ConfigurationQuote, error) {
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, &model.ValidationError{Field: "product_id", Reason: "required"}
	}
	if input.WidthMm <= 0 || input.LengthMm <= 0 {
		return nil, &model.ValidationError{Field: "dimensions", Reason: "width and length must be positive"}
	}

	unitArea := area.Area(input.WidthMm, input.LengthMm)
	if unitArea <= 0 {
		return nil, &model.ValidationError{Field: "dimensions", Reason: "dimensions yield zero area"}
	}

	quantity := input.QuantityBoards
	var report *area.ConversionReport
	if input.TargetAreaM2 != nil {
		mode := input.Rounding
		if mode == "" {
			mode = area.RoundCeil
		}
		n, r := area.QuantityFromArea(input.WidthMm, input.LengthMm, *input.TargetAreaM2, mode)
		quantity = n
		report = &r
	}
	if quantity <= 0 {
		return nil, &model.ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	thicknessID, err := uc.resolveThickness(ctx, input.ThicknessOptionID, input.ThicknessMm)
	if err != nil {
		return nil, err
	}

	width := input.WidthMm
	length := input.LengthMm
	resolved, err := uc.ResolvePrice(ctx, model.PriceSelectors{
		ProductID:         productID,
		UsageType:         input.UsageType,
		ProfileVariantID:  input.ProfileVariantID,
		ColorVariantID:    input.ColorVariantID,
		ThicknessOptionID: thicknessID,
		WidthMm:           &width,
		LengthMm:          &length,
	})
	if err != nil {
		return nil, err
	}

	unitPricePerBoard := resolved.UnitPricePerM2 * unitArea
	return &dto.ConfigurationQuote{
		UnitPricePerM2:    resolved.UnitPricePerM2,
		AreaM2:            unitArea,
		UnitPricePerBoard: unitPricePerBoard,
		QuantityBoards:    quantity,
		LineTotal:         unitPricePerBoard * float64(quantity),
		Conversion:        report,
		ResolvedBy:        *resolved,
	}, nil
}

// pricedLine is the intermediate result of pricing one cart line.
type pricedLine struct {
	line      model.QuoteLine
	unitArea  float64
	quantity  int
	selectors *model.PriceSelectors
}

func (uc *pricingUseCase) LockQuote(ctx context.Context, input *dto.LockQuoteInput) (*dto.LockedQuote, error) {
	// Lines keep the caller's position so every error names the cart index
	// the client actually sent, filtered-out lines included.
	items := make([]dto.LockLineInput, 0, len(input.Items))
	cartIndex := make([]int, 0, len(input.Items))
	for i, item := range input.Items {
		item.ProductID = strings.TrimSpace(item.ProductID)
		if item.ProductID == "" {
			continue
		}
		if item.Quantity <= 0 && item.TargetAreaM2 == nil {
			continue
		}
		items = append(items, item)
		cartIndex = append(cartIndex, i)
	}
	if len(items) == 0 {
		return nil, &model.ValidationError{Field: "items", Reason: "cart is empty"}
	}

	if uc.cache != nil {
		fingerprint, err := cartFingerprint(items, input.Role)
		if err == nil {
			guardKey := "pricing:lock:guard:" + fingerprint
			guardValue := uuid.New().String()
			acquired, err := uc.cache.AcquireLock(ctx, guardKey, guardValue, lockGuardTTL)
			switch {
			case err != nil:
				uc.logger.Warn("lock guard unavailable", zap.Error(err))
			case !acquired:
				return nil, model.ErrDuplicateLockRequest
			default:
				defer func() {
					if err := uc.cache.ReleaseLock(ctx, guardKey, guardValue); err != nil {
						uc.logger.Warn("failed to release lock guard", zap.Error(err))
					}
				}()
			}
		}
	}

	var discount *model.RoleDiscount
	if input.Role != "" {
		d, err := uc.catalog.ActiveRoleDiscount(ctx, input.Role)
		if err != nil {
			return nil, &model.PersistenceError{Op: "loading role discount", Err: err}
		}
		discount = d
	}

	productIDs := make([]string, 0, len(items))
	seen := map[string]bool{}
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}
	products, err := uc.catalog.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, &model.PersistenceError{Op: "loading products", Err: err}
	}

	// First pass: geometry and quantities, accumulating the cart-wide area
	// that volume-tier rules match against.
	prepared := make([]pricedLine, len(items))
	cartAreaM2 := 0.0
	for i, item := range items {
		p, err := uc.prepareLine(ctx, cartIndex[i], item)
		if err != nil {
			return nil, err
		}
		prepared[i] = *p
		cartAreaM2 += p.unitArea * float64(p.quantity)
	}

	// Second pass: resolve and price each line against the full cart area.
	var lines []model.QuoteLine
	var subtotalGrossCents int64
	for i := range prepared {
		p := &prepared[i]
		var unitPriceEur float64

		if p.selectors != nil {
			sel := *p.selectors
			cart := cartAreaM2
			sel.CartTotalAreaM2 = &cart
			resolved, err := uc.ResolvePrice(ctx, sel)
			if err != nil {
				var noMatch *model.NoPriceMatchError
				if errors.As(err, &noMatch) {
					noMatch.LineIndex = cartIndex[i]
					return nil, noMatch
				}
				return nil, err
			}
			unitPriceEur = resolved.UnitPricePerM2 * p.unitArea
			p.line.MatchedRuleID = resolved.MatchedRuleID
			p.line.Specificity = resolved.Specificity
		} else {
			product, found := products[p.line.ProductID]
			if !found || !product.IsActive {
				return nil, &model.ValidationError{
					Field:  fmt.Sprintf("items[%d].id", cartIndex[i]),
					Reason: "product not available",
				}
			}
			if p.line.Name == "" {
				p.line.Name = product.Name
			}
			unitPriceEur = product.UnitPrice()
		}

		unitPriceEur = applyRoleDiscount(unitPriceEur, discount)

		p.line.UnitPriceCents = centsFromEur(unitPriceEur)
		p.line.LineTotalCents = p.line.UnitPriceCents * int64(p.line.Quantity)
		subtotalGrossCents += p.line.LineTotalCents
		lines = append(lines, p.line)
	}

	shippingGrossCents := uc.computeShippingGrossCents(subtotalGrossCents)
	if shippingGrossCents > 0 {
		lines = append(lines, model.QuoteLine{
			ProductID:      shippingLineID,
			Name:           "Shipping",
			Quantity:       1,
			UnitPriceCents: shippingGrossCents,
			LineTotalCents: shippingGrossCents,
		})
	}

	totalGrossCents := subtotalGrossCents + shippingGrossCents
	subtotalNetCents, vatCents := splitGrossCents(totalGrossCents, uc.cfg.VATRate)

	token, err := generateQuoteToken()
	if err != nil {
		return nil, err
	}
	tokenHash, err := hashQuoteToken(token, uc.cfg.QuoteTokenSecret)
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encoding quote snapshot: %w", err)
	}

	now := time.Now()
	ttl := time.Duration(clampQuoteTTLMinutes(uc.cfg.QuoteTTLMinutes)) * time.Minute
	quote := &model.PricingQuote{
		ID:                 uuid.New().String(),
		TokenHash:          tokenHash,
		Status:             model.QuoteStatusActive,
		Currency:           uc.cfg.Currency,
		VATRate:            uc.cfg.VATRate,
		SubtotalGrossCents: subtotalGrossCents,
		ShippingGrossCents: shippingGrossCents,
		TotalGrossCents:    totalGrossCents,
		SubtotalNetCents:   subtotalNetCents,
		VATCents:           vatCents,
		ItemsSnapshot:      snapshot,
		ExpiresAt:          now.Add(ttl),
		CreatedAt:          now,
	}

	if err := uc.repo.CreateQuote(ctx, quote); err != nil {
		return nil, &model.PersistenceError{Op: "persisting pricing quote", Err: err}
	}

	uc.logger.Info("issued pricing quote",
		zap.String("quote_id", quote.ID),
		zap.Int64("total_gross_cents", totalGrossCents),
		zap.Time("expires_at", quote.ExpiresAt),
	)

	return &dto.LockedQuote{
		QuoteToken: token,
		ExpiresAt:  quote.ExpiresAt,
		Currency:   quote.Currency,
		Totals:     totalsFromQuote(quote),
	}, nil
}

// prepareLine validates geometry and settles the line quantity; it does not
// price anything yet.
func (uc *pricingUseCase) prepareLine(ctx context.Context, index int, item dto.LockLineInput) (*pricedLine, error) {
	cfg := item.Configuration
	hasDimensions := cfg != nil && cfg.WidthMm != nil && cfg.LengthMm != nil

	if !hasDimensions {
		if item.Quantity <= 0 {
			return nil, &model.ValidationError{
				Field:  fmt.Sprintf("items[%d].quantity", index),
				Reason: "must be positive",
			}
		}
		return &pricedLine{
			line: model.QuoteLine{
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
			},
			quantity: item.Quantity,
		}, nil
	}

	if *cfg.WidthMm <= 0 || *cfg.LengthMm <= 0 {
		return nil, &model.ValidationError{
			Field:  fmt.Sprintf("items[%d].configuration", index),
			Reason: "width and length must be positive",
		}
	}
	unitArea := area.Area(*cfg.WidthMm, *cfg.LengthMm)
	if unitArea <= 0 {
		return nil, &model.ValidationError{
			Field:  fmt.Sprintf("items[%d].configuration", index),
			Reason: "dimensions yield zero area",
		}
	}

	quantity := item.Quantity
	if item.TargetAreaM2 != nil {
		// Area-target mode rounds up: always cover at least the requested area.
		quantity, _ = area.QuantityFromArea(*cfg.WidthMm, *cfg.LengthMm, *item.TargetAreaM2, area.RoundCeil)
	}
	if quantity <= 0 {
		return nil, &model.ValidationError{
			Field:  fmt.Sprintf("items[%d].quantity", index),
			Reason: "must be positive",
		}
	}

	thicknessID, err := uc.resolveThickness(ctx, cfg.ThicknessOptionID, cfg.ThicknessMm)
	if err != nil {
		return nil, err
	}

	selectors := &model.PriceSelectors{
		ProductID:         item.ProductID,
		UsageType:         cfg.UsageType,
		ProfileVariantID:  cfg.ProfileVariantID,
		ColorVariantID:    cfg.ColorVariantID,
		ThicknessOptionID: thicknessID,
		WidthMm:           cfg.WidthMm,
		LengthMm:          cfg.LengthMm,
	}

	return &pricedLine{
		line: model.QuoteLine{
			ProductID:     item.ProductID,
			Name:          item.Name,
			Quantity:      quantity,
			UnitAreaM2:    unitArea,
			Configuration: selectors,
		},
		unitArea:  unitArea,
		quantity:  quantity,
		selectors: selectors,
	}, nil
}

func (uc *pricingUseCase) RedeemQuote(ctx context.Context, token string) (*dto.RedeemedQuote, error) {
	tokenHash, err := hashQuoteToken(token, uc.cfg.QuoteTokenSecret)
	if err != nil {
		return nil, err
	}

	quote, err := uc.repo.GetQuoteByHash(ctx, tokenHash)
	if err != nil {
		return nil, &model.PersistenceError{Op: "loading pricing quote", Err: err}
	}
	if quote == nil {
		return nil, model.ErrQuoteNotFound
	}

	switch quote.Status {
	case model.QuoteStatusRedeemed:
		return nil, model.ErrQuoteAlreadyRedeemed
	case model.QuoteStatusExpired:
		return nil, model.ErrQuoteExpired
	}

	if time.Now().After(quote.ExpiresAt) {
		// Materialize the expiry; ignore losing the race, the outcome is the same.
		if _, err := uc.repo.TransitionQuoteStatus(ctx, quote.ID, model.QuoteStatusActive, model.QuoteStatusExpired); err != nil {
			uc.logger.Warn("failed to mark quote expired", zap.String("quote_id", quote.ID), zap.Error(err))
		}
		return nil, model.ErrQuoteExpired
	}

	won, err := uc.repo.TransitionQuoteStatus(ctx, quote.ID, model.QuoteStatusActive, model.QuoteStatusRedeemed)
	if err != nil {
		return nil, &model.PersistenceError{Op: "redeeming pricing quote", Err: err}
	}
	if !won {
		// Someone else moved it first; report the precise state.
		current, err := uc.repo.GetQuoteByHash(ctx, tokenHash)
		if err == nil && current != nil && current.Status == model.QuoteStatusExpired {
			return nil, model.ErrQuoteExpired
		}
		return nil, model.ErrQuoteAlreadyRedeemed
	}

	lines, err := quote.Lines()
	if err != nil {
		return nil, fmt.Errorf("decoding quote snapshot: %w", err)
	}

	uc.logger.Info("redeemed pricing quote", zap.String("quote_id", quote.ID))

	return &dto.RedeemedQuote{
		QuoteID:  quote.ID,
		Currency: quote.Currency,
		VATRate:  quote.VATRate,
		Totals:   totalsFromQuote(quote),
		Lines:    lines,
	}, nil
}

func (uc *pricingUseCase) computeShippingGrossCents(subtotalGrossCents int64) int64 {
	if subtotalGrossCents > uc.shipping.FreeThresholdGrossCents {
		return 0
	}
	return uc.shipping.FeeGrossCents
}

// splitGrossCents backs VAT out of a gross amount: vat = gross*rate/(1+rate).
func splitGrossCents(totalGrossCents int64, rate float64) (netCents, vatCents int64) {
	if totalGrossCents <= 0 || rate <= 0 {
		return totalGrossCents, 0
	}
	vatCents = int64(math.Round(float64(totalGrossCents) * (rate / (1 + rate))))
	return totalGrossCents - vatCents, vatCents
}

func applyRoleDiscount(basePrice float64, discount *model.RoleDiscount) float64 {
	safeBase := basePrice
	if math.IsNaN(safeBase) || math.IsInf(safeBase, 0) {
		safeBase = 0
	}
	if discount == nil || !discount.IsActive || discount.DiscountValue <= 0 {
		return roundMoney(math.Max(0, safeBase))
	}

	if discount.DiscountType == model.DiscountPercent {
		percent := math.Min(100, math.Max(0, discount.DiscountValue))
		return roundMoney(math.Max(0, safeBase*(1-percent/100)))
	}
	return roundMoney(math.Max(0, safeBase-discount.DiscountValue))
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func centsFromEur(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v * 100))
}

func eurFromCents(cents int64) float64 {
	return float64(cents) / 100
}

func totalsFromQuote(q *model.PricingQuote) dto.QuoteTotals {
	return dto.QuoteTotals{
		SubtotalGross: eurFromCents(q.SubtotalGrossCents),
		ShippingGross: eurFromCents(q.ShippingGrossCents),
		TotalGross:    eurFromCents(q.TotalGrossCents),
		SubtotalNet:   eurFromCents(q.SubtotalNetCents),
		VATAmount:     eurFromCents(q.VATCents),
	}
}
