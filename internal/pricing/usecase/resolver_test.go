package usecase

import (
	"testing"

	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func rule(id string, price float64, mutate func(*model.ConfigurationPriceRule)) model.ConfigurationPriceRule {
	r := model.ConfigurationPriceRule{
		ID:             id,
		ProductID:      "board-1",
		UnitPricePerM2: price,
		IsActive:       true,
	}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func TestResolveMostSpecificRuleWins(t *testing.T) {
	rules := []model.ConfigurationPriceRule{
		rule("r-base", 40, nil),
		rule("r-facade", 45, func(r *model.ConfigurationPriceRule) {
			r.UsageType = strPtr("facade")
		}),
		rule("r-facade-95", 50, func(r *model.ConfigurationPriceRule) {
			r.UsageType = strPtr("facade")
			r.WidthMm = f64Ptr(95)
		}),
	}

	sel := model.PriceSelectors{
		ProductID: "board-1",
		UsageType: strPtr("facade"),
		WidthMm:   f64Ptr(95),
	}

	resolved, ok := resolveFromRules(rules, sel)
	require.True(t, ok)
	assert.Equal(t, "r-facade-95", resolved.MatchedRuleID)
	assert.Equal(t, 2, resolved.Specificity)
	assert.Equal(t, 50.0, resolved.UnitPricePerM2)
}

func TestResolveWildcardRuleMatchesAnything(t *testing.T) {
	rules := []model.ConfigurationPriceRule{rule("r-base", 40, nil)}

	resolved, ok := resolveFromRules(rules, model.PriceSelectors{
		ProductID: "board-1",
		UsageType: strPtr("terrace"),
		WidthMm:   f64Ptr(120),
	})
	require.True(t, ok)
	assert.Equal(t, "r-base", resolved.MatchedRuleID)
	assert.Zero(t, resolved.Specificity)
}

func TestResolveNoMatch(t *testing.T) {
	rules := []model.ConfigurationPriceRule{
		rule("r-facade", 45, func(r *model.ConfigurationPriceRule) {
			r.UsageType = strPtr("facade")
		}),
	}

	_, ok := resolveFromRules(rules, model.PriceSelectors{
		ProductID: "board-1",
		UsageType: strPtr("terrace"),
	})
	assert.False(t, ok)

	// other product's rules never apply
	_, ok = resolveFromRules(rules, model.PriceSelectors{
		ProductID: "board-2",
		UsageType: strPtr("facade"),
	})
	assert.False(t, ok)
}

func TestResolveInactiveRuleIgnored(t *testing.T) {
	rules := []model.ConfigurationPriceRule{
		rule("r-inactive", 10, func(r *model.ConfigurationPriceRule) {
			r.IsActive = false
		}),
		rule("r-base", 40, nil),
	}

	resolved, ok := resolveFromRules(rules, model.PriceSelectors{ProductID: "board-1"})
	require.True(t, ok)
	assert.Equal(t, "r-base", resolved.MatchedRuleID)
}

func TestResolveCartAreaRange(t *testing.T) {
	rules := []model.ConfigurationPriceRule{
		rule("r-base", 45, nil),
		rule("r-volume", 38, func(r *model.ConfigurationPriceRule) {
			r.MinCartAreaM2 = f64Ptr(50)
			r.MaxCartAreaM2 = f64Ptr(200)
		}),
	}

	// below the band
	resolved, ok := resolveFromRules(rules, model.PriceSelectors{
		ProductID:       "board-1",
		CartTotalAreaM2: f64Ptr(10),
	})
	require.True(t, ok)
	assert.Equal(t, "r-base", resolved.MatchedRuleID)

	// inside the band, and the range counts both bounds toward specificity
	resolved, ok = resolveFromRules(rules, model.PriceSelectors{
		ProductID:       "board-1",
		CartTotalAreaM2: f64Ptr(50),
	})
	require.True(t, ok)
	assert.Equal(t, "r-volume", resolved.MatchedRuleID)
	assert.Equal(t, 2, resolved.Specificity)

	// max bound is exclusive
	resolved, ok = resolveFromRules(rules, model.PriceSelectors{
		ProductID:       "board-1",
		CartTotalAreaM2: f64Ptr(200),
	})
	require.True(t, ok)
	assert.Equal(t, "r-base", resolved.MatchedRuleID)
}

func TestResolveRangeRuleExcludedWithoutCartArea(t *testing.T) {
	rules := []model.ConfigurationPriceRule{
		rule("r-volume", 38, func(r *model.ConfigurationPriceRule) {
			r.MinCartAreaM2 = f64Ptr(50)
		}),
	}

	// the bound is never defaulted when the selector carries no cart area
	_, ok := resolveFromRules(rules, model.PriceSelectors{ProductID: "board-1"})
	assert.False(t, ok)
}

func TestResolveTieBreaksByDescendingID(t *testing.T) {
	mutate := func(r *model.ConfigurationPriceRule) {
		r.UsageType = strPtr("facade")
	}
	rules := []model.ConfigurationPriceRule{
		rule("rule-a", 41, mutate),
		rule("rule-c", 43, mutate),
		rule("rule-b", 42, mutate),
	}

	sel := model.PriceSelectors{ProductID: "board-1", UsageType: strPtr("facade")}

	for i := 0; i < 10; i++ {
		resolved, ok := resolveFromRules(rules, sel)
		require.True(t, ok)
		assert.Equal(t, "rule-c", resolved.MatchedRuleID)
	}
}
