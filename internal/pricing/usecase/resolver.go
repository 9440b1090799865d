package usecase

import (
	"sort"
	"strings"

	"github.com/RimBin/yakiwood-shop-sub002/internal/model"
)

// Rule matching works over tagged per-dimension constraints instead of raw
// nullable columns, so wildcard semantics live in exactly one place.

type constraintKind int

const (
	constraintWildcard constraintKind = iota
	constraintExactText
	constraintExactNumber
	constraintRange
)

type dimensionConstraint struct {
	kind constraintKind
	text string
	num  float64
	// Half-open interval [min, max); either bound may be absent.
	min *float64
	max *float64
}

func textConstraint(v *string) dimensionConstraint {
	if v == nil {
		return dimensionConstraint{kind: constraintWildcard}
	}
	return dimensionConstraint{kind: constraintExactText, text: *v}
}

func numberConstraint(v *float64) dimensionConstraint {
	if v == nil {
		return dimensionConstraint{kind: constraintWildcard}
	}
	return dimensionConstraint{kind: constraintExactNumber, num: *v}
}

func rangeConstraint(min, max *float64) dimensionConstraint {
	if min == nil && max == nil {
		return dimensionConstraint{kind: constraintWildcard}
	}
	return dimensionConstraint{kind: constraintRange, min: min, max: max}
}

// weight is the constraint's contribution to specificity: one per non-null
// scoping column, so a two-sided range counts twice.
func (c dimensionConstraint) weight() int {
	switch c.kind {
	case constraintWildcard:
		return 0
	case constraintRange:
		w := 0
		if c.min != nil {
			w++
		}
		if c.max != nil {
			w++
		}
		return w
	default:
		return 1
	}
}

func (c dimensionConstraint) matchText(v *string) bool {
	if c.kind == constraintWildcard {
		return true
	}
	return v != nil && *v == c.text
}

func (c dimensionConstraint) matchNumber(v *float64) bool {
	if c.kind == constraintWildcard {
		return true
	}
	return v != nil && *v == c.num
}

func (c dimensionConstraint) matchRange(v *float64) bool {
	if c.kind == constraintWildcard {
		return true
	}
	// A range-scoped rule is excluded outright when the caller supplied no
	// value; the bound is never silently defaulted.
	if v == nil {
		return false
	}
	if c.min != nil && *v < *c.min {
		return false
	}
	if c.max != nil && *v >= *c.max {
		return false
	}
	return true
}

// matchRule reports whether the rule's constraints all hold for the selector
// set and, if so, the rule's specificity.
func matchRule(rule model.ConfigurationPriceRule, sel model.PriceSelectors) (int, bool) {
	usage := textConstraint(rule.UsageType)
	profile := textConstraint(rule.ProfileVariantID)
	color := textConstraint(rule.ColorVariantID)
	thickness := textConstraint(rule.ThicknessOptionID)
	width := numberConstraint(rule.WidthMm)
	length := numberConstraint(rule.LengthMm)
	cartArea := rangeConstraint(rule.MinCartAreaM2, rule.MaxCartAreaM2)

	if !usage.matchText(sel.UsageType) ||
		!profile.matchText(sel.ProfileVariantID) ||
		!color.matchText(sel.ColorVariantID) ||
		!thickness.matchText(sel.ThicknessOptionID) ||
		!width.matchNumber(sel.WidthMm) ||
		!length.matchNumber(sel.LengthMm) ||
		!cartArea.matchRange(sel.CartTotalAreaM2) {
		return 0, false
	}

	specificity := usage.weight() + profile.weight() + color.weight() + thickness.weight() +
		width.weight() + length.weight() + cartArea.weight()
	return specificity, true
}

// resolveFromRules ranks the matching candidates: highest specificity wins,
// ties break by descending rule id. The tie-break is a documented policy, not
// an accident of query ordering.
func resolveFromRules(rules []model.ConfigurationPriceRule, sel model.PriceSelectors) (*model.ResolvedPrice, bool) {
	type ranked struct {
		rule        model.ConfigurationPriceRule
		specificity int
	}

	var candidates []ranked
	for _, rule := range rules {
		if !rule.IsActive || rule.ProductID != sel.ProductID {
			continue
		}
		if spec, ok := matchRule(rule, sel); ok {
			candidates = append(candidates, ranked{rule: rule, specificity: spec})
		}
	}

	if len(candidates) == 0 {
		return nil, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].specificity != candidates[j].specificity {
			return candidates[i].specificity > candidates[j].specificity
		}
		return strings.Compare(candidates[i].rule.ID, candidates[j].rule.ID) > 0
	})

	best := candidates[0]
	return &model.ResolvedPrice{
		UnitPricePerM2: best.rule.UnitPricePerM2,
		MatchedRuleID:  best.rule.ID,
		Specificity:    best.specificity,
	}, true
}
