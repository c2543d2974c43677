package valuation

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/cloudcurio/arbfinder/internal/model"
)

// ComputePrice runs every factor calculator in a fixed order, multiplies the
// resulting multipliers against the base price, clamps the product to the
// configured band and returns the full breakdown. It is a pure function of
// the item: identical inputs, including the evaluation date, yield identical
// results.
func (e *Engine) ComputePrice(item model.Item) (*model.PriceAdjustmentResult, error) {
	if item.BasePrice <= 0 {
		return nil, eris.Wrapf(model.ErrValidation, "valuation: base price must be > 0, got %v", item.BasePrice)
	}
	if item.Category != "" && item.EvaluationDate.IsZero() {
		return nil, eris.Wrap(model.ErrValidation, "valuation: evaluation date required for seasonal adjustment")
	}

	dm := item.Depreciation
	if dm == "" {
		dm = model.ModelExponential
	}

	base := item.BasePrice
	var factors []model.FactorContribution
	product := 1.0

	apply := func(name string, multiplier float64, description string) {
		factors = append(factors, model.FactorContribution{
			Factor:          name,
			Multiplier:      multiplier,
			Amount:          (multiplier - 1) * base,
			ContributionPct: (multiplier - 1) * 100,
			Description:     description,
		})
		product *= multiplier
	}

	depreciation, err := e.Depreciation(base, item.AgeYears, dm)
	if err != nil {
		return nil, err
	}
	apply("depreciation", depreciation, fmt.Sprintf("%.1f years, %s model", item.AgeYears, dm))

	condition, err := e.ConditionMultiplier(item.Condition)
	if err != nil {
		return nil, err
	}
	apply("condition", condition, fmt.Sprintf("condition: %s", item.Condition))

	// Each damage gets its own breakdown line, but the multiplier applied
	// to the price reflects the additive-then-clamped combined impact.
	if len(item.Damages) > 0 {
		for i, d := range item.Damages {
			impact := e.damageImpact(d)
			factors = append(factors, model.FactorContribution{
				Factor:          fmt.Sprintf("damage_%d", i+1),
				Multiplier:      1 - impact,
				Amount:          -impact * base,
				ContributionPct: -impact * 100,
				Description:     fmt.Sprintf("%s %s on %s", d.Severity, d.Type, d.Location),
			})
		}
		product *= 1 - e.AssessDamage(item.Damages)
	}

	market, err := e.MarketMultiplier(item.SupplyCount, item.RecentSalesCount)
	if err != nil {
		return nil, err
	}
	apply("market", market, fmt.Sprintf("supply %d, recent sales %d", item.SupplyCount, item.RecentSalesCount))

	if item.Category != "" {
		seasonal := e.SeasonalMultiplier(item.Category, item.EvaluationDate)
		apply("seasonal", seasonal, fmt.Sprintf("category %s in %s", item.Category, item.EvaluationDate.Month()))
	}

	completeness, err := e.CompletenessMultiplier(item.CompletenessPct)
	if err != nil {
		return nil, err
	}
	apply("completeness", completeness, fmt.Sprintf("%.1f%% complete", item.CompletenessPct))

	raw := base * product
	final := clamp(raw, e.cfg.ClampMinRatio*base, e.cfg.ClampMaxRatio*base)

	return &model.PriceAdjustmentResult{
		BasePrice:          base,
		FinalPrice:         final,
		TotalAdjustmentPct: (final - base) / base * 100,
		Factors:            factors,
		FairMarketRange: model.PriceRange{
			Min: final * (1 - e.cfg.FairRangeSpread),
			Max: final * (1 + e.cfg.FairRangeSpread),
		},
		Clamped:        final != raw,
		EvaluationDate: item.EvaluationDate,
	}, nil
}
