package valuation

import (
	"github.com/rotisserie/eris"

	"github.com/cloudcurio/arbfinder/internal/model"
)

// Demand ratio breakpoints for the piecewise market mapping. Below the low
// break the market floor applies; above the high break the ceiling applies;
// a balanced ratio of 1.0 is neutral.
const (
	marketRatioLow  = 0.25
	marketRatioHigh = 4.0
)

// MarketMultiplier maps supply and recent-sales counts to a bounded demand
// multiplier. The ratio recent_sales / max(supply, 1) feeds a monotonic
// piecewise-linear map clamped to the configured bounds. Zero supply with
// zero sales is insufficient signal and stays neutral.
func (e *Engine) MarketMultiplier(supplyCount, recentSalesCount int) (float64, error) {
	if supplyCount < 0 {
		return 0, eris.Wrapf(model.ErrValidation, "valuation: supply_count must be >= 0, got %d", supplyCount)
	}
	if recentSalesCount < 0 {
		return 0, eris.Wrapf(model.ErrValidation, "valuation: recent_sales_count must be >= 0, got %d", recentSalesCount)
	}
	if supplyCount == 0 && recentSalesCount == 0 {
		return 1.0, nil
	}

	ratio := float64(recentSalesCount) / float64(max(supplyCount, 1))

	var m float64
	switch {
	case ratio <= marketRatioLow:
		m = e.cfg.MarketMin
	case ratio < 1:
		// Oversupply side: interpolate floor -> neutral.
		m = e.cfg.MarketMin + (1-e.cfg.MarketMin)*(ratio-marketRatioLow)/(1-marketRatioLow)
	case ratio < marketRatioHigh:
		// High-demand side: interpolate neutral -> ceiling.
		m = 1 + (e.cfg.MarketMax-1)*(ratio-1)/(marketRatioHigh-1)
	default:
		m = e.cfg.MarketMax
	}
	return clamp(m, e.cfg.MarketMin, e.cfg.MarketMax), nil
}
