package valuation

import (
	"time"

	"go.uber.org/zap"
)

// SeasonalMultiplier maps (category, month of the evaluation date) to a
// bounded timing multiplier. Categories absent from the table are assumed to
// have no seasonal effect; that lookup miss is logged at debug level because
// most categories are legitimately unmodeled. The evaluation date arrives as
// an explicit parameter so batch runs stay reproducible.
func (e *Engine) SeasonalMultiplier(category string, evaluationDate time.Time) float64 {
	if category == "" {
		return 1.0
	}
	months, ok := e.tables.Seasonal[category]
	if !ok {
		zap.L().Debug("valuation: category has no seasonal table, assuming neutral",
			zap.String("category", category))
		return 1.0
	}
	m, ok := months[evaluationDate.Month()]
	if !ok {
		return 1.0
	}
	return clamp(m, e.cfg.SeasonalMin, e.cfg.SeasonalMax)
}
