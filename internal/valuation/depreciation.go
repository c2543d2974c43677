package valuation

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/cloudcurio/arbfinder/internal/model"
)

// Depreciation converts item age into a price multiplier under the selected
// model. Model choice is a deliberate domain decision, so an unknown model
// is a validation error rather than a silent fallback.
//
//   - linear: steady loss per year, floored so the multiplier never reaches
//     zero. Suits electronics and vehicles.
//   - exponential: geometric decay, steep early and flattening later.
//   - s_curve: an initial dip followed by appreciation toward a ceiling
//     above 1.0. Suits collectibles and antiques.
func (e *Engine) Depreciation(basePrice, ageYears float64, dm model.DepreciationModel) (float64, error) {
	if basePrice <= 0 {
		return 0, eris.Wrapf(model.ErrValidation, "valuation: base price must be > 0, got %v", basePrice)
	}
	if ageYears < 0 {
		return 0, eris.Wrapf(model.ErrValidation, "valuation: age_years must be >= 0, got %v", ageYears)
	}

	switch dm {
	case model.ModelLinear:
		return math.Max(e.cfg.FloorRatio, 1-e.cfg.LinearRatePerYear*ageYears), nil
	case model.ModelExponential:
		return math.Max(e.cfg.FloorRatio, math.Pow(e.cfg.ExpDecayBase, ageYears)), nil
	case model.ModelSCurve:
		return e.sCurve(ageYears), nil
	default:
		return 0, eris.Wrapf(model.ErrValidation, "valuation: unknown depreciation model %q", dm)
	}
}

// sCurve sums two logistic terms: a decay from the age-0 value toward the
// floor centered on the midpoint age, and a later rise toward the
// appreciation ceiling centered on the onset age. The curve dips once and
// then recovers, asymptoting to the ceiling for very old items.
func (e *Engine) sCurve(age float64) float64 {
	k := e.cfg.SCurveSteepness
	floor := e.cfg.SCurveFloor
	ceiling := e.cfg.SCurveCeiling

	decay := (1 - floor) * logistic(-k*(age-e.cfg.SCurveMidpoint))
	rise := (ceiling - floor) * logistic(k*(age-e.cfg.SCurveOnset))
	return floor + decay + rise
}

func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
