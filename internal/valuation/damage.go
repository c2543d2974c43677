package valuation

import (
	"go.uber.org/zap"

	"github.com/cloudcurio/arbfinder/internal/model"
)

// AssessDamage sums the impact fractions of all damages and clamps the total
// to the configured cumulative maximum. Impacts stack additively before
// clamping; multiplicative stacking would drive several simultaneous damages
// toward a near-zero price. Tuples missing from the matrix contribute zero
// impact with a logged warning, because crawler-sourced damage data is noisy
// and must never abort a calculation.
func (e *Engine) AssessDamage(damages []model.DamageEntry) float64 {
	var total float64
	for _, d := range damages {
		total += e.damageImpact(d)
	}
	return clamp(total, 0, e.cfg.MaxCumulativeImpact)
}

// damageImpact resolves a single damage tuple against the matrix.
func (e *Engine) damageImpact(d model.DamageEntry) float64 {
	impact, ok := e.tables.Damage[DamageKey{d.Type, d.Location, d.Severity}]
	if !ok {
		zap.L().Warn("valuation: damage tuple not in matrix, assuming neutral",
			zap.String("damage_type", string(d.Type)),
			zap.String("location", string(d.Location)),
			zap.String("severity", string(d.Severity)),
		)
		return 0
	}
	return impact
}

// DamageMultiplier converts the combined impact of the given damages into a
// price multiplier.
func (e *Engine) DamageMultiplier(damages []model.DamageEntry) float64 {
	return 1 - e.AssessDamage(damages)
}
