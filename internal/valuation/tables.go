package valuation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/cloudcurio/arbfinder/internal/model"
)

// DamageKey addresses one cell of the damage assessment matrix.
type DamageKey struct {
	Type     model.DamageType
	Location model.DamageLocation
	Severity model.DamageSeverity
}

// Tables holds the lookup data injected into the engine at construction
// time. They are read-only after construction; test-time overrides build a
// fresh Tables value instead of mutating a shared one.
type Tables struct {
	// Condition maps every condition grade to a multiplier. It must be
	// total over the condition enumeration.
	Condition map[model.Condition]float64

	// Damage maps (type, location, severity) to a negative impact
	// fraction. Missing tuples contribute zero impact, never an error.
	Damage map[DamageKey]float64

	// Seasonal maps category -> month -> multiplier. Categories absent
	// from the table have no seasonal effect.
	Seasonal map[string]map[time.Month]float64
}

// Per-dimension damage weights, scaled against a 10% base impact.
var (
	damageBaseImpact = 0.10

	damageTypeWeights = map[model.DamageType]float64{
		model.DamageAesthetic:  0.5,
		model.DamageScratch:    0.6,
		model.DamageDent:       1.0,
		model.DamageRust:       1.4,
		model.DamageMechanical: 2.0,
	}

	damageLocationWeights = map[model.DamageLocation]float64{
		model.LocationBottom:    0.7,
		model.LocationRear:      0.8,
		model.LocationPassenger: 1.0,
		model.LocationTop:       1.0,
		model.LocationDriver:    1.2,
		model.LocationFront:     1.4,
	}

	damageSeverityWeights = map[model.DamageSeverity]float64{
		model.SeverityMinor:    0.5,
		model.SeverityModerate: 1.0,
		model.SeveritySevere:   2.0,
	}
)

// Single-entry impact bounds. A lone severe mechanical failure tops out at
// 25% of value; the dimmest aesthetic blemish still costs something.
const (
	damageImpactMin = 0.01
	damageImpactMax = 0.25
)

// DefaultTables returns the shipped condition, damage and seasonal tables.
func DefaultTables() Tables {
	damage := make(map[DamageKey]float64, len(damageTypeWeights)*len(damageLocationWeights)*len(damageSeverityWeights))
	for typ, tw := range damageTypeWeights {
		for loc, lw := range damageLocationWeights {
			for sev, sw := range damageSeverityWeights {
				impact := damageBaseImpact * tw * lw * sw
				impact = clamp(impact, damageImpactMin, damageImpactMax)
				damage[DamageKey{typ, loc, sev}] = math.Round(impact*1000) / 1000
			}
		}
	}

	return Tables{
		Condition: map[model.Condition]float64{
			model.ConditionNew:       1.00,
			model.ConditionLikeNew:   0.92,
			model.ConditionExcellent: 0.85,
			model.ConditionVeryGood:  0.75,
			model.ConditionGood:      0.65,
			model.ConditionFair:      0.45,
			model.ConditionPoor:      0.28,
		},
		Damage: damage,
		Seasonal: map[string]map[time.Month]float64{
			"winter_gear": {
				time.December: 1.10, time.January: 1.10, time.February: 1.08,
				time.June: 0.92, time.July: 0.92, time.August: 0.92,
			},
			"summer_gear": {
				time.June: 1.10, time.July: 1.10, time.August: 1.08,
				time.December: 0.92, time.January: 0.92, time.February: 0.92,
			},
			"back_to_school": {
				time.July: 1.06, time.August: 1.10, time.September: 1.04,
			},
			"holiday_items": {
				time.November: 1.08, time.December: 1.10,
			},
		},
	}
}

// Validate checks table totality and value ranges. The condition table must
// cover every grade in the enumeration; damage impacts must be fractions.
func (t Tables) Validate() error {
	var errs []string

	for _, c := range model.Conditions {
		if _, ok := t.Condition[c]; !ok {
			errs = append(errs, fmt.Sprintf("condition table missing grade %q", c))
		}
	}
	for c, m := range t.Condition {
		if m <= 0 || m > 1 {
			errs = append(errs, fmt.Sprintf("condition multiplier for %q out of (0,1]: %v", c, m))
		}
	}

	for key, impact := range t.Damage {
		if impact < 0 || impact >= 1 {
			errs = append(errs, fmt.Sprintf("damage impact for %s/%s/%s out of [0,1): %v",
				key.Type, key.Location, key.Severity, impact))
		}
	}

	for category, months := range t.Seasonal {
		for month, m := range months {
			if m <= 0 {
				errs = append(errs, fmt.Sprintf("seasonal multiplier for %s/%s must be > 0: %v", category, month, m))
			}
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("valuation: table validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
