package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloudcurio/arbfinder/internal/model"
)

func TestAssessDamage_Empty(t *testing.T) {
	e := NewDefault()
	assert.Equal(t, 0.0, e.AssessDamage(nil))
	assert.Equal(t, 0.0, e.AssessDamage([]model.DamageEntry{}))
	assert.Equal(t, 1.0, e.DamageMultiplier(nil))
}

func TestAssessDamage_KnownTuples(t *testing.T) {
	e := NewDefault()

	// dent * passenger * moderate = 0.10 * 1.0 * 1.0 * 1.0
	got := e.AssessDamage([]model.DamageEntry{
		{Type: model.DamageDent, Location: model.LocationPassenger, Severity: model.SeverityModerate},
	})
	assert.InDelta(t, 0.10, got, 1e-9)

	// rust * bottom * minor = 0.10 * 1.4 * 0.7 * 0.5
	got = e.AssessDamage([]model.DamageEntry{
		{Type: model.DamageRust, Location: model.LocationBottom, Severity: model.SeverityMinor},
	})
	assert.InDelta(t, 0.049, got, 1e-9)

	// Multiple damages stack additively.
	got = e.AssessDamage([]model.DamageEntry{
		{Type: model.DamageDent, Location: model.LocationPassenger, Severity: model.SeverityModerate},
		{Type: model.DamageRust, Location: model.LocationBottom, Severity: model.SeverityMinor},
	})
	assert.InDelta(t, 0.149, got, 1e-9)
}

func TestAssessDamage_SingleEntryCap(t *testing.T) {
	e := NewDefault()

	// mechanical * front * severe would be 0.56 unclamped; a single damage
	// tops out at 25% of value.
	got := e.AssessDamage([]model.DamageEntry{
		{Type: model.DamageMechanical, Location: model.LocationFront, Severity: model.SeveritySevere},
	})
	assert.InDelta(t, 0.25, got, 1e-9)
}

func TestAssessDamage_CumulativeClamp(t *testing.T) {
	e := NewDefault()

	severe := model.DamageEntry{
		Type: model.DamageMechanical, Location: model.LocationFront, Severity: model.SeveritySevere,
	}
	got := e.AssessDamage([]model.DamageEntry{severe, severe, severe})
	assert.Equal(t, 0.60, got, "three 0.25 impacts clamp to the cumulative maximum")
	assert.InDelta(t, 0.40, e.DamageMultiplier([]model.DamageEntry{severe, severe, severe}), 1e-9)
}

func TestAssessDamage_SeverityMonotone(t *testing.T) {
	e := NewDefault()

	for typ := range damageTypeWeights {
		for loc := range damageLocationWeights {
			minor := e.AssessDamage([]model.DamageEntry{{Type: typ, Location: loc, Severity: model.SeverityMinor}})
			moderate := e.AssessDamage([]model.DamageEntry{{Type: typ, Location: loc, Severity: model.SeverityModerate}})
			severe := e.AssessDamage([]model.DamageEntry{{Type: typ, Location: loc, Severity: model.SeveritySevere}})
			assert.LessOrEqual(t, minor, moderate, "%s/%s", typ, loc)
			assert.LessOrEqual(t, moderate, severe, "%s/%s", typ, loc)
		}
	}
}

func TestAssessDamage_UnknownTupleIsNeutral(t *testing.T) {
	e := NewDefault()

	// Crawler data is noisy; an unmodeled tuple must contribute nothing
	// rather than abort the calculation.
	got := e.AssessDamage([]model.DamageEntry{
		{Type: model.DamageType("water"), Location: model.DamageLocation("middle"), Severity: model.SeverityMinor},
	})
	assert.Equal(t, 0.0, got)

	// A known damage next to an unknown one still counts.
	got = e.AssessDamage([]model.DamageEntry{
		{Type: model.DamageType("water"), Location: model.DamageLocation("middle"), Severity: model.SeverityMinor},
		{Type: model.DamageDent, Location: model.LocationPassenger, Severity: model.SeverityModerate},
	})
	assert.InDelta(t, 0.10, got, 1e-9)
}
