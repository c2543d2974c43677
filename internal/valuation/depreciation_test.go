package valuation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudcurio/arbfinder/internal/model"
)

func TestDepreciation_Linear(t *testing.T) {
	e := NewDefault()

	tests := []struct {
		age  float64
		want float64
	}{
		{0, 1.0},
		{2, 0.80},
		{5, 0.50},
		{9, 0.10},  // exactly at the floor
		{20, 0.10}, // would be negative without the floor
	}
	for _, tt := range tests {
		got, err := e.Depreciation(100, tt.age, model.ModelLinear)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "age %v", tt.age)
	}
}

func TestDepreciation_Exponential(t *testing.T) {
	e := NewDefault()

	got, err := e.Depreciation(100, 0, model.ModelExponential)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = e.Depreciation(100, 2, model.ModelExponential)
	require.NoError(t, err)
	assert.InDelta(t, 0.7225, got, 1e-9) // 0.85^2

	// Very old items bottom out at the floor ratio.
	got, err = e.Depreciation(100, 50, model.ModelExponential)
	require.NoError(t, err)
	assert.Equal(t, 0.10, got)
}

func TestDepreciation_MonotoneNonIncreasing(t *testing.T) {
	e := NewDefault()

	for _, dm := range []model.DepreciationModel{model.ModelLinear, model.ModelExponential} {
		prev := 2.0
		for age := 0.0; age <= 30; age += 0.5 {
			got, err := e.Depreciation(100, age, dm)
			require.NoError(t, err)
			assert.LessOrEqual(t, got, prev, "%s at age %v", dm, age)
			prev = got
		}
	}
}

func TestDepreciation_SCurve(t *testing.T) {
	e := NewDefault()

	// Age 0 sits just below full value: floor + decay + residual rise.
	got, err := e.Depreciation(100, 0, model.ModelSCurve)
	require.NoError(t, err)
	assert.InDelta(t, 0.9824, got, 0.001)

	// Dips through middle age, then recovers past the onset.
	ages := []float64{0, 2, 4, 6, 8}
	prev := 2.0
	for _, age := range ages {
		m, err := e.Depreciation(100, age, model.ModelSCurve)
		require.NoError(t, err)
		assert.Less(t, m, prev, "expected dip through age %v", age)
		prev = m
	}
	for _, age := range []float64{12, 16, 20, 30} {
		m, err := e.Depreciation(100, age, model.ModelSCurve)
		require.NoError(t, err)
		assert.Greater(t, m, prev, "expected recovery at age %v", age)
		prev = m
	}

	// Very old collectibles asymptote to the appreciation ceiling.
	old, err := e.Depreciation(100, 60, model.ModelSCurve)
	require.NoError(t, err)
	assert.Greater(t, old, 1.0)
	assert.InDelta(t, e.Config().SCurveCeiling, old, 0.01)
}

func TestDepreciation_Validation(t *testing.T) {
	e := NewDefault()

	_, err := e.Depreciation(0, 1, model.ModelLinear)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))

	_, err = e.Depreciation(100, -1, model.ModelLinear)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))

	// Unknown model is a deliberate domain decision gone wrong: fail fast.
	_, err = e.Depreciation(100, 1, model.DepreciationModel("parabolic"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))
	assert.Contains(t, err.Error(), "parabolic")
}
