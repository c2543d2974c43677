// Package valuation implements the price valuation engine: a set of pure
// factor calculators (depreciation, condition, damage, market, seasonal,
// completeness) composed into a clamped final price with a full breakdown.
package valuation

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Config holds the numeric knobs of every factor calculator. The defaults
// are the shipped calibration; tuning against historical sale data is a
// business decision.
type Config struct {
	// Depreciation.
	LinearRatePerYear float64 `yaml:"linear_rate_per_year" mapstructure:"linear_rate_per_year"`
	FloorRatio        float64 `yaml:"floor_ratio" mapstructure:"floor_ratio"`
	ExpDecayBase      float64 `yaml:"exp_decay_base" mapstructure:"exp_decay_base"`
	SCurveFloor       float64 `yaml:"s_curve_floor" mapstructure:"s_curve_floor"`
	SCurveCeiling     float64 `yaml:"s_curve_ceiling" mapstructure:"s_curve_ceiling"`
	SCurveMidpoint    float64 `yaml:"s_curve_midpoint" mapstructure:"s_curve_midpoint"`
	SCurveOnset       float64 `yaml:"s_curve_onset" mapstructure:"s_curve_onset"`
	SCurveSteepness   float64 `yaml:"s_curve_steepness" mapstructure:"s_curve_steepness"`

	// Damage.
	MaxCumulativeImpact float64 `yaml:"max_cumulative_impact" mapstructure:"max_cumulative_impact"`

	// Market.
	MarketMin float64 `yaml:"market_min" mapstructure:"market_min"`
	MarketMax float64 `yaml:"market_max" mapstructure:"market_max"`

	// Seasonal.
	SeasonalMin float64 `yaml:"seasonal_min" mapstructure:"seasonal_min"`
	SeasonalMax float64 `yaml:"seasonal_max" mapstructure:"seasonal_max"`

	// Completeness.
	CompletenessFloor float64 `yaml:"completeness_floor" mapstructure:"completeness_floor"`

	// Final clamp, as ratios of base price.
	ClampMinRatio float64 `yaml:"clamp_min_ratio" mapstructure:"clamp_min_ratio"`
	ClampMaxRatio float64 `yaml:"clamp_max_ratio" mapstructure:"clamp_max_ratio"`

	// Fair market range spread around the final price.
	FairRangeSpread float64 `yaml:"fair_range_spread" mapstructure:"fair_range_spread"`
}

// DefaultConfig returns the shipped calibration.
func DefaultConfig() Config {
	return Config{
		LinearRatePerYear: 0.10,
		FloorRatio:        0.10,
		ExpDecayBase:      0.85,
		SCurveFloor:       0.55,
		SCurveCeiling:     1.25,
		SCurveMidpoint:    4,
		SCurveOnset:       12,
		SCurveSteepness:   0.8,

		MaxCumulativeImpact: 0.60,

		MarketMin: 0.85,
		MarketMax: 1.15,

		SeasonalMin: 0.90,
		SeasonalMax: 1.10,

		CompletenessFloor: 0.70,

		ClampMinRatio: 0.10,
		ClampMaxRatio: 1.50,

		FairRangeSpread: 0.10,
	}
}

// Validate checks that a Config is internally consistent.
func (c Config) Validate() error {
	var errs []string

	if c.LinearRatePerYear < 0 {
		errs = append(errs, "linear_rate_per_year must be >= 0")
	}
	if c.FloorRatio <= 0 || c.FloorRatio >= 1 {
		errs = append(errs, "floor_ratio must be in (0,1)")
	}
	if c.ExpDecayBase <= 0 || c.ExpDecayBase >= 1 {
		errs = append(errs, "exp_decay_base must be in (0,1)")
	}
	if c.SCurveCeiling <= 1 {
		errs = append(errs, "s_curve_ceiling must be > 1")
	}
	if c.SCurveFloor <= 0 || c.SCurveFloor >= 1 {
		errs = append(errs, "s_curve_floor must be in (0,1)")
	}
	if c.SCurveOnset <= c.SCurveMidpoint {
		errs = append(errs, "s_curve_onset must be > s_curve_midpoint")
	}
	if c.SCurveSteepness <= 0 {
		errs = append(errs, "s_curve_steepness must be > 0")
	}
	if c.MaxCumulativeImpact <= 0 || c.MaxCumulativeImpact >= 1 {
		errs = append(errs, "max_cumulative_impact must be in (0,1)")
	}
	if c.MarketMin > 1 || c.MarketMax < 1 || c.MarketMin <= 0 {
		errs = append(errs, "market bounds must straddle 1.0")
	}
	if c.SeasonalMin > 1 || c.SeasonalMax < 1 || c.SeasonalMin <= 0 {
		errs = append(errs, "seasonal bounds must straddle 1.0")
	}
	if c.CompletenessFloor < 0 || c.CompletenessFloor >= 1 {
		errs = append(errs, "completeness_floor must be in [0,1)")
	}
	if c.ClampMinRatio <= 0 || c.ClampMaxRatio <= c.ClampMinRatio {
		errs = append(errs, fmt.Sprintf("clamp ratios invalid: [%.2f, %.2f]", c.ClampMinRatio, c.ClampMaxRatio))
	}
	if c.FairRangeSpread < 0 || c.FairRangeSpread >= 1 {
		errs = append(errs, "fair_range_spread must be in [0,1)")
	}

	if len(errs) > 0 {
		return eris.Errorf("valuation: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Engine evaluates items against an immutable configuration and lookup
// tables fixed at construction time. It holds no mutable state, so a single
// Engine is safe for concurrent use.
type Engine struct {
	cfg    Config
	tables Tables
}

// New builds an Engine after validating the config and tables.
func New(cfg Config, tables Tables) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, tables: tables}, nil
}

// NewDefault builds an Engine with the shipped config and tables.
func NewDefault() *Engine {
	return &Engine{cfg: DefaultConfig(), tables: DefaultTables()}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
