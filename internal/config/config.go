// Package config loads application configuration from config.yaml and the
// environment, and owns global logger initialization.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cloudcurio/arbfinder/internal/valuation"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig      `yaml:"store" mapstructure:"store"`
	Valuation valuation.Config `yaml:"valuation" mapstructure:"valuation"`
	Batch     BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Comps     CompsConfig      `yaml:"comps" mapstructure:"comps"`
	Log       LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BatchConfig configures the batch processor.
type BatchConfig struct {
	Concurrency      int `yaml:"concurrency" mapstructure:"concurrency"`
	SoftDeadlineSecs int `yaml:"soft_deadline_secs" mapstructure:"soft_deadline_secs"`
}

// CompsConfig configures comparable grouping and matching.
type CompsConfig struct {
	SimilarityThreshold int `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ARBFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "arbfinder.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("batch.concurrency", 0)
	v.SetDefault("batch.soft_deadline_secs", 0)
	v.SetDefault("comps.similarity_threshold", 86)

	val := valuation.DefaultConfig()
	v.SetDefault("valuation.linear_rate_per_year", val.LinearRatePerYear)
	v.SetDefault("valuation.floor_ratio", val.FloorRatio)
	v.SetDefault("valuation.exp_decay_base", val.ExpDecayBase)
	v.SetDefault("valuation.s_curve_floor", val.SCurveFloor)
	v.SetDefault("valuation.s_curve_ceiling", val.SCurveCeiling)
	v.SetDefault("valuation.s_curve_midpoint", val.SCurveMidpoint)
	v.SetDefault("valuation.s_curve_onset", val.SCurveOnset)
	v.SetDefault("valuation.s_curve_steepness", val.SCurveSteepness)
	v.SetDefault("valuation.max_cumulative_impact", val.MaxCumulativeImpact)
	v.SetDefault("valuation.market_min", val.MarketMin)
	v.SetDefault("valuation.market_max", val.MarketMax)
	v.SetDefault("valuation.seasonal_min", val.SeasonalMin)
	v.SetDefault("valuation.seasonal_max", val.SeasonalMax)
	v.SetDefault("valuation.completeness_floor", val.CompletenessFloor)
	v.SetDefault("valuation.clamp_min_ratio", val.ClampMinRatio)
	v.SetDefault("valuation.clamp_max_ratio", val.ClampMaxRatio)
	v.SetDefault("valuation.fair_range_spread", val.FairRangeSpread)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
