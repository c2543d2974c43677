package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudcurio/arbfinder/internal/model"
	"github.com/cloudcurio/arbfinder/internal/valuation"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "arbfinder.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 86, cfg.Comps.SimilarityThreshold)
	assert.Equal(t, valuation.DefaultConfig(), cfg.Valuation)
	require.NoError(t, cfg.Valuation.Validate())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ARBFINDER_LOG_LEVEL", "debug")
	t.Setenv("ARBFINDER_STORE_DRIVER", "postgres")
	t.Setenv("ARBFINDER_VALUATION_CLAMP_MAX_RATIO", "2.0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 2.0, cfg.Valuation.ClampMaxRatio)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "verbose", Format: "json"}))
}

func TestLoadTablesEmptyPath(t *testing.T) {
	tables, err := LoadTables("")
	require.NoError(t, err)
	assert.Equal(t, valuation.DefaultTables(), tables)
}

func TestLoadTablesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	content := `
condition:
  good: 0.70
damage:
  - type: dent
    location: front
    severity: severe
    impact: 0.22
seasonal:
  ski_equipment:
    12: 1.10
    7: 0.92
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tables, err := LoadTables(path)
	require.NoError(t, err)

	assert.Equal(t, 0.70, tables.Condition[model.ConditionGood])
	// Untouched entries keep their shipped values.
	assert.Equal(t, 1.00, tables.Condition[model.ConditionNew])

	key := valuation.DamageKey{
		Type:     model.DamageDent,
		Location: model.LocationFront,
		Severity: model.SeveritySevere,
	}
	assert.Equal(t, 0.22, tables.Damage[key])

	assert.Equal(t, 1.10, tables.Seasonal["ski_equipment"][time.December])
	assert.Equal(t, 0.92, tables.Seasonal["ski_equipment"][time.July])
}

func TestLoadTablesBadMonth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	content := "seasonal:\n  ski_equipment:\n    13: 1.05\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadTables(path)
	assert.Error(t, err)
}

func TestLoadTablesMissingFile(t *testing.T) {
	_, err := LoadTables(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
