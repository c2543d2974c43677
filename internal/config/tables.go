package config

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/cloudcurio/arbfinder/internal/model"
	"github.com/cloudcurio/arbfinder/internal/valuation"
)

// tablesFile is the YAML shape of a lookup-table override file. Every
// section is optional; omitted entries keep their shipped values.
type tablesFile struct {
	Condition map[string]float64 `yaml:"condition"`

	Damage []struct {
		Type     string  `yaml:"type"`
		Location string  `yaml:"location"`
		Severity string  `yaml:"severity"`
		Impact   float64 `yaml:"impact"`
	} `yaml:"damage"`

	// Seasonal maps category -> month number (1-12) -> multiplier.
	Seasonal map[string]map[int]float64 `yaml:"seasonal"`
}

// LoadTables reads a YAML table-override file and merges it over the
// shipped lookup tables. An empty path returns the defaults unchanged.
func LoadTables(path string) (valuation.Tables, error) {
	tables := valuation.DefaultTables()
	if path == "" {
		return tables, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return tables, eris.Wrapf(err, "config: read tables file %s", path)
	}

	var f tablesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return tables, eris.Wrapf(err, "config: parse tables file %s", path)
	}

	for grade, mult := range f.Condition {
		tables.Condition[model.Condition(grade)] = mult
	}

	for _, d := range f.Damage {
		key := valuation.DamageKey{
			Type:     model.DamageType(d.Type),
			Location: model.DamageLocation(d.Location),
			Severity: model.DamageSeverity(d.Severity),
		}
		tables.Damage[key] = d.Impact
	}

	for category, months := range f.Seasonal {
		if tables.Seasonal[category] == nil {
			tables.Seasonal[category] = make(map[time.Month]float64, len(months))
		}
		for m, mult := range months {
			if m < 1 || m > 12 {
				return tables, eris.Errorf("config: tables file %s: month %d out of range for category %q", path, m, category)
			}
			tables.Seasonal[category][time.Month(m)] = mult
		}
	}

	if err := tables.Validate(); err != nil {
		return tables, eris.Wrapf(err, "config: tables file %s", path)
	}
	return tables, nil
}
