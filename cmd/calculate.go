package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudcurio/arbfinder/internal/model"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Compute an adjusted price for a single item",
	Long: `Compute an adjusted price with a full factor breakdown.

Provide the item either as a JSON file via --input, or through flags:

  calculate --base-price 500 --age 3 --condition good --completeness 85
  calculate --base-price 25000 --age 7 --condition very_good \
    --damage dent:front:moderate --damage rust:bottom:minor \
    --supply 15 --sales 8
  calculate --input item.json`,
	RunE: runCalculate,
}

func init() {
	f := calculateCmd.Flags()
	f.String("input", "", "JSON file holding a single item")
	f.Float64("base-price", 0, "original retail price")
	f.Float64("age", 0, "age in years")
	f.String("condition", "good", "condition grade")
	f.String("model", "exponential", "depreciation model: linear, exponential or s_curve")
	f.String("category", "", "seasonal category (empty disables seasonal adjustment)")
	f.Float64("completeness", 100, "completeness percentage 0-100")
	f.Int("supply", 0, "active listing count for market adjustment")
	f.Int("sales", 0, "recent sale count for market adjustment")
	f.StringArray("damage", nil, "damage entry as type:location:severity (repeatable)")
	f.String("date", "", "evaluation date as YYYY-MM-DD (default: today)")

	rootCmd.AddCommand(calculateCmd)
}

func runCalculate(cmd *cobra.Command, _ []string) error {
	item, err := itemFromFlags(cmd)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	result, err := engine.ComputePrice(item)
	if err != nil {
		return err
	}

	zap.L().Info("calculated price",
		zap.Float64("base_price", result.BasePrice),
		zap.Float64("final_price", result.FinalPrice),
		zap.Bool("clamped", result.Clamped))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(result), "calculate: encode result")
}

// itemFromFlags builds an item from --input if given, flags otherwise.
func itemFromFlags(cmd *cobra.Command) (model.Item, error) {
	f := cmd.Flags()

	if inputPath, _ := f.GetString("input"); inputPath != "" {
		raw, err := os.ReadFile(inputPath)
		if err != nil {
			return model.Item{}, eris.Wrapf(err, "read %s", inputPath)
		}
		items, err := model.DecodeItems(wrapSingle(raw))
		if err != nil {
			return model.Item{}, err
		}
		if len(items) != 1 {
			return model.Item{}, eris.Errorf("%s must hold exactly one item (got %d)", inputPath, len(items))
		}
		return items[0].WithEvaluationDate(time.Now().UTC()), nil
	}

	basePrice, _ := f.GetFloat64("base-price")
	age, _ := f.GetFloat64("age")
	condition, _ := f.GetString("condition")
	depModel, _ := f.GetString("model")
	category, _ := f.GetString("category")
	completeness, _ := f.GetFloat64("completeness")
	supply, _ := f.GetInt("supply")
	sales, _ := f.GetInt("sales")
	damageFlags, _ := f.GetStringArray("damage")
	dateStr, _ := f.GetString("date")

	damages, err := parseDamageFlag(damageFlags)
	if err != nil {
		return model.Item{}, err
	}

	evalDate := time.Now().UTC()
	if dateStr != "" {
		evalDate, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return model.Item{}, eris.Wrapf(err, "invalid --date %q", dateStr)
		}
	}

	return model.Item{
		BasePrice:        basePrice,
		AgeYears:         age,
		Condition:        model.Condition(condition),
		Damages:          damages,
		Category:         category,
		CompletenessPct:  completeness,
		SupplyCount:      supply,
		RecentSalesCount: sales,
		Depreciation:     model.DepreciationModel(depModel),
		EvaluationDate:   evalDate,
	}, nil
}

// wrapSingle lets --input accept either a bare object or a one-item array.
func wrapSingle(raw []byte) []byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return raw
		default:
			return append(append([]byte{'['}, raw...), ']')
		}
	}
	return raw
}
