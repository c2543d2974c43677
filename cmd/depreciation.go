package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/cloudcurio/arbfinder/internal/model"
)

var depreciationCmd = &cobra.Command{
	Use:   "depreciation",
	Short: "Compute the depreciation multiplier for an age and model",
	Long: `Compute the depreciation multiplier in isolation.

Examples:
  depreciation --base-price 500 --age 3 --model linear
  depreciation --base-price 25000 --age 7 --model s_curve`,
	RunE: runDepreciation,
}

func init() {
	f := depreciationCmd.Flags()
	f.Float64("base-price", 0, "original retail price")
	f.Float64("age", 0, "age in years")
	f.String("model", "exponential", "depreciation model: linear, exponential or s_curve")

	rootCmd.AddCommand(depreciationCmd)
}

func runDepreciation(cmd *cobra.Command, _ []string) error {
	basePrice, _ := cmd.Flags().GetFloat64("base-price")
	age, _ := cmd.Flags().GetFloat64("age")
	depModel, _ := cmd.Flags().GetString("model")

	engine, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	multiplier, err := engine.Depreciation(basePrice, age, model.DepreciationModel(depModel))
	if err != nil {
		return err
	}

	out := struct {
		Model           string  `json:"model"`
		AgeYears        float64 `json:"age_years"`
		Multiplier      float64 `json:"multiplier"`
		DepreciatedBase float64 `json:"depreciated_base"`
	}{depModel, age, multiplier, basePrice * multiplier}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(out), "depreciation: encode result")
}
