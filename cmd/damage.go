package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var damageCmd = &cobra.Command{
	Use:   "damage",
	Short: "Assess cumulative damage impact for a set of damage entries",
	Long: `Assess damage impact in isolation.

Examples:
  damage --damage dent:front:moderate
  damage --damage dent:front:moderate --damage rust:bottom:minor`,
	RunE: runDamage,
}

func init() {
	damageCmd.Flags().StringArray("damage", nil, "damage entry as type:location:severity (repeatable)")
	rootCmd.AddCommand(damageCmd)
}

func runDamage(cmd *cobra.Command, _ []string) error {
	damageFlags, _ := cmd.Flags().GetStringArray("damage")
	damages, err := parseDamageFlag(damageFlags)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	impact := engine.AssessDamage(damages)

	out := struct {
		Entries    int     `json:"entries"`
		Impact     float64 `json:"impact"`
		Multiplier float64 `json:"multiplier"`
	}{len(damages), impact, 1 - impact}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(out), "damage: encode result")
}
