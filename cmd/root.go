package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudcurio/arbfinder/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "arbfinder",
	Short: "Price valuation engine for secondhand-market arbitrage",
	Long:  "Values used items through depreciation, condition, damage, market, seasonal and completeness factors, generates listing metadata, and stores results for comp analysis.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("tables", "", "path to a lookup-table override YAML file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
