package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/cloudcurio/arbfinder/internal/metadata"
	"github.com/cloudcurio/arbfinder/internal/model"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Generate listing metadata for a single item",
	Long: `Generate specifications, quality scores and tags for an item.

Example:
  metadata --input item.json`,
	RunE: runMetadata,
}

func init() {
	metadataCmd.Flags().String("input", "", "JSON file holding a single item")
	_ = metadataCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(metadataCmd)
}

func runMetadata(cmd *cobra.Command, _ []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return eris.Wrapf(err, "read %s", inputPath)
	}

	items, err := model.DecodeItems(wrapSingle(raw))
	if err != nil {
		return err
	}
	if len(items) != 1 {
		return eris.Errorf("%s must hold exactly one item (got %d)", inputPath, len(items))
	}

	result := metadata.New().Generate(items[0], time.Now().UTC())

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(result), "metadata: encode result")
}
