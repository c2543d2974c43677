package main

import (
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudcurio/arbfinder/internal/comps"
	"github.com/cloudcurio/arbfinder/internal/model"
	"github.com/cloudcurio/arbfinder/internal/report"
)

var compsCmd = &cobra.Command{
	Use:   "comps",
	Short: "Match live listings against sold comps by title similarity",
	Long: `Group sold listings into comparable clusters by fuzzy title match,
then price live listings against those clusters and sort by discount.

Example:
  comps --sold sold.json --live live.json --output matches.csv`,
	RunE: runComps,
}

func init() {
	f := compsCmd.Flags()
	f.String("sold", "", "JSON file holding an array of sold listings")
	f.String("live", "", "JSON file holding an array of live listings")
	f.Int("threshold", 0, "similarity threshold 0-100 (0=config default)")
	f.String("output", "", "output CSV path (default: stdout)")
	f.Bool("save", false, "persist comp clusters to the store")
	_ = compsCmd.MarkFlagRequired("sold")
	_ = compsCmd.MarkFlagRequired("live")

	rootCmd.AddCommand(compsCmd)
}

func runComps(cmd *cobra.Command, _ []string) error {
	soldPath, _ := cmd.Flags().GetString("sold")
	livePath, _ := cmd.Flags().GetString("live")
	threshold, _ := cmd.Flags().GetInt("threshold")
	outputPath, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")

	if threshold == 0 {
		threshold = cfg.Comps.SimilarityThreshold
	}

	sold, err := readListings(soldPath)
	if err != nil {
		return err
	}
	live, err := readListings(livePath)
	if err != nil {
		return err
	}

	clusters := comps.Group(sold, threshold)
	rows := comps.Match(live, clusters, threshold)
	comps.SortByDiscount(rows)

	zap.L().Info("matched comps",
		zap.Int("sold", len(sold)),
		zap.Int("live", len(live)),
		zap.Int("clusters", len(clusters)))

	if save {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		for _, c := range clusters {
			if err := s.UpsertComp(ctx, c); err != nil {
				return err
			}
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "comps: create %s", outputPath)
		}
		defer f.Close()
		out = f
	}
	return report.WriteMatchesCSV(out, rows)
}

func readListings(path string) ([]model.Listing, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "comps: read %s", path)
	}
	var listings []model.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, eris.Wrapf(err, "comps: parse %s", path)
	}
	return listings, nil
}
