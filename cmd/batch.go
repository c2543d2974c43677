package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudcurio/arbfinder/internal/batch"
	"github.com/cloudcurio/arbfinder/internal/metadata"
	"github.com/cloudcurio/arbfinder/internal/model"
	"github.com/cloudcurio/arbfinder/internal/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process a JSON array of items through the valuation pipeline",
	Long: `Process many items concurrently. Output preserves input order; a
failed item occupies its slot with an error entry instead of aborting the
run.

Examples:
  batch --input items.json
  batch --input items.json --operation metadata --format json
  batch --input items.json --concurrency 8 --deadline 30s --output out.csv
  batch --input items.json --save`,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.String("input", "", "JSON file holding an array of items")
	f.String("operation", "price", "operation: price, metadata or both")
	f.Int("concurrency", 0, "worker count (0=config default, then GOMAXPROCS)")
	f.Duration("deadline", 0, "soft deadline for the whole run (0=config default)")
	f.String("output", "", "output file path (default: stdout)")
	f.String("format", "csv", "output format: csv or json")
	f.Bool("save", false, "persist successful valuations to the store")
	_ = batchCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inputPath, _ := cmd.Flags().GetString("input")
	operation, _ := cmd.Flags().GetString("operation")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	deadline, _ := cmd.Flags().GetDuration("deadline")
	outputPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	save, _ := cmd.Flags().GetBool("save")

	if format != "csv" && format != "json" {
		return eris.Errorf("batch: --format must be csv or json (got %q)", format)
	}

	op, ok := model.ParseOperation(operation)
	if !ok {
		return eris.Errorf("batch: --operation must be price, metadata or both (got %q)", operation)
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return eris.Wrapf(err, "batch: read %s", inputPath)
	}
	items, err := model.DecodeItems(raw)
	if err != nil {
		return err
	}

	if concurrency == 0 {
		concurrency = cfg.Batch.Concurrency
	}
	if deadline == 0 {
		deadline = time.Duration(cfg.Batch.SoftDeadlineSecs) * time.Second
	}

	engine, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	processor := batch.New(engine, metadata.New())
	results, stats, err := processor.Run(ctx, items, op, batch.Options{
		Concurrency:  concurrency,
		SoftDeadline: deadline,
	})
	if err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "batch"))
	log.Info("batch finished",
		zap.Int("total", stats.Total),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
		zap.Bool("truncated", stats.Truncated),
		zap.Duration("duration", stats.Duration))

	if save {
		if err := saveValuations(ctx, items, results); err != nil {
			return err
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "batch: create %s", outputPath)
		}
		defer f.Close()
		out = f
	}

	if format == "json" {
		return report.WriteBatchJSON(out, results, stats, time.Now().UTC())
	}
	return report.WriteBatchCSV(out, results)
}

func saveValuations(ctx context.Context, items []model.Item, results []model.BatchResult) error {
	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	saved := 0
	for _, r := range results {
		if r.Price == nil {
			continue
		}
		if _, err := s.SaveValuation(ctx, items[r.Index], r.Price); err != nil {
			return err
		}
		saved++
	}
	zap.L().Info("saved valuations", zap.Int("count", saved))
	return nil
}
