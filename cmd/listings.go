package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudcurio/arbfinder/internal/model"
	"github.com/cloudcurio/arbfinder/internal/store"
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Manage the stored listing corpus",
}

var listingsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus totals and per-source counts",
	RunE:  runListingsStats,
}

var listingsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recently seen listings",
	RunE:  runListingsRecent,
}

var listingsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete listings older than a cutoff",
	RunE:  runListingsClean,
}

var listingsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import listings from a JSON file",
	RunE:  runListingsImport,
}

func init() {
	listingsRecentCmd.Flags().Int("limit", 10, "maximum listings to show")
	listingsCleanCmd.Flags().Int("days", 30, "delete listings older than this many days")
	listingsImportCmd.Flags().String("input", "", "JSON file holding an array of listings")
	listingsImportCmd.Flags().Bool("bulk", false, "load via the COPY protocol (postgres only, no upsert deduplication)")
	_ = listingsImportCmd.MarkFlagRequired("input")

	listingsCmd.AddCommand(listingsStatsCmd, listingsRecentCmd, listingsCleanCmd, listingsImportCmd)
	rootCmd.AddCommand(listingsCmd)
}

func withStore(cmd *cobra.Command, fn func(ctx context.Context, s store.Store) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(ctx, s)
}

func runListingsStats(cmd *cobra.Command, _ []string) error {
	return withStore(cmd, func(ctx context.Context, s store.Store) error {
		stats, err := s.Stats(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(stats), "listings: encode stats")
	})
}

func runListingsRecent(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	return withStore(cmd, func(ctx context.Context, s store.Store) error {
		listings, err := s.ListRecentListings(ctx, limit)
		if err != nil {
			return err
		}
		for _, l := range listings {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s  %8.2f %s  %s\n",
				l.Timestamp.Format("2006-01-02"), l.Source, l.Price, l.Currency, l.Title)
		}
		return nil
	})
}

func runListingsClean(cmd *cobra.Command, _ []string) error {
	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		return eris.Errorf("listings: --days must be positive (got %d)", days)
	}
	return withStore(cmd, func(ctx context.Context, s store.Store) error {
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		deleted, err := s.DeleteListingsBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		zap.L().Info("cleaned listings", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d listings older than %s\n", deleted, cutoff.Format("2006-01-02"))
		return nil
	})
}

func runListingsImport(cmd *cobra.Command, _ []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return eris.Wrapf(err, "listings: read %s", inputPath)
	}

	var listings []model.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return eris.Wrapf(err, "listings: parse %s", inputPath)
	}

	bulk, _ := cmd.Flags().GetBool("bulk")
	return withStore(cmd, func(ctx context.Context, s store.Store) error {
		return importListings(ctx, s, listings, bulk)
	})
}

// importListings loads listings through row-wise upserts, or through the
// COPY protocol in bulk mode. Bulk mode skips upsert deduplication, so it
// is meant for initial loads into an empty table.
func importListings(ctx context.Context, s store.Store, listings []model.Listing, bulk bool) error {
	if bulk {
		ps, ok := s.(*store.PostgresStore)
		if !ok {
			return eris.New("listings: --bulk requires the postgres store driver")
		}
		n, err := ps.BulkImportListings(ctx, listings)
		if err != nil {
			return err
		}
		zap.L().Info("bulk imported listings", zap.Int64("count", n))
		return nil
	}

	for i, l := range listings {
		if err := s.UpsertListing(ctx, l); err != nil {
			return eris.Wrapf(err, "listings: import row %d", i)
		}
	}
	zap.L().Info("imported listings", zap.Int("count", len(listings)))
	return nil
}
