// Package report renders batch valuation results and comp matches to CSV
// and JSON for downstream spreadsheets and tooling.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/cloudcurio/arbfinder/internal/comps"
	"github.com/cloudcurio/arbfinder/internal/model"
)

var batchHeader = []string{
	"index", "status", "error_kind", "error_message",
	"base_price", "final_price", "adjustment_pct", "clamped",
	"fair_range_min", "fair_range_max",
	"completeness_score", "data_quality_score", "tags",
}

// WriteBatchCSV writes one row per batch slot in input order.
func WriteBatchCSV(w io.Writer, results []model.BatchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(batchHeader); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}

	for _, r := range results {
		row := make([]string, len(batchHeader))
		row[0] = strconv.Itoa(r.Index)

		switch {
		case r.Error != nil:
			row[1] = "error"
			row[2] = r.Error.Kind
			row[3] = r.Error.Message
		default:
			row[1] = "ok"
		}

		if r.Price != nil {
			row[4] = formatPrice(r.Price.BasePrice)
			row[5] = formatPrice(r.Price.FinalPrice)
			row[6] = formatPrice(r.Price.TotalAdjustmentPct)
			row[7] = strconv.FormatBool(r.Price.Clamped)
			row[8] = formatPrice(r.Price.FairMarketRange.Min)
			row[9] = formatPrice(r.Price.FairMarketRange.Max)
		}
		if r.Metadata != nil {
			row[10] = formatPrice(r.Metadata.CompletenessScore)
			row[11] = formatPrice(r.Metadata.DataQualityScore)
			row[12] = strings.Join(r.Metadata.Tags, ";")
		}

		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "report: write csv row %d", r.Index)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

// batchEnvelope is the JSON export shape: a stats summary followed by the
// full per-slot results.
type batchEnvelope struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Stats       model.BatchStats    `json:"stats"`
	Results     []model.BatchResult `json:"results"`
}

// WriteBatchJSON writes the full batch output, stats included, as indented
// JSON.
func WriteBatchJSON(w io.Writer, results []model.BatchResult, stats model.BatchStats, generatedAt time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(batchEnvelope{
		GeneratedAt: generatedAt.UTC(),
		Stats:       stats,
		Results:     results,
	})
	return eris.Wrap(err, "report: encode json")
}

var matchHeader = []string{
	"source", "title", "url", "price", "currency",
	"best_match_key", "similarity", "avg_price", "median_price", "comp_count",
	"discount_vs_avg_pct", "discount_vs_median_pct",
}

// WriteMatchesCSV writes comp match rows, one listing per row. Unmatched
// listings leave the discount columns empty.
func WriteMatchesCSV(w io.Writer, rows []comps.MatchRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(matchHeader); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}

	for i, m := range rows {
		record := []string{
			m.Source, m.Title, m.URL, formatPrice(m.Price), m.Currency,
			m.BestMatchKey, strconv.Itoa(m.Similarity),
			formatPrice(m.AvgPrice), formatPrice(m.MedianPrice), strconv.Itoa(m.CompCount),
			formatDiscount(m.DiscountVsAvgPct), formatDiscount(m.DiscountVsMedianPct),
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrapf(err, "report: write csv row %d", i)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDiscount(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
