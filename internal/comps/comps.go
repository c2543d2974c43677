// Package comps groups sold listings into comparable bins by title
// similarity and matches live listings against those bins to surface
// discount opportunities.
package comps

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"go.uber.org/zap"

	"github.com/cloudcurio/arbfinder/internal/model"
)

// DefaultThreshold is the similarity score (0-100) two titles need to land
// in the same comparable bin.
const DefaultThreshold = 86

var whitespace = regexp.MustCompile(`\s+`)

// normalizeTitle lowercases and collapses whitespace.
func normalizeTitle(title string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(strings.ToLower(title), " "))
}

// similarity scores two normalized titles on a 0-100 scale. Titles are
// reduced to their sorted unique token sets first, so word order and
// duplicated tokens do not count against a match.
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	return int(math.Round(levenshtein.Similarity(tokenSet(a), tokenSet(b), nil) * 100))
}

func tokenSet(s string) string {
	fields := strings.Fields(s)
	seen := make(map[string]bool, len(fields))
	tokens := fields[:0]
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			tokens = append(tokens, f)
		}
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Group bins sold listings whose titles score at or above the threshold
// against an earlier exemplar, then aggregates each bin into a Comp.
// Exemplars are chosen in input order, so grouping is deterministic for a
// given input sequence.
func Group(sold []model.Listing, threshold int) map[string]model.Comp {
	if len(sold) == 0 {
		return map[string]model.Comp{}
	}

	bins := make(map[string][]float64)
	var exemplars []string

	for _, lst := range sold {
		title := normalizeTitle(lst.Title)
		key := title
		for _, exemplar := range exemplars {
			if similarity(title, exemplar) >= threshold {
				key = exemplar
				break
			}
		}
		if key == title && bins[key] == nil {
			exemplars = append(exemplars, title)
		}
		bins[key] = append(bins[key], lst.Price)
	}

	comps := make(map[string]model.Comp, len(bins))
	for key, prices := range bins {
		sort.Float64s(prices)
		comps[key] = model.Comp{
			KeyTitle:    key,
			AvgPrice:    mean(prices),
			MedianPrice: median(prices),
			Count:       len(prices),
		}
	}

	zap.L().Debug("comps: grouped sold listings",
		zap.Int("listings", len(sold)),
		zap.Int("groups", len(comps)),
	)
	return comps
}

// MatchRow pairs one live listing with its best comparable group. Discount
// fields are nil when no group clears the threshold.
type MatchRow struct {
	Source              string   `json:"source"`
	Title               string   `json:"title"`
	URL                 string   `json:"url"`
	Price               float64  `json:"price"`
	Currency            string   `json:"currency"`
	BestMatchKey        string   `json:"best_match_key,omitempty"`
	Similarity          int      `json:"similarity"`
	AvgPrice            float64  `json:"avg_price,omitempty"`
	MedianPrice         float64  `json:"median_price,omitempty"`
	CompCount           int      `json:"comp_count"`
	DiscountVsAvgPct    *float64 `json:"discount_vs_avg_pct"`
	DiscountVsMedianPct *float64 `json:"discount_vs_median_pct"`
}

// Match scores every live listing against every comparable group and keeps
// the best. Output order matches input order.
func Match(live []model.Listing, comps map[string]model.Comp, threshold int) []MatchRow {
	keys := make([]string, 0, len(comps))
	for key := range comps {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([]MatchRow, 0, len(live))
	for _, lst := range live {
		title := normalizeTitle(lst.Title)

		bestKey, bestScore := "", -1
		for _, key := range keys {
			if s := similarity(title, key); s > bestScore {
				bestKey, bestScore = key, s
			}
		}

		row := MatchRow{
			Source:     lst.Source,
			Title:      lst.Title,
			URL:        lst.URL,
			Price:      lst.Price,
			Currency:   lst.Currency,
			Similarity: max(bestScore, 0),
		}
		if comp, ok := comps[bestKey]; ok && bestScore >= threshold {
			row.BestMatchKey = bestKey
			row.AvgPrice = comp.AvgPrice
			row.MedianPrice = comp.MedianPrice
			row.CompCount = comp.Count
			if comp.AvgPrice > 0 {
				row.DiscountVsAvgPct = ptr(round2(100 * (1 - lst.Price/comp.AvgPrice)))
			}
			if comp.MedianPrice > 0 {
				row.DiscountVsMedianPct = ptr(round2(100 * (1 - lst.Price/comp.MedianPrice)))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// SortByDiscount orders rows by discount vs average, best first. Unmatched
// rows sink to the bottom.
func SortByDiscount(rows []MatchRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return discountOrNeg(rows[i]) > discountOrNeg(rows[j])
	})
}

func discountOrNeg(r MatchRow) float64 {
	if r.DiscountVsAvgPct == nil {
		return math.Inf(-1)
	}
	return *r.DiscountVsAvgPct
}

func mean(prices []float64) float64 {
	var sum float64
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}

// median expects sorted input.
func median(prices []float64) float64 {
	n := len(prices)
	if n%2 == 1 {
		return prices[n/2]
	}
	return (prices[n/2-1] + prices[n/2]) / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 { return &v }
