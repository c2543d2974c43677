// Package metadata derives completeness and data-quality scores, rule-based
// specifications, and tags from an item's free-text fields. Everything is
// best-effort: missing inputs lower scores instead of raising errors.
package metadata

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/cloudcurio/arbfinder/internal/model"
)

// Specification extraction patterns. Deliberately simple token matching, not
// NLP: upstream text is marketplace listing prose.
var specPatterns = []struct {
	key string
	re  *regexp.Regexp
}{
	{"year", regexp.MustCompile(`\b(19|20)\d{2}\b`)},
	{"size", regexp.MustCompile(`\b\d+(?:\.\d+)?\s*(?:gb|tb|mb|inch|in|cm|mm|")`)},
	{"model", regexp.MustCompile(`\bmodel\s+([a-z0-9-]+)`)},
	{"brand", regexp.MustCompile(`\b(samsung|apple|sony|dell|hp|lenovo|microsoft|canon|nikon|bosch|makita|dewalt)\b`)},
	{"color", regexp.MustCompile(`\b(black|white|silver|blue|red|gold|gray|grey|green)\b`)},
	{"condition", regexp.MustCompile(`\b(new|used|refurbished|excellent|good|fair)\b`)},
}

// Field-presence weights for the completeness score.
const (
	requiredWeight = 0.7
	optionalWeight = 0.3
)

// Price tier boundaries for tagging.
const (
	budgetCeiling   = 50
	midRangeCeiling = 200
)

// Generator derives metadata for items. It is stateless and safe for
// concurrent use.
type Generator struct{}

// New returns a Generator.
func New() *Generator { return &Generator{} }

// Generate computes a MetadataResult for the item. The caller supplies the
// generation timestamp so batch runs stay reproducible.
func (g *Generator) Generate(item model.Item, now time.Time) *model.MetadataResult {
	res := &model.MetadataResult{
		CompletenessScore: completenessScore(item),
		DataQualityScore:  dataQualityScore(item),
		GeneratedAt:       now,
	}

	if specs := extractSpecifications(item.Title, item.Description); len(specs) > 0 {
		res.Specifications = specs
		res.EnrichmentSources = append(res.EnrichmentSources, "text_extraction")
	}
	if tags := generateTags(item); len(tags) > 0 {
		res.Tags = tags
		res.EnrichmentSources = append(res.EnrichmentSources, "auto_tagging")
	}
	return res
}

// completenessScore weighs required fields (title, price, condition, source)
// against optional ones (description, images, category).
func completenessScore(item model.Item) float64 {
	required := []bool{
		item.Title != "",
		item.BasePrice > 0,
		item.Condition != "",
		item.Source != "",
	}
	optional := []bool{
		item.Description != "",
		item.ImageCount > 0,
		item.Category != "",
	}

	score := requiredWeight*fractionPresent(required) + optionalWeight*fractionPresent(optional)
	return math.Round(score*100*100) / 100
}

func fractionPresent(fields []bool) float64 {
	present := 0
	for _, ok := range fields {
		if ok {
			present++
		}
	}
	return float64(present) / float64(len(fields))
}

// dataQualityScore starts at 100 and deducts for missing or thin data.
func dataQualityScore(item model.Item) float64 {
	score := 100.0

	switch {
	case item.Title == "":
		score -= 30
	case len(item.Title) < 10:
		score -= 15
	}

	switch {
	case item.Description == "":
		score -= 20
	case len(item.Description) < 50:
		score -= 10
	}

	if item.Condition == "" {
		score -= 15
	}
	if item.ImageCount == 0 {
		score -= 10
	}

	return math.Max(0, score)
}

// extractSpecifications scans the combined title and description for
// recognizable attribute tokens.
func extractSpecifications(title, description string) map[string]string {
	text := strings.ToLower(strings.TrimSpace(title + " " + description))
	if text == "" {
		return nil
	}

	specs := make(map[string]string)
	for _, p := range specPatterns {
		if m := p.re.FindString(text); m != "" {
			specs[p.key] = m
		}
	}
	if len(specs) == 0 {
		return nil
	}
	return specs
}

// generateTags combines category, condition, a price tier and the source
// into an ordered tag list, most relevant first.
func generateTags(item model.Item) []string {
	var tags []string

	if item.Category != "" {
		tags = append(tags, strings.ToLower(item.Category))
	}
	if item.Condition != "" {
		tags = append(tags, fmt.Sprintf("condition_%s", strings.ToLower(string(item.Condition))))
	}
	if item.BasePrice > 0 {
		switch {
		case item.BasePrice < budgetCeiling:
			tags = append(tags, "budget")
		case item.BasePrice < midRangeCeiling:
			tags = append(tags, "mid_range")
		default:
			tags = append(tags, "premium")
		}
	}
	if item.Source != "" {
		tags = append(tags, fmt.Sprintf("source_%s", strings.ToLower(item.Source)))
	}
	return tags
}
