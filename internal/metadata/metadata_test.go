package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudcurio/arbfinder/internal/model"
)

var generatedAt = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func TestGenerate_CompleteItem(t *testing.T) {
	g := New()

	res := g.Generate(model.Item{
		Title:       "Samsung Galaxy S21 128GB Black, model sm-g991",
		Description: "Lightly used Samsung phone from 2021, excellent screen, includes charger and original box.",
		BasePrice:   350,
		Condition:   model.ConditionVeryGood,
		Source:      "shopgoodwill",
		Category:    "electronics",
		ImageCount:  4,
	}, generatedAt)

	assert.Equal(t, 100.0, res.CompletenessScore)
	assert.Equal(t, 100.0, res.DataQualityScore)
	assert.Equal(t, generatedAt, res.GeneratedAt)

	require.NotNil(t, res.Specifications)
	assert.Equal(t, "samsung", res.Specifications["brand"])
	assert.Equal(t, "black", res.Specifications["color"])
	assert.Equal(t, "2021", res.Specifications["year"])
	assert.Contains(t, res.Specifications["size"], "gb")
	assert.Equal(t, "sm-g991", specModelGroup(t, res.Specifications["model"]))

	assert.Equal(t, []string{"electronics", "condition_very_good", "premium", "source_shopgoodwill"}, res.Tags)
	assert.Equal(t, []string{"text_extraction", "auto_tagging"}, res.EnrichmentSources)
}

// specModelGroup strips the "model " prefix the pattern captures with.
func specModelGroup(t *testing.T, s string) string {
	t.Helper()
	const prefix = "model "
	require.Contains(t, s, prefix)
	return s[len(prefix):]
}

func TestGenerate_SparseItemLowersScores(t *testing.T) {
	g := New()

	res := g.Generate(model.Item{
		Title:     "Old lamp",
		BasePrice: 20,
	}, generatedAt)

	// Required present: title, price (2/4); optional present: none.
	assert.InDelta(t, 35.0, res.CompletenessScore, 0.01)

	// 100 - 15 (short title) - 20 (no description) - 15 (no condition)
	// - 10 (no images)
	assert.Equal(t, 40.0, res.DataQualityScore)

	// Sparse data still yields a price tier tag, never an error.
	assert.Equal(t, []string{"budget"}, res.Tags)
}

func TestGenerate_EmptyItem(t *testing.T) {
	g := New()

	res := g.Generate(model.Item{}, generatedAt)

	assert.Equal(t, 0.0, res.CompletenessScore)
	// 100 - 30 - 20 - 15 - 10
	assert.Equal(t, 25.0, res.DataQualityScore)
	assert.Nil(t, res.Specifications)
	assert.Nil(t, res.Tags)
	assert.Empty(t, res.EnrichmentSources)
}

func TestGenerate_PriceTiers(t *testing.T) {
	g := New()

	tiers := []struct {
		price float64
		want  string
	}{
		{10, "budget"},
		{49.99, "budget"},
		{50, "mid_range"},
		{199.99, "mid_range"},
		{200, "premium"},
		{5000, "premium"},
	}
	for _, tt := range tiers {
		res := g.Generate(model.Item{BasePrice: tt.price}, generatedAt)
		assert.Equal(t, []string{tt.want}, res.Tags, "price %v", tt.price)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g := New()

	item := model.Item{
		Title:       "Canon EOS R6 body, black, 2020",
		Description: "Mirrorless camera in good shape, shutter count around 12k.",
		BasePrice:   1400,
		Condition:   model.ConditionExcellent,
		Source:      "govdeals",
	}
	first := g.Generate(item, generatedAt)
	second := g.Generate(item, generatedAt)
	assert.Equal(t, first, second)
}
