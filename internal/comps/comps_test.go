package comps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudcurio/arbfinder/internal/model"
)

func sold(title string, price float64) model.Listing {
	return model.Listing{Source: "ebay_sold", Title: title, Price: price, Currency: "USD", Condition: "sold"}
}

func live(title string, price float64) model.Listing {
	return model.Listing{Source: "shopgoodwill", Title: title, Price: price, Currency: "USD", Condition: "live"}
}

func TestGroup_BinsSimilarTitles(t *testing.T) {
	listings := []model.Listing{
		sold("Nvidia RTX 3060 12GB graphics card", 280),
		sold("NVIDIA RTX 3060 graphics card 12GB", 300),
		sold("nvidia rtx 3060 12gb  graphics card", 320),
		sold("Boss DS-1 distortion pedal", 45),
	}

	comps := Group(listings, DefaultThreshold)
	require.Len(t, comps, 2)

	gpu, ok := comps["nvidia rtx 3060 12gb graphics card"]
	require.True(t, ok, "exemplar is the first normalized title")
	assert.Equal(t, 3, gpu.Count)
	assert.InDelta(t, 300.0, gpu.AvgPrice, 1e-9)
	assert.InDelta(t, 300.0, gpu.MedianPrice, 1e-9)

	pedal, ok := comps["boss ds-1 distortion pedal"]
	require.True(t, ok)
	assert.Equal(t, 1, pedal.Count)
	assert.Equal(t, 45.0, pedal.AvgPrice)
}

func TestGroup_EvenCountMedian(t *testing.T) {
	listings := []model.Listing{
		sold("thinkpad x1 carbon gen 9", 400),
		sold("thinkpad x1 carbon gen 9", 500),
		sold("thinkpad x1 carbon gen 9", 700),
		sold("thinkpad x1 carbon gen 9", 1000),
	}
	comps := Group(listings, DefaultThreshold)
	require.Len(t, comps, 1)

	c := comps["thinkpad x1 carbon gen 9"]
	assert.InDelta(t, 650.0, c.AvgPrice, 1e-9)
	assert.InDelta(t, 600.0, c.MedianPrice, 1e-9)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, Group(nil, DefaultThreshold))
}

func TestMatch_ComputesDiscounts(t *testing.T) {
	comps := Group([]model.Listing{
		sold("Nvidia RTX 3060 12GB graphics card", 280),
		sold("NVIDIA RTX 3060 graphics card 12GB", 320),
	}, DefaultThreshold)

	rows := Match([]model.Listing{
		live("RTX 3060 12GB Nvidia graphics card", 150),
		live("Antique brass telescope", 90),
	}, comps, DefaultThreshold)
	require.Len(t, rows, 2)

	matched := rows[0]
	assert.Equal(t, "nvidia rtx 3060 12gb graphics card", matched.BestMatchKey)
	assert.Equal(t, 2, matched.CompCount)
	require.NotNil(t, matched.DiscountVsAvgPct)
	// avg 300: 1 - 150/300 = 50%
	assert.InDelta(t, 50.0, *matched.DiscountVsAvgPct, 1e-9)
	require.NotNil(t, matched.DiscountVsMedianPct)
	assert.InDelta(t, 50.0, *matched.DiscountVsMedianPct, 1e-9)

	unmatched := rows[1]
	assert.Empty(t, unmatched.BestMatchKey)
	assert.Equal(t, 0, unmatched.CompCount)
	assert.Nil(t, unmatched.DiscountVsAvgPct)
	assert.Nil(t, unmatched.DiscountVsMedianPct)
}

func TestMatch_Deterministic(t *testing.T) {
	soldLots := []model.Listing{
		sold("dewalt 20v drill kit", 80),
		sold("dewalt 20v drill kit with battery", 95),
		sold("makita impact driver 18v", 70),
	}
	liveLots := []model.Listing{
		live("DeWalt 20V drill kit", 40),
		live("Makita 18v impact driver", 35),
	}

	first := Match(liveLots, Group(soldLots, DefaultThreshold), DefaultThreshold)
	second := Match(liveLots, Group(soldLots, DefaultThreshold), DefaultThreshold)
	assert.Equal(t, first, second)
}

func TestSortByDiscount(t *testing.T) {
	ten, thirty := 10.0, 30.0
	rows := []MatchRow{
		{Title: "a", DiscountVsAvgPct: &ten},
		{Title: "none"},
		{Title: "b", DiscountVsAvgPct: &thirty},
	}
	SortByDiscount(rows)

	assert.Equal(t, "b", rows[0].Title)
	assert.Equal(t, "a", rows[1].Title)
	assert.Equal(t, "none", rows[2].Title)
}

func TestSimilarity_TokenOrderInsensitive(t *testing.T) {
	assert.Equal(t, 100, similarity(
		normalizeTitle("RTX 3060 Nvidia 12GB"),
		normalizeTitle("nvidia rtx 3060 12gb"),
	))
	assert.Less(t, similarity("boss ds-1 pedal", "antique telescope"), DefaultThreshold)
}
