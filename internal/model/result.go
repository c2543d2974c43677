package model

import "time"

// FactorContribution is one line of a price breakdown. Amount and
// ContributionPct are expressed relative to the base price, so the listed
// contributions sum to an approximation of the final adjustment; clamping
// and multiplicative interaction account for the remainder.
type FactorContribution struct {
	Factor          string  `json:"factor"`
	Multiplier      float64 `json:"multiplier"`
	Amount          float64 `json:"amount"`
	ContributionPct float64 `json:"contribution_pct"`
	Description     string  `json:"description,omitempty"`
}

// PriceRange is a presentation band around a computed price. It is not a
// statistical confidence interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PriceAdjustmentResult is the full outcome of a price calculation.
type PriceAdjustmentResult struct {
	BasePrice          float64              `json:"base_price"`
	FinalPrice         float64              `json:"final_price"`
	TotalAdjustmentPct float64              `json:"total_adjustment_pct"`
	Factors            []FactorContribution `json:"factors"`
	FairMarketRange    PriceRange           `json:"fair_market_range"`
	Clamped            bool                 `json:"clamped"`
	EvaluationDate     time.Time            `json:"evaluation_date"`
}

// MetadataResult holds derived metadata for an item. All fields are
// best-effort: missing inputs lower the scores instead of raising errors.
type MetadataResult struct {
	CompletenessScore float64           `json:"completeness_score"`
	DataQualityScore  float64           `json:"data_quality_score"`
	Specifications    map[string]string `json:"specifications,omitempty"`
	Tags              []string          `json:"tags,omitempty"`
	EnrichmentSources []string          `json:"enrichment_sources,omitempty"`
	GeneratedAt       time.Time         `json:"generated_at"`
}
