// Package model defines the value objects exchanged between the valuation
// engine, the metadata generator, the batch processor, and their callers.
// Everything here is created per request and never mutated afterwards.
package model

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
)

// Condition is the discrete quality tier of an item.
type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionLikeNew   Condition = "like_new"
	ConditionExcellent Condition = "excellent"
	ConditionVeryGood  Condition = "very_good"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// Conditions lists every recognized condition grade.
var Conditions = []Condition{
	ConditionNew, ConditionLikeNew, ConditionExcellent, ConditionVeryGood,
	ConditionGood, ConditionFair, ConditionPoor,
}

// DepreciationModel selects the age-adjustment curve.
type DepreciationModel string

const (
	ModelLinear      DepreciationModel = "linear"
	ModelExponential DepreciationModel = "exponential"
	ModelSCurve      DepreciationModel = "s_curve"
)

// DamageType categorizes a damage instance.
type DamageType string

const (
	DamageDent       DamageType = "dent"
	DamageScratch    DamageType = "scratch"
	DamageRust       DamageType = "rust"
	DamageMechanical DamageType = "mechanical"
	DamageAesthetic  DamageType = "aesthetic"
)

// DamageLocation identifies where on the item a damage sits.
type DamageLocation string

const (
	LocationFront     DamageLocation = "front"
	LocationRear      DamageLocation = "rear"
	LocationTop       DamageLocation = "top"
	LocationBottom    DamageLocation = "bottom"
	LocationPassenger DamageLocation = "passenger"
	LocationDriver    DamageLocation = "driver"
)

// DamageSeverity grades how bad a damage instance is.
type DamageSeverity string

const (
	SeverityMinor    DamageSeverity = "minor"
	SeverityModerate DamageSeverity = "moderate"
	SeveritySevere   DamageSeverity = "severe"
)

// DamageEntry describes a single damage instance on an item. Tuples that do
// not resolve in the damage matrix contribute a neutral multiplier; they are
// never a hard failure because upstream crawler data is noisy.
type DamageEntry struct {
	Type     DamageType     `json:"damage_type"`
	Location DamageLocation `json:"location"`
	Severity DamageSeverity `json:"severity"`
}

// Item is a single valuation request. It carries the pricing inputs plus the
// free-text fields the metadata generator works from.
type Item struct {
	BasePrice        float64           `json:"base_price"`
	AgeYears         float64           `json:"age_years"`
	Condition        Condition         `json:"condition"`
	Damages          []DamageEntry     `json:"damages,omitempty"`
	Category         string            `json:"category,omitempty"`
	CompletenessPct  float64           `json:"completeness_pct"`
	SupplyCount      int               `json:"supply_count"`
	RecentSalesCount int               `json:"recent_sales_count"`
	Depreciation     DepreciationModel `json:"depreciation_model,omitempty"`
	EvaluationDate   time.Time         `json:"evaluation_date,omitempty"`

	// Metadata inputs.
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	ImageCount  int    `json:"image_count,omitempty"`
}

// itemRecord mirrors Item with pointer fields so absent keys can be told
// apart from zero values when decoding batch input.
type itemRecord struct {
	Item
	CompletenessPctP *float64           `json:"completeness_pct"`
	DepreciationP    *DepreciationModel `json:"depreciation_model"`
}

// DecodeItems parses a JSON array of flat item records. Records that omit
// completeness_pct are treated as 100% complete and records that omit
// depreciation_model get the exponential default; everything else decodes
// literally so that out-of-range values surface as validation errors later.
func DecodeItems(data []byte) ([]Item, error) {
	var records []itemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrap(err, "model: decode items")
	}

	items := make([]Item, len(records))
	for i, rec := range records {
		item := rec.Item
		if rec.CompletenessPctP != nil {
			item.CompletenessPct = *rec.CompletenessPctP
		} else {
			item.CompletenessPct = 100
		}
		if rec.DepreciationP != nil && *rec.DepreciationP != "" {
			item.Depreciation = *rec.DepreciationP
		} else {
			item.Depreciation = ModelExponential
		}
		items[i] = item
	}
	return items, nil
}

// WithEvaluationDate returns a copy of the item with the evaluation date set
// to the given time when it was left unset. The engine itself never reads
// the wall clock.
func (it Item) WithEvaluationDate(now time.Time) Item {
	if it.EvaluationDate.IsZero() {
		it.EvaluationDate = now
	}
	return it
}
