package model

import "time"

// Listing is a raw marketplace listing as supplied by an upstream crawler or
// manual import.
type Listing struct {
	Source    string            `json:"source"`
	URL       string            `json:"url"`
	Title     string            `json:"title"`
	Price     float64           `json:"price"`
	Currency  string            `json:"currency"`
	Condition string            `json:"condition"`
	Timestamp time.Time         `json:"timestamp"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// Comp aggregates sold-listing prices for a group of near-identical titles.
type Comp struct {
	KeyTitle    string  `json:"key_title"`
	AvgPrice    float64 `json:"avg_price"`
	MedianPrice float64 `json:"median_price"`
	Count       int     `json:"count"`
}
