// Package store persists listings, comparable groups and valuation results
// for the external CLI and API layers. The valuation core never depends on
// it; only the command layer wires a Store in.
package store

import (
	"context"
	"time"

	"github.com/cloudcurio/arbfinder/internal/model"
)

// Stats summarizes the contents of a store.
type Stats struct {
	Listings   int            `json:"listings"`
	Comps      int            `json:"comps"`
	Valuations int            `json:"valuations"`
	BySource   map[string]int `json:"by_source"`
	PriceMin   float64        `json:"price_min"`
	PriceMax   float64        `json:"price_max"`
	PriceAvg   float64        `json:"price_avg"`
}

// Store is the persistence boundary. Implementations must be safe for
// concurrent use.
type Store interface {
	// Listings
	UpsertListing(ctx context.Context, listing model.Listing) error
	ListRecentListings(ctx context.Context, limit int) ([]model.Listing, error)
	DeleteListingsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Comparable groups
	UpsertComp(ctx context.Context, comp model.Comp) error

	// Valuations
	SaveValuation(ctx context.Context, item model.Item, result *model.PriceAdjustmentResult) (string, error)

	// Maintenance
	Stats(ctx context.Context) (*Stats, error)
	Migrate(ctx context.Context) error
	Close() error
}
