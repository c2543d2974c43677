package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/cloudcurio/arbfinder/internal/db"
	"github.com/cloudcurio/arbfinder/internal/model"
)

// PostgresStore implements Store against a pgx pool. It accepts the db.Pool
// interface so tests can substitute pgxmock.
type PostgresStore struct {
	pool db.Pool
}

func NewPostgres(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS listings (
	url       TEXT PRIMARY KEY,
	source    TEXT NOT NULL,
	title     TEXT NOT NULL,
	price     DOUBLE PRECISION NOT NULL,
	currency  TEXT NOT NULL DEFAULT 'USD',
	condition TEXT NOT NULL DEFAULT 'unknown',
	ts        TIMESTAMPTZ NOT NULL,
	meta      JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS comps (
	key_title    TEXT PRIMARY KEY,
	avg_price    DOUBLE PRECISION NOT NULL,
	median_price DOUBLE PRECISION NOT NULL,
	count        INTEGER NOT NULL,
	ts           TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS valuations (
	id          UUID PRIMARY KEY,
	item        JSONB NOT NULL,
	result      JSONB NOT NULL,
	final_price DOUBLE PRECISION NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_listings_source ON listings(source);
CREATE INDEX IF NOT EXISTS idx_listings_ts ON listings(ts);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertListing(ctx context.Context, listing model.Listing) error {
	if listing.URL == "" {
		return eris.New("postgres: listing url is required")
	}
	metaJSON, err := json.Marshal(listing.Meta)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal listing meta")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO listings (url, source, title, price, currency, condition, ts, meta)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (url) DO UPDATE SET
		   source=EXCLUDED.source, title=EXCLUDED.title, price=EXCLUDED.price,
		   currency=EXCLUDED.currency, condition=EXCLUDED.condition,
		   ts=EXCLUDED.ts, meta=EXCLUDED.meta`,
		listing.URL, listing.Source, listing.Title, listing.Price,
		listing.Currency, listing.Condition, listing.Timestamp.UTC(), metaJSON,
	)
	return eris.Wrap(err, "postgres: upsert listing")
}

// BulkImportListings loads listings through the COPY protocol. It does not
// deduplicate, so it is meant for initial loads into an empty table.
func (s *PostgresStore) BulkImportListings(ctx context.Context, listings []model.Listing) (int64, error) {
	rows := make([][]any, 0, len(listings))
	for _, l := range listings {
		metaJSON, err := json.Marshal(l.Meta)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal listing meta")
		}
		rows = append(rows, []any{
			l.URL, l.Source, l.Title, l.Price, l.Currency, l.Condition, l.Timestamp.UTC(), metaJSON,
		})
	}
	return db.CopyFrom(ctx, s.pool, "listings",
		[]string{"url", "source", "title", "price", "currency", "condition", "ts", "meta"}, rows)
}

func (s *PostgresStore) ListRecentListings(ctx context.Context, limit int) ([]model.Listing, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT url, source, title, price, currency, condition, ts, meta
		 FROM listings ORDER BY ts DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list recent listings")
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		var l model.Listing
		var metaJSON []byte
		if err := rows.Scan(&l.URL, &l.Source, &l.Title, &l.Price, &l.Currency, &l.Condition, &l.Timestamp, &metaJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan listing")
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &l.Meta); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal listing meta")
			}
		}
		listings = append(listings, l)
	}
	return listings, eris.Wrap(rows.Err(), "postgres: iterate listings")
}

func (s *PostgresStore) DeleteListingsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM listings WHERE ts < $1`, cutoff.UTC())
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete old listings")
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) UpsertComp(ctx context.Context, comp model.Comp) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO comps (key_title, avg_price, median_price, count, ts)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (key_title) DO UPDATE SET
		   avg_price=EXCLUDED.avg_price, median_price=EXCLUDED.median_price,
		   count=EXCLUDED.count, ts=EXCLUDED.ts`,
		comp.KeyTitle, comp.AvgPrice, comp.MedianPrice, comp.Count, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: upsert comp")
}

func (s *PostgresStore) SaveValuation(ctx context.Context, item model.Item, result *model.PriceAdjustmentResult) (string, error) {
	itemJSON, err := json.Marshal(item)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal item")
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal result")
	}

	id := uuid.New().String()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO valuations (id, item, result, final_price, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, itemJSON, resultJSON, result.FinalPrice, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert valuation")
	}
	return id, nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{BySource: map[string]int{}}

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings`).Scan(&stats.Listings); err != nil {
		return nil, eris.Wrap(err, "postgres: listing count")
	}

	// Zero-price rows count toward the total but stay out of the range.
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(MIN(price), 0), COALESCE(MAX(price), 0), COALESCE(AVG(price), 0)
		 FROM listings WHERE price > 0`,
	).Scan(&stats.PriceMin, &stats.PriceMax, &stats.PriceAvg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: price range")
	}

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comps`).Scan(&stats.Comps); err != nil {
		return nil, eris.Wrap(err, "postgres: comp count")
	}
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM valuations`).Scan(&stats.Valuations); err != nil {
		return nil, eris.Wrap(err, "postgres: valuation count")
	}

	rows, err := s.pool.Query(ctx, `SELECT source, COUNT(*) FROM listings GROUP BY source`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: listings by source")
	}
	defer rows.Close()
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, eris.Wrap(err, "postgres: scan source count")
		}
		stats.BySource[source] = count
	}
	return stats, eris.Wrap(rows.Err(), "postgres: iterate source counts")
}
