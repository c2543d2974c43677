package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/cloudcurio/arbfinder/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode for concurrent readers.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS listings (
	url       TEXT PRIMARY KEY,
	source    TEXT NOT NULL,
	title     TEXT NOT NULL,
	price     REAL NOT NULL,
	currency  TEXT NOT NULL DEFAULT 'USD',
	condition TEXT NOT NULL DEFAULT 'unknown',
	ts        DATETIME NOT NULL,
	meta_json TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS comps (
	key_title    TEXT PRIMARY KEY,
	avg_price    REAL NOT NULL,
	median_price REAL NOT NULL,
	count        INTEGER NOT NULL,
	ts           DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS valuations (
	id          TEXT PRIMARY KEY,
	item_json   TEXT NOT NULL,
	result_json TEXT NOT NULL,
	final_price REAL NOT NULL,
	created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_listings_source ON listings(source);
CREATE INDEX IF NOT EXISTS idx_listings_ts ON listings(ts);
CREATE INDEX IF NOT EXISTS idx_valuations_created_at ON valuations(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertListing(ctx context.Context, listing model.Listing) error {
	if listing.URL == "" {
		return eris.New("sqlite: listing url is required")
	}
	metaJSON, err := json.Marshal(listing.Meta)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal listing meta")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO listings (url, source, title, price, currency, condition, ts, meta_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
		   source=excluded.source, title=excluded.title, price=excluded.price,
		   currency=excluded.currency, condition=excluded.condition,
		   ts=excluded.ts, meta_json=excluded.meta_json`,
		listing.URL, listing.Source, listing.Title, listing.Price,
		listing.Currency, listing.Condition, listing.Timestamp.UTC(), string(metaJSON),
	)
	return eris.Wrap(err, "sqlite: upsert listing")
}

func (s *SQLiteStore) ListRecentListings(ctx context.Context, limit int) ([]model.Listing, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, source, title, price, currency, condition, ts, meta_json
		 FROM listings ORDER BY ts DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list recent listings")
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		var l model.Listing
		var metaJSON string
		if err := rows.Scan(&l.URL, &l.Source, &l.Title, &l.Price, &l.Currency, &l.Condition, &l.Timestamp, &metaJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan listing")
		}
		if metaJSON != "" && metaJSON != "{}" && metaJSON != "null" {
			if err := json.Unmarshal([]byte(metaJSON), &l.Meta); err != nil {
				return nil, eris.Wrap(err, "sqlite: unmarshal listing meta")
			}
		}
		listings = append(listings, l)
	}
	return listings, eris.Wrap(rows.Err(), "sqlite: iterate listings")
}

func (s *SQLiteStore) DeleteListingsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM listings WHERE ts < ?`, cutoff.UTC())
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete old listings")
	}
	n, err := res.RowsAffected()
	return n, eris.Wrap(err, "sqlite: rows affected")
}

func (s *SQLiteStore) UpsertComp(ctx context.Context, comp model.Comp) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comps (key_title, avg_price, median_price, count, ts)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key_title) DO UPDATE SET
		   avg_price=excluded.avg_price, median_price=excluded.median_price,
		   count=excluded.count, ts=excluded.ts`,
		comp.KeyTitle, comp.AvgPrice, comp.MedianPrice, comp.Count, time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: upsert comp")
}

func (s *SQLiteStore) SaveValuation(ctx context.Context, item model.Item, result *model.PriceAdjustmentResult) (string, error) {
	itemJSON, err := json.Marshal(item)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal item")
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal result")
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO valuations (id, item_json, result_json, final_price, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, string(itemJSON), string(resultJSON), result.FinalPrice, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert valuation")
	}
	return id, nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{BySource: map[string]int{}}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&stats.Listings); err != nil {
		return nil, eris.Wrap(err, "sqlite: listing count")
	}

	// Zero-price rows count toward the total but stay out of the range.
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MIN(price), 0), COALESCE(MAX(price), 0), COALESCE(AVG(price), 0)
		 FROM listings WHERE price > 0`,
	).Scan(&stats.PriceMin, &stats.PriceMax, &stats.PriceAvg)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: price range")
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comps`).Scan(&stats.Comps); err != nil {
		return nil, eris.Wrap(err, "sqlite: comp count")
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM valuations`).Scan(&stats.Valuations); err != nil {
		return nil, eris.Wrap(err, "sqlite: valuation count")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT source, COUNT(*) FROM listings GROUP BY source`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: listings by source")
	}
	defer rows.Close()
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan source count")
		}
		stats.BySource[source] = count
	}
	return stats, eris.Wrap(rows.Err(), "sqlite: iterate source counts")
}
