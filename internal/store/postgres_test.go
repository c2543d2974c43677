package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudcurio/arbfinder/internal/model"
)

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *PostgresStore) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgres(mock)
}

func TestPostgresMigrate(t *testing.T) {
	mock, s := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS listings").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertListing(t *testing.T) {
	mock, s := newMockStore(t)
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO listings").
		WithArgs("https://example.com/item/1", "craigslist", "Test Listing",
			100.0, "USD", "good", ts, []byte(`{"city":"portland"}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.UpsertListing(context.Background(), model.Listing{
		Source:    "craigslist",
		URL:       "https://example.com/item/1",
		Title:     "Test Listing",
		Price:     100,
		Currency:  "USD",
		Condition: "good",
		Timestamp: ts,
		Meta:      map[string]string{"city": "portland"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertListingRequiresURL(t *testing.T) {
	_, s := newMockStore(t)
	err := s.UpsertListing(context.Background(), model.Listing{Title: "no url"})
	assert.Error(t, err)
}

func TestPostgresListRecentListings(t *testing.T) {
	mock, s := newMockStore(t)
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT url, source, title, price, currency, condition, ts, meta").
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows(
			[]string{"url", "source", "title", "price", "currency", "condition", "ts", "meta"}).
			AddRow("https://example.com/1", "craigslist", "Item One", 100.0, "USD", "good", ts, []byte(`{}`)).
			AddRow("https://example.com/2", "facebook", "Item Two", 250.0, "USD", "fair", ts, []byte(`{"city":"austin"}`)))

	got, err := s.ListRecentListings(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Item One", got[0].Title)
	assert.Equal(t, "austin", got[1].Meta["city"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteListingsBefore(t *testing.T) {
	mock, s := newMockStore(t)
	cutoff := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM listings").
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	n, err := s.DeleteListingsBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpsertComp(t *testing.T) {
	mock, s := newMockStore(t)

	mock.ExpectExec("INSERT INTO comps").
		WithArgs("rtx 3080", 650.0, 600.0, 4, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.UpsertComp(context.Background(), model.Comp{
		KeyTitle: "rtx 3080", AvgPrice: 650, MedianPrice: 600, Count: 4,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveValuation(t *testing.T) {
	mock, s := newMockStore(t)

	mock.ExpectExec("INSERT INTO valuations").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 224.25, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	item := model.Item{BasePrice: 500, Condition: model.ConditionGood}
	result := &model.PriceAdjustmentResult{BasePrice: 500, FinalPrice: 224.25}

	id, err := s.SaveValuation(context.Background(), item, result)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStats(t *testing.T) {
	mock, s := newMockStore(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM listings").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT COALESCE\\(MIN\\(price\\), 0\\)").
		WillReturnRows(pgxmock.NewRows([]string{"min", "max", "avg"}).
			AddRow(100.0, 300.0, 200.0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM comps").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM valuations").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT source, COUNT\\(\\*\\) FROM listings").
		WillReturnRows(pgxmock.NewRows([]string{"source", "count"}).
			AddRow("craigslist", 2).
			AddRow("facebook", 1))

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Listings)
	assert.Equal(t, 1, stats.Comps)
	assert.Equal(t, 2, stats.Valuations)
	assert.Equal(t, 200.0, stats.PriceAvg)
	assert.Equal(t, 2, stats.BySource["craigslist"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBulkImportListings(t *testing.T) {
	mock, s := newMockStore(t)
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectCopyFrom(pgx.Identifier{"listings"},
		[]string{"url", "source", "title", "price", "currency", "condition", "ts", "meta"}).
		WillReturnResult(2)

	n, err := s.BulkImportListings(context.Background(), []model.Listing{
		{URL: "https://example.com/1", Source: "craigslist", Title: "Item One", Price: 100, Currency: "USD", Condition: "good", Timestamp: ts},
		{URL: "https://example.com/2", Source: "facebook", Title: "Item Two", Price: 250, Currency: "USD", Condition: "fair", Timestamp: ts},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
