package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historicalAAPL = `{
	"symbol": "AAPL",
	"historical": [
		{"date": "2026-01-09", "open": 108, "high": 112, "low": 107, "close": 110, "volume": 52000000},
		{"date": "2026-01-08", "open": 99, "high": 101, "low": 98, "close": 100, "volume": 48000000},
		{"date": "2026-01-07", "open": 97, "high": 99, "low": 96, "close": 98, "volume": 45000000}
	]
}`

func TestGetDailyQuoteComputesChangeFromTwoCloses(t *testing.T) {
	var gotAPIKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/historical-price-full/AAPL", r.URL.Path)
		gotAPIKey = r.URL.Query().Get("apikey")
		fmt.Fprint(w, historicalAAPL)
	}))
	defer server.Close()

	repo := NewFMPRepository(marketConfig(server.URL), testLogger(t))

	quote, err := repo.GetDailyQuote(context.Background(), "AAPL", time.Time{})

	require.NoError(t, err)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), quote.Date)
	assert.InDelta(t, 110.0, quote.Price, 1e-9)
	assert.InDelta(t, 10.0, quote.PriceChange, 1e-9)
	assert.InDelta(t, 10.0, quote.PriceChangePct, 1e-9)
	assert.Equal(t, int64(52_000_000), quote.Volume)
}

func TestGetDailyQuoteAnchorsAtAsOfDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, historicalAAPL)
	}))
	defer server.Close()

	repo := NewFMPRepository(marketConfig(server.URL), testLogger(t))

	// Bars newer than asOf are skipped, so the pair becomes (Jan 8, Jan 7).
	quote, err := repo.GetDailyQuote(context.Background(), "AAPL", time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), quote.Date)
	assert.InDelta(t, 100.0, quote.Price, 1e-9)
	assert.InDelta(t, 2.0, quote.PriceChange, 1e-9)
	assert.InDelta(t, 100.0*2.0/98.0, quote.PriceChangePct, 1e-9)
}

func TestGetDailyQuoteNeedsTwoCloses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"symbol": "IPO", "historical": [{"date": "2026-01-09", "close": 42, "volume": 1000}]}`)
	}))
	defer server.Close()

	repo := NewFMPRepository(marketConfig(server.URL), testLogger(t))

	_, err := repo.GetDailyQuote(context.Background(), "IPO", time.Time{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enough price history")
}

func TestGetDailyQuoteUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "limit reached", http.StatusTooManyRequests)
	}))
	defer server.Close()

	repo := NewFMPRepository(marketConfig(server.URL), testLogger(t))

	_, err := repo.GetDailyQuote(context.Background(), "AAPL", time.Time{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGetDailyQuoteZeroPreviousClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"symbol": "BAD", "historical": [
			{"date": "2026-01-09", "close": 10, "volume": 100},
			{"date": "2026-01-08", "close": 0, "volume": 100}
		]}`)
	}))
	defer server.Close()

	repo := NewFMPRepository(marketConfig(server.URL), testLogger(t))

	_, err := repo.GetDailyQuote(context.Background(), "BAD", time.Time{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "previous close")
}

func TestGetCompanyNameCachesProfiles(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "/profile/AAPL", r.URL.Path)
		fmt.Fprint(w, `[{"symbol": "AAPL", "companyName": "Apple Inc."}]`)
	}))
	defer server.Close()

	repo := NewFMPRepository(marketConfig(server.URL), testLogger(t))

	assert.Equal(t, "Apple Inc.", repo.GetCompanyName(context.Background(), "AAPL"))
	assert.Equal(t, "Apple Inc.", repo.GetCompanyName(context.Background(), "AAPL"))
	assert.Equal(t, int32(1), hits.Load(), "second lookup must come from the cache")
}

func TestGetCompanyNameDegradesToSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	repo := NewFMPRepository(marketConfig(server.URL), testLogger(t))

	assert.Equal(t, "ZZZZ", repo.GetCompanyName(context.Background(), "ZZZZ"))
}

func TestGetConstituentsParsesAndCaches(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "/sp500_constituent", r.URL.Path)
		fmt.Fprint(w, `[
			{"symbol": "AAPL", "name": "Apple Inc."},
			{"symbol": "MSFT", "name": "Microsoft Corporation"},
			{"symbol": "", "name": "ghost row"}
		]`)
	}))
	defer server.Close()

	repo := NewFMPRepository(marketConfig(server.URL), testLogger(t))

	symbols, err := repo.GetConstituents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)

	again, err := repo.GetConstituents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, symbols, again)
	assert.Equal(t, int32(1), hits.Load(), "second fetch must come from the cache")
}

func TestGetConstituentsEmptyBodyIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	repo := NewFMPRepository(marketConfig(server.URL), testLogger(t))

	_, err := repo.GetConstituents(context.Background())

	require.Error(t, err)
}
