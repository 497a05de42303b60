package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrendingRepository(t *testing.T, baseURL string) *trendingRepository {
	t.Helper()
	return &trendingRepository{
		log:        testLogger(t),
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
	}
}

func TestGetTrendingFiltersJunkTickers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"ticker": "nvda", "no_of_comments": 421, "sentiment": "Bullish", "sentiment_score": 0.31},
			{"ticker": " TSLA ", "no_of_comments": 120, "sentiment": "Bearish", "sentiment_score": -0.12},
			{"ticker": "", "no_of_comments": 7, "sentiment": "Bullish", "sentiment_score": 0.2},
			{"ticker": "NOTATICKER", "no_of_comments": 3, "sentiment": "Bullish", "sentiment_score": 0.1}
		]`)
	}))
	defer server.Close()

	repo := newTestTrendingRepository(t, server.URL)

	trending, err := repo.GetTrending(context.Background())

	require.NoError(t, err)
	require.Len(t, trending, 2)
	assert.Equal(t, "NVDA", trending[0].Ticker)
	assert.Equal(t, 421, trending[0].NoOfComments)
	assert.Equal(t, "Bullish", trending[0].Sentiment)
	assert.Equal(t, "TSLA", trending[1].Ticker)
}

func TestGetTrendingUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	repo := newTestTrendingRepository(t, server.URL)

	_, err := repo.GetTrending(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGetTrendingBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not": "a list"}`)
	}))
	defer server.Close()

	repo := newTestTrendingRepository(t, server.URL)

	_, err := repo.GetTrending(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
