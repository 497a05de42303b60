package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"golang-stock-movers/internal/tracker/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsAPIGetNewsBuildsQuery(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"status": "ok",
			"totalResults": 2,
			"articles": [
				{
					"source": {"id": "reuters", "name": "Reuters"},
					"title": "Apple shares jump after   earnings",
					"description": "Strong iPhone demand.",
					"url": "https://example.com/apple-jump",
					"publishedAt": "2026-01-08T15:00:00Z"
				},
				{
					"source": {"id": null, "name": "Untitled Wire"},
					"title": "",
					"description": "no headline",
					"url": "https://example.com/empty"
				}
			]
		}`)
	}))
	defer server.Close()

	repo := NewNewsAPIRepository(newsConfig(server.URL), testLogger(t))

	window := dto.NewsWindow{
		From: time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
	}
	items, err := repo.GetNews(context.Background(), "AAPL", "Apple Inc.", window)

	require.NoError(t, err)
	assert.Equal(t, `"Apple Inc." OR AAPL`, gotQuery.Get("q"))
	assert.Equal(t, "en", gotQuery.Get("language"))
	assert.Equal(t, "relevancy", gotQuery.Get("sortBy"))
	assert.Equal(t, "5", gotQuery.Get("pageSize"))
	assert.Equal(t, "newsapi-key", gotQuery.Get("apiKey"))
	assert.Equal(t, "2026-01-07", gotQuery.Get("from"))
	assert.Equal(t, "2026-01-09", gotQuery.Get("to"))

	// The article with no title is dropped.
	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, "Apple shares jump after earnings", item.Headline)
	assert.Equal(t, "Reuters", item.Source)
	assert.Equal(t, "https://example.com/apple-jump", item.URL)
	require.NotNil(t, item.PublishedAt)
	assert.Equal(t, time.Date(2026, 1, 8, 15, 0, 0, 0, time.UTC), *item.PublishedAt)
}

func TestNewsAPIGetNewsQueryFallsBackToSymbol(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"status": "ok", "articles": []}`)
	}))
	defer server.Close()

	repo := NewNewsAPIRepository(newsConfig(server.URL), testLogger(t))

	_, err := repo.GetNews(context.Background(), "AAPL", "", dto.NewsWindow{})

	require.NoError(t, err)
	assert.Equal(t, "AAPL", gotQuery.Get("q"))
	assert.Empty(t, gotQuery.Get("from"))
	assert.Empty(t, gotQuery.Get("to"))
}

func TestNewsAPIGetNewsMissingKey(t *testing.T) {
	cfg := newsConfig("http://unused")
	cfg.News.NewsAPI.APIKey = ""
	repo := NewNewsAPIRepository(cfg, testLogger(t))

	_, err := repo.GetNews(context.Background(), "AAPL", "Apple Inc.", dto.NewsWindow{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "key not configured")
}

func TestNewsAPIGetNewsUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	repo := NewNewsAPIRepository(newsConfig(server.URL), testLogger(t))

	_, err := repo.GetNews(context.Background(), "AAPL", "Apple Inc.", dto.NewsWindow{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewsAPIGetNewsErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "error", "code": "apiKeyInvalid", "message": "Your API key is invalid."}`)
	}))
	defer server.Close()

	repo := NewNewsAPIRepository(newsConfig(server.URL), testLogger(t))

	_, err := repo.GetNews(context.Background(), "AAPL", "Apple Inc.", dto.NewsWindow{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
	assert.Contains(t, err.Error(), "Your API key is invalid.")
}
