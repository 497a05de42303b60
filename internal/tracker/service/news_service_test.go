package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/internal/tracker/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providerItem(headline, source string) dto.ProviderNewsItem {
	return dto.ProviderNewsItem{
		Headline: headline,
		URL:      "https://example.com/" + headline,
		Source:   source,
		Summary:  "summary",
	}
}

func newsServiceWith(t *testing.T, cfg *config.Config, providers ...repository.NewsProviderRepository) NewsService {
	t.Helper()
	return NewNewsService(cfg, testLogger(t), providers)
}

func TestGetNewsForStockMergesProvidersInOrder(t *testing.T) {
	yahoo := &fakeNewsProvider{name: "yahoo", items: []dto.ProviderNewsItem{
		providerItem("Apple beats earnings", "Yahoo Finance"),
	}}
	newsapi := &fakeNewsProvider{name: "newsapi", items: []dto.ProviderNewsItem{
		providerItem("Apple raises guidance", "Reuters"),
	}}
	svc := newsServiceWith(t, testConfig(), yahoo, newsapi)

	date := time.Date(2026, 1, 8, 21, 30, 0, 0, time.UTC)
	news := svc.GetNewsForStock(context.Background(), "AAPL", "Apple Inc.", date)

	require.Len(t, news, 2)
	assert.Equal(t, "Apple beats earnings", news[0].Headline)
	assert.Equal(t, "Apple raises guidance", news[1].Headline)
	for _, n := range news {
		assert.Equal(t, "AAPL", n.StockSymbol)
		assert.Equal(t, time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), n.Date)
	}
}

func TestGetNewsForStockDeduplicatesAcrossProviders(t *testing.T) {
	yahoo := &fakeNewsProvider{name: "yahoo", items: []dto.ProviderNewsItem{
		providerItem("Apple beats earnings", "Reuters"),
	}}
	newsapi := &fakeNewsProvider{name: "newsapi", items: []dto.ProviderNewsItem{
		providerItem("  apple BEATS earnings ", "REUTERS"),
		providerItem("Apple beats earnings", "Bloomberg"),
	}}
	svc := newsServiceWith(t, testConfig(), yahoo, newsapi)

	news := svc.GetNewsForStock(context.Background(), "AAPL", "Apple Inc.", time.Now())

	// Same headline from a different source is a distinct story.
	require.Len(t, news, 2)
	assert.Equal(t, "Reuters", news[0].Source)
	assert.Equal(t, "Bloomberg", news[1].Source)
}

func TestGetNewsForStockDegradesOnProviderFailure(t *testing.T) {
	broken := &fakeNewsProvider{name: "yahoo", err: errors.New("feed timeout")}
	working := &fakeNewsProvider{name: "newsapi", items: []dto.ProviderNewsItem{
		providerItem("Apple raises guidance", "Reuters"),
	}}
	svc := newsServiceWith(t, testConfig(), broken, working)

	news := svc.GetNewsForStock(context.Background(), "AAPL", "Apple Inc.", time.Now())

	require.Len(t, news, 1)
	assert.Equal(t, "Apple raises guidance", news[0].Headline)
}

func TestGetNewsForStockAllProvidersFail(t *testing.T) {
	svc := newsServiceWith(t, testConfig(),
		&fakeNewsProvider{name: "yahoo", err: errors.New("down")},
		&fakeNewsProvider{name: "newsapi", err: errors.New("down")})

	news := svc.GetNewsForStock(context.Background(), "AAPL", "Apple Inc.", time.Now())

	assert.NotNil(t, news)
	assert.Empty(t, news)
}

func TestGetNewsForStockCapsPerSymbol(t *testing.T) {
	cfg := testConfig()
	cfg.News.MaxPerSymbol = 3
	items := make([]dto.ProviderNewsItem, 0, 8)
	for i := 0; i < 8; i++ {
		items = append(items, providerItem("Headline "+string(rune('A'+i)), "Reuters"))
	}
	svc := newsServiceWith(t, cfg, &fakeNewsProvider{name: "yahoo", items: items})

	news := svc.GetNewsForStock(context.Background(), "AAPL", "Apple Inc.", time.Now())

	assert.Len(t, news, 3)
}

func TestGetNewsForStockSkipsBlankHeadlines(t *testing.T) {
	svc := newsServiceWith(t, testConfig(), &fakeNewsProvider{name: "yahoo", items: []dto.ProviderNewsItem{
		{Headline: "", Source: "Reuters"},
		providerItem("Real story", "Reuters"),
	}})

	news := svc.GetNewsForStock(context.Background(), "AAPL", "Apple Inc.", time.Now())

	require.Len(t, news, 1)
	assert.Equal(t, "Real story", news[0].Headline)
}

func TestNewsHashIdentifier(t *testing.T) {
	hash := newsHashIdentifier("AAPL", "Apple beats earnings", "Reuters")

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), hash)
	// Case and whitespace variants hash identically.
	assert.Equal(t, hash, newsHashIdentifier("aapl", "  APPLE BEATS EARNINGS ", "reuters"))
	assert.NotEqual(t, hash, newsHashIdentifier("AAPL", "Apple beats earnings", "Bloomberg"))
}

func TestTopStoryTextNoURL(t *testing.T) {
	svc := newsServiceWith(t, testConfig())

	text := svc.TopStoryText(context.Background(), nil)

	assert.Equal(t, "", text)
}
