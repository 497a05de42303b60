package repository

import (
	"testing"
	"time"

	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/pkg/logger"

	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

// marketConfig points the FMP client at a test server with a limiter fast
// enough to stay out of the way.
func marketConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.MarketData.BaseURL = baseURL
	cfg.MarketData.APIKey = "test-key"
	cfg.MarketData.MaxRequestPerMinute = 6000
	cfg.MarketData.CacheTTL = time.Hour
	return cfg
}

// newsConfig points the news providers at a test server.
func newsConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.News.MaxPerSymbol = 10
	cfg.News.WindowDays = 2
	cfg.News.MaxRequestPerMinute = 6000
	cfg.News.Yahoo.BaseURL = baseURL
	cfg.News.NewsAPI.BaseURL = baseURL
	cfg.News.NewsAPI.APIKey = "newsapi-key"
	cfg.News.NewsAPI.PageSize = 5
	return cfg
}
