package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/pkg/logger"
)

const tradestieRedditURL = "https://tradestie.com/api/v1/apps/reddit"

type trendingRepository struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
}

// NewTrendingRepository creates a TrendingRepository backed by tradestie's
// r/wallstreetbets comment tracker. No API key required.
func NewTrendingRepository(log *logger.Logger) TrendingRepository {
	return &trendingRepository{
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: tradestieRedditURL,
	}
}

func (r *trendingRepository) GetTrending(ctx context.Context) ([]dto.TrendingStock, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trending request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trending api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var all []dto.TrendingStock
	if err := json.Unmarshal(body, &all); err != nil {
		return nil, fmt.Errorf("failed to decode trending response: %w", err)
	}

	trending := make([]dto.TrendingStock, 0, len(all))
	for _, t := range all {
		ticker := strings.ToUpper(strings.TrimSpace(t.Ticker))
		// Longer strings are usually parser junk, not tickers.
		if ticker == "" || len(ticker) > 5 {
			continue
		}
		t.Ticker = ticker
		trending = append(trending, t)
	}

	r.log.DebugContext(ctx, "Fetched WSB trending tickers", logger.IntField("count", len(trending)))
	return trending, nil
}
