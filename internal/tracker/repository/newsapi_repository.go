package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/pkg/logger"
	"golang-stock-movers/pkg/utils"

	"golang.org/x/time/rate"
)

type newsAPIRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewNewsAPIRepository creates the secondary news provider against
// newsapi.org. It only runs when an API key is configured.
func NewNewsAPIRepository(cfg *config.Config, log *logger.Logger) NewsProviderRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.News.MaxRequestPerMinute)
	return &newsAPIRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *newsAPIRepository) Name() string {
	return "NewsAPI"
}

func (r *newsAPIRepository) GetNews(ctx context.Context, symbol, companyName string, window dto.NewsWindow) ([]dto.ProviderNewsItem, error) {
	if r.cfg.News.NewsAPI.APIKey == "" {
		return nil, fmt.Errorf("newsapi key not configured")
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := symbol
	if companyName != "" && companyName != symbol {
		query = fmt.Sprintf("%q OR %s", companyName, symbol)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", fmt.Sprintf("%d", r.cfg.News.NewsAPI.PageSize))
	params.Set("apiKey", r.cfg.News.NewsAPI.APIKey)
	if !window.From.IsZero() {
		params.Set("from", window.From.Format("2006-01-02"))
	}
	if !window.To.IsZero() {
		params.Set("to", window.To.Format("2006-01-02"))
	}

	reqURL := fmt.Sprintf("%s/everything?%s", r.cfg.News.NewsAPI.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request failed for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned status %d for %s", resp.StatusCode, symbol)
	}

	var envelope dto.NewsAPIResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode newsapi response: %w", err)
	}
	if envelope.Status != "ok" {
		return nil, fmt.Errorf("newsapi error %s: %s", envelope.Code, envelope.Message)
	}

	items := make([]dto.ProviderNewsItem, 0, len(envelope.Articles))
	for _, a := range envelope.Articles {
		if a.Title == "" {
			continue
		}
		published := a.PublishedAt
		items = append(items, dto.ProviderNewsItem{
			Headline:    utils.SafeText(a.Title),
			URL:         a.URL,
			Source:      a.Source.Name,
			Summary:     utils.SafeText(a.Description),
			PublishedAt: &published,
		})
	}

	r.log.DebugContext(ctx, "Fetched NewsAPI headlines",
		logger.StringField("symbol", symbol), logger.IntField("count", len(items)))
	return items, nil
}
