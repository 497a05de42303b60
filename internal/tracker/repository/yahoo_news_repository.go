package repository

import (
	"context"
	"fmt"
	"net/url"

	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/pkg/logger"
	"golang-stock-movers/pkg/utils"

	"github.com/mmcdole/gofeed"
)

type yahooNewsRepository struct {
	cfg *config.Config
	log *logger.Logger
}

// NewYahooNewsRepository creates the primary news provider, backed by the
// per-symbol Yahoo Finance RSS feed. It needs no API key.
func NewYahooNewsRepository(cfg *config.Config, log *logger.Logger) NewsProviderRepository {
	return &yahooNewsRepository{cfg: cfg, log: log}
}

func (r *yahooNewsRepository) Name() string {
	return "Yahoo Finance"
}

func (r *yahooNewsRepository) GetNews(ctx context.Context, symbol, companyName string, window dto.NewsWindow) ([]dto.ProviderNewsItem, error) {
	feedURL := fmt.Sprintf("%s?s=%s&region=US&lang=en-US",
		r.cfg.News.Yahoo.BaseURL, url.QueryEscape(symbol))

	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse yahoo feed for %s: %w", symbol, err)
	}

	var items []dto.ProviderNewsItem
	for _, item := range feed.Items {
		if item == nil || item.Title == "" {
			continue
		}
		if item.PublishedParsed != nil && !window.From.IsZero() && item.PublishedParsed.Before(window.From) {
			continue
		}
		source := r.Name()
		if item.Custom != nil && item.Custom["source"] != "" {
			source = item.Custom["source"]
		}
		items = append(items, dto.ProviderNewsItem{
			Headline:    utils.SafeText(item.Title),
			URL:         item.Link,
			Source:      source,
			Summary:     utils.SafeText(item.Description),
			PublishedAt: item.PublishedParsed,
		})
	}

	r.log.DebugContext(ctx, "Fetched Yahoo Finance headlines",
		logger.StringField("symbol", symbol), logger.IntField("count", len(items)))
	return items, nil
}
