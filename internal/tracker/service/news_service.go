package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang-stock-movers/internal/entity"
	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/internal/tracker/repository"
	"golang-stock-movers/pkg/logger"
	"golang-stock-movers/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/mauidude/go-readability"
)

// NewsService gathers recent headlines for one symbol across providers.
type NewsService interface {
	// GetNewsForStock merges provider results in priority order, removes
	// duplicates by normalized headline+source and caps the list. Provider
	// failures degrade to whatever the other providers returned; total
	// failure yields an empty slice, never an error.
	GetNewsForStock(ctx context.Context, symbol, companyName string, date time.Time) []entity.StockNews
	// TopStoryText fetches the first story carrying a URL and extracts its
	// readable text for prompt context. Best effort: "" on any failure.
	TopStoryText(ctx context.Context, items []entity.StockNews) string
}

// NewNewsService creates a news service over the given providers, tried in
// order. Wiring decides which providers exist (e.g. NewsAPI only when its
// key is configured).
func NewNewsService(cfg *config.Config, log *logger.Logger, providers []repository.NewsProviderRepository) NewsService {
	return &newsService{
		cfg:       cfg,
		log:       log,
		providers: providers,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type newsService struct {
	cfg        *config.Config
	log        *logger.Logger
	providers  []repository.NewsProviderRepository
	httpClient *http.Client
}

func (s *newsService) GetNewsForStock(ctx context.Context, symbol, companyName string, date time.Time) []entity.StockNews {
	now := utils.TimeNowET()
	window := dto.NewsWindow{
		From: now.AddDate(0, 0, -s.cfg.News.WindowDays),
		To:   now,
	}

	var merged []dto.ProviderNewsItem
	for _, provider := range s.providers {
		items, err := provider.GetNews(ctx, symbol, companyName, window)
		if err != nil {
			s.log.WarnContext(ctx, "News provider failed, continuing with the others",
				logger.StringField("provider", provider.Name()),
				logger.StringField("symbol", symbol),
				logger.ErrorField(err))
			continue
		}
		merged = append(merged, items...)
	}

	seen := make(map[string]bool)
	news := make([]entity.StockNews, 0, len(merged))
	for _, item := range merged {
		if item.Headline == "" {
			continue
		}
		key := dedupKey(item.Headline, item.Source)
		if seen[key] {
			continue
		}
		seen[key] = true

		news = append(news, entity.StockNews{
			StockSymbol:    symbol,
			Date:           utils.TradingDate(date),
			Headline:       item.Headline,
			URL:            item.URL,
			Source:         item.Source,
			Summary:        item.Summary,
			HashIdentifier: newsHashIdentifier(symbol, item.Headline, item.Source),
			PublishedAt:    item.PublishedAt,
		})
		if len(news) >= s.cfg.News.MaxPerSymbol {
			break
		}
	}

	s.log.DebugContext(ctx, "Gathered news for symbol",
		logger.StringField("symbol", symbol),
		logger.IntField("raw", len(merged)),
		logger.IntField("kept", len(news)))

	return news
}

func (s *newsService) TopStoryText(ctx context.Context, items []entity.StockNews) string {
	var storyURL string
	for _, item := range items {
		if item.URL != "" {
			storyURL = item.URL
			break
		}
	}
	if storyURL == "" {
		return ""
	}

	text, err := s.extractReadableText(ctx, storyURL)
	if err != nil {
		s.log.DebugContext(ctx, "Top story extraction failed",
			logger.StringField("url", storyURL), logger.ErrorField(err))
		return ""
	}
	return text
}

func (s *newsService) extractReadableText(ctx context.Context, storyURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, storyURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("story fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse story content: %w", err)
	}
	cleaned, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Content()))
	if err != nil {
		return "", fmt.Errorf("failed to clean story content: %w", err)
	}

	// Bound what reaches the prompt builder; articles can run to hundreds
	// of kilobytes of boilerplate.
	return utils.TruncateString(utils.SafeText(cleaned.Text()), 5000), nil
}

func dedupKey(headline, source string) string {
	return strings.ToLower(strings.TrimSpace(headline)) + "|" + strings.ToLower(strings.TrimSpace(source))
}

// newsHashIdentifier keys stored news so re-runs conflict-ignore instead of
// duplicating rows.
func newsHashIdentifier(symbol, headline, source string) string {
	sum := md5.Sum([]byte(strings.ToUpper(symbol) + "|" + dedupKey(headline, source)))
	return hex.EncodeToString(sum[:])
}
