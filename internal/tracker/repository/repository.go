package repository

import (
	"context"
	"time"

	"golang-stock-movers/internal/tracker/dto"
)

// AIRepository generates one article draft per mover. Implementations decide
// the provider; callers decide what an error means (here: fall back to the
// template variant).
type AIRepository interface {
	GenerateArticle(ctx context.Context, prompt *dto.ArticlePrompt) (*dto.ArticleDraft, error)
	Name() string
}

// NewsProviderRepository is one source of headlines for a symbol.
type NewsProviderRepository interface {
	GetNews(ctx context.Context, symbol, companyName string, window dto.NewsWindow) ([]dto.ProviderNewsItem, error)
	Name() string
}

// MarketDataRepository serves end-of-day pricing for single symbols plus the
// index constituents list.
type MarketDataRepository interface {
	GetConstituents(ctx context.Context) ([]string, error)
	GetDailyQuote(ctx context.Context, symbol string, asOf time.Time) (*dto.DailyQuote, error)
	GetCompanyName(ctx context.Context, symbol string) string
}

// ConstituentsRepository is a fallback source for the equity universe.
type ConstituentsRepository interface {
	GetConstituents(ctx context.Context) ([]string, error)
}

// TrendingRepository reports tickers with unusual retail attention.
type TrendingRepository interface {
	GetTrending(ctx context.Context) ([]dto.TrendingStock, error)
}
