package service

import (
	"context"
	"errors"

	"golang-stock-movers/internal/entity"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/internal/tracker/repository"
	"golang-stock-movers/pkg/logger"
	"golang-stock-movers/pkg/utils"

	"gorm.io/gorm"
)

// ArticleService serves persisted articles and their news to the read API.
type ArticleService interface {
	// GetDailyArticles returns the articles of a trading date, each carrying
	// its stock record when one exists. Empty date resolves to the most
	// recent date with articles; no data yields an empty list.
	GetDailyArticles(ctx context.Context, dateStr string) ([]dto.ArticleWithStockResponse, error)
	// GetHistory returns articles from the last `days` days.
	GetHistory(ctx context.Context, days int) ([]entity.Article, error)
	GetArticleByID(ctx context.Context, id uint) (*entity.Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*entity.Article, error)
	GetArticlesBySymbol(ctx context.Context, symbol string, limit int) ([]entity.Article, error)
	// GetNewsBySymbol returns the stored news items for a symbol, newest
	// first.
	GetNewsBySymbol(ctx context.Context, symbol string, limit int) ([]entity.StockNews, error)
}

// NewArticleService creates a new article read service.
func NewArticleService(log *logger.Logger, articleRepo repository.ArticleRepository, stockRepo repository.StockRepository, newsRepo repository.StockNewsRepository) ArticleService {
	return &articleService{
		log:         log,
		articleRepo: articleRepo,
		stockRepo:   stockRepo,
		newsRepo:    newsRepo,
	}
}

type articleService struct {
	log         *logger.Logger
	articleRepo repository.ArticleRepository
	stockRepo   repository.StockRepository
	newsRepo    repository.StockNewsRepository
}

func (s *articleService) GetDailyArticles(ctx context.Context, dateStr string) ([]dto.ArticleWithStockResponse, error) {
	var date = utils.TradingDate(utils.TimeNowET())
	if dateStr != "" {
		parsed, err := utils.ParseDate(dateStr)
		if err != nil {
			return nil, ErrInvalidDate
		}
		date = parsed
	} else {
		latest, err := s.articleRepo.FindLatestDate(ctx)
		if err != nil {
			return nil, err
		}
		if latest.IsZero() {
			return []dto.ArticleWithStockResponse{}, nil
		}
		date = latest
	}

	articles, err := s.articleRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ArticleWithStockResponse, 0, len(articles))
	for _, article := range articles {
		enriched := dto.ArticleWithStockResponse{Article: article}
		stock, err := s.stockRepo.FindBySymbolAndDate(ctx, article.StockSymbol, article.Date)
		switch {
		case err == nil:
			enriched.Stock = stock
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Article without its stock row should not happen, but the read
			// side degrades instead of failing the whole listing.
		default:
			return nil, err
		}
		out = append(out, enriched)
	}
	return out, nil
}

func (s *articleService) GetHistory(ctx context.Context, days int) ([]entity.Article, error) {
	if days <= 0 {
		days = 7
	}
	cutoff := utils.TradingDate(utils.TimeNowET().AddDate(0, 0, -days))
	articles, err := s.articleRepo.FindSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []entity.Article{}
	}
	return articles, nil
}

func (s *articleService) GetArticleByID(ctx context.Context, id uint) (*entity.Article, error) {
	return s.articleRepo.FindByID(ctx, id)
}

func (s *articleService) GetArticleBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	return s.articleRepo.FindBySlug(ctx, slug)
}

func (s *articleService) GetArticlesBySymbol(ctx context.Context, symbol string, limit int) ([]entity.Article, error) {
	if limit <= 0 {
		limit = 10
	}
	articles, err := s.articleRepo.FindBySymbol(ctx, normalizeSymbol(symbol), limit)
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []entity.Article{}
	}
	return articles, nil
}

func (s *articleService) GetNewsBySymbol(ctx context.Context, symbol string, limit int) ([]entity.StockNews, error) {
	if limit <= 0 {
		limit = 10
	}
	items, err := s.newsRepo.FindBySymbol(ctx, normalizeSymbol(symbol), limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.StockNews{}
	}
	return items, nil
}
