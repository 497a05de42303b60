package repository

import (
	"context"
	"fmt"

	"golang-stock-movers/internal/entity"
	"golang-stock-movers/internal/tracker/dto"

	"gorm.io/gorm"
)

// MoversStorageRepository persists the full output of one pipeline run
// atomically. Either every stock, article and news row lands or none do.
type MoversStorageRepository interface {
	SaveRunResults(ctx context.Context, stocks []entity.Stock, articles []entity.Article, news []entity.StockNews) (*dto.PersistCounts, error)
}

// NewMoversStorageRepository creates a MoversStorageRepository over the
// given gorm handle and the per-entity repositories.
func NewMoversStorageRepository(db *gorm.DB, stockRepo StockRepository, articleRepo ArticleRepository, newsRepo StockNewsRepository) MoversStorageRepository {
	return &moversStorageRepository{
		db:          db,
		stockRepo:   stockRepo,
		articleRepo: articleRepo,
		newsRepo:    newsRepo,
	}
}

type moversStorageRepository struct {
	db          *gorm.DB
	stockRepo   StockRepository
	articleRepo ArticleRepository
	newsRepo    StockNewsRepository
}

// SaveRunResults upserts stocks and articles and appends news inside a
// single transaction. Stocks and articles refresh in place on re-runs;
// news rows whose hash already exists are skipped.
func (r *moversStorageRepository) SaveRunResults(ctx context.Context, stocks []entity.Stock, articles []entity.Article, news []entity.StockNews) (*dto.PersistCounts, error) {
	counts := &dto.PersistCounts{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.stockRepo.WithTx(tx).UpsertBatch(ctx, stocks); err != nil {
			return fmt.Errorf("failed to save stocks: %w", err)
		}
		counts.StocksSaved = len(stocks)

		if err := r.articleRepo.WithTx(tx).UpsertBatch(ctx, articles); err != nil {
			return fmt.Errorf("failed to save articles: %w", err)
		}
		counts.ArticlesSaved = len(articles)

		inserted, err := r.newsRepo.WithTx(tx).CreateIgnoreConflictBatch(ctx, news)
		if err != nil {
			return fmt.Errorf("failed to save news: %w", err)
		}
		counts.NewsSaved = inserted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
