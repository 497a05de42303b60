package repository

import (
	"context"
	"database/sql"
	"time"

	"golang-stock-movers/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository defines the interface for interacting with stored articles.
type ArticleRepository interface {
	WithTx(tx *gorm.DB) ArticleRepository
	UpsertBatch(ctx context.Context, articles []entity.Article) error
	FindByID(ctx context.Context, id uint) (*entity.Article, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Article, error)
	FindByDate(ctx context.Context, date time.Time) ([]entity.Article, error)
	FindBySymbol(ctx context.Context, symbol string, limit int) ([]entity.Article, error)
	FindSince(ctx context.Context, cutoff time.Time) ([]entity.Article, error)
	FindLatestDate(ctx context.Context) (time.Time, error)
}

// NewArticleRepository creates a new instance of ArticleRepository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

type articleRepository struct {
	db *gorm.DB
}

func (r *articleRepository) WithTx(tx *gorm.DB) ArticleRepository {
	return &articleRepository{db: tx}
}

// UpsertBatch writes articles keyed by (stock_symbol, date, movement_type);
// a re-run for the same day refreshes title, content and slug in place.
func (r *articleRepository) UpsertBatch(ctx context.Context, articles []entity.Article) error {
	if len(articles) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "stock_symbol"}, {Name: "date"}, {Name: "movement_type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "slug", "updated_at"}),
	}).Create(&articles).Error
}

func (r *articleRepository) FindByID(ctx context.Context, id uint) (*entity.Article, error) {
	var article entity.Article
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) FindBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	var article entity.Article
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) FindByDate(ctx context.Context, date time.Time) ([]entity.Article, error) {
	var articles []entity.Article
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("movement_type ASC, id ASC").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) FindBySymbol(ctx context.Context, symbol string, limit int) ([]entity.Article, error) {
	var articles []entity.Article
	err := r.db.WithContext(ctx).
		Where("stock_symbol = ?", symbol).
		Order("date DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) FindSince(ctx context.Context, cutoff time.Time) ([]entity.Article, error) {
	var articles []entity.Article
	err := r.db.WithContext(ctx).
		Where("date >= ?", cutoff).
		Order("date DESC, movement_type ASC").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// FindLatestDate returns the most recent date with articles, or a zero time
// when the table is empty.
func (r *articleRepository) FindLatestDate(ctx context.Context) (time.Time, error) {
	var latest sql.NullTime
	err := r.db.WithContext(ctx).
		Model(&entity.Article{}).
		Select("MAX(date)").
		Scan(&latest).Error
	if err != nil {
		return time.Time{}, err
	}
	if !latest.Valid {
		return time.Time{}, nil
	}
	return latest.Time, nil
}
