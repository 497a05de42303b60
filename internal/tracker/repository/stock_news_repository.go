package repository

import (
	"context"
	"time"

	"golang-stock-movers/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockNewsRepository defines the interface for interacting with stored news items.
type StockNewsRepository interface {
	WithTx(tx *gorm.DB) StockNewsRepository
	CreateIgnoreConflictBatch(ctx context.Context, items []entity.StockNews) (int, error)
	FindBySymbol(ctx context.Context, symbol string, limit int) ([]entity.StockNews, error)
	FindBySymbolAndDate(ctx context.Context, symbol string, date time.Time) ([]entity.StockNews, error)
}

// NewStockNewsRepository creates a new instance of StockNewsRepository.
func NewStockNewsRepository(db *gorm.DB) StockNewsRepository {
	return &stockNewsRepository{db: db}
}

type stockNewsRepository struct {
	db *gorm.DB
}

func (r *stockNewsRepository) WithTx(tx *gorm.DB) StockNewsRepository {
	return &stockNewsRepository{db: tx}
}

// CreateIgnoreConflictBatch appends news items, silently skipping rows whose
// hash_identifier already exists. Returns the number actually inserted.
func (r *stockNewsRepository) CreateIgnoreConflictBatch(ctx context.Context, items []entity.StockNews) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hash_identifier"}},
		DoNothing: true,
	}).Create(&items)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return int(tx.RowsAffected), nil
}

func (r *stockNewsRepository) FindBySymbol(ctx context.Context, symbol string, limit int) ([]entity.StockNews, error) {
	var items []entity.StockNews
	err := r.db.WithContext(ctx).
		Where("stock_symbol = ?", symbol).
		Order("published_at DESC NULLS LAST, id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *stockNewsRepository) FindBySymbolAndDate(ctx context.Context, symbol string, date time.Time) ([]entity.StockNews, error) {
	var items []entity.StockNews
	err := r.db.WithContext(ctx).
		Where("stock_symbol = ? AND date = ?", symbol, date).
		Order("published_at DESC NULLS LAST, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
