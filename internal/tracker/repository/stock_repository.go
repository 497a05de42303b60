package repository

import (
	"context"
	"database/sql"
	"time"

	"golang-stock-movers/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository defines the interface for interacting with stored stock records.
type StockRepository interface {
	WithTx(tx *gorm.DB) StockRepository
	UpsertBatch(ctx context.Context, stocks []entity.Stock) error
	FindByDate(ctx context.Context, date time.Time) ([]entity.Stock, error)
	FindBySymbolAndDate(ctx context.Context, symbol string, date time.Time) (*entity.Stock, error)
	FindLatestBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	FindSince(ctx context.Context, cutoff time.Time) ([]entity.Stock, error)
	FindLatestDate(ctx context.Context) (time.Time, error)
	FindTrending(ctx context.Context, date time.Time) ([]entity.Stock, error)
}

// NewStockRepository creates a new instance of StockRepository.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

type stockRepository struct {
	db *gorm.DB
}

func (r *stockRepository) WithTx(tx *gorm.DB) StockRepository {
	return &stockRepository{db: tx}
}

// UpsertBatch writes records keyed by (symbol, date); re-runs for the same
// day refresh prices instead of duplicating rows.
func (r *stockRepository) UpsertBatch(ctx context.Context, stocks []entity.Stock) error {
	if len(stocks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "price", "price_change", "price_change_pct", "volume",
			"wsb_mentions", "wsb_sentiment", "is_wsb_trending", "updated_at",
		}),
	}).Create(&stocks).Error
}

func (r *stockRepository) FindByDate(ctx context.Context, date time.Time) ([]entity.Stock, error) {
	var stocks []entity.Stock
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("price_change_pct DESC").
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *stockRepository) FindBySymbolAndDate(ctx context.Context, symbol string, date time.Time) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND date = ?", symbol, date).
		First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) FindLatestBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("date DESC").
		First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) FindSince(ctx context.Context, cutoff time.Time) ([]entity.Stock, error) {
	var stocks []entity.Stock
	err := r.db.WithContext(ctx).
		Where("date >= ?", cutoff).
		Order("date DESC, price_change_pct DESC").
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindLatestDate returns the most recent trading date with data, or a zero
// time when the table is empty.
func (r *stockRepository) FindLatestDate(ctx context.Context) (time.Time, error) {
	var latest sql.NullTime
	err := r.db.WithContext(ctx).
		Model(&entity.Stock{}).
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

func (r *stockRepository) FindTrending(ctx context.Context, date time.Time) ([]entity.Stock, error) {
	var stocks []entity.Stock
	err := r.db.WithContext(ctx).
		Where("date = ? AND is_wsb_trending = ?", date, true).
		Order("wsb_mentions DESC").
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}
