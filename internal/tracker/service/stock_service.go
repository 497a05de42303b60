package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang-stock-movers/internal/entity"
	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/internal/tracker/repository"
	"golang-stock-movers/pkg/logger"
	"golang-stock-movers/pkg/utils"
)

// ErrInvalidDate is returned when a caller-supplied date is not YYYY-MM-DD.
// The HTTP layer maps it to 400.
var ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")

// StockService serves the persisted stock records to the read API.
type StockService interface {
	// GetDailyMovers returns the ranked view of a trading date. An empty
	// date resolves to the most recent date with data; a date with no data
	// yields empty winner/loser lists, not an error.
	GetDailyMovers(ctx context.Context, dateStr string) (*dto.DailyMoversResponse, error)
	// GetHistory returns all records from the last `days` days, newest and
	// biggest movers first.
	GetHistory(ctx context.Context, days int) ([]entity.Stock, error)
	// GetStockBySymbol returns one record; with an empty date, the symbol's
	// most recent one. Missing records surface gorm.ErrRecordNotFound.
	GetStockBySymbol(ctx context.Context, symbol, dateStr string) (*entity.Stock, error)
	// GetWSBTrending lists stocks flagged trending on the most recent date
	// with data.
	GetWSBTrending(ctx context.Context) ([]entity.Stock, error)
}

// NewStockService creates a new stock read service.
func NewStockService(cfg *config.Config, log *logger.Logger, stockRepo repository.StockRepository) StockService {
	return &stockService{
		cfg:       cfg,
		log:       log,
		stockRepo: stockRepo,
	}
}

type stockService struct {
	cfg       *config.Config
	log       *logger.Logger
	stockRepo repository.StockRepository
}

func (s *stockService) GetDailyMovers(ctx context.Context, dateStr string) (*dto.DailyMoversResponse, error) {
	date, err := s.resolveDate(ctx, dateStr)
	if err != nil {
		return nil, err
	}

	resp := &dto.DailyMoversResponse{
		Winners: []entity.Stock{},
		Losers:  []entity.Stock{},
	}
	if date.IsZero() {
		// Nothing persisted yet; an empty view, not an error.
		return resp, nil
	}
	resp.Date = utils.FormatDate(date)

	stocks, err := s.stockRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(stocks) == 0 {
		return resp, nil
	}

	// Rows for a date are exactly the movers the pipeline persisted;
	// re-ranking them reconstructs the winner/loser split.
	movers := RankMovers(stocks, s.cfg.Pipeline.TopN)
	resp.Winners = movers.Winners
	resp.Losers = movers.Losers
	return resp, nil
}

func (s *stockService) GetHistory(ctx context.Context, days int) ([]entity.Stock, error) {
	if days <= 0 {
		days = 7
	}
	cutoff := utils.TradingDate(utils.TimeNowET().AddDate(0, 0, -days))
	stocks, err := s.stockRepo.FindSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	if stocks == nil {
		stocks = []entity.Stock{}
	}
	return stocks, nil
}

func (s *stockService) GetStockBySymbol(ctx context.Context, symbol, dateStr string) (*entity.Stock, error) {
	symbol = normalizeSymbol(symbol)
	if dateStr == "" {
		return s.stockRepo.FindLatestBySymbol(ctx, symbol)
	}
	date, err := utils.ParseDate(dateStr)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return s.stockRepo.FindBySymbolAndDate(ctx, symbol, date)
}

func (s *stockService) GetWSBTrending(ctx context.Context) ([]entity.Stock, error) {
	date, err := s.stockRepo.FindLatestDate(ctx)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return []entity.Stock{}, nil
	}
	stocks, err := s.stockRepo.FindTrending(ctx, date)
	if err != nil {
		return nil, err
	}
	if stocks == nil {
		stocks = []entity.Stock{}
	}
	return stocks, nil
}

// resolveDate parses an explicit date or falls back to the most recent date
// with data. A zero return with nil error means the store is empty.
func (s *stockService) resolveDate(ctx context.Context, dateStr string) (time.Time, error) {
	if dateStr != "" {
		date, err := utils.ParseDate(dateStr)
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
		return date, nil
	}
	return s.stockRepo.FindLatestDate(ctx)
}

// normalizeSymbol canonicalizes user-supplied tickers for lookups.
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
