package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang-stock-movers/internal/entity"
	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/repository"
	"golang-stock-movers/pkg/logger"
	"golang-stock-movers/pkg/utils"
)

// MarketDataService fetches end-of-day records for a whole universe.
type MarketDataService interface {
	// FetchDailyRecords resolves one Stock per symbol. Symbols that fail are
	// skipped, not fatal: the second return value lists them as
	// "SYMBOL: reason" strings for the run record. Output order follows the
	// input symbol order regardless of fetch concurrency.
	FetchDailyRecords(ctx context.Context, symbols []string, asOf time.Time) ([]entity.Stock, []string)
}

// NewMarketDataService creates a new market data service.
func NewMarketDataService(cfg *config.Config, log *logger.Logger, marketDataRepo repository.MarketDataRepository) MarketDataService {
	return &marketDataService{
		cfg:            cfg,
		log:            log,
		marketDataRepo: marketDataRepo,
	}
}

type marketDataService struct {
	cfg            *config.Config
	log            *logger.Logger
	marketDataRepo repository.MarketDataRepository
}

func (s *marketDataService) FetchDailyRecords(ctx context.Context, symbols []string, asOf time.Time) ([]entity.Stock, []string) {
	results := make([]*entity.Stock, len(symbols))
	var skipped []string
	var mu sync.Mutex
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, s.cfg.Pipeline.FetchConcurrency)

	for i, symbol := range symbols {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			quote, err := s.marketDataRepo.GetDailyQuote(ctx, symbol, asOf)
			if err != nil {
				s.log.WarnContext(ctx, "Skipping symbol, quote fetch failed",
					logger.StringField("symbol", symbol), logger.ErrorField(err))
				mu.Lock()
				skipped = append(skipped, fmt.Sprintf("%s: %v", symbol, err))
				mu.Unlock()
				return
			}

			results[i] = &entity.Stock{
				Symbol:         quote.Symbol,
				Name:           s.marketDataRepo.GetCompanyName(ctx, symbol),
				Date:           quote.Date,
				Price:          quote.Price,
				PriceChange:    quote.PriceChange,
				PriceChangePct: quote.PriceChangePct,
				Volume:         quote.Volume,
			}
		})
	}

	wg.Wait()

	records := make([]entity.Stock, 0, len(symbols))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	// Workers append failures in completion order; sort so run records stay
	// comparable across re-runs.
	sort.Strings(skipped)

	s.log.InfoContext(ctx, "Fetched daily records",
		logger.IntField("requested", len(symbols)),
		logger.IntField("fetched", len(records)),
		logger.IntField("skipped", len(skipped)))

	return records, skipped
}
