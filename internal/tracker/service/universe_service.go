package service

import (
	"context"

	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/repository"
	"golang-stock-movers/pkg/logger"
)

// fallbackSymbols is the compiled-in large-cap list used when both the
// market-data provider and the Wikipedia scrape are unavailable. It mirrors
// the heaviest S&P 500 weights so a degraded run still covers the names
// readers care about.
var fallbackSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "META", "TSLA", "BRK-B",
	"UNH", "JNJ", "JPM", "V", "PG", "XOM", "HD", "CVX", "MA", "BAC",
	"ABBV", "PFE", "COST", "KO", "AVGO", "MRK", "PEP", "TMO", "WMT",
	"CSCO", "MCD", "ABT", "DHR", "ACN", "LIN", "VZ", "ADBE", "NKE",
	"CRM", "TXN", "NEE", "CMCSA", "PM", "DIS", "ORCL", "WFC", "UPS",
	"INTC", "AMD", "QCOM",
}

// UniverseService resolves the equity universe a pipeline run covers.
type UniverseService interface {
	// GetSymbols never fails: provider errors fall through to the Wikipedia
	// scrape and finally to the compiled-in list.
	GetSymbols(ctx context.Context) []string
}

// NewUniverseService creates a new universe service.
func NewUniverseService(cfg *config.Config, log *logger.Logger, marketDataRepo repository.MarketDataRepository, constituentsRepo repository.ConstituentsRepository) UniverseService {
	return &universeService{
		cfg:              cfg,
		log:              log,
		marketDataRepo:   marketDataRepo,
		constituentsRepo: constituentsRepo,
	}
}

type universeService struct {
	cfg              *config.Config
	log              *logger.Logger
	marketDataRepo   repository.MarketDataRepository
	constituentsRepo repository.ConstituentsRepository
}

func (s *universeService) GetSymbols(ctx context.Context) []string {
	symbols, err := s.marketDataRepo.GetConstituents(ctx)
	if err != nil || len(symbols) == 0 {
		s.log.WarnContext(ctx, "Constituents endpoint unavailable, scraping Wikipedia", logger.ErrorField(err))
		symbols, err = s.constituentsRepo.GetConstituents(ctx)
	}
	if err != nil || len(symbols) == 0 {
		s.log.WarnContext(ctx, "All constituent sources failed, using compiled-in list", logger.ErrorField(err))
		symbols = make([]string, len(fallbackSymbols))
		copy(symbols, fallbackSymbols)
	}

	if max := s.cfg.Pipeline.MaxSymbols; max > 0 && len(symbols) > max {
		s.log.InfoContext(ctx, "Truncating universe to stay under provider rate limits",
			logger.IntField("universe_size", len(symbols)),
			logger.IntField("max_symbols", max))
		symbols = symbols[:max]
	}

	return symbols
}
