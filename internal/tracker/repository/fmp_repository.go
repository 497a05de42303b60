package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/pkg/logger"
	"golang-stock-movers/pkg/utils"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	cacheKeyConstituents = "fmp:constituents"
	cacheKeyProfile      = "fmp:profile:"
)

type fmpRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	cache          *gocache.Cache
}

// NewFMPRepository creates a MarketDataRepository backed by the Financial
// Modeling Prep API.
func NewFMPRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.MarketData.MaxRequestPerMinute)
	return &fmpRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		cache:          gocache.New(cfg.MarketData.CacheTTL, 10*time.Minute),
	}
}

// GetConstituents fetches the S&P 500 member symbols. The list is cached for
// the configured TTL so repeated runs on one day cost a single request.
func (r *fmpRepository) GetConstituents(ctx context.Context) ([]string, error) {
	if cached, ok := r.cache.Get(cacheKeyConstituents); ok {
		return cached.([]string), nil
	}

	body, err := r.sendRequest(ctx, fmt.Sprintf("%s/sp500_constituent", r.cfg.MarketData.BaseURL))
	if err != nil {
		return nil, err
	}

	var constituents []dto.FMPConstituent
	if err := json.Unmarshal(body, &constituents); err != nil {
		return nil, fmt.Errorf("failed to decode constituents: %w", err)
	}
	if len(constituents) == 0 {
		return nil, fmt.Errorf("constituents response was empty")
	}

	symbols := make([]string, 0, len(constituents))
	for _, c := range constituents {
		if c.Symbol == "" {
			continue
		}
		symbols = append(symbols, c.Symbol)
	}

	r.cache.Set(cacheKeyConstituents, symbols, gocache.DefaultExpiration)
	return symbols, nil
}

// GetDailyQuote derives a symbol's daily movement from its two most recent
// closes. A non-zero asOf anchors the calculation at the close on or before
// that date instead of the latest one.
func (r *fmpRepository) GetDailyQuote(ctx context.Context, symbol string, asOf time.Time) (*dto.DailyQuote, error) {
	reqURL := fmt.Sprintf("%s/historical-price-full/%s", r.cfg.MarketData.BaseURL, url.PathEscape(symbol))
	body, err := r.sendRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var hist dto.FMPHistoricalResponse
	if err := json.Unmarshal(body, &hist); err != nil {
		return nil, fmt.Errorf("failed to decode historical prices for %s: %w", symbol, err)
	}

	bars := hist.Historical
	if !asOf.IsZero() {
		// Entries come newest first; skip forward to the target date.
		for len(bars) > 0 {
			barDate, err := utils.ParseDate(bars[0].Date)
			if err != nil || !barDate.After(asOf) {
				break
			}
			bars = bars[1:]
		}
	}
	if len(bars) < 2 {
		return nil, fmt.Errorf("not enough price history for %s", symbol)
	}

	latest, prev := bars[0], bars[1]
	if prev.Close == 0 {
		return nil, fmt.Errorf("previous close for %s is zero", symbol)
	}

	date, err := utils.ParseDate(latest.Date)
	if err != nil {
		return nil, fmt.Errorf("bad bar date %q for %s: %w", latest.Date, symbol, err)
	}

	change := latest.Close - prev.Close
	return &dto.DailyQuote{
		Symbol:         symbol,
		Date:           date,
		Price:          latest.Close,
		PriceChange:    change,
		PriceChangePct: change / prev.Close * 100,
		Volume:         latest.Volume,
	}, nil
}

// GetCompanyName resolves a display name via the profile endpoint, degrading
// to the bare symbol on any failure. Profiles are cached.
func (r *fmpRepository) GetCompanyName(ctx context.Context, symbol string) string {
	key := cacheKeyProfile + symbol
	if cached, ok := r.cache.Get(key); ok {
		return cached.(string)
	}

	body, err := r.sendRequest(ctx, fmt.Sprintf("%s/profile/%s", r.cfg.MarketData.BaseURL, url.PathEscape(symbol)))
	if err != nil {
		r.log.DebugContext(ctx, "Profile lookup failed, using symbol as name",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return symbol
	}

	var profiles []dto.FMPProfile
	if err := json.Unmarshal(body, &profiles); err != nil || len(profiles) == 0 || profiles[0].CompanyName == "" {
		return symbol
	}

	name := profiles[0].CompanyName
	r.cache.Set(key, name, gocache.DefaultExpiration)
	return name
}

func (r *fmpRepository) sendRequest(ctx context.Context, rawURL string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("url", rawURL),
		zap.Int("max_request_per_minute", r.cfg.MarketData.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for request limit", append(fields, zap.Error(err))...)
		return nil, err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("apikey", r.cfg.MarketData.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to create new http request", append(fields, zap.Error(err))...)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to FMP API", append(fields, zap.Error(err))...)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from FMP API",
			append(fields, zap.Int("status_code", resp.StatusCode))...)
		return nil, fmt.Errorf("fmp api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to read response body from FMP API", append(fields, zap.Error(err))...)
		return nil, err
	}

	return body, nil
}
