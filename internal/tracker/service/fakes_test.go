package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"golang-stock-movers/internal/entity"
	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/internal/tracker/repository"
	"golang-stock-movers/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Pipeline.TopN = 5
	cfg.Pipeline.MaxSymbols = 50
	cfg.Pipeline.FetchConcurrency = 3
	cfg.Pipeline.RunLockTTL = time.Minute
	cfg.News.MaxPerSymbol = 10
	cfg.News.WindowDays = 2
	return cfg
}

func stockRecord(symbol string, pct float64) entity.Stock {
	return entity.Stock{
		Symbol:         symbol,
		Name:           symbol + " Inc.",
		Date:           time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		Price:          100 + pct,
		PriceChange:    pct,
		PriceChangePct: pct,
		Volume:         1_000_000,
	}
}

// fakeAIRepo implements repository.AIRepository.
type fakeAIRepo struct {
	draft      *dto.ArticleDraft
	err        error
	calls      int
	lastPrompt *dto.ArticlePrompt
}

func (f *fakeAIRepo) GenerateArticle(_ context.Context, prompt *dto.ArticlePrompt) (*dto.ArticleDraft, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return f.draft, nil
}

func (f *fakeAIRepo) Name() string { return "fake-ai" }

// fakeMarketDataRepo implements repository.MarketDataRepository.
type fakeMarketDataRepo struct {
	constituents    []string
	constituentsErr error
	quotes          map[string]*dto.DailyQuote
	quoteErrs       map[string]error
	names           map[string]string

	mu                sync.Mutex
	constituentsCalls int
	quoteCalls        []string
}

func (f *fakeMarketDataRepo) GetConstituents(context.Context) ([]string, error) {
	f.mu.Lock()
	f.constituentsCalls++
	f.mu.Unlock()
	return f.constituents, f.constituentsErr
}

func (f *fakeMarketDataRepo) GetDailyQuote(_ context.Context, symbol string, _ time.Time) (*dto.DailyQuote, error) {
	f.mu.Lock()
	f.quoteCalls = append(f.quoteCalls, symbol)
	f.mu.Unlock()
	if err := f.quoteErrs[symbol]; err != nil {
		return nil, err
	}
	quote, ok := f.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}
	return quote, nil
}

func (f *fakeMarketDataRepo) GetCompanyName(_ context.Context, symbol string) string {
	if name := f.names[symbol]; name != "" {
		return name
	}
	return symbol
}

// fakeConstituentsRepo implements repository.ConstituentsRepository.
type fakeConstituentsRepo struct {
	symbols []string
	err     error
	calls   int
}

func (f *fakeConstituentsRepo) GetConstituents(context.Context) ([]string, error) {
	f.calls++
	return f.symbols, f.err
}

// fakeNewsProvider implements repository.NewsProviderRepository.
type fakeNewsProvider struct {
	name  string
	items []dto.ProviderNewsItem
	err   error
}

func (f *fakeNewsProvider) GetNews(context.Context, string, string, dto.NewsWindow) ([]dto.ProviderNewsItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeNewsProvider) Name() string { return f.name }

// fakeTrendingRepo implements repository.TrendingRepository.
type fakeTrendingRepo struct {
	trending []dto.TrendingStock
	err      error
}

func (f *fakeTrendingRepo) GetTrending(context.Context) ([]dto.TrendingStock, error) {
	return f.trending, f.err
}

// fakeStockRepo implements repository.StockRepository in memory.
type fakeStockRepo struct {
	byDate        map[string][]entity.Stock
	bySymbolDate  map[string]*entity.Stock
	latestDate    time.Time
	latestDateErr error

	lastSymbol string
	lastCutoff time.Time
	since      []entity.Stock
	trending   []entity.Stock
}

func symbolDateKey(symbol string, date time.Time) string {
	return symbol + "|" + date.Format("2006-01-02")
}

func (f *fakeStockRepo) WithTx(*gorm.DB) repository.StockRepository { return f }

func (f *fakeStockRepo) UpsertBatch(context.Context, []entity.Stock) error { return nil }

func (f *fakeStockRepo) FindByDate(_ context.Context, date time.Time) ([]entity.Stock, error) {
	return f.byDate[date.Format("2006-01-02")], nil
}

func (f *fakeStockRepo) FindBySymbolAndDate(_ context.Context, symbol string, date time.Time) (*entity.Stock, error) {
	f.lastSymbol = symbol
	if stock, ok := f.bySymbolDate[symbolDateKey(symbol, date)]; ok {
		return stock, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStockRepo) FindLatestBySymbol(_ context.Context, symbol string) (*entity.Stock, error) {
	f.lastSymbol = symbol
	for key, stock := range f.bySymbolDate {
		if strings.HasPrefix(key, symbol+"|") {
			return stock, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStockRepo) FindSince(_ context.Context, cutoff time.Time) ([]entity.Stock, error) {
	f.lastCutoff = cutoff
	return f.since, nil
}

func (f *fakeStockRepo) FindLatestDate(context.Context) (time.Time, error) {
	return f.latestDate, f.latestDateErr
}

func (f *fakeStockRepo) FindTrending(context.Context, time.Time) ([]entity.Stock, error) {
	return f.trending, nil
}

// fakeArticleRepo implements repository.ArticleRepository in memory.
type fakeArticleRepo struct {
	byDate     map[string][]entity.Article
	byID       map[uint]*entity.Article
	bySlug     map[string]*entity.Article
	latestDate time.Time
	since      []entity.Article

	lastSymbol string
	lastLimit  int
	bySymbol   []entity.Article
}

func (f *fakeArticleRepo) WithTx(*gorm.DB) repository.ArticleRepository { return f }

func (f *fakeArticleRepo) UpsertBatch(context.Context, []entity.Article) error { return nil }

func (f *fakeArticleRepo) FindByID(_ context.Context, id uint) (*entity.Article, error) {
	if article, ok := f.byID[id]; ok {
		return article, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeArticleRepo) FindBySlug(_ context.Context, slug string) (*entity.Article, error) {
	if article, ok := f.bySlug[slug]; ok {
		return article, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeArticleRepo) FindByDate(_ context.Context, date time.Time) ([]entity.Article, error) {
	return f.byDate[date.Format("2006-01-02")], nil
}

func (f *fakeArticleRepo) FindBySymbol(_ context.Context, symbol string, limit int) ([]entity.Article, error) {
	f.lastSymbol = symbol
	f.lastLimit = limit
	return f.bySymbol, nil
}

func (f *fakeArticleRepo) FindSince(context.Context, time.Time) ([]entity.Article, error) {
	return f.since, nil
}

func (f *fakeArticleRepo) FindLatestDate(context.Context) (time.Time, error) {
	return f.latestDate, nil
}

// fakeStockNewsRepo implements repository.StockNewsRepository in memory.
type fakeStockNewsRepo struct {
	bySymbol   []entity.StockNews
	lastSymbol string
	lastLimit  int
}

func (f *fakeStockNewsRepo) WithTx(*gorm.DB) repository.StockNewsRepository { return f }

func (f *fakeStockNewsRepo) CreateIgnoreConflictBatch(_ context.Context, items []entity.StockNews) (int, error) {
	return len(items), nil
}

func (f *fakeStockNewsRepo) FindBySymbol(_ context.Context, symbol string, limit int) ([]entity.StockNews, error) {
	f.lastSymbol = symbol
	f.lastLimit = limit
	return f.bySymbol, nil
}

func (f *fakeStockNewsRepo) FindBySymbolAndDate(context.Context, string, time.Time) ([]entity.StockNews, error) {
	return f.bySymbol, nil
}

// fakeRunRepo implements repository.PipelineRunRepository in memory.
type fakeRunRepo struct {
	created []*entity.PipelineRun
	updated []*entity.PipelineRun
	nextID  uint
}

func (f *fakeRunRepo) Create(_ context.Context, run *entity.PipelineRun) error {
	f.nextID++
	run.ID = f.nextID
	f.created = append(f.created, run)
	return nil
}

func (f *fakeRunRepo) Update(_ context.Context, run *entity.PipelineRun) error {
	f.updated = append(f.updated, run)
	return nil
}

func (f *fakeRunRepo) FindRecent(context.Context, int) ([]entity.PipelineRun, error) {
	return nil, nil
}

// fakeStorageRepo implements repository.MoversStorageRepository.
type fakeStorageRepo struct {
	err      error
	stocks   []entity.Stock
	articles []entity.Article
	news     []entity.StockNews
}

func (f *fakeStorageRepo) SaveRunResults(_ context.Context, stocks []entity.Stock, articles []entity.Article, news []entity.StockNews) (*dto.PersistCounts, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.stocks = stocks
	f.articles = articles
	f.news = news
	return &dto.PersistCounts{
		StocksSaved:   len(stocks),
		ArticlesSaved: len(articles),
		NewsSaved:     len(news),
	}, nil
}

// fakeUniverse implements UniverseService.
type fakeUniverse struct {
	symbols []string
}

func (f *fakeUniverse) GetSymbols(context.Context) []string { return f.symbols }

// fakeMarketDataService implements MarketDataService.
type fakeMarketDataService struct {
	records []entity.Stock
	skipped []string
}

func (f *fakeMarketDataService) FetchDailyRecords(context.Context, []string, time.Time) ([]entity.Stock, []string) {
	return f.records, f.skipped
}

// fakeNewsService implements NewsService.
type fakeNewsService struct {
	newsBySymbol map[string][]entity.StockNews
	topStory     string
}

func (f *fakeNewsService) GetNewsForStock(_ context.Context, symbol, _ string, _ time.Time) []entity.StockNews {
	return f.newsBySymbol[symbol]
}

func (f *fakeNewsService) TopStoryText(context.Context, []entity.StockNews) string {
	return f.topStory
}

// fakeGenerator implements ArticleGeneratorService.
type fakeGenerator struct {
	origins map[string]dto.ArticleOrigin
}

func (f *fakeGenerator) Generate(_ context.Context, mover dto.Mover, _ []entity.StockNews, _ string) dto.ArticleResult {
	origin := dto.OriginTemplated
	if o, ok := f.origins[mover.Stock.Symbol]; ok {
		origin = o
	}
	return dto.ArticleResult{
		Origin: origin,
		Article: entity.Article{
			StockSymbol:  mover.Stock.Symbol,
			Date:         mover.Stock.Date,
			MovementType: mover.MovementType,
			Title:        mover.Stock.Symbol + " moved",
			Content:      "body",
			Slug:         BuildArticleSlug(mover.Stock.Symbol, mover.Stock.PriceChangePct, mover.Stock.Date),
		},
	}
}

// captureNotifier records messages instead of sending them.
type captureNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *captureNotifier) SendMessage(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return nil
}
