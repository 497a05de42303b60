package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang-stock-movers/internal/entity"
	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/internal/tracker/repository"
	"golang-stock-movers/pkg/common"
	"golang-stock-movers/pkg/logger"
	"golang-stock-movers/pkg/telegram"
	"golang-stock-movers/pkg/utils"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

// ErrRunInProgress is returned when a trigger arrives while another pipeline
// run holds the lock. The HTTP layer maps it to 409.
var ErrRunInProgress = errors.New("a pipeline run is already in progress")

// Pipeline stage names as recorded in the run's stage stats.
const (
	stageFetchPrices      = "fetch_prices"
	stageRank             = "rank"
	stageFetchNews        = "fetch_news"
	stageGenerateArticles = "generate_articles"
	stagePersist          = "persist"
)

// PipelineService drives one daily movers run end to end:
// fetch prices -> rank -> fetch news -> generate articles -> persist.
type PipelineService interface {
	// Run executes the pipeline once. Per-symbol fetch failures and AI
	// failures degrade (skip, template); a persistence failure is fatal and
	// returns an error with the run marked failed. Only one run may be
	// active at a time across replicas.
	Run(ctx context.Context, params dto.RunParams) (*dto.RunSummary, error)
}

// NewPipelineService creates the orchestrator.
func NewPipelineService(
	cfg *config.Config,
	log *logger.Logger,
	redisClient *redis.Client,
	runRepo repository.PipelineRunRepository,
	storageRepo repository.MoversStorageRepository,
	trendingRepo repository.TrendingRepository,
	universeSvc UniverseService,
	marketDataSvc MarketDataService,
	newsSvc NewsService,
	generatorSvc ArticleGeneratorService,
	notifier telegram.Notifier,
) PipelineService {
	return &pipelineService{
		cfg:           cfg,
		log:           log,
		lock:          newRunLock(redisClient, common.RedisKeyPipelineLock, cfg.Pipeline.RunLockTTL),
		runRepo:       runRepo,
		storageRepo:   storageRepo,
		trendingRepo:  trendingRepo,
		universeSvc:   universeSvc,
		marketDataSvc: marketDataSvc,
		newsSvc:       newsSvc,
		generatorSvc:  generatorSvc,
		notifier:      notifier,
	}
}

type pipelineService struct {
	cfg           *config.Config
	log           *logger.Logger
	lock          *runLock
	runRepo       repository.PipelineRunRepository
	storageRepo   repository.MoversStorageRepository
	trendingRepo  repository.TrendingRepository
	universeSvc   UniverseService
	marketDataSvc MarketDataService
	newsSvc       NewsService
	generatorSvc  ArticleGeneratorService
	notifier      telegram.Notifier
}

func (s *pipelineService) Run(ctx context.Context, params dto.RunParams) (*dto.RunSummary, error) {
	token, acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !acquired {
		return nil, ErrRunInProgress
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), token); err != nil {
			s.log.Error("Failed to release run lock", logger.ErrorField(err))
		}
	}()

	topN := ClampTopN(params.TopN)
	if params.TopN <= 0 {
		topN = ClampTopN(s.cfg.Pipeline.TopN)
	}

	run := &entity.PipelineRun{
		RunDate:       utils.TradingDate(utils.TimeNowET()),
		Status:        entity.RunStatusRunning,
		TriggerSource: params.TriggerSource,
		TopN:          topN,
		StartedAt:     time.Now().UTC(),
	}
	if !params.Date.IsZero() {
		run.RunDate = utils.TradingDate(params.Date)
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run record: %w", err)
	}

	s.log.InfoContext(ctx, "Pipeline run starting",
		logger.IntField("run_id", int(run.ID)),
		logger.StringField("trigger", params.TriggerSource),
		logger.IntField("top_n", topN))

	summary, runErr := s.execute(ctx, run, params, topN)

	now := time.Now().UTC()
	run.CompletedAt = &now
	if runErr != nil {
		run.Status = entity.RunStatusFailed
		run.ErrorMessage = runErr.Error()
	} else {
		run.Status = entity.RunStatusCompleted
	}
	if err := s.runRepo.Update(ctx, run); err != nil {
		s.log.Error("Failed to update run record", logger.IntField("run_id", int(run.ID)), logger.ErrorField(err))
	}

	if runErr != nil {
		s.log.ErrorContext(ctx, "Pipeline run failed",
			logger.IntField("run_id", int(run.ID)), logger.ErrorField(runErr))
		s.notify(telegram.FormatRunFailureMessage(run.RunDate, runErr))
		return nil, runErr
	}

	summary.RunID = run.ID
	summary.Status = string(run.Status)
	summary.TriggerSource = run.TriggerSource
	summary.TopN = topN
	summary.DurationSeconds = now.Sub(run.StartedAt).Seconds()

	s.log.InfoContext(ctx, "Pipeline run completed",
		logger.IntField("run_id", int(run.ID)),
		logger.IntField("stocks_saved", summary.StocksSaved),
		logger.IntField("articles_created", summary.ArticlesCreated),
		logger.IntField("news_saved", summary.NewsSaved),
		logger.Float64Field("duration_seconds", summary.DurationSeconds))
	s.notify(telegram.FormatRunSummaryMessage(summary))

	return summary, nil
}

// execute walks the stage sequence, mutating run's counters and stage stats
// as it goes. Returned errors are fatal to the run.
func (s *pipelineService) execute(ctx context.Context, run *entity.PipelineRun, params dto.RunParams, topN int) (*dto.RunSummary, error) {
	summary := &dto.RunSummary{}
	var stats []dto.StageStat
	defer func() {
		if b, err := json.Marshal(stats); err == nil {
			run.StageStats = datatypes.JSON(b)
		}
	}()

	// FETCH_PRICES
	stageStart := time.Now()
	symbols := s.universeSvc.GetSymbols(ctx)
	records, skipped := s.marketDataSvc.FetchDailyRecords(ctx, symbols, params.Date)
	run.Errors = pq.StringArray(skipped)
	summary.Errors = skipped
	stats = append(stats, stageStat(stageFetchPrices, stageStart, len(records)))
	if len(records) == 0 {
		return nil, fmt.Errorf("no price data could be fetched for any of %d symbols", len(symbols))
	}
	run.RunDate = latestRecordDate(records, params.Date)
	summary.Date = utils.FormatDate(run.RunDate)

	// RANK
	stageStart = time.Now()
	movers := RankMovers(records, topN)
	s.enrichWithTrending(ctx, &movers)
	stats = append(stats, stageStat(stageRank, stageStart, len(movers.Winners)+len(movers.Losers)))

	// FETCH_NEWS
	stageStart = time.Now()
	newsBySymbol, topStoryBySymbol, allNews := s.fetchNews(ctx, movers)
	stats = append(stats, stageStat(stageFetchNews, stageStart, len(allNews)))

	// GENERATE_ARTICLES
	stageStart = time.Now()
	articles := make([]entity.Article, 0, len(movers.Winners)+len(movers.Losers))
	for _, mover := range movers.Movers() {
		if !utils.ShouldContinue(ctx, s.log) {
			return nil, ctx.Err()
		}
		result := s.generatorSvc.Generate(ctx, mover, newsBySymbol[mover.Stock.Symbol], topStoryBySymbol[mover.Stock.Symbol])
		if result.Origin == dto.OriginGenerated {
			summary.ArticlesGenerated++
		} else {
			summary.ArticlesTemplated++
		}
		articles = append(articles, result.Article)
	}
	run.ArticlesGenerated = summary.ArticlesGenerated
	run.ArticlesTemplated = summary.ArticlesTemplated
	stats = append(stats, stageStat(stageGenerateArticles, stageStart, len(articles)))

	// PERSIST
	stageStart = time.Now()
	stocks := uniqueMoverStocks(movers)
	counts, err := s.storageRepo.SaveRunResults(ctx, stocks, articles, allNews)
	if err != nil {
		return nil, fmt.Errorf("persist stage failed: %w", err)
	}
	summary.StocksSaved = counts.StocksSaved
	summary.ArticlesCreated = counts.ArticlesSaved
	summary.NewsSaved = counts.NewsSaved
	run.StocksSaved = counts.StocksSaved
	run.ArticlesCreated = counts.ArticlesSaved
	run.NewsSaved = counts.NewsSaved
	stats = append(stats, stageStat(stagePersist, stageStart, counts.StocksSaved+counts.ArticlesSaved+counts.NewsSaved))

	return summary, nil
}

// enrichWithTrending overlays r/wallstreetbets attention onto the movers.
// Failure here never blocks the run.
func (s *pipelineService) enrichWithTrending(ctx context.Context, movers *dto.MoverSet) {
	trending, err := s.trendingRepo.GetTrending(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "Trending lookup failed, movers carry no social data", logger.ErrorField(err))
		return
	}
	byTicker := make(map[string]dto.TrendingStock, len(trending))
	for _, t := range trending {
		byTicker[t.Ticker] = t
	}

	matched := 0
	for _, side := range [][]entity.Stock{movers.Winners, movers.Losers} {
		for i := range side {
			t, ok := byTicker[side[i].Symbol]
			if !ok {
				continue
			}
			side[i].WSBMentions = t.NoOfComments
			side[i].WSBSentiment = t.Sentiment
			side[i].IsWSBTrending = true
			matched++
		}
	}
	s.log.InfoContext(ctx, "Applied WSB trending data",
		logger.IntField("trending_tickers", len(trending)),
		logger.IntField("movers_matched", matched))
}

// fetchNews gathers headlines once per distinct mover symbol. The winner and
// loser sides can overlap on small universes; overlapping symbols share one
// fetch.
func (s *pipelineService) fetchNews(ctx context.Context, movers dto.MoverSet) (map[string][]entity.StockNews, map[string]string, []entity.StockNews) {
	newsBySymbol := make(map[string][]entity.StockNews)
	topStoryBySymbol := make(map[string]string)
	var allNews []entity.StockNews

	for _, stock := range uniqueMoverStocks(movers) {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		items := s.newsSvc.GetNewsForStock(ctx, stock.Symbol, stock.Name, stock.Date)
		newsBySymbol[stock.Symbol] = items
		allNews = append(allNews, items...)

		if s.cfg.News.FetchFullContent && len(items) > 0 {
			topStoryBySymbol[stock.Symbol] = s.newsSvc.TopStoryText(ctx, items)
		}
	}
	return newsBySymbol, topStoryBySymbol, allNews
}

// uniqueMoverStocks flattens a MoverSet to one stock per symbol, winners
// first, preserving rank order.
func uniqueMoverStocks(movers dto.MoverSet) []entity.Stock {
	seen := make(map[string]bool, len(movers.Winners)+len(movers.Losers))
	stocks := make([]entity.Stock, 0, len(movers.Winners)+len(movers.Losers))
	for _, side := range [][]entity.Stock{movers.Winners, movers.Losers} {
		for _, stock := range side {
			if seen[stock.Symbol] {
				continue
			}
			seen[stock.Symbol] = true
			stocks = append(stocks, stock)
		}
	}
	return stocks
}

// latestRecordDate anchors the run date: an explicit request wins, otherwise
// the newest close seen across the fetched records.
func latestRecordDate(records []entity.Stock, requested time.Time) time.Time {
	if !requested.IsZero() {
		return utils.TradingDate(requested)
	}
	var latest time.Time
	for _, r := range records {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	return latest
}

func stageStat(stage string, start time.Time, items int) dto.StageStat {
	return dto.StageStat{
		Stage:      stage,
		DurationMS: time.Since(start).Milliseconds(),
		Items:      items,
	}
}

func (s *pipelineService) notify(message string) {
	if err := s.notifier.SendMessage(message); err != nil {
		s.log.Warn("Failed to send telegram notification", logger.ErrorField(err))
	}
}
