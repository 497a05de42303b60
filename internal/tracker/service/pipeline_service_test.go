package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-stock-movers/internal/entity"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/pkg/common"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipelineFixture wires the orchestrator against in-memory fakes and a
// miniredis-backed lock.
type pipelineFixture struct {
	mr          *miniredis.Miniredis
	runRepo     *fakeRunRepo
	storageRepo *fakeStorageRepo
	trending    *fakeTrendingRepo
	universe    *fakeUniverse
	marketData  *fakeMarketDataService
	news        *fakeNewsService
	generator   *fakeGenerator
	notifier    *captureNotifier
	svc         PipelineService
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	f := &pipelineFixture{
		mr:          mr,
		runRepo:     &fakeRunRepo{},
		storageRepo: &fakeStorageRepo{},
		trending:    &fakeTrendingRepo{},
		universe:    &fakeUniverse{symbols: []string{"AAPL", "TSLA", "XOM", "MSFT", "NVDA"}},
		marketData: &fakeMarketDataService{records: []entity.Stock{
			stockRecord("AAPL", 5.2),
			stockRecord("TSLA", -3.1),
			stockRecord("XOM", -0.5),
			stockRecord("MSFT", 1.0),
			stockRecord("NVDA", 0.1),
		}},
		news:      &fakeNewsService{newsBySymbol: map[string][]entity.StockNews{}},
		generator: &fakeGenerator{origins: map[string]dto.ArticleOrigin{}},
		notifier:  &captureNotifier{},
	}
	f.svc = NewPipelineService(testConfig(), testLogger(t), client,
		f.runRepo, f.storageRepo, f.trending,
		f.universe, f.marketData, f.news, f.generator, f.notifier)
	return f
}

func TestPipelineRunHappyPath(t *testing.T) {
	f := newPipelineFixture(t)
	f.news.newsBySymbol["AAPL"] = []entity.StockNews{
		{StockSymbol: "AAPL", Headline: "Apple beats earnings", Source: "Reuters", HashIdentifier: "a1"},
		{StockSymbol: "AAPL", Headline: "Apple raises guidance", Source: "Reuters", HashIdentifier: "a2"},
	}
	f.generator.origins["AAPL"] = dto.OriginGenerated
	f.trending.trending = []dto.TrendingStock{{Ticker: "TSLA", NoOfComments: 120, Sentiment: "Bearish"}}

	params := dto.RunParams{
		Date:          time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		TopN:          2,
		TriggerSource: common.TriggerSourceManual,
	}
	summary, err := f.svc.Run(context.Background(), params)

	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, uint(1), summary.RunID)
	assert.Equal(t, "completed", summary.Status)
	assert.Equal(t, common.TriggerSourceManual, summary.TriggerSource)
	assert.Equal(t, 2, summary.TopN)
	assert.Equal(t, "2026-01-08", summary.Date)
	assert.Equal(t, 4, summary.StocksSaved)
	assert.Equal(t, 4, summary.ArticlesCreated)
	assert.Equal(t, 1, summary.ArticlesGenerated)
	assert.Equal(t, 3, summary.ArticlesTemplated)
	assert.Equal(t, 2, summary.NewsSaved)

	// Winners persist ahead of losers.
	require.Len(t, f.storageRepo.stocks, 4)
	assert.Equal(t, "AAPL", f.storageRepo.stocks[0].Symbol)
	assert.Equal(t, "MSFT", f.storageRepo.stocks[1].Symbol)
	assert.Equal(t, "TSLA", f.storageRepo.stocks[2].Symbol)
	assert.Equal(t, "XOM", f.storageRepo.stocks[3].Symbol)

	// Trending enrichment lands on the stored record.
	tsla := f.storageRepo.stocks[2]
	assert.True(t, tsla.IsWSBTrending)
	assert.Equal(t, 120, tsla.WSBMentions)
	assert.Equal(t, "Bearish", tsla.WSBSentiment)

	require.Len(t, f.runRepo.updated, 1)
	run := f.runRepo.updated[0]
	assert.Equal(t, entity.RunStatusCompleted, run.Status)
	require.NotNil(t, run.CompletedAt)
	assert.NotEmpty(t, run.StageStats)
	assert.Empty(t, run.Errors)

	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "completed")

	assert.False(t, f.mr.Exists(common.RedisKeyPipelineLock), "lock must be released after the run")
}

func TestPipelineRunRefusedWhileLockHeld(t *testing.T) {
	f := newPipelineFixture(t)
	require.NoError(t, f.mr.Set(common.RedisKeyPipelineLock, "someone-else"))

	summary, err := f.svc.Run(context.Background(), dto.RunParams{TriggerSource: common.TriggerSourceManual})

	assert.ErrorIs(t, err, ErrRunInProgress)
	assert.Nil(t, summary)
	assert.Empty(t, f.runRepo.created, "no run record while another run is active")
	assert.Empty(t, f.notifier.messages)

	// The foreign lock survives untouched.
	held, getErr := f.mr.Get(common.RedisKeyPipelineLock)
	require.NoError(t, getErr)
	assert.Equal(t, "someone-else", held)
}

func TestPipelineRunPersistFailureMarksRunFailed(t *testing.T) {
	f := newPipelineFixture(t)
	f.storageRepo.err = errors.New("db down")

	summary, err := f.svc.Run(context.Background(), dto.RunParams{
		Date:          time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		TriggerSource: common.TriggerSourceScheduled,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist stage failed")
	assert.Nil(t, summary)

	require.Len(t, f.runRepo.updated, 1)
	run := f.runRepo.updated[0]
	assert.Equal(t, entity.RunStatusFailed, run.Status)
	assert.Contains(t, run.ErrorMessage, "db down")
	require.NotNil(t, run.CompletedAt)

	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "FAILED")

	assert.False(t, f.mr.Exists(common.RedisKeyPipelineLock), "lock must be released after a failed run")
}

func TestPipelineRunNoPriceDataIsFatal(t *testing.T) {
	f := newPipelineFixture(t)
	f.marketData.records = nil
	f.marketData.skipped = []string{"AAPL: upstream 500", "TSLA: upstream 500"}

	_, err := f.svc.Run(context.Background(), dto.RunParams{TriggerSource: common.TriggerSourceScheduled})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no price data")

	require.Len(t, f.runRepo.updated, 1)
	run := f.runRepo.updated[0]
	assert.Equal(t, entity.RunStatusFailed, run.Status)
	assert.Len(t, []string(run.Errors), 2)
}

func TestPipelineRunDefaultsTopNFromConfig(t *testing.T) {
	f := newPipelineFixture(t)

	summary, err := f.svc.Run(context.Background(), dto.RunParams{
		Date:          time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		TriggerSource: common.TriggerSourceScheduled,
	})

	require.NoError(t, err)
	// testConfig sets Pipeline.TopN = 5; five records put every symbol on
	// both sides, deduplicated at persist time.
	assert.Equal(t, 5, summary.TopN)
	assert.Equal(t, 5, summary.StocksSaved)
	assert.Equal(t, 10, summary.ArticlesCreated)
}

func TestPipelineRunRecordsSkippedSymbols(t *testing.T) {
	f := newPipelineFixture(t)
	f.marketData.skipped = []string{"BRK-B: no price data"}

	summary, err := f.svc.Run(context.Background(), dto.RunParams{
		Date:          time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
		TopN:          2,
		TriggerSource: common.TriggerSourceScheduled,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"BRK-B: no price data"}, summary.Errors)
	require.Len(t, f.runRepo.updated, 1)
	assert.Equal(t, []string(f.runRepo.updated[0].Errors), summary.Errors)
}
