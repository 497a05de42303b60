package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/pkg/common"
	"golang-stock-movers/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SchedulerService fires the daily pipeline on the configured cron schedule,
// 16:30 America/New_York on weekdays by default so runs start after the
// close.
type SchedulerService interface {
	Start() error
	Stop()
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(cfg *config.Config, log *logger.Logger, pipelineSvc PipelineService) SchedulerService {
	return &schedulerService{
		cfg:         cfg,
		log:         log,
		pipelineSvc: pipelineSvc,
	}
}

type schedulerService struct {
	cfg         *config.Config
	log         *logger.Logger
	pipelineSvc PipelineService
	cron        *cron.Cron
}

// Start registers the daily job and starts the cron loop. With the scheduler
// disabled in config this is a no-op and runs stay manual-only.
func (s *schedulerService) Start() error {
	if !s.cfg.Scheduler.Enabled {
		s.log.Info("Scheduler disabled, pipeline runs on manual trigger only")
		return nil
	}

	location, err := time.LoadLocation(s.cfg.Scheduler.Timezone)
	if err != nil {
		return fmt.Errorf("invalid scheduler timezone %q: %w", s.cfg.Scheduler.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, s.runScheduled); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.cfg.Scheduler.Cron, err)
	}
	s.cron.Start()

	s.log.Info("Scheduler started",
		logger.StringField("cron", s.cfg.Scheduler.Cron),
		logger.StringField("timezone", s.cfg.Scheduler.Timezone))
	return nil
}

// Stop halts the cron loop and waits for an in-flight job to finish.
func (s *schedulerService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *schedulerService) runScheduled() {
	// The lock TTL doubles as the upper bound on a run; past it the run
	// would no longer be protected against a concurrent trigger anyway.
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Pipeline.RunLockTTL)
	defer cancel()

	s.log.Info("Scheduled pipeline run triggered")

	summary, err := s.pipelineSvc.Run(ctx, dto.RunParams{TriggerSource: common.TriggerSourceScheduled})
	if errors.Is(err, ErrRunInProgress) {
		s.log.Warn("Skipping scheduled run, another run is already in progress")
		return
	}
	if err != nil {
		s.log.Error("Scheduled pipeline run failed", logger.ErrorField(err))
		return
	}

	s.log.Info("Scheduled pipeline run finished",
		logger.StringField("date", summary.Date),
		logger.IntField("stocks_saved", summary.StocksSaved),
		logger.IntField("articles_created", summary.ArticlesCreated))
}
