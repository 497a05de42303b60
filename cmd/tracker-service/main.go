package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-movers/internal/tracker/config"
	delivery "golang-stock-movers/internal/tracker/delivery/http"
	_ "golang-stock-movers/internal/tracker/docs"
	"golang-stock-movers/internal/tracker/repository"
	"golang-stock-movers/internal/tracker/service"
	"golang-stock-movers/pkg/logger"
	"golang-stock-movers/pkg/postgres"
	"golang-stock-movers/pkg/redis"
	"golang-stock-movers/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the stock movers tracker service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Tracker Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	stockRepo := repository.NewStockRepository(db.DB)
	articleRepo := repository.NewArticleRepository(db.DB)
	newsRepo := repository.NewStockNewsRepository(db.DB)
	runRepo := repository.NewPipelineRunRepository(db.DB)
	storageRepo := repository.NewMoversStorageRepository(db.DB, stockRepo, articleRepo, newsRepo)
	marketDataRepo := repository.NewFMPRepository(cfg, appLogger)
	constituentsRepo := repository.NewWikipediaRepository(appLogger)
	trendingRepo := repository.NewTrendingRepository(appLogger)

	// News providers, in priority order. NewsAPI joins only when a key is
	// configured.
	providers := []repository.NewsProviderRepository{
		repository.NewYahooNewsRepository(cfg, appLogger),
	}
	if cfg.News.NewsAPI.APIKey != "" {
		providers = append(providers, repository.NewNewsAPIRepository(cfg, appLogger))
	} else {
		appLogger.Info("NewsAPI key not configured, fetching news from Yahoo Finance only")
	}

	// Initialize AI provider. A missing key is not fatal: the generator
	// runs in template-only mode.
	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case "anthropic":
		if cfg.AI.Anthropic.APIKey == "" {
			appLogger.Warn("Anthropic API key not configured, articles will use the template fallback")
		} else {
			repo, err := repository.NewAnthropicAIRepository(cfg, appLogger)
			if err != nil {
				appLogger.Fatal("Failed to initialize Anthropic AI repository", logger.ErrorField(err))
			}
			aiRepo = repo
		}
	case "gemini":
		if cfg.AI.Gemini.APIKey == "" {
			appLogger.Warn("Gemini API key not configured, articles will use the template fallback")
		} else {
			genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey: cfg.AI.Gemini.APIKey,
			})
			if err != nil {
				appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
			}
			repo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
			if err != nil {
				appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
			}
			aiRepo = repo
		}
	default:
		appLogger.Fatal("Invalid AI provider specified in config", logger.StringField("provider", cfg.AI.Provider))
	}

	// Initialize Telegram notifier
	notifier := telegram.NewNoopNotifier()
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize services
	universeSvc := service.NewUniverseService(cfg, appLogger, marketDataRepo, constituentsRepo)
	marketDataSvc := service.NewMarketDataService(cfg, appLogger, marketDataRepo)
	newsSvc := service.NewNewsService(cfg, appLogger, providers)
	generatorSvc := service.NewArticleGeneratorService(cfg, appLogger, aiRepo)
	pipelineSvc := service.NewPipelineService(cfg, appLogger, redisClient.Client,
		runRepo, storageRepo, trendingRepo,
		universeSvc, marketDataSvc, newsSvc, generatorSvc, notifier)
	stockSvc := service.NewStockService(cfg, appLogger, stockRepo)
	articleSvc := service.NewArticleService(appLogger, articleRepo, stockRepo, newsRepo)

	// Start scheduler
	schedulerSvc := service.NewSchedulerService(cfg, appLogger, pipelineSvc)
	if err := schedulerSvc.Start(); err != nil {
		appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
	}
	defer schedulerSvc.Stop()

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	corsConfig := middleware.DefaultCORSConfig
	if len(cfg.API.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.API.CORSAllowOrigins
	}
	e.Use(middleware.CORSWithConfig(corsConfig))

	// Initialize handlers and routes
	healthHandler := delivery.NewHealthHandler(cfg)
	healthHandler.RegisterRoutes(e)

	apiV1 := e.Group("/api/v1")
	stockHandler := delivery.NewStockHandler(stockSvc, pipelineSvc, appLogger)
	stockHandler.RegisterRoutes(apiV1.Group("/stocks"))

	articleHandler := delivery.NewArticleHandler(articleSvc, appLogger)
	articleHandler.RegisterRoutes(apiV1.Group("/articles"))

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Stock Movers Tracker API
// @version 1.0
// @description Daily S&P 500 movers, their news and AI-written explainer articles.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "tracker-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing tracker-service CLI: %s\n", err)
		os.Exit(1)
	}
}
