package config

import (
	"time"

	"golang-stock-movers/pkg/config"
)

// Scheduler holds the cron trigger configuration.
type Scheduler struct {
	Enabled  bool   `mapstructure:"enabled"`
	Cron     string `mapstructure:"cron"`
	Timezone string `mapstructure:"timezone"`
}

// Pipeline holds knobs for the daily movers run itself.
type Pipeline struct {
	TopN             int           `mapstructure:"top_n"`
	MaxSymbols       int           `mapstructure:"max_symbols"`
	FetchConcurrency int           `mapstructure:"fetch_concurrency"`
	RunLockTTL       time.Duration `mapstructure:"run_lock_ttl"`
}

// MarketData holds the configuration for the Financial Modeling Prep API.
type MarketData struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// YahooNews holds the configuration for the Yahoo Finance RSS feed.
type YahooNews struct {
	BaseURL string `mapstructure:"base_url"`
}

// NewsAPI holds the configuration for the NewsAPI provider. An empty APIKey
// disables the provider.
type NewsAPI struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	PageSize int    `mapstructure:"page_size"`
}

// News holds news gathering configuration.
type News struct {
	MaxPerSymbol        int       `mapstructure:"max_per_symbol"`
	WindowDays          int       `mapstructure:"window_days"`
	FetchFullContent    bool      `mapstructure:"fetch_full_content"`
	MaxRequestPerMinute int       `mapstructure:"max_request_per_minute"`
	Yahoo               YahooNews `mapstructure:"yahoo"`
	NewsAPI             NewsAPI   `mapstructure:"newsapi"`
}

// Anthropic holds the configuration for the Anthropic API.
type Anthropic struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxTokens           int    `mapstructure:"max_tokens"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxTokens           int    `mapstructure:"max_tokens"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider  string    `mapstructure:"provider"`
	Anthropic Anthropic `mapstructure:"anthropic"`
	Gemini    Gemini    `mapstructure:"gemini"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the tracker service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	Scheduler  Scheduler       `mapstructure:"scheduler"`
	Pipeline   Pipeline        `mapstructure:"pipeline"`
	MarketData MarketData      `mapstructure:"market_data"`
	News       News            `mapstructure:"news"`
	AI         AI              `mapstructure:"ai"`
	Telegram   Telegram        `mapstructure:"telegram"`
}

// Load loads the tracker configuration from the given path and applies
// defaults for anything the file leaves out.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.Encoding == "" {
		cfg.Logger.Encoding = "json"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
	if cfg.Scheduler.Cron == "" {
		cfg.Scheduler.Cron = "30 16 * * 1-5"
	}
	if cfg.Scheduler.Timezone == "" {
		cfg.Scheduler.Timezone = "America/New_York"
	}
	if cfg.Pipeline.TopN <= 0 {
		cfg.Pipeline.TopN = 5
	}
	// Zero means "use the provider-friendly default"; a negative value
	// disables the cap entirely.
	if cfg.Pipeline.MaxSymbols == 0 {
		cfg.Pipeline.MaxSymbols = 50
	}
	if cfg.Pipeline.FetchConcurrency <= 0 {
		cfg.Pipeline.FetchConcurrency = 5
	}
	if cfg.Pipeline.RunLockTTL <= 0 {
		cfg.Pipeline.RunLockTTL = 30 * time.Minute
	}
	if cfg.MarketData.BaseURL == "" {
		cfg.MarketData.BaseURL = "https://financialmodelingprep.com/api/v3"
	}
	if cfg.MarketData.MaxRequestPerMinute <= 0 {
		cfg.MarketData.MaxRequestPerMinute = 120
	}
	if cfg.MarketData.CacheTTL <= 0 {
		cfg.MarketData.CacheTTL = 24 * time.Hour
	}
	if cfg.News.MaxPerSymbol <= 0 {
		cfg.News.MaxPerSymbol = 10
	}
	if cfg.News.WindowDays <= 0 {
		cfg.News.WindowDays = 2
	}
	if cfg.News.MaxRequestPerMinute <= 0 {
		cfg.News.MaxRequestPerMinute = 60
	}
	if cfg.News.Yahoo.BaseURL == "" {
		cfg.News.Yahoo.BaseURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"
	}
	if cfg.News.NewsAPI.BaseURL == "" {
		cfg.News.NewsAPI.BaseURL = "https://newsapi.org/v2"
	}
	if cfg.News.NewsAPI.PageSize <= 0 {
		cfg.News.NewsAPI.PageSize = 5
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "anthropic"
	}
	if cfg.AI.Anthropic.Model == "" {
		cfg.AI.Anthropic.Model = "claude-sonnet-4-20250514"
	}
	if cfg.AI.Anthropic.MaxTokens <= 0 {
		cfg.AI.Anthropic.MaxTokens = 1500
	}
	if cfg.AI.Anthropic.MaxRequestPerMinute <= 0 {
		cfg.AI.Anthropic.MaxRequestPerMinute = 10
	}
	if cfg.AI.Gemini.BaseURL == "" {
		cfg.AI.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	if cfg.AI.Gemini.Model == "" {
		cfg.AI.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.AI.Gemini.MaxTokens <= 0 {
		cfg.AI.Gemini.MaxTokens = 1500
	}
	if cfg.AI.Gemini.MaxRequestPerMinute <= 0 {
		cfg.AI.Gemini.MaxRequestPerMinute = 10
	}
	if cfg.AI.Gemini.MaxTokenPerMinute <= 0 {
		cfg.AI.Gemini.MaxTokenPerMinute = 100000
	}
}
