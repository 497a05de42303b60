package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: stock-movers-tracker
market_data:
  api_key: test-key
`), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "stock-movers-tracker", cfg.App.Name)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "30 16 * * 1-5", cfg.Scheduler.Cron)
	assert.Equal(t, "America/New_York", cfg.Scheduler.Timezone)
	assert.Equal(t, 5, cfg.Pipeline.TopN)
	assert.Equal(t, 50, cfg.Pipeline.MaxSymbols)
	assert.Equal(t, 30*time.Minute, cfg.Pipeline.RunLockTTL)
	assert.Equal(t, "https://financialmodelingprep.com/api/v3", cfg.MarketData.BaseURL)
	assert.Equal(t, "test-key", cfg.MarketData.APIKey)
	assert.Equal(t, 10, cfg.News.MaxPerSymbol)
	assert.Equal(t, 2, cfg.News.WindowDays)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, 1500, cfg.AI.Anthropic.MaxTokens)
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pipeline:
  top_n: 8
  max_symbols: -1
scheduler:
  cron: "0 18 * * 1-5"
ai:
  provider: gemini
`), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Pipeline.TopN)
	assert.Equal(t, -1, cfg.Pipeline.MaxSymbols, "negative cap must survive the defaults pass")
	assert.Equal(t, "0 18 * * 1-5", cfg.Scheduler.Cron)
	assert.Equal(t, "gemini", cfg.AI.Provider)
}
