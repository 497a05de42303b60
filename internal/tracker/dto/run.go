package dto

import (
	"time"
)

// RunParams controls one pipeline execution.
type RunParams struct {
	// Date is the trading date to run for; zero means "latest close".
	Date time.Time
	// TopN overrides the configured ranking depth when > 0.
	TopN int
	// TriggerSource is "scheduled" or "manual".
	TriggerSource string
}

// RunSummary is returned by the manual trigger endpoint and pushed to the
// notifier when a run finishes.
type RunSummary struct {
	RunID             uint     `json:"run_id"`
	Date              string   `json:"date"`
	Status            string   `json:"status"`
	TriggerSource     string   `json:"trigger_source"`
	TopN              int      `json:"top_n"`
	StocksSaved       int      `json:"stocks_saved"`
	ArticlesCreated   int      `json:"articles_created"`
	ArticlesGenerated int      `json:"articles_generated"`
	ArticlesTemplated int      `json:"articles_templated"`
	NewsSaved         int      `json:"news_saved"`
	DurationSeconds   float64  `json:"duration_seconds"`
	Errors            []string `json:"errors,omitempty"`
}

// StageStat times one pipeline stage for the run record.
type StageStat struct {
	Stage      string `json:"stage"`
	DurationMS int64  `json:"duration_ms"`
	Items      int    `json:"items"`
}

// PersistCounts reports what the PERSIST stage actually wrote.
type PersistCounts struct {
	StocksSaved   int
	ArticlesSaved int
	NewsSaved     int
}
