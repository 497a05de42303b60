package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// PipelineRun records one execution of the daily movers pipeline, whether
// scheduled or manually triggered.
type PipelineRun struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	RunDate           time.Time      `gorm:"type:date;not null;index" json:"run_date"`
	Status            RunStatus      `gorm:"not null" json:"status"`
	TriggerSource     string         `gorm:"not null" json:"trigger_source"`
	TopN              int            `json:"top_n"`
	StocksSaved       int            `json:"stocks_saved"`
	ArticlesCreated   int            `json:"articles_created"`
	ArticlesGenerated int            `json:"articles_generated"`
	ArticlesTemplated int            `json:"articles_templated"`
	NewsSaved         int            `json:"news_saved"`
	Errors            pq.StringArray `gorm:"type:text[]" json:"errors"`
	StageStats        datatypes.JSON `json:"stage_stats"`
	ErrorMessage      string         `json:"error_message"`
	StartedAt         time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`
}

// TableName specifies the table name for the PipelineRun model.
func (PipelineRun) TableName() string {
	return "pipeline_runs"
}
