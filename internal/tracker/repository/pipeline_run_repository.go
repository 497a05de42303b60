package repository

import (
	"context"

	"golang-stock-movers/internal/entity"

	"gorm.io/gorm"
)

// PipelineRunRepository defines the interface for interacting with run records.
type PipelineRunRepository interface {
	Create(ctx context.Context, run *entity.PipelineRun) error
	Update(ctx context.Context, run *entity.PipelineRun) error
	FindRecent(ctx context.Context, limit int) ([]entity.PipelineRun, error)
}

// NewPipelineRunRepository creates a new instance of PipelineRunRepository.
func NewPipelineRunRepository(db *gorm.DB) PipelineRunRepository {
	return &pipelineRunRepository{db: db}
}

type pipelineRunRepository struct {
	db *gorm.DB
}

func (r *pipelineRunRepository) Create(ctx context.Context, run *entity.PipelineRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *pipelineRunRepository) Update(ctx context.Context, run *entity.PipelineRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *pipelineRunRepository) FindRecent(ctx context.Context, limit int) ([]entity.PipelineRun, error) {
	var runs []entity.PipelineRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
