package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
)

// JobActivityRepository handles the append-only job activity log
type JobActivityRepository struct {
	db *gorm.DB
}

func NewJobActivityRepository(db *gorm.DB) *JobActivityRepository {
	return &JobActivityRepository{db: db}
}

func (r *JobActivityRepository) Create(ctx context.Context, activity *domain.JobActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *JobActivityRepository) ListByJob(ctx context.Context, jobID uuid.UUID, page, pageSize int) ([]domain.JobActivity, int64, error) {
	var activities []domain.JobActivity
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.JobActivity{}).Where("job_id = ?", jobID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&activities).Error

	return activities, total, err
}

func (r *JobActivityRepository) ListByDrawing(ctx context.Context, drawingID uuid.UUID, limit int) ([]domain.JobActivity, error) {
	var activities []domain.JobActivity
	err := r.db.WithContext(ctx).
		Where("drawing_id = ?", drawingID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
