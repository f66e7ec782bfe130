package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// preloadAll loads the full job aggregate: drawings with their processes and
// rework history, product lines, the pending sales request and hold history.
func (r *JobRepository) preloadAll(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Drawings", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Drawings.Processes", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Drawings.ReworkHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("HoldHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("held_at ASC")
		}).
		Preload("SalesRequest")
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var job domain.Job
	err := r.preloadAll(r.db.WithContext(ctx)).Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) GetByNumber(ctx context.Context, jobNumber string) (*domain.Job, error) {
	var job domain.Job
	err := r.preloadAll(r.db.WithContext(ctx)).Where("job_number = ?", jobNumber).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) ExistsByNumber(ctx context.Context, jobNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("job_number = ?", jobNumber).Count(&count).Error
	return count > 0, err
}

// Save persists the full job aggregate including nested drawings,
// processes and product lines. Rows removed from the aggregate in memory
// are NOT deleted here; use ReplaceProcesses / ReplaceDrawings for that.
func (r *JobRepository) Save(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(job).Error
}

// UpdateFields updates selected columns on the job row only
func (r *JobRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("id = ?", id).Updates(fields).Error
}

func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Job{}, "id = ?", id).Error
}

// JobFilter narrows List results
type JobFilter struct {
	Search     string
	JobType    string
	Priority   string
	Department string
	Delivered  *bool
	// Overdue restricts to jobs whose planned finish date is in the past and
	// that have not completed. Date-only string comparison, same as the engine.
	Overdue bool
}

func (r *JobRepository) List(ctx context.Context, page, pageSize int, filter JobFilter) ([]domain.Job, int64, error) {
	var jobs []domain.Job
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Job{})

	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(job_number) LIKE ? OR LOWER(customer_name) LIKE ?", searchPattern, searchPattern)
	}
	if filter.JobType != "" {
		query = query.Where("job_type = ?", filter.JobType)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Department != "" {
		query = query.Where(
			"id IN (?)",
			r.db.Model(&domain.Drawing{}).Select("job_id").Where("current_department = ?", filter.Department),
		)
	}
	if filter.Delivered != nil {
		if *filter.Delivered {
			query = query.Where("delivered_at IS NOT NULL")
		} else {
			query = query.Where("delivered_at IS NULL")
		}
	}
	if filter.Overdue {
		today := time.Now().Format("2006-01-02")
		query = query.Where("finish_date <> '' AND finish_date < ? AND completed_at IS NULL", today)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.preloadAll(query).Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&jobs).Error

	return jobs, total, err
}

// ListActive returns all jobs not yet delivered, fully loaded.
// Used by the dashboard aggregation and the overdue scan.
func (r *JobRepository) ListActive(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.preloadAll(r.db.WithContext(ctx)).
		Where("delivered_at IS NULL").
		Order("created_at ASC").
		Find(&jobs).Error
	return jobs, err
}

// DeleteSalesRequest removes the sales update request row for a job, if any
func (r *JobRepository) DeleteSalesRequest(ctx context.Context, jobID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Delete(&domain.SalesUpdateRequest{}).Error
}

func (r *JobRepository) Count(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Job{}).Count(&count).Error
	return int(count), err
}
