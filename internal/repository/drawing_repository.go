package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
)

type DrawingRepository struct {
	db *gorm.DB
}

func NewDrawingRepository(db *gorm.DB) *DrawingRepository {
	return &DrawingRepository{db: db}
}

func (r *DrawingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Drawing, error) {
	var drawing domain.Drawing
	err := r.db.WithContext(ctx).
		Preload("Processes", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("ReworkHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).First(&drawing).Error
	if err != nil {
		return nil, err
	}
	return &drawing, nil
}

// Save persists the drawing and its processes
func (r *DrawingRepository) Save(ctx context.Context, drawing *domain.Drawing) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(drawing).Error
}

func (r *DrawingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Drawing{}, "id = ?", id).Error
}

// ReplaceProcesses atomically swaps a drawing's process list for a new one.
// The old rows are deleted so renumbered sequences never collide.
func (r *DrawingRepository) ReplaceProcesses(ctx context.Context, drawingID uuid.UUID, processes []domain.Process) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("drawing_id = ?", drawingID).Delete(&domain.Process{}).Error; err != nil {
			return err
		}
		for i := range processes {
			processes[i].DrawingID = drawingID
		}
		if len(processes) > 0 {
			if err := tx.Create(&processes).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceDrawings atomically swaps a job's drawing list for a new one.
// Used when design completes and the placeholder layout is replaced wholesale.
func (r *DrawingRepository) ReplaceDrawings(ctx context.Context, jobID uuid.UUID, drawings []domain.Drawing) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", jobID).Delete(&domain.Drawing{}).Error; err != nil {
			return err
		}
		for i := range drawings {
			drawings[i].JobID = jobID
		}
		if len(drawings) > 0 {
			if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Create(&drawings).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByDepartment returns drawings currently sitting in the given department
func (r *DrawingRepository) ListByDepartment(ctx context.Context, department string) ([]domain.Drawing, error) {
	var drawings []domain.Drawing
	err := r.db.WithContext(ctx).
		Preload("Processes", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("current_department = ?", department).
		Order("created_at ASC").
		Find(&drawings).Error
	return drawings, err
}

// ListAwaitingStock returns drawings waiting on material with the job preloaded.
// Used by the ERP stock sync to release drawings when material arrives.
func (r *DrawingRepository) ListAwaitingStock(ctx context.Context) ([]domain.Drawing, error) {
	var drawings []domain.Drawing
	err := r.db.WithContext(ctx).
		Where("material_status = ?", domain.MaterialAwaitingStock).
		Order("created_at ASC").
		Find(&drawings).Error
	return drawings, err
}

// CountByDepartment returns the number of drawings per current department
func (r *DrawingRepository) CountByDepartment(ctx context.Context) (map[string]int, error) {
	type row struct {
		CurrentDepartment string
		Count             int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.Drawing{}).
		Select("current_department, COUNT(*) as count").
		Group("current_department").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.CurrentDepartment] = r.Count
	}
	return counts, nil
}
