package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	var staff domain.Staff
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepository) GetByName(ctx context.Context, name string) (*domain.Staff, error) {
	var staff domain.Staff
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepository) List(ctx context.Context, role domain.StaffRole, activeOnly bool) ([]domain.Staff, error) {
	var staff []domain.Staff
	query := r.db.WithContext(ctx)
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&staff).Error
	return staff, err
}

func (r *StaffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

func (r *StaffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Staff{}, "id = ?", id).Error
}

// Rename updates the staff row and every job that references the old name,
// all or nothing. Assignment references are stored denormalized on the job
// row, so the rename has to fan out in the same transaction.
func (r *StaffRepository) Rename(ctx context.Context, id uuid.UUID, newName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var staff domain.Staff
		if err := tx.Where("id = ?", id).First(&staff).Error; err != nil {
			return err
		}

		oldName := staff.Name
		staff.Name = newName
		if err := tx.Save(&staff).Error; err != nil {
			return err
		}

		switch staff.Role {
		case domain.StaffRoleDesigner:
			if err := tx.Model(&domain.Job{}).
				Where("designer_name = ?", oldName).
				Update("designer_name", newName).Error; err != nil {
				return err
			}
		case domain.StaffRoleProgrammer:
			if err := tx.Model(&domain.Job{}).
				Where("programmer_name = ?", oldName).
				Update("programmer_name", newName).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountAssignments returns how many jobs currently reference the staff member
func (r *StaffRepository) CountAssignments(ctx context.Context, staff *domain.Staff) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Job{})
	switch staff.Role {
	case domain.StaffRoleDesigner:
		query = query.Where("designer_name = ?", staff.Name)
	case domain.StaffRoleProgrammer:
		query = query.Where("programmer_name = ?", staff.Name)
	}
	err := query.Count(&count).Error
	return count, err
}
