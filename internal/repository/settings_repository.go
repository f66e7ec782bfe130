package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
)

// ProcessDepartmentRepository manages the process-to-department catalog
type ProcessDepartmentRepository struct {
	db *gorm.DB
}

func NewProcessDepartmentRepository(db *gorm.DB) *ProcessDepartmentRepository {
	return &ProcessDepartmentRepository{db: db}
}

func (r *ProcessDepartmentRepository) GetAll(ctx context.Context) ([]domain.ProcessDepartment, error) {
	var entries []domain.ProcessDepartment
	err := r.db.WithContext(ctx).Order("process_name ASC").Find(&entries).Error
	return entries, err
}

// Upsert creates or updates the department mapping for a process name.
// Names are matched case-insensitively.
func (r *ProcessDepartmentRepository) Upsert(ctx context.Context, processName, department string) (*domain.ProcessDepartment, error) {
	var entry domain.ProcessDepartment
	err := r.db.WithContext(ctx).
		Where("LOWER(process_name) = ?", strings.ToLower(strings.TrimSpace(processName))).
		First(&entry).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		entry = domain.ProcessDepartment{
			ProcessName: strings.TrimSpace(processName),
			Department:  department,
		}
		if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
			return nil, err
		}
		return &entry, nil
	}

	entry.Department = department
	if err := r.db.WithContext(ctx).Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ProcessDepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ProcessDepartment{}, "id = ?", id).Error
}

// MachineRepository manages the shop-floor machine registry
type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) Create(ctx context.Context, machine *domain.Machine) error {
	return r.db.WithContext(ctx).Create(machine).Error
}

func (r *MachineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Machine, error) {
	var machine domain.Machine
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&machine).Error
	if err != nil {
		return nil, err
	}
	return &machine, nil
}

func (r *MachineRepository) List(ctx context.Context, activeOnly bool) ([]domain.Machine, error) {
	var machines []domain.Machine
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&machines).Error
	return machines, err
}

func (r *MachineRepository) Update(ctx context.Context, machine *domain.Machine) error {
	return r.db.WithContext(ctx).Save(machine).Error
}

func (r *MachineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Machine{}, "id = ?", id).Error
}
