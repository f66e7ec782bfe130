package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/mapper"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
)

// StaffService manages the designer and programmer registry. Job assignments
// reference staff by name, so renames fan out to every referencing job in a
// single transaction.
type StaffService struct {
	staffRepo *repository.StaffRepository
	logger    *zap.Logger
}

func NewStaffService(staffRepo *repository.StaffRepository, logger *zap.Logger) *StaffService {
	return &StaffService{
		staffRepo: staffRepo,
		logger:    logger,
	}
}

func (s *StaffService) Create(ctx context.Context, req *domain.CreateStaffRequest) (*domain.StaffDTO, error) {
	name := strings.TrimSpace(req.Name)

	if _, err := s.staffRepo.GetByName(ctx, name); err == nil {
		return nil, ErrStaffNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check staff name: %w", err)
	}

	staff := &domain.Staff{
		Name:     name,
		Role:     req.Role,
		IsActive: true,
	}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}

	dto := mapper.ToStaffDTO(staff)
	return &dto, nil
}

func (s *StaffService) List(ctx context.Context, role domain.StaffRole, activeOnly bool) ([]domain.StaffDTO, error) {
	staff, err := s.staffRepo.List(ctx, role, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	dtos := make([]domain.StaffDTO, 0, len(staff))
	for i := range staff {
		dtos = append(dtos, mapper.ToStaffDTO(&staff[i]))
	}
	return dtos, nil
}

// Rename changes a staff member's name and rewrites every job assignment
// that referenced the old name. All or nothing.
func (s *StaffService) Rename(ctx context.Context, id uuid.UUID, req *domain.RenameStaffRequest) (*domain.StaffDTO, error) {
	newName := strings.TrimSpace(req.NewName)

	if existing, err := s.staffRepo.GetByName(ctx, newName); err == nil && existing.ID != id {
		return nil, ErrStaffNameTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check staff name: %w", err)
	}

	if err := s.staffRepo.Rename(ctx, id, newName); err != nil {
		return nil, fmt.Errorf("failed to rename staff: %w", err)
	}

	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload staff: %w", err)
	}

	s.logger.Info("staff member renamed",
		zap.String("staff_id", id.String()),
		zap.String("new_name", newName),
	)

	dto := mapper.ToStaffDTO(staff)
	return &dto, nil
}

// Delete removes a staff member. Members still referenced by a job are
// deactivated instead, keeping historical assignments readable.
func (s *StaffService) Delete(ctx context.Context, id uuid.UUID) error {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get staff: %w", err)
	}

	assignments, err := s.staffRepo.CountAssignments(ctx, staff)
	if err != nil {
		return fmt.Errorf("failed to count assignments: %w", err)
	}
	if assignments > 0 {
		staff.IsActive = false
		if err := s.staffRepo.Update(ctx, staff); err != nil {
			return fmt.Errorf("failed to deactivate staff: %w", err)
		}
		return ErrStaffAssigned
	}

	return s.staffRepo.Delete(ctx, id)
}
