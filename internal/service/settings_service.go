package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/mapper"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
)

// SettingsService manages the workflow configuration tables: the
// process-department catalog and the machine registry.
type SettingsService struct {
	catalogRepo *repository.ProcessDepartmentRepository
	machineRepo *repository.MachineRepository
	logger      *zap.Logger
}

func NewSettingsService(
	catalogRepo *repository.ProcessDepartmentRepository,
	machineRepo *repository.MachineRepository,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		catalogRepo: catalogRepo,
		machineRepo: machineRepo,
		logger:      logger,
	}
}

func (s *SettingsService) ListProcessDepartments(ctx context.Context) ([]domain.ProcessDepartmentDTO, error) {
	entries, err := s.catalogRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list process departments: %w", err)
	}

	dtos := make([]domain.ProcessDepartmentDTO, 0, len(entries))
	for i := range entries {
		dtos = append(dtos, mapper.ToProcessDepartmentDTO(&entries[i]))
	}
	return dtos, nil
}

// UpsertProcessDepartment maps a process name to a department. Existing
// drawings pick the change up on their next recompute.
func (s *SettingsService) UpsertProcessDepartment(ctx context.Context, req *domain.UpsertProcessDepartmentRequest) (*domain.ProcessDepartmentDTO, error) {
	entry, err := s.catalogRepo.Upsert(ctx, req.ProcessName, req.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert process department: %w", err)
	}

	s.logger.Info("process department mapping updated",
		zap.String("process", entry.ProcessName),
		zap.String("department", entry.Department),
	)

	dto := mapper.ToProcessDepartmentDTO(entry)
	return &dto, nil
}

func (s *SettingsService) DeleteProcessDepartment(ctx context.Context, id uuid.UUID) error {
	return s.catalogRepo.Delete(ctx, id)
}

func (s *SettingsService) ListMachines(ctx context.Context, activeOnly bool) ([]domain.MachineDTO, error) {
	machines, err := s.machineRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}

	dtos := make([]domain.MachineDTO, 0, len(machines))
	for i := range machines {
		dtos = append(dtos, mapper.ToMachineDTO(&machines[i]))
	}
	return dtos, nil
}

func (s *SettingsService) CreateMachine(ctx context.Context, req *domain.CreateMachineRequest) (*domain.MachineDTO, error) {
	machine := &domain.Machine{
		Name:        req.Name,
		ProcessType: req.ProcessType,
		IsActive:    true,
	}
	if err := s.machineRepo.Create(ctx, machine); err != nil {
		return nil, fmt.Errorf("failed to create machine: %w", err)
	}

	dto := mapper.ToMachineDTO(machine)
	return &dto, nil
}

func (s *SettingsService) SetMachineActive(ctx context.Context, id uuid.UUID, active bool) (*domain.MachineDTO, error) {
	machine, err := s.machineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get machine: %w", err)
	}

	machine.IsActive = active
	if err := s.machineRepo.Update(ctx, machine); err != nil {
		return nil, fmt.Errorf("failed to update machine: %w", err)
	}

	dto := mapper.ToMachineDTO(machine)
	return &dto, nil
}

func (s *SettingsService) DeleteMachine(ctx context.Context, id uuid.UUID) error {
	return s.machineRepo.Delete(ctx, id)
}
