package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
)

// DashboardService aggregates the department badge counts shown on the
// workflow board. Everything is derived from the live job collection.
type DashboardService struct {
	jobRepo     *repository.JobRepository
	drawingRepo *repository.DrawingRepository
	logger      *zap.Logger
}

func NewDashboardService(
	jobRepo *repository.JobRepository,
	drawingRepo *repository.DrawingRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		jobRepo:     jobRepo,
		drawingRepo: drawingRepo,
		logger:      logger,
	}
}

func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardDTO, error) {
	jobs, err := s.jobRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}

	counts, err := s.drawingRepo.CountByDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count departments: %w", err)
	}

	today := time.Now().UTC().Format("2006-01-02")
	dto := &domain.DashboardDTO{
		DepartmentCounts: counts,
	}

	for i := range jobs {
		job := &jobs[i]

		if job.Priority == domain.JobPriorityUrgent {
			dto.UrgentJobs++
		}
		// Calendar-day string comparison, same as the workflow engine
		if job.FinishDate != "" && job.FinishDate < today && job.CompletedAt == nil {
			dto.OverdueJobs++
		}
		if job.SalesRequest != nil && job.SalesRequest.Status == domain.SalesRequestPending {
			dto.PendingSales++
		}

		for j := range job.Drawings {
			d := &job.Drawings[j]
			if d.MaterialStatus == domain.MaterialAwaitingStock {
				dto.AwaitingMaterial++
			}
			if d.IsUnderRework {
				dto.UnderRework++
			}
			if d.CurrentDepartment == domain.DepartmentHold {
				dto.OnHold++
			}
		}
	}

	return dto, nil
}
