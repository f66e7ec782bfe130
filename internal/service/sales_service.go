package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/auth"
	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/mapper"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
)

// SalesService handles finish-date change requests raised by planning or
// stores and decided by sales.
type SalesService struct {
	jobRepo      *repository.JobRepository
	catalogRepo  *repository.ProcessDepartmentRepository
	activityRepo *repository.JobActivityRepository
	notifier     *NotificationService
	logger       *zap.Logger
}

func NewSalesService(
	jobRepo *repository.JobRepository,
	catalogRepo *repository.ProcessDepartmentRepository,
	activityRepo *repository.JobActivityRepository,
	notifier *NotificationService,
	logger *zap.Logger,
) *SalesService {
	return &SalesService{
		jobRepo:      jobRepo,
		catalogRepo:  catalogRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *SalesService) logActivity(ctx context.Context, jobID uuid.UUID, title, body string) {
	activity := &domain.JobActivity{
		JobID:     jobID,
		Title:     title,
		Body:      body,
		ActorName: auth.ActorName(ctx),
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to record job activity", zap.Error(err))
	}
}

// Raise files a finish-date change request for a job. At most one open
// request exists per job; a resolved request is replaced.
func (s *SalesService) Raise(ctx context.Context, jobID uuid.UUID, req *domain.RaiseSalesRequest) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	// A resolved request is replaced in memory; delete its row first so the
	// unique job constraint does not reject the replacement.
	if job.SalesRequest != nil && job.SalesRequest.Status != domain.SalesRequestPending {
		if err := s.jobRepo.DeleteSalesRequest(ctx, job.ID); err != nil {
			return nil, fmt.Errorf("failed to clear resolved request: %w", err)
		}
	}

	if err := engine.RaiseSalesRequest(job, req.Source, req.Reason, req.RequestedDate, req.DrawingID, req.ProductID); err != nil {
		return nil, err
	}

	syncCompletion(job, time.Now())
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	s.logActivity(ctx, job.ID, "Date change requested",
		fmt.Sprintf("%s requested finish date %s for job %s: %s",
			req.Source, req.RequestedDate, job.JobNumber, req.Reason))
	s.notifier.Notify(ctx, InboxSales, NotificationSalesRequest,
		"Date change requested",
		fmt.Sprintf("Job %s: new finish date %s requested", job.JobNumber, req.RequestedDate),
		&job.ID, "job")

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// Approve accepts the pending request with the finish date sales negotiated.
// When the granted date does not cover the planned schedule, the drawing
// that raised the request is sent back to Planning for a replan.
func (s *SalesService) Approve(ctx context.Context, jobID uuid.UUID, req *domain.ApproveSalesRequest) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	needsReschedule, err := engine.ApproveSalesRequest(job, req.NewFinishDate)
	if err != nil {
		return nil, err
	}

	syncCompletion(job, time.Now())
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	s.logActivity(ctx, job.ID, "Date change approved",
		fmt.Sprintf("Finish date of job %s changed to %s", job.JobNumber, req.NewFinishDate))

	if needsReschedule {
		s.notifier.Notify(ctx, InboxPlanning, NotificationReschedule,
			"Reschedule required",
			fmt.Sprintf("Approved date %s does not cover the plan for job %s", req.NewFinishDate, job.JobNumber),
			&job.ID, "job")
	}

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// Reject declines the pending request. The raising drawing stays pinned in
// Planning until the job's finish date is edited.
func (s *SalesService) Reject(ctx context.Context, jobID uuid.UUID, req *domain.RejectSalesRequest) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	if err := engine.RejectSalesRequest(job, req.Reason); err != nil {
		return nil, err
	}

	syncCompletion(job, time.Now())
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	s.logActivity(ctx, job.ID, "Date change rejected",
		fmt.Sprintf("Date change request on job %s was rejected: %s", job.JobNumber, req.Reason))
	s.notifier.Notify(ctx, InboxPlanning, NotificationSalesDecision,
		"Date change rejected",
		fmt.Sprintf("Sales rejected the date change on job %s", job.JobNumber),
		&job.ID, "job")

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// ListPending returns jobs with an open sales request
func (s *SalesService) ListPending(ctx context.Context) ([]domain.JobDTO, error) {
	jobs, err := s.jobRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	var dtos []domain.JobDTO
	for i := range jobs {
		if jobs[i].SalesRequest != nil && jobs[i].SalesRequest.Status == domain.SalesRequestPending {
			dtos = append(dtos, mapper.ToJobDTO(&jobs[i]))
		}
	}
	return dtos, nil
}
