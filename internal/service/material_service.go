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

// MaterialService handles the stores side of the workflow: marking material
// ready, recording expected stock dates and escalating delivery delays.
type MaterialService struct {
	jobRepo      *repository.JobRepository
	catalogRepo  *repository.ProcessDepartmentRepository
	activityRepo *repository.JobActivityRepository
	notifier     *NotificationService
	logger       *zap.Logger
}

func NewMaterialService(
	jobRepo *repository.JobRepository,
	catalogRepo *repository.ProcessDepartmentRepository,
	activityRepo *repository.JobActivityRepository,
	notifier *NotificationService,
	logger *zap.Logger,
) *MaterialService {
	return &MaterialService{
		jobRepo:      jobRepo,
		catalogRepo:  catalogRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *MaterialService) logActivity(ctx context.Context, jobID, drawingID uuid.UUID, title, body string) {
	activity := &domain.JobActivity{
		JobID:     jobID,
		DrawingID: &drawingID,
		Title:     title,
		Body:      body,
		ActorName: auth.ActorName(ctx),
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to record job activity", zap.Error(err))
	}
}

func (s *MaterialService) load(ctx context.Context, jobID, drawingID uuid.UUID) (*domain.Job, *domain.Drawing, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get job: %w", err)
	}
	drawing := findDrawing(job, drawingID)
	if drawing == nil {
		return nil, nil, ErrNotFound
	}
	return job, drawing, nil
}

func (s *MaterialService) persist(ctx context.Context, job *domain.Job) (*domain.JobDTO, error) {
	syncCompletion(job, time.Now())
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// SetMaterialReady marks a drawing's material available, releasing it into
// its process pipeline if one is planned
func (s *MaterialService) SetMaterialReady(ctx context.Context, jobID, drawingID uuid.UUID) (*domain.JobDTO, error) {
	job, drawing, err := s.load(ctx, jobID, drawingID)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	engine.SetMaterialReady(job, drawing)

	dto, err := s.persist(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, job.ID, drawing.ID, "Material ready",
		fmt.Sprintf("Material for drawing '%s' is ready", drawing.Name))

	return dto, nil
}

// SetAwaitingStock records that material is on order with an expected date
func (s *MaterialService) SetAwaitingStock(ctx context.Context, jobID, drawingID uuid.UUID, req *domain.AwaitingStockRequest) (*domain.JobDTO, error) {
	job, drawing, err := s.load(ctx, jobID, drawingID)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	if err := engine.SetAwaitingStock(job, drawing, req.ExpectedDate); err != nil {
		return nil, err
	}
	if req.MaterialCode != "" {
		drawing.MaterialCode = req.MaterialCode
	}

	dto, err := s.persist(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, job.ID, drawing.ID, "Awaiting stock",
		fmt.Sprintf("Material for drawing '%s' expected %s", drawing.Name, req.ExpectedDate))

	return dto, nil
}

// ReportDelay records a material delay that invalidates the plan. The drawing
// returns to Planning for a reschedule and planning is notified.
func (s *MaterialService) ReportDelay(ctx context.Context, jobID, drawingID uuid.UUID, req *domain.AwaitingStockRequest) (*domain.JobDTO, error) {
	job, drawing, err := s.load(ctx, jobID, drawingID)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	if err := engine.ReturnToPlanningForDelay(job, drawing, req.ExpectedDate); err != nil {
		return nil, err
	}

	dto, err := s.persist(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, job.ID, drawing.ID, "Material delayed",
		fmt.Sprintf("Material for drawing '%s' delayed, now expected %s", drawing.Name, req.ExpectedDate))
	s.notifier.Notify(ctx, InboxPlanning, NotificationReschedule,
		"Material delayed",
		fmt.Sprintf("Drawing '%s' on job %s needs rescheduling", drawing.Name, job.JobNumber),
		&drawing.ID, "drawing")

	return dto, nil
}
