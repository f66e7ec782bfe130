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

// ProcessService drives a drawing through its process pipeline: planning,
// operator completion, quality checks, rework, holds and final QC.
type ProcessService struct {
	jobRepo      *repository.JobRepository
	drawingRepo  *repository.DrawingRepository
	catalogRepo  *repository.ProcessDepartmentRepository
	activityRepo *repository.JobActivityRepository
	notifier     *NotificationService
	logger       *zap.Logger
}

func NewProcessService(
	jobRepo *repository.JobRepository,
	drawingRepo *repository.DrawingRepository,
	catalogRepo *repository.ProcessDepartmentRepository,
	activityRepo *repository.JobActivityRepository,
	notifier *NotificationService,
	logger *zap.Logger,
) *ProcessService {
	return &ProcessService{
		jobRepo:      jobRepo,
		drawingRepo:  drawingRepo,
		catalogRepo:  catalogRepo,
		activityRepo: activityRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *ProcessService) logActivity(ctx context.Context, jobID uuid.UUID, drawingID uuid.UUID, title, body string) {
	activity := &domain.JobActivity{
		JobID:     jobID,
		DrawingID: &drawingID,
		Title:     title,
		Body:      body,
		ActorName: auth.ActorName(ctx),
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to record job activity",
			zap.String("job_id", jobID.String()),
			zap.String("title", title),
			zap.Error(err),
		)
	}
}

// loadAggregate fetches the job owning a drawing and the drawing within it
func (s *ProcessService) loadAggregate(ctx context.Context, jobID, drawingID uuid.UUID) (*domain.Job, *domain.Drawing, error) {
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

func (s *ProcessService) persist(ctx context.Context, job *domain.Job) (*domain.JobDTO, error) {
	syncCompletion(job, time.Now())
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// ReplaceProcesses swaps a drawing's process route for a new one. Sequences
// are renumbered contiguously from 1 and any pending replan flag is cleared.
func (s *ProcessService) ReplaceProcesses(ctx context.Context, jobID, drawingID uuid.UUID, req *domain.UpdateProcessesRequest) (*domain.JobDTO, error) {
	job, drawing, err := s.loadAggregate(ctx, jobID, drawingID)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	processes := make([]domain.Process, 0, len(req.Processes))
	for _, in := range req.Processes {
		processes = append(processes, domain.Process{
			Name:                in.Name,
			Machine:             in.Machine,
			EstimatedHours:      in.EstimatedHours,
			EstimatedMinutes:    in.EstimatedMinutes,
			PlannedDate:         in.PlannedDate,
			ProgrammingRequired: in.ProgrammingRequired,
			OperatorName:        in.OperatorName,
			IsOvertime:          in.IsOvertime,
		})
	}

	hadRequest := job.SalesRequest != nil
	engine.ReplaceProcesses(job, drawing, processes)

	// Editing the drawing resolves a non-pending sales request; drop its row
	// so it is not preloaded back on the next read.
	if hadRequest && job.SalesRequest == nil {
		if err := s.jobRepo.DeleteSalesRequest(ctx, job.ID); err != nil {
			return nil, fmt.Errorf("failed to clear sales request: %w", err)
		}
	}

	// Old process rows are deleted explicitly so renumbered sequences
	// never collide with stale rows.
	if err := s.drawingRepo.ReplaceProcesses(ctx, drawing.ID, drawing.Processes); err != nil {
		return nil, fmt.Errorf("failed to replace processes: %w", err)
	}

	dto, err := s.persist(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, job.ID, drawing.ID, "Processes planned",
		fmt.Sprintf("Drawing '%s' was planned with %d process(es)", drawing.Name, len(processes)))

	return dto, nil
}

// CompleteProcess marks one process step done (or reopens it)
func (s *ProcessService) CompleteProcess(ctx context.Context, jobID, drawingID uuid.UUID, req *domain.CompleteProcessRequest) (*domain.JobDTO, error) {
	job, drawing, err := s.loadAggregate(ctx, jobID, drawingID)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	if err := engine.CompleteProcess(job, drawing, req.Sequence, req.Completed, req.ConfirmProgrammingPending); err != nil {
		return nil, err
	}

	dto, err := s.persist(ctx, job)
	if err != nil {
		return nil, err
	}

	state := "completed"
	if !req.Completed {
		state = "reopened"
	}
	s.logActivity(ctx, job.ID, drawing.ID, "Process "+state,
		fmt.Sprintf("Process #%d on drawing '%s' was %s", req.Sequence, drawing.Name, state))

	return dto, nil
}

// QualityCheck records the in-department quality check on a completed process
func (s *ProcessService) QualityCheck(ctx context.Context, jobID, drawingID uuid.UUID, req *domain.QualityCheckRequest) (*domain.JobDTO, error) {
	job, drawing, err := s.loadAggregate(ctx, jobID, drawingID)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	if err := engine.CompleteQualityCheck(job, drawing, req.Sequence, req.Checked, req.Comment); err != nil {
		return nil, err
	}

	dto, err := s.persist(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, job.ID, drawing.ID, "Quality check recorded",
		fmt.Sprintf("QC on process #%d of drawing '%s' set to %v", req.Sequence, drawing.Name, req.Checked))

	return dto, nil
}

// InitiateRework sends a drawing back to an earlier process
func (s *ProcessService) InitiateRework(ctx context.Context, jobID, drawingID uuid.UUID, req *domain.ReworkRequest) (*domain.JobDTO, error) {
	job, drawing, err := s.loadAggregate(ctx, jobID, drawingID)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	if err := engine.InitiateRework(job, drawing, req.ProcessName, req.Reason, req.ReworkType, req.TargetDepartment); err != nil {
		return nil, err
	}

	dto, err := s.persist(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, job.ID, drawing.ID, "Rework initiated",
		fmt.Sprintf("Drawing '%s' sent back to '%s' (%s): %s",
			drawing.Name, req.ProcessName, req.ReworkType, req.Reason))

	return dto, nil
}

// CompleteRework returns a cross-department reworked drawing to the normal flow
func (s *ProcessService) CompleteRework(ctx context.Context, jobID, drawingID uuid.UUID) (*domain.JobDTO, error) {
	job, drawing, err := s.loadAggregate(ctx, jobID, drawingID)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	engine.CompleteRework(job, drawing)

	dto, err := s.persist(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, job.ID, drawing.ID, "Rework completed",
		fmt.Sprintf("Drawing '%s' returned to the normal flow", drawing.Name))

	return dto, nil
}

// HoldDrawing freezes a drawing in the Hold department
func (s *ProcessService) HoldDrawing(ctx context.Context, jobID, drawingID uuid.UUID, req *domain.HoldDrawingRequest) (*domain.JobDTO, error) {
	job, drawing, err := s.loadAggregate(ctx, jobID, drawingID)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	if err := engine.HoldDrawing(drawing, req.Reason); err != nil {
		return nil, err
	}

	dto, err := s.persist(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, job.ID, drawing.ID, "Drawing held",
		fmt.Sprintf("Drawing '%s' was put on hold: %s", drawing.Name, req.Reason))

	return dto, nil
}

// ResumeDrawing lifts a hold. A new finish date is mandatory because the
// hold invalidated the schedule.
func (s *ProcessService) ResumeDrawing(ctx context.Context, jobID, drawingID uuid.UUID, req *domain.ResumeDrawingRequest) (*domain.JobDTO, error) {
	job, drawing, err := s.loadAggregate(ctx, jobID, drawingID)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	if err := engine.ResumeDrawing(job, drawing, req.NewFinishDate); err != nil {
		return nil, err
	}

	dto, err := s.persist(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, job.ID, drawing.ID, "Drawing resumed",
		fmt.Sprintf("Drawing '%s' was resumed with finish date %s", drawing.Name, req.NewFinishDate))

	return dto, nil
}

// CompleteDrawingDesign closes the design stage of a single drawing
func (s *ProcessService) CompleteDrawingDesign(ctx context.Context, jobID, drawingID uuid.UUID) (*domain.JobDTO, error) {
	job, drawing, err := s.loadAggregate(ctx, jobID, drawingID)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	engine.CompleteDesign(job, drawing)

	dto, err := s.persist(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, job.ID, drawing.ID, "Drawing design completed",
		fmt.Sprintf("Design of drawing '%s' was completed", drawing.Name))

	return dto, nil
}

// FinalQualityCheck records the final QC verdict on a drawing that has
// cleared every process
func (s *ProcessService) FinalQualityCheck(ctx context.Context, jobID, drawingID uuid.UUID, req *domain.FinalQcRequest) (*domain.JobDTO, error) {
	job, drawing, err := s.loadAggregate(ctx, jobID, drawingID)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	engine.FinalQcApprove(drawing, req.Approved, req.Comment)

	dto, err := s.persist(ctx, job)
	if err != nil {
		return nil, err
	}

	verdict := "approved"
	if !req.Approved {
		verdict = "withheld"
	}
	s.logActivity(ctx, job.ID, drawing.ID, "Final QC "+verdict,
		fmt.Sprintf("Final quality check on drawing '%s' was %s", drawing.Name, verdict))

	return dto, nil
}
