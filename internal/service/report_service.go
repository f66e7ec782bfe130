package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/auth"
	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/mapper"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
	"github.com/rexmarketing03-cell/planner-api/internal/storage"
)

// ReportService stores final QC report files and stamps drawing completion.
// Saving the report is what moves an approved drawing to Completed.
type ReportService struct {
	jobRepo      *repository.JobRepository
	catalogRepo  *repository.ProcessDepartmentRepository
	activityRepo *repository.JobActivityRepository
	store        storage.Storage
	logger       *zap.Logger
}

func NewReportService(
	jobRepo *repository.JobRepository,
	catalogRepo *repository.ProcessDepartmentRepository,
	activityRepo *repository.JobActivityRepository,
	store storage.Storage,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		jobRepo:      jobRepo,
		catalogRepo:  catalogRepo,
		activityRepo: activityRepo,
		store:        store,
		logger:       logger,
	}
}

// SaveFinalReport uploads the final QC report and completes the drawing.
// Requires the drawing's final QC to be approved.
func (s *ReportService) SaveFinalReport(ctx context.Context, jobID, drawingID uuid.UUID, filename, contentType string, data io.Reader) (*domain.JobDTO, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	drawing := findDrawing(job, drawingID)
	if drawing == nil {
		return nil, ErrNotFound
	}

	engine, err := buildEngine(ctx, s.catalogRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load process catalog: %w", err)
	}

	reportPath := storage.ReportPath(job.JobNumber, drawing.Name, filename)
	size, err := s.store.Save(ctx, reportPath, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	if err := engine.SaveFinalReport(drawing, reportPath); err != nil {
		// The workflow rejected completion; remove the orphaned upload
		if delErr := s.store.Delete(ctx, reportPath); delErr != nil {
			s.logger.Warn("failed to remove orphaned report",
				zap.String("path", reportPath),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	now := time.Now().UTC()
	drawing.FinalReportSavedAt = &now
	syncCompletion(job, now)

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	s.logger.Info("final report stored",
		zap.String("job", job.JobNumber),
		zap.String("drawing", drawing.Name),
		zap.String("path", reportPath),
		zap.Int64("size", size),
	)

	activity := &domain.JobActivity{
		JobID:     job.ID,
		DrawingID: &drawing.ID,
		Title:     "Final report saved",
		Body:      fmt.Sprintf("Final QC report for drawing '%s' was saved", drawing.Name),
		ActorName: auth.ActorName(ctx),
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to record job activity", zap.Error(err))
	}

	dto := mapper.ToJobDTO(job)
	return &dto, nil
}

// OpenFinalReport streams a previously stored report
func (s *ReportService) OpenFinalReport(ctx context.Context, jobID, drawingID uuid.UUID) (io.ReadCloser, string, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get job: %w", err)
	}
	drawing := findDrawing(job, drawingID)
	if drawing == nil {
		return nil, "", ErrNotFound
	}
	if drawing.FinalReportPath == "" {
		return nil, "", ErrReportMissing
	}

	reader, err := s.store.Open(ctx, drawing.FinalReportPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open report: %w", err)
	}
	return reader, drawing.FinalReportPath, nil
}
