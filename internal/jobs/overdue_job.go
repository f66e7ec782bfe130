package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/logger"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

// OverdueJob scans active jobs for planned finish dates that have passed
// without the job completing, and drawings whose expected material date has
// passed without the material arriving. Sales and planning are notified of
// overdue jobs, stores and planning of overdue material.
type OverdueJob struct {
	jobRepo     *repository.JobRepository
	drawingRepo *repository.DrawingRepository
	notifier    *service.NotificationService
	logger      *zap.Logger
}

// NewOverdueJob creates the overdue date scan.
func NewOverdueJob(
	jobRepo *repository.JobRepository,
	drawingRepo *repository.DrawingRepository,
	notifier *service.NotificationService,
	logger *zap.Logger,
) *OverdueJob {
	return &OverdueJob{
		jobRepo:     jobRepo,
		drawingRepo: drawingRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Run executes one scan. Dates are date-only strings, so overdue means
// strictly before today's calendar date.
func (j *OverdueJob) Run(ctx context.Context) {
	today := time.Now().Format("2006-01-02")

	jobs, err := j.jobRepo.ListActive(ctx)
	if err != nil {
		j.logger.Error("overdue scan: failed to list active jobs", zap.Error(err))
		return
	}

	overdueJobs := 0
	for i := range jobs {
		job := &jobs[i]
		if job.FinishDate == "" || job.FinishDate >= today || job.CompletedAt != nil {
			continue
		}
		overdueJobs++
		logger.WithJob(j.logger, job.JobNumber, job.ID).Info("job past planned finish date",
			zap.String("finish_date", job.FinishDate))

		title := fmt.Sprintf("Job %s is overdue", job.JobNumber)
		message := fmt.Sprintf("Job %s for %s was planned to finish on %s and is still in progress",
			job.JobNumber, job.CustomerName, job.FinishDate)
		jobID := job.ID
		j.notifier.Notify(ctx, service.InboxSales, service.NotificationOverdue, title, message, &jobID, "job")
		j.notifier.Notify(ctx, service.InboxPlanning, service.NotificationOverdue, title, message, &jobID, "job")
	}

	overdueMaterial := 0
	awaiting, err := j.drawingRepo.ListAwaitingStock(ctx)
	if err != nil {
		j.logger.Error("overdue scan: failed to list drawings awaiting stock", zap.Error(err))
	} else {
		for i := range awaiting {
			drawing := &awaiting[i]
			if drawing.ExpectedMaterialDate == "" || drawing.ExpectedMaterialDate >= today {
				continue
			}
			overdueMaterial++

			title := fmt.Sprintf("Material for drawing '%s' is overdue", drawing.Name)
			message := fmt.Sprintf("Material for drawing '%s' was expected on %s and has not arrived",
				drawing.Name, drawing.ExpectedMaterialDate)
			drawingID := drawing.ID
			j.notifier.Notify(ctx, service.InboxStores, service.NotificationOverdue, title, message, &drawingID, "drawing")
			j.notifier.Notify(ctx, service.InboxPlanning, service.NotificationOverdue, title, message, &drawingID, "drawing")
		}
	}

	j.logger.Info("overdue scan finished",
		zap.Int("active_jobs", len(jobs)),
		zap.Int("overdue_jobs", overdueJobs),
		zap.Int("overdue_material", overdueMaterial))
}
