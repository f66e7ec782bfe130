package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
	"github.com/rexmarketing03-cell/planner-api/internal/workflow"
)

// buildEngine constructs a workflow engine backed by the current
// process-department catalog. The catalog is small and read per request so
// settings changes take effect immediately.
func buildEngine(ctx context.Context, catalogRepo *repository.ProcessDepartmentRepository) (*workflow.Engine, error) {
	entries, err := catalogRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	mapping := make(map[string]string, len(entries))
	for _, e := range entries {
		mapping[e.ProcessName] = e.Department
	}

	return workflow.NewEngine(workflow.NewStaticCatalog(mapping)), nil
}

// syncCompletion stamps the job-level completion timestamp when the last part
// finishes. The stamp is monotonic: once set it is never cleared, so callers
// that would reopen a part of a completed job must reject instead.
func syncCompletion(job *domain.Job, now time.Time) {
	if job.CompletedAt != nil || job.DeliveredAt != nil {
		return
	}
	if job.IsComplete() {
		t := now.UTC()
		job.CompletedAt = &t
	}
}

// recomputeAll refreshes the cached department of every drawing on a job
func recomputeAll(engine *workflow.Engine, job *domain.Job) {
	for i := range job.Drawings {
		engine.Recompute(job, &job.Drawings[i])
	}
}

// findDrawing locates a drawing in the loaded aggregate by ID
func findDrawing(job *domain.Job, drawingID uuid.UUID) *domain.Drawing {
	for i := range job.Drawings {
		if job.Drawings[i].ID == drawingID {
			return &job.Drawings[i]
		}
	}
	return nil
}
