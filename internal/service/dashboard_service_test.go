package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
)

func TestDashboardService_Summary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	urgent, err := f.jobs.Create(ctx, &domain.CreateJobRequest{
		JobNumber:  "J-12001",
		JobType:    domain.JobTypeService,
		Priority:   domain.JobPriorityUrgent,
		FinishDate: "2025-01-01", // already past
	})
	require.NoError(t, err)
	urgent = f.addDrawing(t, urgent, "Casing")
	drawingID := urgent.Drawings[0].ID
	f.planProcesses(t, urgent, "Milling")

	_, err = f.materials.SetAwaitingStock(ctx, urgent.ID, drawingID,
		&domain.AwaitingStockRequest{ExpectedDate: "2026-10-01"})
	require.NoError(t, err)

	other := f.createServiceJob(t, "J-12002")
	other = f.addDrawing(t, other, "Lid")
	otherDrawing := other.Drawings[0].ID
	f.planProcesses(t, other, "Lathe")
	_, err = f.materials.SetMaterialReady(ctx, other.ID, otherDrawing)
	require.NoError(t, err)
	_, err = f.processes.HoldDrawing(ctx, other.ID, otherDrawing,
		&domain.HoldDrawingRequest{Reason: "operator out"})
	require.NoError(t, err)

	summary, err := f.dashboard.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.UrgentJobs)
	assert.Equal(t, 1, summary.OverdueJobs)
	assert.Equal(t, 1, summary.AwaitingMaterial)
	assert.Equal(t, 1, summary.OnHold)
	assert.Equal(t, 0, summary.UnderRework)
	assert.Equal(t, 0, summary.PendingSales)
	assert.Equal(t, 1, summary.DepartmentCounts[domain.DepartmentPlanning], "awaiting stock gates in Planning")
	assert.Equal(t, 1, summary.DepartmentCounts[domain.DepartmentHold])
}
