package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

func TestMaterialService_StockGating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := f.createServiceJob(t, "J-10001")
	job = f.addDrawing(t, job, "Shaft")
	drawingID := job.Drawings[0].ID
	f.planProcesses(t, job, "Lathe")

	job, err := f.materials.SetAwaitingStock(ctx, job.ID, drawingID,
		&domain.AwaitingStockRequest{ExpectedDate: "2026-10-15"})
	require.NoError(t, err)
	d := job.Drawings[0]
	assert.Equal(t, domain.MaterialAwaitingStock, d.MaterialStatus)
	assert.Equal(t, "2026-10-15", d.ExpectedMaterialDate)
	// Awaiting stock keeps the drawing gated in Planning
	assert.Equal(t, domain.DepartmentPlanning, d.CurrentDepartment)

	job, err = f.materials.SetMaterialReady(ctx, job.ID, drawingID)
	require.NoError(t, err)
	d = job.Drawings[0]
	assert.Equal(t, domain.MaterialReady, d.MaterialStatus)
	assert.Empty(t, d.ExpectedMaterialDate)
	assert.Equal(t, "Lathe", d.CurrentDepartment)
}

func TestMaterialService_ReportDelay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := f.createServiceJob(t, "J-10002")
	job = f.addDrawing(t, job, "Bushing")
	drawingID := job.Drawings[0].ID
	f.planProcesses(t, job, "Lathe")

	// The expected arrival already breaks the schedule: force a replan
	job, err := f.materials.ReportDelay(ctx, job.ID, drawingID,
		&domain.AwaitingStockRequest{ExpectedDate: "2027-06-01"})
	require.NoError(t, err)
	d := job.Drawings[0]
	assert.Equal(t, domain.MaterialAwaitingStock, d.MaterialStatus)
	assert.True(t, d.ReplanRequired)
	assert.Equal(t, domain.DepartmentPlanning, d.CurrentDepartment)

	unread, err := f.notify.CountUnread(ctx, service.InboxPlanning)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, unread, 1, "planning is told to reschedule")
}
