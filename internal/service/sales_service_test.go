package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
	"github.com/rexmarketing03-cell/planner-api/internal/workflow"
)

func TestSalesService_RaiseApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := f.createServiceJob(t, "J-9001")
	job = f.addDrawing(t, job, "Rotor")
	drawingID := job.Drawings[0].ID
	f.planProcesses(t, job, "Milling")

	job, err := f.sales.Raise(ctx, job.ID, &domain.RaiseSalesRequest{
		Source:        domain.SalesSourcePlanning,
		Reason:        "capacity conflict",
		RequestedDate: "2027-02-01",
		DrawingID:     &drawingID,
	})
	require.NoError(t, err)
	require.NotNil(t, job.SalesRequest)
	assert.Equal(t, domain.SalesRequestPending, job.SalesRequest.Status)
	// A pending planning request pins the drawing
	assert.Equal(t, domain.DepartmentPlanning, job.Drawings[0].CurrentDepartment)

	// Only one request may be live
	_, err = f.sales.Raise(ctx, job.ID, &domain.RaiseSalesRequest{
		Source:        domain.SalesSourcePlanning,
		Reason:        "another",
		RequestedDate: "2027-02-02",
		DrawingID:     &drawingID,
	})
	assert.ErrorIs(t, err, workflow.ErrDuplicateRequest)

	// Sales got an inbox notification
	unread, err := f.notify.CountUnread(ctx, service.InboxSales)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	// The new date covers the planned dates, so no reschedule is needed
	job, err = f.sales.Approve(ctx, job.ID, &domain.ApproveSalesRequest{NewFinishDate: "2027-02-01"})
	require.NoError(t, err)
	assert.Equal(t, "2027-02-01", job.FinishDate)
	assert.Equal(t, domain.SalesRequestApproved, job.SalesRequest.Status)
	assert.False(t, job.Drawings[0].ReplanRequired)

	_, err = f.sales.Approve(ctx, job.ID, &domain.ApproveSalesRequest{NewFinishDate: "2027-02-05"})
	assert.ErrorIs(t, err, workflow.ErrNoPendingRequest)
}

func TestSalesService_ApproveForcesReplan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := f.createServiceJob(t, "J-9002")
	job = f.addDrawing(t, job, "Stator")
	drawingID := job.Drawings[0].ID
	// Planned date 2026-11-01 set by the helper
	f.planProcesses(t, job, "Milling")

	_, err := f.sales.Raise(ctx, job.ID, &domain.RaiseSalesRequest{
		Source:        domain.SalesSourcePlanning,
		Reason:        "material late",
		RequestedDate: "2026-10-01",
		DrawingID:     &drawingID,
	})
	require.NoError(t, err)

	// The granted date lands before the planned process dates
	job, err = f.sales.Approve(ctx, job.ID, &domain.ApproveSalesRequest{NewFinishDate: "2026-10-01"})
	require.NoError(t, err)
	assert.True(t, job.Drawings[0].ReplanRequired)
	assert.Equal(t, domain.DepartmentPlanning, job.Drawings[0].CurrentDepartment)

	// Planning is told to reschedule
	unread, err := f.notify.CountUnread(ctx, service.InboxPlanning)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, unread, 1)

	// Re-planning the drawing clears the flag and the resolved request
	job = f.planProcesses(t, job, "Milling")
	assert.False(t, job.Drawings[0].ReplanRequired)
	assert.Nil(t, job.SalesRequest)
}

func TestSalesService_RejectThenReraise(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := f.createServiceJob(t, "J-9003")
	job = f.addDrawing(t, job, "Endcap")
	drawingID := job.Drawings[0].ID

	_, err := f.sales.Raise(ctx, job.ID, &domain.RaiseSalesRequest{
		Source:        domain.SalesSourcePlanning,
		Reason:        "cannot hold the date",
		RequestedDate: "2027-01-10",
		DrawingID:     &drawingID,
	})
	require.NoError(t, err)

	job, err = f.sales.Reject(ctx, job.ID, &domain.RejectSalesRequest{Reason: "customer contract fixed"})
	require.NoError(t, err)
	require.NotNil(t, job.SalesRequest)
	assert.Equal(t, domain.SalesRequestRejected, job.SalesRequest.Status)
	assert.Equal(t, "customer contract fixed", job.SalesRequest.RejectionReason)

	// A resolved request can be replaced by a fresh one
	job, err = f.sales.Raise(ctx, job.ID, &domain.RaiseSalesRequest{
		Source:        domain.SalesSourcePlanning,
		Reason:        "second attempt",
		RequestedDate: "2027-01-20",
		DrawingID:     &drawingID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SalesRequestPending, job.SalesRequest.Status)
	assert.Equal(t, "second attempt", job.SalesRequest.Reason)
}

func TestSalesService_ListPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	withRequest := f.createServiceJob(t, "J-9004")
	withRequest = f.addDrawing(t, withRequest, "Part A")
	drawingID := withRequest.Drawings[0].ID
	f.createServiceJob(t, "J-9005")

	_, err := f.sales.Raise(ctx, withRequest.ID, &domain.RaiseSalesRequest{
		Source:        domain.SalesSourcePlanning,
		Reason:        "late",
		RequestedDate: "2027-03-01",
		DrawingID:     &drawingID,
	})
	require.NoError(t, err)

	pending, err := f.sales.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "J-9004", pending[0].JobNumber)
}
