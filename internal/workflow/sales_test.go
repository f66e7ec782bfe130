package workflow_test

import (
	"testing"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaiseSalesRequest(t *testing.T) {
	e := newEngine()

	t.Run("planning request pins the drawing", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", false, false))
		d.CurrentDepartment = "Milling"
		j := newJob(d)
		dd := &j.Drawings[0]

		require.NoError(t, e.RaiseSalesRequest(j, domain.SalesSourcePlanning,
			"material delay pushes schedule", "2025-03-01", &dd.ID, nil))

		require.NotNil(t, j.SalesRequest)
		assert.Equal(t, domain.SalesRequestPending, j.SalesRequest.Status)
		assert.Equal(t, domain.DepartmentPlanning, dd.CurrentDepartment)
	})

	t.Run("second pending request is rejected", func(t *testing.T) {
		d := newDrawing()
		j := newJob(d)
		dd := &j.Drawings[0]

		require.NoError(t, e.RaiseSalesRequest(j, domain.SalesSourcePlanning, "first", "2025-03-01", &dd.ID, nil))
		err := e.RaiseSalesRequest(j, domain.SalesSourceStores, "second", "2025-03-05", &dd.ID, nil)
		assert.ErrorIs(t, err, workflow.ErrDuplicateRequest)
	})

	t.Run("resolved request can be replaced", func(t *testing.T) {
		d := newDrawing()
		j := newJob(d)
		dd := &j.Drawings[0]

		require.NoError(t, e.RaiseSalesRequest(j, domain.SalesSourcePlanning, "first", "2025-03-01", &dd.ID, nil))
		_, err := e.ApproveSalesRequest(j, "2025-03-02")
		require.NoError(t, err)

		require.NoError(t, e.RaiseSalesRequest(j, domain.SalesSourceStores, "second", "2025-04-01", nil, nil))
		assert.Equal(t, domain.SalesSourceStores, j.SalesRequest.Source)
	})

	t.Run("validation", func(t *testing.T) {
		j := newJob()
		assert.ErrorIs(t, e.RaiseSalesRequest(j, domain.SalesSourcePlanning, "", "2025-03-01", nil, nil), workflow.ErrValidation)
		assert.ErrorIs(t, e.RaiseSalesRequest(j, domain.SalesSourcePlanning, "reason", "", nil, nil), workflow.ErrValidation)
		assert.ErrorIs(t, e.RaiseSalesRequest(j, domain.SalesRequestSource("factory"), "reason", "2025-03-01", nil, nil), workflow.ErrValidation)
	})
}

func TestApproveSalesRequest(t *testing.T) {
	e := newEngine()

	setup := func(plannedDates ...string) (*domain.Job, *domain.Drawing) {
		processes := make([]domain.Process, 0, len(plannedDates))
		for i, pd := range plannedDates {
			p := newProcess(i+1, "Milling", false, false)
			p.PlannedDate = pd
			processes = append(processes, p)
		}
		d := newDrawing(processes...)
		j := newJob(d)
		dd := &j.Drawings[0]
		j.FinishDate = "2025-02-15"
		require.NoError(t, e.RaiseSalesRequest(j, domain.SalesSourcePlanning,
			"customer extension", "2025-03-01", &dd.ID, nil))
		return j, dd
	}

	t.Run("new finish date covering the plan advances the drawing", func(t *testing.T) {
		j, d := setup("2025-02-20", "2025-03-01")
		require.Equal(t, domain.DepartmentPlanning, d.CurrentDepartment)

		needsReschedule, err := e.ApproveSalesRequest(j, "2025-03-05")
		require.NoError(t, err)
		assert.False(t, needsReschedule)
		assert.Equal(t, "2025-03-05", j.FinishDate)
		assert.Equal(t, domain.SalesRequestApproved, j.SalesRequest.Status)
		assert.Equal(t, "Milling", d.CurrentDepartment, "pin releases after approval")
	})

	t.Run("new finish date short of the plan keeps Planning and flags reschedule", func(t *testing.T) {
		j, d := setup("2025-02-20", "2025-03-10")

		needsReschedule, err := e.ApproveSalesRequest(j, "2025-03-05")
		require.NoError(t, err)
		assert.True(t, needsReschedule)
		assert.True(t, d.ReplanRequired)
		assert.Equal(t, domain.DepartmentPlanning, d.CurrentDepartment)
	})

	t.Run("no pending request", func(t *testing.T) {
		j := newJob(newDrawing())
		_, err := e.ApproveSalesRequest(j, "2025-03-05")
		assert.ErrorIs(t, err, workflow.ErrNoPendingRequest)
	})
}

func TestRejectSalesRequest(t *testing.T) {
	e := newEngine()

	t.Run("rejection keeps the drawing pinned until edited", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", false, false))
		j := newJob(d)
		dd := &j.Drawings[0]
		require.NoError(t, e.RaiseSalesRequest(j, domain.SalesSourcePlanning,
			"schedule conflict", "2025-03-01", &dd.ID, nil))

		require.NoError(t, e.RejectSalesRequest(j, "customer deadline is fixed"))
		assert.Equal(t, domain.SalesRequestRejected, j.SalesRequest.Status)
		assert.Equal(t, "customer deadline is fixed", j.SalesRequest.RejectionReason)
		assert.Equal(t, domain.DepartmentPlanning, dd.CurrentDepartment)

		// Editing the drawing clears the rejected request and releases it.
		e.ReplaceProcesses(j, dd, []domain.Process{{Name: "Milling"}})
		assert.Nil(t, j.SalesRequest)
		assert.Equal(t, "Milling", dd.CurrentDepartment)
	})

	t.Run("reason required", func(t *testing.T) {
		d := newDrawing()
		j := newJob(d)
		dd := &j.Drawings[0]
		require.NoError(t, e.RaiseSalesRequest(j, domain.SalesSourcePlanning, "r", "2025-03-01", &dd.ID, nil))

		assert.ErrorIs(t, e.RejectSalesRequest(j, ""), workflow.ErrValidation)
	})
}
