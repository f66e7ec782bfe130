package workflow_test

import (
	"testing"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialGate(t *testing.T) {
	e := newEngine()

	t.Run("pending material with no processes stays in Planning after SetReady", func(t *testing.T) {
		d := newDrawing()
		d.MaterialStatus = domain.MaterialPending
		j := newJob(d)

		assert.Equal(t, domain.DepartmentPlanning, workflow.ComputeDepartment(d, j, testCatalog()))

		e.SetMaterialReady(j, d)
		assert.Equal(t, domain.MaterialReady, d.MaterialStatus)
		assert.Equal(t, domain.DepartmentPlanning, d.CurrentDepartment, "no processes yet")
	})

	t.Run("SetReady releases the gate once processes exist", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", false, false))
		d.MaterialStatus = domain.MaterialAwaitingStock
		d.ExpectedMaterialDate = "2025-04-01"
		j := newJob(d)
		e.Recompute(j, d)
		require.Equal(t, domain.DepartmentPlanning, d.CurrentDepartment)

		e.SetMaterialReady(j, d)
		assert.Empty(t, d.ExpectedMaterialDate)
		assert.Equal(t, "Milling", d.CurrentDepartment)
	})

	t.Run("awaiting stock keeps the drawing gated", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", true, true))
		j := newJob(d)

		require.NoError(t, e.SetAwaitingStock(j, d, "2025-04-01"))
		assert.Equal(t, domain.MaterialAwaitingStock, d.MaterialStatus)
		assert.Equal(t, "2025-04-01", d.ExpectedMaterialDate)
		assert.Equal(t, domain.DepartmentPlanning, d.CurrentDepartment,
			"completed processes cannot beat the material gate")
	})

	t.Run("delay return forces a replan", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", false, false))
		d.CurrentDepartment = "Milling"
		j := newJob(d)

		require.NoError(t, e.ReturnToPlanningForDelay(j, d, "2025-05-01"))
		assert.True(t, d.ReplanRequired)
		assert.Equal(t, domain.DepartmentPlanning, d.CurrentDepartment)
	})

	t.Run("expected date required", func(t *testing.T) {
		d := newDrawing()
		j := newJob(d)

		assert.ErrorIs(t, e.SetAwaitingStock(j, d, ""), workflow.ErrValidation)
		assert.ErrorIs(t, e.ReturnToPlanningForDelay(j, d, " "), workflow.ErrValidation)
	})
}
