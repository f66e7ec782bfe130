package workflow_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/workflow"
	"github.com/stretchr/testify/assert"
)

func testCatalog() workflow.StaticCatalog {
	return workflow.NewStaticCatalog(map[string]string{
		"Milling":     "Milling",
		"CNC Milling": "CNC Milling",
		"Lathe":       "Lathe",
		"CNC Lathe":   "CNC Lathe",
		"Drilling":    "Drilling",
		"Welding":     "Welding",
	})
}

func newProcess(seq int, name string, completed, qc bool) domain.Process {
	p := domain.Process{Sequence: seq, Name: name, Completed: completed, QualityCheckCompleted: qc}
	p.ID = uuid.New()
	if completed {
		now := time.Now()
		p.CompletedAt = &now
	}
	return p
}

func newDrawing(processes ...domain.Process) *domain.Drawing {
	d := &domain.Drawing{
		Name:              "Part-A",
		Quantity:          1,
		MaterialStatus:    domain.MaterialReady,
		CurrentDepartment: domain.DepartmentPlanning,
		Processes:         processes,
	}
	d.ID = uuid.New()
	return d
}

func newJob(drawings ...*domain.Drawing) *domain.Job {
	j := &domain.Job{
		JobNumber: "J-1001",
		JobType:   domain.JobTypeService,
		Priority:  domain.JobPriorityNormal,
	}
	j.ID = uuid.New()
	for _, d := range drawings {
		d.JobID = j.ID
		j.Drawings = append(j.Drawings, *d)
	}
	return j
}

func TestComputeDepartment_PriorityOrder(t *testing.T) {
	catalog := testCatalog()

	t.Run("replan required wins over everything", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", true, true))
		d.ReplanRequired = true
		d.IsUnderRework = true
		d.CurrentDepartment = "Welding"
		j := newJob()

		assert.Equal(t, domain.DepartmentPlanning, workflow.ComputeDepartment(d, j, catalog))
	})

	t.Run("rejected planning request pins drawing to Planning", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", false, false))
		j := newJob()
		id := d.ID
		j.SalesRequest = &domain.SalesUpdateRequest{
			Source:    domain.SalesSourcePlanning,
			Status:    domain.SalesRequestRejected,
			DrawingID: &id,
		}

		assert.Equal(t, domain.DepartmentPlanning, workflow.ComputeDepartment(d, j, catalog))
	})

	t.Run("stores-sourced request does not pin", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", false, false))
		j := newJob()
		id := d.ID
		j.SalesRequest = &domain.SalesUpdateRequest{
			Source:    domain.SalesSourceStores,
			Status:    domain.SalesRequestPending,
			DrawingID: &id,
		}

		assert.Equal(t, "Milling", workflow.ComputeDepartment(d, j, catalog))
	})

	t.Run("rework freezes department regardless of process state", func(t *testing.T) {
		d := newDrawing(
			newProcess(1, "Milling", true, true),
			newProcess(2, "Lathe", true, true),
		)
		d.IsUnderRework = true
		d.CurrentDepartment = "Welding"
		j := newJob()

		assert.Equal(t, "Welding", workflow.ComputeDepartment(d, j, catalog))
	})

	t.Run("hold is sticky", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", true, true))
		d.CurrentDepartment = domain.DepartmentHold
		j := newJob()

		assert.Equal(t, domain.DepartmentHold, workflow.ComputeDepartment(d, j, catalog))
	})

	t.Run("design is sticky", func(t *testing.T) {
		d := newDrawing()
		d.CurrentDepartment = domain.DepartmentDesign
		j := newJob()

		assert.Equal(t, domain.DepartmentDesign, workflow.ComputeDepartment(d, j, catalog))
	})

	t.Run("material gate forces Planning even with all processes complete", func(t *testing.T) {
		for _, status := range []domain.MaterialStatus{domain.MaterialPending, domain.MaterialAwaitingStock} {
			d := newDrawing(
				newProcess(1, "Milling", true, true),
				newProcess(2, "Lathe", true, true),
			)
			d.MaterialStatus = status
			j := newJob()

			assert.Equal(t, domain.DepartmentPlanning, workflow.ComputeDepartment(d, j, catalog),
				"material status %s must gate in Planning", status)
		}
	})

	t.Run("no processes means Planning", func(t *testing.T) {
		d := newDrawing()
		j := newJob()

		assert.Equal(t, domain.DepartmentPlanning, workflow.ComputeDepartment(d, j, catalog))
	})
}

func TestComputeDepartment_ProcessScan(t *testing.T) {
	catalog := testCatalog()

	t.Run("earliest incomplete process decides the department", func(t *testing.T) {
		d := newDrawing(
			newProcess(2, "Lathe", false, false),
			newProcess(1, "Milling", true, true),
			newProcess(3, "Welding", false, false),
		)
		j := newJob()

		assert.Equal(t, "Lathe", workflow.ComputeDepartment(d, j, catalog))
	})

	t.Run("completed but unchecked process still holds the drawing", func(t *testing.T) {
		d := newDrawing(
			newProcess(1, "Milling", true, false),
			newProcess(2, "Lathe", false, false),
		)
		j := newJob()

		assert.Equal(t, "Milling", workflow.ComputeDepartment(d, j, catalog))
	})

	t.Run("unmapped process falls back to Planning", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Electropolishing", false, false))
		j := newJob()

		assert.Equal(t, domain.DepartmentPlanning, workflow.ComputeDepartment(d, j, catalog))
	})

	t.Run("catalog lookup is case-insensitive", func(t *testing.T) {
		d := newDrawing(newProcess(1, "cnc milling", false, false))
		j := newJob()

		assert.Equal(t, "CNC Milling", workflow.ComputeDepartment(d, j, catalog))
	})

	t.Run("all processes done means Final Quality Check", func(t *testing.T) {
		d := newDrawing(
			newProcess(1, "Milling", true, true),
			newProcess(2, "Lathe", true, true),
		)
		j := newJob()

		assert.Equal(t, domain.DepartmentFinalQC, workflow.ComputeDepartment(d, j, catalog))
	})
}

func TestComputeDepartment_IncompleteCNCWithProgrammingPending(t *testing.T) {
	// First incomplete step routes by catalog even when its program is not
	// ready; the completion operation is what gates on programming.
	catalog := testCatalog()
	cnc := newProcess(2, "CNC Milling", false, false)
	cnc.ProgrammingRequired = true
	d := newDrawing(newProcess(1, "Milling", true, true), cnc)
	j := newJob()
	j.ProgrammingRequired = true
	j.ProgrammingFinished = false

	assert.Equal(t, "CNC Milling", workflow.ComputeDepartment(d, j, catalog))
}
