package workflow_test

import (
	"testing"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *workflow.Engine {
	return workflow.NewEngine(testCatalog())
}

func TestCompleteProcess_SequentialGating(t *testing.T) {
	e := newEngine()

	t.Run("completing a later step while an earlier one is open is rejected", func(t *testing.T) {
		d := newDrawing(
			newProcess(1, "Milling", false, false),
			newProcess(2, "Lathe", false, false),
		)
		j := newJob(d)

		err := e.CompleteProcess(j, d, 2, true, false)
		assert.ErrorIs(t, err, workflow.ErrSequenceGate)
		assert.False(t, d.Processes[1].Completed)
	})

	t.Run("completed but unchecked earlier step still gates", func(t *testing.T) {
		d := newDrawing(
			newProcess(1, "Milling", true, false),
			newProcess(2, "Lathe", false, false),
		)
		_ = newJob(d)

		assert.ErrorIs(t, e.CanCompleteProcess(d, 2), workflow.ErrSequenceGate)
		assert.NoError(t, e.CanCompleteProcess(d, 1))
	})

	t.Run("in-order completion advances the department", func(t *testing.T) {
		d := newDrawing(
			newProcess(1, "Milling", false, false),
			newProcess(2, "Lathe", false, false),
		)
		j := newJob(d)

		require.NoError(t, e.CompleteProcess(j, d, 1, true, false))
		require.NoError(t, e.CompleteQualityCheck(j, d, 1, true, ""))
		assert.Equal(t, "Lathe", d.CurrentDepartment)
	})

	t.Run("unknown sequence is not found", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", false, false))
		j := newJob(d)

		assert.ErrorIs(t, e.CompleteProcess(j, d, 9, true, false), workflow.ErrProcessNotFound)
	})
}

func TestCompleteProcess_ProgrammingGates(t *testing.T) {
	e := newEngine()

	buildDrawing := func() *domain.Drawing {
		cnc := newProcess(2, "CNC Milling", false, false)
		cnc.ProgrammingRequired = true
		return newDrawing(newProcess(1, "Milling", true, true), cnc)
	}

	t.Run("CNC step cannot complete while programming is unfinished", func(t *testing.T) {
		d := buildDrawing()
		j := newJob(d)
		j.ProgrammingRequired = true

		err := e.CompleteProcess(j, d, 2, true, false)
		assert.ErrorIs(t, err, workflow.ErrProgrammingIncomplete)
		assert.False(t, d.Processes[1].Completed)
	})

	t.Run("CNC step completes once programming is finished", func(t *testing.T) {
		d := buildDrawing()
		j := newJob(d)
		j.ProgrammingRequired = true
		j.ProgrammingFinished = true

		require.NoError(t, e.CompleteProcess(j, d, 2, true, false))
		require.NoError(t, e.CompleteQualityCheck(j, d, 2, true, ""))
		assert.Equal(t, domain.DepartmentFinalQC, d.CurrentDepartment)
	})

	t.Run("completing the step before a pending CNC step needs confirmation", func(t *testing.T) {
		mill := newProcess(1, "Milling", false, false)
		cnc := newProcess(2, "CNC Milling", false, false)
		cnc.ProgrammingRequired = true
		d := newDrawing(mill, cnc)
		j := newJob(d)
		j.ProgrammingRequired = true

		err := e.CompleteProcess(j, d, 1, true, false)
		assert.ErrorIs(t, err, workflow.ErrProgrammingPending)
		assert.False(t, d.Processes[0].Completed, "unconfirmed completion must not mutate")

		require.NoError(t, e.CompleteProcess(j, d, 1, true, true))
		assert.True(t, d.Processes[0].Completed)
	})

	t.Run("completing an already complete step is a no-op", func(t *testing.T) {
		d := buildDrawing()
		j := newJob(d)
		j.ProgrammingRequired = true

		before := *d.Processes[0].CompletedAt
		require.NoError(t, e.CompleteProcess(j, d, 1, true, false))
		assert.Equal(t, before, *d.Processes[0].CompletedAt)
	})
}

func TestCompleteProcess_Reopen(t *testing.T) {
	e := newEngine()
	d := newDrawing(newProcess(1, "Milling", true, true))
	j := newJob(d)

	require.NoError(t, e.CompleteProcess(j, d, 1, false, false))

	p := d.Processes[0]
	assert.False(t, p.Completed)
	assert.Nil(t, p.CompletedAt)
	assert.False(t, p.QualityCheckCompleted, "reopening must clear the quality check")
	assert.Equal(t, "Milling", d.CurrentDepartment)
}

func TestCompleteQualityCheck(t *testing.T) {
	e := newEngine()

	t.Run("rejected on an incomplete process", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", false, false))
		j := newJob(d)

		err := e.CompleteQualityCheck(j, d, 1, true, "looks fine")
		assert.ErrorIs(t, err, workflow.ErrProcessNotCompleted)
		assert.False(t, d.Processes[0].QualityCheckCompleted)
	})

	t.Run("idempotent", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", true, false), newProcess(2, "Lathe", false, false))
		j := newJob(d)

		require.NoError(t, e.CompleteQualityCheck(j, d, 1, true, "ok"))
		first := *d
		require.NoError(t, e.CompleteQualityCheck(j, d, 1, true, "ok"))
		assert.Equal(t, first.Processes[0], d.Processes[0])
		assert.Equal(t, first.CurrentDepartment, d.CurrentDepartment)
	})
}

func TestInitiateRework(t *testing.T) {
	e := newEngine()

	threeDone := func() *domain.Drawing {
		return newDrawing(
			newProcess(1, "Milling", true, true),
			newProcess(2, "Lathe", true, true),
			newProcess(3, "Welding", true, true),
		)
	}

	t.Run("in-department rework cascades downstream only", func(t *testing.T) {
		d := threeDone()
		j := newJob(d)

		require.NoError(t, e.InitiateRework(j, d, "Lathe", "burr", domain.ReworkInDepartment, ""))

		assert.True(t, d.Processes[0].Completed, "upstream process untouched")
		assert.True(t, d.Processes[0].QualityCheckCompleted)
		for _, i := range []int{1, 2} {
			assert.False(t, d.Processes[i].Completed)
			assert.False(t, d.Processes[i].QualityCheckCompleted)
			assert.Nil(t, d.Processes[i].CompletedAt)
		}
		assert.False(t, d.IsUnderRework, "in-department rework does not freeze")
		assert.Equal(t, "Lathe", d.CurrentDepartment)
		assert.Equal(t, 1, d.ReworkCount)
		require.Len(t, d.ReworkHistory, 1)
		assert.Equal(t, "Lathe", d.ReworkHistory[0].ProcessName)
		assert.Equal(t, 1, d.ReworkHistory[0].ReworkCount)
	})

	t.Run("cross-department rework freezes at target", func(t *testing.T) {
		d := threeDone()
		j := newJob(d)

		require.NoError(t, e.InitiateRework(j, d, "Milling", "crack", domain.ReworkCrossDepartment, "Welding"))

		assert.True(t, d.IsUnderRework)
		assert.Equal(t, "Welding", d.CurrentDepartment)
		assert.Equal(t, "Milling", d.ReworkOriginProcess)

		// Frozen until explicitly completed.
		assert.Equal(t, "Welding", workflow.ComputeDepartment(d, j, testCatalog()))

		e.CompleteRework(j, d)
		assert.False(t, d.IsUnderRework)
		assert.Equal(t, "Milling", d.CurrentDepartment, "released rework re-derives from first open process")
	})

	t.Run("rework clears final QC approval", func(t *testing.T) {
		d := threeDone()
		d.FinalQcApproved = true
		j := newJob(d)

		require.NoError(t, e.InitiateRework(j, d, "Welding", "porosity", domain.ReworkInDepartment, ""))
		assert.False(t, d.FinalQcApproved)
		assert.Nil(t, d.FinalQcApprovedAt)
	})

	t.Run("no eligible process", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", true, false))
		j := newJob(d)

		err := e.InitiateRework(j, d, "Milling", "burr", domain.ReworkInDepartment, "")
		assert.ErrorIs(t, err, workflow.ErrNoEligibleProcess)
	})

	t.Run("missing reason and missing target department", func(t *testing.T) {
		d := threeDone()
		j := newJob(d)

		assert.ErrorIs(t, e.InitiateRework(j, d, "Lathe", "", domain.ReworkInDepartment, ""), workflow.ErrValidation)
		assert.ErrorIs(t, e.InitiateRework(j, d, "Lathe", "burr", domain.ReworkCrossDepartment, ""), workflow.ErrValidation)
	})

	t.Run("unknown process name", func(t *testing.T) {
		d := threeDone()
		j := newJob(d)

		assert.ErrorIs(t, e.InitiateRework(j, d, "Polishing", "burr", domain.ReworkInDepartment, ""), workflow.ErrProcessNotFound)
	})
}

func TestHoldResume(t *testing.T) {
	e := newEngine()

	t.Run("hold snapshots and resume restores", func(t *testing.T) {
		d := newDrawing(newProcess(1, "Milling", false, false))
		d.CurrentDepartment = "Milling"
		j := newJob(d)

		require.NoError(t, e.HoldDrawing(d, "machine breakdown"))
		assert.Equal(t, domain.DepartmentHold, d.CurrentDepartment)
		assert.Equal(t, "Milling", d.PreviousDepartment)

		require.NoError(t, e.ResumeDrawing(j, d, "2025-06-01"))
		assert.Equal(t, "Milling", d.CurrentDepartment)
		assert.Empty(t, d.PreviousDepartment)
		assert.Empty(t, d.HoldReason)
		assert.Equal(t, "2025-06-01", j.FinishDate)
	})

	t.Run("resume without previous department falls back to Planning", func(t *testing.T) {
		d := newDrawing()
		d.CurrentDepartment = domain.DepartmentHold
		j := newJob(d)

		require.NoError(t, e.ResumeDrawing(j, d, "2025-06-01"))
		assert.Equal(t, domain.DepartmentPlanning, d.CurrentDepartment)
	})

	t.Run("guards", func(t *testing.T) {
		d := newDrawing()
		j := newJob(d)

		assert.ErrorIs(t, e.HoldDrawing(d, ""), workflow.ErrValidation)
		assert.ErrorIs(t, e.ResumeDrawing(j, d, "2025-06-01"), workflow.ErrNotOnHold)

		require.NoError(t, e.HoldDrawing(d, "waiting on customer"))
		assert.ErrorIs(t, e.HoldDrawing(d, "again"), workflow.ErrAlreadyOnHold)
		assert.ErrorIs(t, e.ResumeDrawing(j, d, ""), workflow.ErrValidation)
	})
}

func TestFinalQcAndReport(t *testing.T) {
	e := newEngine()

	d := newDrawing(newProcess(1, "Milling", true, true))
	j := newJob(d)
	e.Recompute(j, d)
	require.Equal(t, domain.DepartmentFinalQC, d.CurrentDepartment)

	e.FinalQcApprove(d, true, "within tolerance")
	assert.True(t, d.FinalQcApproved)
	assert.NotNil(t, d.FinalQcApprovedAt)
	assert.Equal(t, domain.DepartmentFinalQC, d.CurrentDepartment, "approval alone does not complete")

	e.FinalQcApprove(d, false, "")
	assert.Nil(t, d.FinalQcApprovedAt)
	assert.ErrorIs(t, e.SaveFinalReport(d, "reports/part-a.pdf"), workflow.ErrFinalQcNotApproved,
		"withheld approval blocks the report")

	e.FinalQcApprove(d, true, "")
	assert.ErrorIs(t, e.SaveFinalReport(d, ""), workflow.ErrValidation)
	require.NoError(t, e.SaveFinalReport(d, "reports/part-a.pdf"))
	assert.Equal(t, domain.DepartmentCompleted, d.CurrentDepartment)

	// Terminal: recomputation never demotes a reported drawing.
	e.Recompute(j, d)
	assert.Equal(t, domain.DepartmentCompleted, d.CurrentDepartment)
}

func TestCompleteDesign(t *testing.T) {
	e := newEngine()
	d := newDrawing()
	d.CurrentDepartment = domain.DepartmentDesign
	d.MaterialStatus = domain.MaterialPending
	j := newJob(d)

	e.CompleteDesign(j, d)
	assert.Equal(t, domain.DepartmentPlanning, d.CurrentDepartment)
	require.NotNil(t, d.DesignCompletedDate)

	stamped := *d.DesignCompletedDate
	e.CompleteDesign(j, d)
	require.NotNil(t, d.DesignCompletedDate)
	assert.Equal(t, stamped, *d.DesignCompletedDate, "stamp is set once")
}

func TestReplaceProcesses(t *testing.T) {
	e := newEngine()

	t.Run("renumbers contiguously and recomputes", func(t *testing.T) {
		d := newDrawing()
		j := newJob(d)

		e.ReplaceProcesses(j, d, []domain.Process{
			{Name: "Milling"},
			{Name: "Lathe"},
		})

		require.Len(t, d.Processes, 2)
		assert.Equal(t, 1, d.Processes[0].Sequence)
		assert.Equal(t, 2, d.Processes[1].Sequence)
		assert.Equal(t, "Milling", d.CurrentDepartment)
	})

	t.Run("sets job programming requirement monotonically", func(t *testing.T) {
		d := newDrawing()
		j := newJob(d)

		e.ReplaceProcesses(j, d, []domain.Process{{Name: "CNC Lathe", ProgrammingRequired: true}})
		assert.True(t, j.ProgrammingRequired)

		e.ReplaceProcesses(j, d, []domain.Process{{Name: "Milling"}})
		assert.True(t, j.ProgrammingRequired, "once required, stays required")
	})

	t.Run("editing clears the replan flag and a rejected request", func(t *testing.T) {
		d := newDrawing()
		d.ReplanRequired = true
		j := newJob(d)
		dd := &j.Drawings[0]
		id := dd.ID
		j.SalesRequest = &domain.SalesUpdateRequest{
			Source:    domain.SalesSourcePlanning,
			Status:    domain.SalesRequestRejected,
			DrawingID: &id,
		}

		e.ReplaceProcesses(j, dd, []domain.Process{{Name: "Milling"}})
		assert.False(t, dd.ReplanRequired)
		assert.Nil(t, j.SalesRequest)
		assert.Equal(t, "Milling", dd.CurrentDepartment)
	})
}
