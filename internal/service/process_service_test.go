package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
	"github.com/rexmarketing03-cell/planner-api/internal/storage"
	"github.com/rexmarketing03-cell/planner-api/internal/workflow"
)

func TestProcessService_FullDrawingFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := f.createServiceJob(t, "J-8001")
	job = f.addDrawing(t, job, "Gearbox Housing")
	drawingID := job.Drawings[0].ID

	job = f.planProcesses(t, job, "Milling", "Lathe")
	require.Len(t, job.Drawings[0].Processes, 2)
	assert.Equal(t, 1, job.Drawings[0].Processes[0].Sequence)
	assert.Equal(t, 2, job.Drawings[0].Processes[1].Sequence)
	// Material is still pending, so planning keeps the drawing
	assert.Equal(t, domain.DepartmentPlanning, job.Drawings[0].CurrentDepartment)

	job, err := f.materials.SetMaterialReady(ctx, job.ID, drawingID)
	require.NoError(t, err)
	assert.Equal(t, "Milling", job.Drawings[0].CurrentDepartment)

	// A later step cannot jump the queue
	_, err = f.processes.CompleteProcess(ctx, job.ID, drawingID,
		&domain.CompleteProcessRequest{Sequence: 2, Completed: true})
	assert.ErrorIs(t, err, workflow.ErrSequenceGate)

	job, err = f.processes.CompleteProcess(ctx, job.ID, drawingID,
		&domain.CompleteProcessRequest{Sequence: 1, Completed: true})
	require.NoError(t, err)
	// Completed but unchecked: the step still owns the drawing
	assert.Equal(t, "Milling", job.Drawings[0].CurrentDepartment)

	// QC before completion is rejected
	_, err = f.processes.QualityCheck(ctx, job.ID, drawingID,
		&domain.QualityCheckRequest{Sequence: 2, Checked: true})
	assert.ErrorIs(t, err, workflow.ErrProcessNotCompleted)

	job, err = f.processes.QualityCheck(ctx, job.ID, drawingID,
		&domain.QualityCheckRequest{Sequence: 1, Checked: true, Comment: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "Lathe", job.Drawings[0].CurrentDepartment)

	job, err = f.processes.CompleteProcess(ctx, job.ID, drawingID,
		&domain.CompleteProcessRequest{Sequence: 2, Completed: true})
	require.NoError(t, err)
	job, err = f.processes.QualityCheck(ctx, job.ID, drawingID,
		&domain.QualityCheckRequest{Sequence: 2, Checked: true})
	require.NoError(t, err)
	assert.Equal(t, domain.DepartmentFinalQC, job.Drawings[0].CurrentDepartment)

	job, err = f.processes.FinalQualityCheck(ctx, job.ID, drawingID,
		&domain.FinalQcRequest{Approved: true, Comment: "within tolerance"})
	require.NoError(t, err)
	assert.True(t, job.Drawings[0].FinalQcApproved)
	// Approval alone does not complete; the report does
	assert.Equal(t, domain.DepartmentFinalQC, job.Drawings[0].CurrentDepartment)
	assert.Empty(t, job.CompletedAt)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	reports := service.NewReportService(
		repository.NewJobRepository(f.db),
		repository.NewProcessDepartmentRepository(f.db),
		repository.NewJobActivityRepository(f.db),
		store,
		zap.NewNop(),
	)

	job, err = reports.SaveFinalReport(ctx, job.ID, drawingID,
		"final.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, domain.DepartmentCompleted, job.Drawings[0].CurrentDepartment)
	assert.NotEmpty(t, job.Drawings[0].FinalReportPath)
	assert.NotEmpty(t, job.CompletedAt, "last drawing completing completes the job")

	reader, path, err := reports.OpenFinalReport(ctx, job.ID, drawingID)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, job.Drawings[0].FinalReportPath, path)

	job, err = f.jobs.Deliver(ctx, job.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, job.DeliveredAt)
}

func TestProcessService_ReworkFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := f.createServiceJob(t, "J-8002")
	job = f.addDrawing(t, job, "Spindle")
	drawingID := job.Drawings[0].ID
	f.planProcesses(t, job, "Milling", "Welding")

	job, err := f.materials.SetMaterialReady(ctx, job.ID, drawingID)
	require.NoError(t, err)

	for seq := 1; seq <= 2; seq++ {
		_, err = f.processes.CompleteProcess(ctx, job.ID, drawingID,
			&domain.CompleteProcessRequest{Sequence: seq, Completed: true})
		require.NoError(t, err)
		job, err = f.processes.QualityCheck(ctx, job.ID, drawingID,
			&domain.QualityCheckRequest{Sequence: seq, Checked: true})
		require.NoError(t, err)
	}
	require.Equal(t, domain.DepartmentFinalQC, job.Drawings[0].CurrentDepartment)

	// Cross-department rework freezes the drawing at the target
	job, err = f.processes.InitiateRework(ctx, job.ID, drawingID, &domain.ReworkRequest{
		ProcessName:      "Milling",
		Reason:           "out of tolerance",
		ReworkType:       domain.ReworkCrossDepartment,
		TargetDepartment: "Welding",
	})
	require.NoError(t, err)
	d := job.Drawings[0]
	assert.Equal(t, "Welding", d.CurrentDepartment)
	assert.True(t, d.IsUnderRework)
	assert.Equal(t, 1, d.ReworkCount)
	require.Len(t, d.ReworkHistory, 1)
	// Rework reopened the origin step and everything after it
	assert.False(t, d.Processes[0].Completed)
	assert.False(t, d.Processes[1].Completed)

	job, err = f.processes.CompleteRework(ctx, job.ID, drawingID)
	require.NoError(t, err)
	d = job.Drawings[0]
	assert.False(t, d.IsUnderRework)
	assert.Equal(t, "Milling", d.CurrentDepartment, "released rework resumes at the first open step")
}

func TestProcessService_HoldResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := f.createServiceJob(t, "J-8003")
	job = f.addDrawing(t, job, "Baseplate")
	drawingID := job.Drawings[0].ID
	f.planProcesses(t, job, "Milling")

	job, err := f.materials.SetMaterialReady(ctx, job.ID, drawingID)
	require.NoError(t, err)
	require.Equal(t, "Milling", job.Drawings[0].CurrentDepartment)

	job, err = f.processes.HoldDrawing(ctx, job.ID, drawingID,
		&domain.HoldDrawingRequest{Reason: "machine breakdown"})
	require.NoError(t, err)
	assert.Equal(t, domain.DepartmentHold, job.Drawings[0].CurrentDepartment)
	assert.Equal(t, "Milling", job.Drawings[0].PreviousDepartment)

	_, err = f.processes.HoldDrawing(ctx, job.ID, drawingID,
		&domain.HoldDrawingRequest{Reason: "again"})
	assert.ErrorIs(t, err, workflow.ErrAlreadyOnHold)

	job, err = f.processes.ResumeDrawing(ctx, job.ID, drawingID,
		&domain.ResumeDrawingRequest{NewFinishDate: "2027-01-15"})
	require.NoError(t, err)
	assert.Equal(t, "Milling", job.Drawings[0].CurrentDepartment)
	assert.Empty(t, job.Drawings[0].HoldReason)
	assert.Equal(t, "2027-01-15", job.FinishDate, "resuming confirms a fresh finish date")

	_, err = f.processes.ResumeDrawing(ctx, job.ID, drawingID,
		&domain.ResumeDrawingRequest{NewFinishDate: "2027-01-16"})
	assert.ErrorIs(t, err, workflow.ErrNotOnHold)
}

func TestProcessService_ProgrammingGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := f.createServiceJob(t, "J-8004")
	job = f.addDrawing(t, job, "Cam Plate")
	drawingID := job.Drawings[0].ID

	job, err := f.processes.ReplaceProcesses(ctx, job.ID, drawingID, &domain.UpdateProcessesRequest{
		Processes: []domain.ProcessInput{
			{Name: "Milling", PlannedDate: "2026-11-01"},
			{Name: "CNC Milling", PlannedDate: "2026-11-05", ProgrammingRequired: true},
		},
	})
	require.NoError(t, err)
	assert.True(t, job.ProgrammingRequired, "a CNC step marks the job as needing programming")

	job, err = f.materials.SetMaterialReady(ctx, job.ID, drawingID)
	require.NoError(t, err)

	// Completing the step before a CNC step needs explicit confirmation while
	// the program is not ready
	_, err = f.processes.CompleteProcess(ctx, job.ID, drawingID,
		&domain.CompleteProcessRequest{Sequence: 1, Completed: true})
	assert.ErrorIs(t, err, workflow.ErrProgrammingPending)

	job, err = f.processes.CompleteProcess(ctx, job.ID, drawingID,
		&domain.CompleteProcessRequest{Sequence: 1, Completed: true, ConfirmProgrammingPending: true})
	require.NoError(t, err)
	job, err = f.processes.QualityCheck(ctx, job.ID, drawingID,
		&domain.QualityCheckRequest{Sequence: 1, Checked: true})
	require.NoError(t, err)

	// The CNC step itself is hard-blocked until programming finishes
	_, err = f.processes.CompleteProcess(ctx, job.ID, drawingID,
		&domain.CompleteProcessRequest{Sequence: 2, Completed: true})
	assert.ErrorIs(t, err, workflow.ErrProgrammingIncomplete)

	job, err = f.jobs.FinishProgramming(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, job.ProgrammingFinished)

	_, err = f.processes.CompleteProcess(ctx, job.ID, drawingID,
		&domain.CompleteProcessRequest{Sequence: 2, Completed: true})
	require.NoError(t, err)
}
