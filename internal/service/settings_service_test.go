package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
)

func TestSettingsService_ProcessDepartments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// The fixture seeds four mappings
	mappings, err := f.settings.ListProcessDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, mappings, 4)

	// Upsert matches the process name case-insensitively
	updated, err := f.settings.UpsertProcessDepartment(ctx, &domain.UpsertProcessDepartmentRequest{
		ProcessName: "milling",
		Department:  "Heavy Machining",
	})
	require.NoError(t, err)
	assert.Equal(t, "Heavy Machining", updated.Department)

	mappings, err = f.settings.ListProcessDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, mappings, 4, "upsert on an existing name does not add a row")

	created, err := f.settings.UpsertProcessDepartment(ctx, &domain.UpsertProcessDepartmentRequest{
		ProcessName: "Grinding",
		Department:  "Finishing",
	})
	require.NoError(t, err)

	mappings, err = f.settings.ListProcessDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, mappings, 5)

	require.NoError(t, f.settings.DeleteProcessDepartment(ctx, created.ID))
}

func TestSettingsService_CatalogChangeTakesEffectImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job := f.createServiceJob(t, "J-13001")
	job = f.addDrawing(t, job, "Yoke")
	drawingID := job.Drawings[0].ID
	f.planProcesses(t, job, "Milling")

	job, err := f.materials.SetMaterialReady(ctx, job.ID, drawingID)
	require.NoError(t, err)
	require.Equal(t, "Milling", job.Drawings[0].CurrentDepartment)

	// Remap the process; the next recompute picks it up without restarts
	_, err = f.settings.UpsertProcessDepartment(ctx, &domain.UpsertProcessDepartmentRequest{
		ProcessName: "Milling",
		Department:  "Heavy Machining",
	})
	require.NoError(t, err)

	job, err = f.processes.CompleteProcess(ctx, job.ID, drawingID,
		&domain.CompleteProcessRequest{Sequence: 1, Completed: false})
	require.NoError(t, err)
	assert.Equal(t, "Heavy Machining", job.Drawings[0].CurrentDepartment)
}

func TestSettingsService_Machines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	machine, err := f.settings.CreateMachine(ctx, &domain.CreateMachineRequest{
		Name:        "DMG MORI NLX 2500",
		ProcessType: "Lathe",
	})
	require.NoError(t, err)
	assert.True(t, machine.IsActive)

	machine, err = f.settings.SetMachineActive(ctx, machine.ID, false)
	require.NoError(t, err)
	assert.False(t, machine.IsActive)

	active, err := f.settings.ListMachines(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.settings.ListMachines(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, f.settings.DeleteMachine(ctx, machine.ID))
}
