package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

func TestStaffService_CreateAndAssign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	designer, err := f.staff.Create(ctx, &domain.CreateStaffRequest{
		Name: "Anna Berg",
		Role: domain.StaffRoleDesigner,
	})
	require.NoError(t, err)

	_, err = f.staff.Create(ctx, &domain.CreateStaffRequest{
		Name: "Anna Berg",
		Role: domain.StaffRoleProgrammer,
	})
	assert.ErrorIs(t, err, service.ErrStaffNameTaken)

	job, err := f.jobs.Create(ctx, &domain.CreateJobRequest{
		JobNumber:      "J-11001",
		JobType:        domain.JobTypeService,
		DesignRequired: true,
	})
	require.NoError(t, err)

	job, err = f.jobs.AssignDesigner(ctx, job.ID, designer.Name)
	require.NoError(t, err)
	assert.Equal(t, "Anna Berg", job.DesignerName)

	// Role mismatch is rejected
	_, err = f.jobs.AssignProgrammer(ctx, job.ID, designer.Name)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestStaffService_RenameFansOutToJobs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	designer, err := f.staff.Create(ctx, &domain.CreateStaffRequest{
		Name: "Ola Vik",
		Role: domain.StaffRoleDesigner,
	})
	require.NoError(t, err)

	job, err := f.jobs.Create(ctx, &domain.CreateJobRequest{
		JobNumber:      "J-11002",
		JobType:        domain.JobTypeService,
		DesignRequired: true,
	})
	require.NoError(t, err)
	_, err = f.jobs.AssignDesigner(ctx, job.ID, designer.Name)
	require.NoError(t, err)

	renamed, err := f.staff.Rename(ctx, designer.ID, &domain.RenameStaffRequest{NewName: "Ola Viken"})
	require.NoError(t, err)
	assert.Equal(t, "Ola Viken", renamed.Name)

	// The job's denormalized assignment follows the rename
	job, err = f.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ola Viken", job.DesignerName)
}

func TestStaffService_DeleteAssignedDeactivates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	programmer, err := f.staff.Create(ctx, &domain.CreateStaffRequest{
		Name: "Kari Holm",
		Role: domain.StaffRoleProgrammer,
	})
	require.NoError(t, err)

	job := f.createServiceJob(t, "J-11003")
	_, err = f.jobs.AssignProgrammer(ctx, job.ID, programmer.Name)
	require.NoError(t, err)

	err = f.staff.Delete(ctx, programmer.ID)
	assert.ErrorIs(t, err, service.ErrStaffAssigned)

	// Still listed, but inactive
	all, err := f.staff.List(ctx, domain.StaffRoleProgrammer, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)

	active, err := f.staff.List(ctx, domain.StaffRoleProgrammer, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	// Unassigned members are removed outright
	spare, err := f.staff.Create(ctx, &domain.CreateStaffRequest{
		Name: "Per Aas",
		Role: domain.StaffRoleDesigner,
	})
	require.NoError(t, err)
	require.NoError(t, f.staff.Delete(ctx, spare.ID))
	designers, err := f.staff.List(ctx, domain.StaffRoleDesigner, false)
	require.NoError(t, err)
	assert.Empty(t, designers)
}
