package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rexmarketing03-cell/planner-api/internal/database"
	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

// fixture wires the full service stack against an in-memory database
type fixture struct {
	db        *gorm.DB
	jobs      *service.JobService
	processes *service.ProcessService
	materials *service.MaterialService
	sales     *service.SalesService
	staff     *service.StaffService
	settings  *service.SettingsService
	dashboard *service.DashboardService
	notify    *service.NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	log := zap.NewNop()

	jobRepo := repository.NewJobRepository(db)
	drawingRepo := repository.NewDrawingRepository(db)
	catalogRepo := repository.NewProcessDepartmentRepository(db)
	machineRepo := repository.NewMachineRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewJobActivityRepository(db)

	notifier := service.NewNotificationService(notificationRepo, log)

	f := &fixture{
		db:        db,
		jobs:      service.NewJobService(jobRepo, drawingRepo, catalogRepo, staffRepo, activityRepo, notifier, log),
		processes: service.NewProcessService(jobRepo, drawingRepo, catalogRepo, activityRepo, notifier, log),
		materials: service.NewMaterialService(jobRepo, catalogRepo, activityRepo, notifier, log),
		sales:     service.NewSalesService(jobRepo, catalogRepo, activityRepo, notifier, log),
		staff:     service.NewStaffService(staffRepo, log),
		settings:  service.NewSettingsService(catalogRepo, machineRepo, log),
		dashboard: service.NewDashboardService(jobRepo, drawingRepo, log),
		notify:    notifier,
	}

	// Seed the process-department catalog
	for name, dept := range map[string]string{
		"Milling":     "Milling",
		"CNC Milling": "CNC Milling",
		"Lathe":       "Lathe",
		"Welding":     "Welding",
	} {
		_, err := catalogRepo.Upsert(context.Background(), name, dept)
		require.NoError(t, err)
	}

	return f
}

func (f *fixture) createServiceJob(t *testing.T, jobNumber string) *domain.JobDTO {
	t.Helper()
	job, err := f.jobs.Create(context.Background(), &domain.CreateJobRequest{
		JobNumber:  jobNumber,
		JobType:    domain.JobTypeService,
		FinishDate: "2026-12-31",
	})
	require.NoError(t, err)
	return job
}

func (f *fixture) addDrawing(t *testing.T, job *domain.JobDTO, name string) *domain.JobDTO {
	t.Helper()
	updated, err := f.jobs.AddDrawing(context.Background(), job.ID, &domain.CreateDrawingRequest{
		Name:     name,
		Quantity: 1,
	})
	require.NoError(t, err)
	return updated
}

func (f *fixture) planProcesses(t *testing.T, job *domain.JobDTO, names ...string) *domain.JobDTO {
	t.Helper()
	inputs := make([]domain.ProcessInput, 0, len(names))
	for _, n := range names {
		inputs = append(inputs, domain.ProcessInput{Name: n, PlannedDate: "2026-11-01"})
	}
	updated, err := f.processes.ReplaceProcesses(context.Background(), job.ID, job.Drawings[0].ID,
		&domain.UpdateProcessesRequest{Processes: inputs})
	require.NoError(t, err)
	return updated
}
