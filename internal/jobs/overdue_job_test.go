package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rexmarketing03-cell/planner-api/internal/database"
	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/jobs"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestOverdueJob_NotifiesSalesAndPlanning(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := zap.NewNop()

	jobRepo := repository.NewJobRepository(db)
	drawingRepo := repository.NewDrawingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	notifier := service.NewNotificationService(notificationRepo, log)

	overdue := &domain.Job{
		JobNumber:  "J-100",
		JobType:    domain.JobTypeService,
		Priority:   domain.JobPriorityNormal,
		FinishDate: "2020-01-01",
	}
	require.NoError(t, jobRepo.Create(ctx, overdue))

	onTime := &domain.Job{
		JobNumber:  "J-101",
		JobType:    domain.JobTypeService,
		Priority:   domain.JobPriorityNormal,
		FinishDate: "2099-12-31",
	}
	require.NoError(t, jobRepo.Create(ctx, onTime))

	noDate := &domain.Job{
		JobNumber: "J-102",
		JobType:   domain.JobTypeService,
		Priority:  domain.JobPriorityNormal,
	}
	require.NoError(t, jobRepo.Create(ctx, noDate))

	scan := jobs.NewOverdueJob(jobRepo, drawingRepo, notifier, log)
	scan.Run(ctx)

	salesUnread, err := notifier.CountUnread(ctx, service.InboxSales)
	require.NoError(t, err)
	require.Equal(t, 1, salesUnread)

	planningUnread, err := notifier.CountUnread(ctx, service.InboxPlanning)
	require.NoError(t, err)
	require.Equal(t, 1, planningUnread)
}

func TestOverdueJob_FlagsOverdueMaterial(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := zap.NewNop()

	jobRepo := repository.NewJobRepository(db)
	drawingRepo := repository.NewDrawingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	notifier := service.NewNotificationService(notificationRepo, log)

	job := &domain.Job{
		JobNumber:  "J-300",
		JobType:    domain.JobTypeService,
		Priority:   domain.JobPriorityNormal,
		FinishDate: "2099-12-31",
		Drawings: []domain.Drawing{
			{
				Name:                 "bracket",
				Quantity:             1,
				MaterialStatus:       domain.MaterialAwaitingStock,
				ExpectedMaterialDate: "2020-01-01",
				CurrentDepartment:    domain.DepartmentPlanning,
			},
			{
				Name:                 "shaft",
				Quantity:             1,
				MaterialStatus:       domain.MaterialAwaitingStock,
				ExpectedMaterialDate: "2099-12-31",
				CurrentDepartment:    domain.DepartmentPlanning,
			},
		},
	}
	require.NoError(t, jobRepo.Create(ctx, job))

	scan := jobs.NewOverdueJob(jobRepo, drawingRepo, notifier, log)
	scan.Run(ctx)

	storesUnread, err := notifier.CountUnread(ctx, service.InboxStores)
	require.NoError(t, err)
	require.Equal(t, 1, storesUnread)

	planningUnread, err := notifier.CountUnread(ctx, service.InboxPlanning)
	require.NoError(t, err)
	require.Equal(t, 1, planningUnread)
}

func TestOverdueJob_SkipsCompletedJobs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	log := zap.NewNop()

	jobRepo := repository.NewJobRepository(db)
	drawingRepo := repository.NewDrawingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	notifier := service.NewNotificationService(notificationRepo, log)

	done := &domain.Job{
		JobNumber:  "J-200",
		JobType:    domain.JobTypeService,
		Priority:   domain.JobPriorityNormal,
		FinishDate: "2020-01-01",
	}
	require.NoError(t, jobRepo.Create(ctx, done))
	now := time.Now()
	done.CompletedAt = &now
	require.NoError(t, jobRepo.Save(ctx, done))

	scan := jobs.NewOverdueJob(jobRepo, drawingRepo, notifier, log)
	scan.Run(ctx)

	salesUnread, err := notifier.CountUnread(ctx, service.InboxSales)
	require.NoError(t, err)
	require.Zero(t, salesUnread)
}

func TestScheduler_AddAndRemoveJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("overdue-scan", "0 6 * * *", func() {}))
	require.Error(t, s.AddJob("overdue-scan", "0 6 * * *", func() {}))
	require.Error(t, s.AddJob("bad-expr", "not a cron expression", func() {}))

	require.NoError(t, s.AddJob("erp-stock-sync", "*/30 * * * *", func() {}))
	require.ElementsMatch(t, []string{"overdue-scan", "erp-stock-sync"}, s.GetJobNames())

	require.NoError(t, s.RemoveJob("overdue-scan"))
	require.Error(t, s.RemoveJob("overdue-scan"))

	s.Start()
	ctx := s.Stop()
	<-ctx.Done()
}
