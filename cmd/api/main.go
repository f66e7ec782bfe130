package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/docs"
	"github.com/rexmarketing03-cell/planner-api/internal/auth"
	"github.com/rexmarketing03-cell/planner-api/internal/config"
	"github.com/rexmarketing03-cell/planner-api/internal/database"
	"github.com/rexmarketing03-cell/planner-api/internal/erp"
	"github.com/rexmarketing03-cell/planner-api/internal/http/handler"
	"github.com/rexmarketing03-cell/planner-api/internal/http/middleware"
	"github.com/rexmarketing03-cell/planner-api/internal/http/router"
	"github.com/rexmarketing03-cell/planner-api/internal/jobs"
	"github.com/rexmarketing03-cell/planner-api/internal/logger"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
	"github.com/rexmarketing03-cell/planner-api/internal/storage"
)

// @title Planner API
// @version 1.0
// @description Manufacturing job workflow API for drawing planning, machining, quality control and delivery tracking

// @contact.name API Support
// @contact.email support@rexmarketing.lk

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if basicCfg.App.Environment == "development" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets.
	// In development: uses environment variables.
	// In staging/production: fetches from Azure Key Vault.
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Development convenience only; staging/production run goose migrations.
	if cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run auto-migration: %w", err)
		}
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// ERP stock feed connection (optional, read-only). The app continues
	// without it; drawings then stay gated until stores releases them by hand.
	var erpClient *erp.Client
	if cfg.Erp.Enabled {
		erpClient, err = erp.NewClient(&cfg.Erp, log)
		if err != nil {
			log.Warn("ERP connection failed, continuing without it", zap.Error(err))
			erpClient = nil
		}
	} else {
		log.Info("ERP feed not configured, skipping")
	}

	// Repositories
	jobRepo := repository.NewJobRepository(db)
	drawingRepo := repository.NewDrawingRepository(db)
	catalogRepo := repository.NewProcessDepartmentRepository(db)
	machineRepo := repository.NewMachineRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	activityRepo := repository.NewJobActivityRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	notificationService := service.NewNotificationService(notificationRepo, log)
	jobService := service.NewJobService(jobRepo, drawingRepo, catalogRepo, staffRepo, activityRepo, notificationService, log)
	processService := service.NewProcessService(jobRepo, drawingRepo, catalogRepo, activityRepo, notificationService, log)
	materialService := service.NewMaterialService(jobRepo, catalogRepo, activityRepo, notificationService, log)
	salesService := service.NewSalesService(jobRepo, catalogRepo, activityRepo, notificationService, log)
	reportService := service.NewReportService(jobRepo, catalogRepo, activityRepo, fileStorage, log)
	settingsService := service.NewSettingsService(catalogRepo, machineRepo, log)
	staffService := service.NewStaffService(staffRepo, log)
	dashboardService := service.NewDashboardService(jobRepo, drawingRepo, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	jobHandler := handler.NewJobHandler(jobService, log)
	drawingHandler := handler.NewDrawingHandler(processService, materialService, reportService, log)
	salesHandler := handler.NewSalesHandler(salesService, log)
	settingsHandler := handler.NewSettingsHandler(settingsService, log)
	staffHandler := handler.NewStaffHandler(staffService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		erpClient,
		authMiddleware,
		rateLimiter,
		jobHandler,
		drawingHandler,
		salesHandler,
		settingsHandler,
		staffHandler,
		dashboardHandler,
		notificationHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		overdueJob := jobs.NewOverdueJob(jobRepo, drawingRepo, notificationService, log)
		if err := scheduler.AddJob("overdue-scan", cfg.Jobs.OverdueScanSchedule, func() {
			overdueJob.Run(context.Background())
		}); err != nil {
			log.Error("Failed to register overdue scan", zap.Error(err))
		}

		if erpClient != nil {
			erpSyncJob := jobs.NewErpSyncJob(erpClient, drawingRepo, materialService, notificationService, log)
			if err := scheduler.AddJob("erp-stock-sync", cfg.Jobs.ErpSyncSchedule, func() {
				erpSyncJob.Run(context.Background())
			}); err != nil {
				log.Error("Failed to register ERP stock sync", zap.Error(err))
			}
		}

		scheduler.Start()
		log.Info("Scheduler started",
			zap.Strings("jobs", scheduler.GetJobNames()),
		)
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if erpClient != nil {
			if err := erpClient.Close(); err != nil {
				log.Warn("Error closing ERP connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
