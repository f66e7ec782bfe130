package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rexmarketing03-cell/planner-api/internal/auth"
	"github.com/rexmarketing03-cell/planner-api/internal/config"
	"github.com/rexmarketing03-cell/planner-api/internal/database"
	"github.com/rexmarketing03-cell/planner-api/internal/erp"
	"github.com/rexmarketing03-cell/planner-api/internal/http/handler"
	"github.com/rexmarketing03-cell/planner-api/internal/http/middleware"

	_ "github.com/rexmarketing03-cell/planner-api/docs" // generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	erpClient           *erp.Client
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	jobHandler          *handler.JobHandler
	drawingHandler      *handler.DrawingHandler
	salesHandler        *handler.SalesHandler
	settingsHandler     *handler.SettingsHandler
	staffHandler        *handler.StaffHandler
	dashboardHandler    *handler.DashboardHandler
	notificationHandler *handler.NotificationHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	erpClient *erp.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	jobHandler *handler.JobHandler,
	drawingHandler *handler.DrawingHandler,
	salesHandler *handler.SalesHandler,
	settingsHandler *handler.SettingsHandler,
	staffHandler *handler.StaffHandler,
	dashboardHandler *handler.DashboardHandler,
	notificationHandler *handler.NotificationHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		erpClient:           erpClient,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		jobHandler:          jobHandler,
		drawingHandler:      drawingHandler,
		salesHandler:        salesHandler,
		settingsHandler:     settingsHandler,
		staffHandler:        staffHandler,
		dashboardHandler:    dashboardHandler,
		notificationHandler: notificationHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database readiness with pool stats
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check. The ERP feed is optional; it reports but
	// never fails readiness.
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{"status": "healthy"}
		}

		if rt.erpClient != nil {
			checks["erp"] = rt.erpClient.HealthCheck(r.Context())
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		if !allHealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			status = "unhealthy"
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Jobs
			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", rt.jobHandler.List)
				r.Post("/", rt.jobHandler.Create)
				r.Get("/{id}", rt.jobHandler.GetByID)
				r.Put("/{id}", rt.jobHandler.Update)
				r.Delete("/{id}", rt.jobHandler.Delete)

				r.Post("/{id}/deliver", rt.jobHandler.Deliver)
				r.Get("/{id}/activities", rt.jobHandler.ListActivities)

				// Design and programming sub-flows
				r.Post("/{id}/designer", rt.jobHandler.AssignDesigner)
				r.Post("/{id}/programmer", rt.jobHandler.AssignProgrammer)
				r.Post("/{id}/design/finish", rt.jobHandler.FinishDesign)
				r.Post("/{id}/programming/finish", rt.jobHandler.FinishProgramming)
				r.Post("/{id}/phase/hold", rt.jobHandler.HoldPhase)
				r.Post("/{id}/phase/resume", rt.jobHandler.ResumePhase)

				// Product lines
				r.Post("/{id}/products", rt.jobHandler.AddProductItem)
				r.Post("/{id}/products/{productId}/complete", rt.jobHandler.CompleteProductItem)

				// Sales approval
				r.Post("/{id}/sales-request", rt.salesHandler.Raise)
				r.Post("/{id}/sales-request/approve", rt.salesHandler.Approve)
				r.Post("/{id}/sales-request/reject", rt.salesHandler.Reject)

				// Drawings and their workflow
				r.Post("/{id}/drawings", rt.jobHandler.AddDrawing)
				r.Route("/{id}/drawings/{drawingId}", func(r chi.Router) {
					r.Put("/processes", rt.drawingHandler.ReplaceProcesses)
					r.Post("/processes/complete", rt.drawingHandler.CompleteProcess)
					r.Post("/quality-check", rt.drawingHandler.QualityCheck)
					r.Post("/rework", rt.drawingHandler.InitiateRework)
					r.Post("/rework/complete", rt.drawingHandler.CompleteRework)
					r.Post("/hold", rt.drawingHandler.Hold)
					r.Post("/resume", rt.drawingHandler.Resume)
					r.Post("/design/complete", rt.drawingHandler.CompleteDesign)
					r.Post("/final-qc", rt.drawingHandler.FinalQualityCheck)
					r.Post("/material/ready", rt.drawingHandler.MaterialReady)
					r.Post("/material/awaiting", rt.drawingHandler.AwaitingStock)
					r.Post("/material/delay", rt.drawingHandler.ReportDelay)
					r.Post("/report", rt.drawingHandler.UploadFinalReport)
					r.Get("/report", rt.drawingHandler.DownloadFinalReport)
				})
			})

			// Pending sales requests across jobs
			r.Get("/sales-requests", rt.salesHandler.ListPending)

			// Dashboard
			r.Get("/dashboard", rt.dashboardHandler.Summary)

			// Staff registry
			r.Route("/staff", func(r chi.Router) {
				r.Get("/", rt.staffHandler.List)
				r.Post("/", rt.staffHandler.Create)
				r.Post("/{id}/rename", rt.staffHandler.Rename)
				r.Delete("/{id}", rt.staffHandler.Delete)
			})

			// Settings
			r.Route("/settings", func(r chi.Router) {
				r.Get("/process-departments", rt.settingsHandler.ListProcessDepartments)
				r.Put("/process-departments", rt.settingsHandler.UpsertProcessDepartment)
				r.Delete("/process-departments/{id}", rt.settingsHandler.DeleteProcessDepartment)
				r.Get("/machines", rt.settingsHandler.ListMachines)
				r.Post("/machines", rt.settingsHandler.CreateMachine)
				r.Put("/machines/{id}/active", rt.settingsHandler.SetMachineActive)
				r.Delete("/machines/{id}", rt.settingsHandler.DeleteMachine)
			})

			// Department inboxes
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/{inbox}", rt.notificationHandler.List)
				r.Get("/{inbox}/unread-count", rt.notificationHandler.CountUnread)
				r.Post("/{inbox}/read-all", rt.notificationHandler.MarkAllAsRead)
				r.Post("/{inbox}/{id}/read", rt.notificationHandler.MarkAsRead)
			})
		})
	})

	return r
}
