package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Summary godoc
// @Summary Workflow board summary
// @Description Per-department drawing counts plus urgent, overdue, rework, hold and material badges
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardDTO
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardService.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to build dashboard summary", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
