package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

type SalesHandler struct {
	salesService *service.SalesService
	logger       *zap.Logger
}

func NewSalesHandler(salesService *service.SalesService, logger *zap.Logger) *SalesHandler {
	return &SalesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// Raise godoc
// @Summary Raise date-change request
// @Description Open a sales update request from Planning or Stores. Only one may be live per job.
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.RaiseSalesRequest true "Request details"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/sales-request [post]
func (h *SalesHandler) Raise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req domain.RaiseSalesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.salesService.Raise(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Approve godoc
// @Summary Approve date-change request
// @Description Accept the pending request and move the job's finish date
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.ApproveSalesRequest true "Granted finish date"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/sales-request/approve [post]
func (h *SalesHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req domain.ApproveSalesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.salesService.Approve(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Reject godoc
// @Summary Reject date-change request
// @Description Decline the pending request. A rejected planning request pins its drawing until re-edited.
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.RejectSalesRequest true "Rejection reason"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/sales-request/reject [post]
func (h *SalesHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req domain.RejectSalesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.salesService.Reject(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// ListPending godoc
// @Summary List jobs with pending requests
// @Tags Sales
// @Produce json
// @Success 200 {array} domain.JobDTO
// @Security BearerAuth
// @Router /sales-requests [get]
func (h *SalesHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.salesService.ListPending(r.Context())
	if err != nil {
		h.logger.Error("failed to list pending sales requests", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, jobs)
}
