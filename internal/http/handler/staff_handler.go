package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

type StaffHandler struct {
	staffService *service.StaffService
	logger       *zap.Logger
}

func NewStaffHandler(staffService *service.StaffService, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
		logger:       logger,
	}
}

// Create godoc
// @Summary Register staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param request body domain.CreateStaffRequest true "Staff data"
// @Success 201 {object} domain.StaffDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /staff [post]
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStaffRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	staff, err := h.staffService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, staff)
}

// List godoc
// @Summary List staff
// @Tags Staff
// @Produce json
// @Param role query string false "Filter by role" Enums(designer, programmer)
// @Param activeOnly query bool false "Only active members"
// @Success 200 {array} domain.StaffDTO
// @Security BearerAuth
// @Router /staff [get]
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	role := domain.StaffRole(r.URL.Query().Get("role"))
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	staff, err := h.staffService.List(r.Context(), role, activeOnly)
	if err != nil {
		h.logger.Error("failed to list staff", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, staff)
}

// Rename godoc
// @Summary Rename staff member
// @Description Rename and rewrite every job assignment referencing the old name
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Staff ID" format(uuid)
// @Param request body domain.RenameStaffRequest true "New name"
// @Success 200 {object} domain.StaffDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /staff/{id}/rename [post]
func (h *StaffHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req domain.RenameStaffRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	staff, err := h.staffService.Rename(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, staff)
}

// Delete godoc
// @Summary Delete staff member
// @Description Remove a staff member. Members still assigned to a job are deactivated instead.
// @Tags Staff
// @Param id path string true "Staff ID" format(uuid)
// @Success 204 "No Content"
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /staff/{id} [delete]
func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	err := h.staffService.Delete(r.Context(), id)
	if errors.Is(err, service.ErrStaffAssigned) {
		respondJSON(w, http.StatusConflict, domain.ErrorResponse{
			Error:   http.StatusText(http.StatusConflict),
			Message: "Staff member is assigned to jobs and was deactivated instead",
		})
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
