package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

// SettingsHandler manages the process-department catalog and the machine
// registry
type SettingsHandler struct {
	settingsService *service.SettingsService
	logger          *zap.Logger
}

func NewSettingsHandler(settingsService *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// ListProcessDepartments godoc
// @Summary List process-department mappings
// @Tags Settings
// @Produce json
// @Success 200 {array} domain.ProcessDepartmentDTO
// @Security BearerAuth
// @Router /settings/process-departments [get]
func (h *SettingsHandler) ListProcessDepartments(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.settingsService.ListProcessDepartments(r.Context())
	if err != nil {
		h.logger.Error("failed to list process departments", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mappings)
}

// UpsertProcessDepartment godoc
// @Summary Create or update a mapping
// @Description Map a process name to a department. Matching is case-insensitive; changes apply to the next recompute.
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body domain.UpsertProcessDepartmentRequest true "Mapping"
// @Success 200 {object} domain.ProcessDepartmentDTO
// @Security BearerAuth
// @Router /settings/process-departments [put]
func (h *SettingsHandler) UpsertProcessDepartment(w http.ResponseWriter, r *http.Request) {
	var req domain.UpsertProcessDepartmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	mapping, err := h.settingsService.UpsertProcessDepartment(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapping)
}

// DeleteProcessDepartment godoc
// @Summary Delete a mapping
// @Tags Settings
// @Param id path string true "Mapping ID" format(uuid)
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /settings/process-departments/{id} [delete]
func (h *SettingsHandler) DeleteProcessDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.settingsService.DeleteProcessDepartment(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// ListMachines godoc
// @Summary List machines
// @Tags Settings
// @Produce json
// @Param activeOnly query bool false "Only active machines"
// @Success 200 {array} domain.MachineDTO
// @Security BearerAuth
// @Router /settings/machines [get]
func (h *SettingsHandler) ListMachines(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activeOnly") == "true"

	machines, err := h.settingsService.ListMachines(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("failed to list machines", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, machines)
}

// CreateMachine godoc
// @Summary Register machine
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body domain.CreateMachineRequest true "Machine data"
// @Success 201 {object} domain.MachineDTO
// @Security BearerAuth
// @Router /settings/machines [post]
func (h *SettingsHandler) CreateMachine(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMachineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	machine, err := h.settingsService.CreateMachine(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, machine)
}

// SetMachineActive godoc
// @Summary Activate or deactivate machine
// @Tags Settings
// @Accept json
// @Produce json
// @Param id path string true "Machine ID" format(uuid)
// @Param request body object{isActive=bool} true "Active state"
// @Success 200 {object} domain.MachineDTO
// @Security BearerAuth
// @Router /settings/machines/{id}/active [put]
func (h *SettingsHandler) SetMachineActive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	machine, err := h.settingsService.SetMachineActive(r.Context(), id, req.IsActive)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, machine)
}

// DeleteMachine godoc
// @Summary Delete machine
// @Tags Settings
// @Param id path string true "Machine ID" format(uuid)
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /settings/machines/{id} [delete]
func (h *SettingsHandler) DeleteMachine(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.settingsService.DeleteMachine(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
