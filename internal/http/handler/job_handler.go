package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

type JobHandler struct {
	jobService *service.JobService
	logger     *zap.Logger
}

func NewJobHandler(jobService *service.JobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		logger:     logger,
	}
}

// Create godoc
// @Summary Create job
// @Description Register a new service or product job
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body domain.CreateJobRequest true "Job data"
// @Success 201 {object} domain.JobDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs [post]
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateJobRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create job", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, job)
}

// List godoc
// @Summary List jobs
// @Description Get paginated jobs with optional filters
// @Tags Jobs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by job number or customer name"
// @Param jobType query string false "Filter by type" Enums(service, product)
// @Param priority query string false "Filter by priority" Enums(normal, urgent)
// @Param department query string false "Filter by drawing department"
// @Param delivered query bool false "Filter by delivery state"
// @Param overdue query bool false "Only jobs past their planned finish date"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.JobDTO}
// @Security BearerAuth
// @Router /jobs [get]
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := paging(r)

	filter := repository.JobFilter{
		Search:     r.URL.Query().Get("search"),
		JobType:    r.URL.Query().Get("jobType"),
		Priority:   r.URL.Query().Get("priority"),
		Department: r.URL.Query().Get("department"),
		Overdue:    r.URL.Query().Get("overdue") == "true",
	}
	if v := r.URL.Query().Get("delivered"); v != "" {
		delivered := v == "true"
		filter.Delivered = &delivered
	}

	result, err := h.jobService.List(r.Context(), page, pageSize, filter)
	if err != nil {
		h.logger.Error("failed to list jobs", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get job
// @Description Get a job with drawings, processes and history
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {object} domain.JobDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id} [get]
func (h *JobHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	job, err := h.jobService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Update godoc
// @Summary Update job
// @Description Edit job head fields. Changing the finish date resolves a rejected sales request.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.UpdateJobRequest true "Fields to update"
// @Success 200 {object} domain.JobDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id} [put]
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateJobRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update job", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Delete godoc
// @Summary Delete job
// @Tags Jobs
// @Param id path string true "Job ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id} [delete]
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.jobService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// AddDrawing godoc
// @Summary Add drawing
// @Description Attach a drawing to a service job
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.CreateDrawingRequest true "Drawing data"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/drawings [post]
func (h *JobHandler) AddDrawing(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req domain.CreateDrawingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobService.AddDrawing(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// AddProductItem godoc
// @Summary Add product line
// @Description Attach a product order line to a product job
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.CreateProductItemRequest true "Product line data"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/products [post]
func (h *JobHandler) AddProductItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req domain.CreateProductItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobService.AddProductItem(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// CompleteProductItem godoc
// @Summary Complete product line
// @Description Toggle a product line's done state. Completing the last line completes the job.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param productId path string true "Product line ID" format(uuid)
// @Param request body domain.CompleteProductItemRequest true "Done state"
// @Success 200 {object} domain.JobDTO
// @Security BearerAuth
// @Router /jobs/{id}/products/{productId}/complete [post]
func (h *JobHandler) CompleteProductItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	productID, ok := parseID(w, r, "productId")
	if !ok {
		return
	}

	var req domain.CompleteProductItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	job, err := h.jobService.CompleteProductItem(r.Context(), id, productID, req.Completed)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// AssignDesigner godoc
// @Summary Assign designer
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.AssignStaffRequest true "Designer name"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/designer [post]
func (h *JobHandler) AssignDesigner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req domain.AssignStaffRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobService.AssignDesigner(r.Context(), id, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// AssignProgrammer godoc
// @Summary Assign programmer
// @Description Assign a programmer and open the job's programming phase
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.AssignStaffRequest true "Programmer name"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/programmer [post]
func (h *JobHandler) AssignProgrammer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req domain.AssignStaffRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobService.AssignProgrammer(r.Context(), id, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// FinishDesign godoc
// @Summary Finish design
// @Description Close the design phase and replace the drawing layout with the design output
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.FinishDesignRequest true "Final drawing list"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/design/finish [post]
func (h *JobHandler) FinishDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req domain.FinishDesignRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobService.FinishDesign(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// FinishProgramming godoc
// @Summary Finish programming
// @Description Mark the job's CNC programs ready, releasing drawings waiting on the programming gate
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/programming/finish [post]
func (h *JobHandler) FinishProgramming(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	job, err := h.jobService.FinishProgramming(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// HoldPhase godoc
// @Summary Hold design or programming
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.HoldJobPhaseRequest true "Phase and reason"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/phase/hold [post]
func (h *JobHandler) HoldPhase(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req domain.HoldJobPhaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobService.HoldPhase(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// ResumePhase godoc
// @Summary Resume design or programming
// @Tags Jobs
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param request body domain.ResumeJobPhaseRequest true "Phase"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/phase/resume [post]
func (h *JobHandler) ResumePhase(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req domain.ResumeJobPhaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.jobService.ResumePhase(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Deliver godoc
// @Summary Deliver job
// @Description Mark a completed job as delivered. Terminal and idempotent.
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/deliver [post]
func (h *JobHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	job, err := h.jobService.Deliver(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// ListActivities godoc
// @Summary List job activity
// @Description Get the job's activity log, newest first
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.JobActivityDTO}
// @Security BearerAuth
// @Router /jobs/{id}/activities [get]
func (h *JobHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	page, pageSize := paging(r)
	result, err := h.jobService.ListActivities(r.Context(), id, page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
