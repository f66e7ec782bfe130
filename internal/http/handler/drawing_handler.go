package handler

import (
	"io"
	"net/http"
	"path"

	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

// DrawingHandler exposes the per-drawing workflow operations: process
// planning and completion, quality checks, rework, holds, material state and
// the final report.
type DrawingHandler struct {
	processService  *service.ProcessService
	materialService *service.MaterialService
	reportService   *service.ReportService
	logger          *zap.Logger
}

func NewDrawingHandler(
	processService *service.ProcessService,
	materialService *service.MaterialService,
	reportService *service.ReportService,
	logger *zap.Logger,
) *DrawingHandler {
	return &DrawingHandler{
		processService:  processService,
		materialService: materialService,
		reportService:   reportService,
		logger:          logger,
	}
}

// ReplaceProcesses godoc
// @Summary Plan processes
// @Description Replace the drawing's process route. Sequences are renumbered from 1.
// @Tags Drawings
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Param request body domain.UpdateProcessesRequest true "Process list"
// @Success 200 {object} domain.JobDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/processes [put]
func (h *DrawingHandler) ReplaceProcesses(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	var req domain.UpdateProcessesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.processService.ReplaceProcesses(r.Context(), jobID, drawingID, &req)
	if err != nil {
		h.logger.Error("failed to replace processes", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// CompleteProcess godoc
// @Summary Complete process
// @Description Mark a process step done or reopen it. Earlier steps must be completed and checked first.
// @Tags Drawings
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Param request body domain.CompleteProcessRequest true "Sequence and state"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/processes/complete [post]
func (h *DrawingHandler) CompleteProcess(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	var req domain.CompleteProcessRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.processService.CompleteProcess(r.Context(), jobID, drawingID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// QualityCheck godoc
// @Summary Record quality check
// @Tags Drawings
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Param request body domain.QualityCheckRequest true "Sequence and verdict"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/quality-check [post]
func (h *DrawingHandler) QualityCheck(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	var req domain.QualityCheckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.processService.QualityCheck(r.Context(), jobID, drawingID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// InitiateRework godoc
// @Summary Initiate rework
// @Description Send the drawing back to an earlier process, reopening it and everything after it
// @Tags Drawings
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Param request body domain.ReworkRequest true "Rework details"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/rework [post]
func (h *DrawingHandler) InitiateRework(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	var req domain.ReworkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.processService.InitiateRework(r.Context(), jobID, drawingID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// CompleteRework godoc
// @Summary Complete rework
// @Description Release a cross-department reworked drawing back to the normal flow
// @Tags Drawings
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Success 200 {object} domain.JobDTO
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/rework/complete [post]
func (h *DrawingHandler) CompleteRework(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	job, err := h.processService.CompleteRework(r.Context(), jobID, drawingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Hold godoc
// @Summary Hold drawing
// @Tags Drawings
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Param request body domain.HoldDrawingRequest true "Hold reason"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/hold [post]
func (h *DrawingHandler) Hold(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	var req domain.HoldDrawingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.processService.HoldDrawing(r.Context(), jobID, drawingID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Resume godoc
// @Summary Resume drawing
// @Description Lift a hold. An updated finish date must be confirmed.
// @Tags Drawings
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Param request body domain.ResumeDrawingRequest true "New finish date"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/resume [post]
func (h *DrawingHandler) Resume(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	var req domain.ResumeDrawingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.processService.ResumeDrawing(r.Context(), jobID, drawingID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// CompleteDesign godoc
// @Summary Complete drawing design
// @Description Move a single drawing out of Design into Planning
// @Tags Drawings
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Success 200 {object} domain.JobDTO
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/design/complete [post]
func (h *DrawingHandler) CompleteDesign(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	job, err := h.processService.CompleteDrawingDesign(r.Context(), jobID, drawingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// FinalQualityCheck godoc
// @Summary Record final QC verdict
// @Description Approve or withhold the terminal quality check. Approval alone does not complete the drawing.
// @Tags Drawings
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Param request body domain.FinalQcRequest true "Verdict"
// @Success 200 {object} domain.JobDTO
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/final-qc [post]
func (h *DrawingHandler) FinalQualityCheck(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	var req domain.FinalQcRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.processService.FinalQualityCheck(r.Context(), jobID, drawingID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// MaterialReady godoc
// @Summary Mark material ready
// @Description Release the drawing's Planning material gate
// @Tags Drawings
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Success 200 {object} domain.JobDTO
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/material/ready [post]
func (h *DrawingHandler) MaterialReady(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	job, err := h.materialService.SetMaterialReady(r.Context(), jobID, drawingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// AwaitingStock godoc
// @Summary Mark material awaiting stock
// @Tags Drawings
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Param request body domain.AwaitingStockRequest true "Expected arrival date"
// @Success 200 {object} domain.JobDTO
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/material/awaiting [post]
func (h *DrawingHandler) AwaitingStock(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	var req domain.AwaitingStockRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.materialService.SetAwaitingStock(r.Context(), jobID, drawingID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// ReportDelay godoc
// @Summary Report material delay
// @Description Record an expected date that breaks the schedule, forcing a replan
// @Tags Drawings
// @Accept json
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Param request body domain.AwaitingStockRequest true "Expected arrival date"
// @Success 200 {object} domain.JobDTO
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/material/delay [post]
func (h *DrawingHandler) ReportDelay(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	var req domain.AwaitingStockRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	job, err := h.materialService.ReportDelay(r.Context(), jobID, drawingID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// UploadFinalReport godoc
// @Summary Upload final report
// @Description Store the final QC report and complete the drawing. Re-uploading overwrites.
// @Tags Drawings
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Param file formData file true "Report file"
// @Success 200 {object} domain.JobDTO
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/report [post]
func (h *DrawingHandler) UploadFinalReport(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	// 32 MB in-memory limit before spilling to disk
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "A 'file' form field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	job, err := h.reportService.SaveFinalReport(r.Context(), jobID, drawingID,
		header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("failed to save final report", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// DownloadFinalReport godoc
// @Summary Download final report
// @Tags Drawings
// @Produce application/octet-stream
// @Param id path string true "Job ID" format(uuid)
// @Param drawingId path string true "Drawing ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /jobs/{id}/drawings/{drawingId}/report [get]
func (h *DrawingHandler) DownloadFinalReport(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	drawingID, ok := parseID(w, r, "drawingId")
	if !ok {
		return
	}

	reader, reportPath, err := h.reportService.OpenFinalReport(r.Context(), jobID, drawingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(reportPath)+`"`)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("failed to stream report", zap.Error(err))
	}
}
