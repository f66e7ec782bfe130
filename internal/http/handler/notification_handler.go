package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

// NotificationHandler serves the department inboxes. The inbox name is a path
// parameter (sales, planning, stores, design).
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List godoc
// @Summary List inbox notifications
// @Tags Notifications
// @Produce json
// @Param inbox path string true "Inbox name" Enums(sales, planning, stores, design)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param unreadOnly query bool false "Only unread"
// @Param type query string false "Filter by notification type"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.NotificationDTO}
// @Security BearerAuth
// @Router /notifications/{inbox} [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	inbox := chi.URLParam(r, "inbox")
	page, pageSize := paging(r)
	unreadOnly := r.URL.Query().Get("unreadOnly") == "true"
	notificationType := r.URL.Query().Get("type")

	result, err := h.notificationService.List(r.Context(), inbox, page, pageSize, unreadOnly, notificationType)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// CountUnread godoc
// @Summary Count unread notifications
// @Tags Notifications
// @Produce json
// @Param inbox path string true "Inbox name" Enums(sales, planning, stores, design)
// @Success 200 {object} object{count=int}
// @Security BearerAuth
// @Router /notifications/{inbox}/unread-count [get]
func (h *NotificationHandler) CountUnread(w http.ResponseWriter, r *http.Request) {
	inbox := chi.URLParam(r, "inbox")

	count, err := h.notificationService.CountUnread(r.Context(), inbox)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

// MarkAsRead godoc
// @Summary Mark notification read
// @Tags Notifications
// @Param inbox path string true "Inbox name" Enums(sales, planning, stores, design)
// @Param id path string true "Notification ID" format(uuid)
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /notifications/{inbox}/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// MarkAllAsRead godoc
// @Summary Mark all inbox notifications read
// @Tags Notifications
// @Param inbox path string true "Inbox name" Enums(sales, planning, stores, design)
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /notifications/{inbox}/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	inbox := chi.URLParam(r, "inbox")

	if err := h.notificationService.MarkAllAsRead(r.Context(), inbox); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
