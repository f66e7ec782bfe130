package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/mapper"
	"github.com/rexmarketing03-cell/planner-api/internal/repository"
)

// Notification inbox names. Notifications are addressed to department
// inboxes rather than individual users.
const (
	InboxSales    = "sales"
	InboxPlanning = "planning"
	InboxStores   = "stores"
	InboxDesign   = "design"
)

// Notification types
const (
	NotificationSalesRequest   = "sales_request"
	NotificationSalesDecision  = "sales_decision"
	NotificationReschedule     = "reschedule_required"
	NotificationOverdue        = "job_overdue"
	NotificationStockArrived   = "stock_arrived"
	NotificationDesignFinished = "design_finished"
)

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewNotificationService(notificationRepo *repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Notify creates a notification in a department inbox. Failures are logged
// and swallowed; a notification must never fail the triggering operation.
func (s *NotificationService) Notify(ctx context.Context, inbox, notificationType, title, message string, entityID *uuid.UUID, entityType string) {
	notification := &domain.Notification{
		UserID:     inbox,
		Type:       notificationType,
		Title:      title,
		Message:    message,
		EntityID:   entityID,
		EntityType: entityType,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to create notification",
			zap.String("inbox", inbox),
			zap.String("type", notificationType),
			zap.Error(err),
		)
	}
}

func (s *NotificationService) List(ctx context.Context, inbox string, page, pageSize int, unreadOnly bool, notificationType string) (*domain.PaginatedResponse, error) {
	notifications, total, err := s.notificationRepo.List(ctx, inbox, page, pageSize, unreadOnly, notificationType)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.NotificationDTO, 0, len(notifications))
	for i := range notifications {
		dtos = append(dtos, mapper.ToNotificationDTO(&notifications[i]))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.notificationRepo.MarkAsRead(ctx, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, inbox string) error {
	return s.notificationRepo.MarkAllAsRead(ctx, inbox)
}

func (s *NotificationService) CountUnread(ctx context.Context, inbox string) (int, error) {
	return s.notificationRepo.CountUnread(ctx, inbox)
}
