package notification

import (
	"context"
	"errors"

	notificationerrors "go-hrms/internal/notification/errors"
	"go-hrms/internal/shared/response"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, companyID, userID string, page, limit int) ([]NotificationResponse, response.PaginationMeta, error)
	MarkRead(ctx context.Context, companyID, userID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) List(ctx context.Context, companyID, userID string, page, limit int) ([]NotificationResponse, response.PaginationMeta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	ns, total, err := s.repo.FindByRecipient(ctx, companyID, userID, limit, (page-1)*limit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []NotificationResponse{}, response.NewPaginationMeta(0, page, limit), nil
		}
		return nil, response.PaginationMeta{}, err
	}

	out := make([]NotificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, mapToResponse(n))
	}
	return out, response.NewPaginationMeta(total, page, limit), nil
}

func (s *service) MarkRead(ctx context.Context, companyID, userID, id string) error {
	affected, err := s.repo.MarkRead(ctx, companyID, userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

func mapToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID.String(),
		RecipientID: n.RecipientID.String(),
		SenderID:    n.SenderID.String(),
		Title:       n.Title,
		Message:     n.Message,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}
