package usecase

import (
	"context"

	"agrimarket/internal/domain/entity"
	"agrimarket/internal/domain/service"

	"github.com/google/uuid"
)

// NotificationUsecase defines role-scoped access to order notifications.
type NotificationUsecase interface {
	List(ctx context.Context, userID uuid.UUID, userType entity.UserType) ([]*entity.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID, userType entity.UserType) (int64, error)

	// SetStatus changes the row status without touching the order it refers to.
	SetStatus(ctx context.Context, userID, notificationID uuid.UUID, status entity.NotificationStatus) (*entity.Notification, error)
	Delete(ctx context.Context, userID, notificationID uuid.UUID) error
}

// DeliveryResult summarizes what happened to one order event.
type DeliveryResult struct {
	Emailed       bool
	PushSucceeded int
	PushFailed    int
}

// DeliveryUsecase defines the worker side of order events: email plus device push.
type DeliveryUsecase interface {
	Deliver(ctx context.Context, event *service.OrderEvent) (*DeliveryResult, error)
}
