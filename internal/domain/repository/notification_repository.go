package repository

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNotificationNotFound is returned when a notification is not found.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository persists order notifications.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []*entity.Notification) error

	// Upsert writes the row identified by (OrderID, Audience), creating it when missing.
	Upsert(ctx context.Context, notification *entity.Notification) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)

	// ListByOwner returns rows of audience owned by ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, audience entity.NotificationAudience) ([]*entity.Notification, error)

	CountUnread(ctx context.Context, ownerID uuid.UUID, audience entity.NotificationAudience) (int64, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.NotificationStatus) error

	Delete(ctx context.Context, id uuid.UUID) error
}
