package impl

import (
	"context"
	"log/slog"

	deliverycontext "agrimarket/internal/delivery/context"
	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type notificationService struct {
	notificationRepo repository.NotificationRepository
	logger           *slog.Logger
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	NotificationRepo repository.NotificationRepository
	Logger           *slog.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		notificationRepo: params.NotificationRepo,
		logger:           params.Logger,
	}
}

func (srv *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List returns the rows the caller owns in its role: seller rows for Producers, buyer rows for Consumers.
func (srv *notificationService) List(ctx context.Context, userID uuid.UUID, userType entity.UserType) ([]*entity.Notification, error) {
	notifications, err := srv.notificationRepo.ListByOwner(ctx, userID, entity.AudienceFor(userType))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}

	return notifications, nil
}

// UnreadCount backs the badge polled by the client.
func (srv *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID, userType entity.UserType) (int64, error) {
	count, err := srv.notificationRepo.CountUnread(ctx, userID, entity.AudienceFor(userType))
	if err != nil {
		return 0, errors.Wrap(err, "failed to count unread notifications")
	}

	return count, nil
}

// SetStatus changes the row status only. The order it refers to is left untouched.
func (srv *notificationService) SetStatus(ctx context.Context, userID, notificationID uuid.UUID, status entity.NotificationStatus) (*entity.Notification, error) {
	if !status.IsSettable() {
		return nil, domainerrors.ErrInvalidNotificationStatus
	}

	notification, err := srv.findOwned(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}

	if err := srv.notificationRepo.UpdateStatus(ctx, notification.ID, status); err != nil {
		return nil, errors.Wrap(err, "failed to update notification status")
	}
	notification.Status = status

	srv.log(ctx).Debug("Notification status set", slog.Any("notificationID", notificationID), slog.String("status", string(status)))

	return notification, nil
}

// Delete removes a row owned by the caller.
func (srv *notificationService) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	notification, err := srv.findOwned(ctx, userID, notificationID)
	if err != nil {
		return err
	}

	if err := srv.notificationRepo.Delete(ctx, notification.ID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return domainerrors.ErrNotificationNotFound
		}

		return errors.Wrap(err, "failed to delete notification")
	}

	return nil
}

// findOwned treats rows of other users as missing so their ids cannot be discovered.
func (srv *notificationService) findOwned(ctx context.Context, userID, notificationID uuid.UUID) (*entity.Notification, error) {
	notification, err := srv.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return nil, domainerrors.ErrNotificationNotFound
		}

		return nil, errors.Wrap(err, "failed to find notification")
	}
	if notification.OwnerID() != userID {
		return nil, domainerrors.ErrNotificationNotFound
	}

	return notification, nil
}
