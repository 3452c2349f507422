package impl

import (
	"context"
	"log/slog"

	deliverycontext "agrimarket/internal/delivery/context"
	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/domain/service"
	"agrimarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// firebaseBatchSize is the multicast limit of FCM.
const firebaseBatchSize = 500

type deliveryService struct {
	userRepo   repository.UserRepository
	deviceRepo repository.DeviceRepository
	mailer     service.Mailer
	pushSvc    service.NotificationService
	logger     *slog.Logger
}

// DeliveryServiceParams holds dependencies for DeliveryService, injected by Fx.
type DeliveryServiceParams struct {
	fx.In

	UserRepo   repository.UserRepository
	DeviceRepo repository.DeviceRepository
	Mailer     service.Mailer
	PushSvc    service.NotificationService
	Logger     *slog.Logger
}

// NewDeliveryService creates the worker-side dispatcher of order events.
func NewDeliveryService(params DeliveryServiceParams) usecase.DeliveryUsecase {
	return &deliveryService{
		userRepo:   params.UserRepo,
		deviceRepo: params.DeviceRepo,
		mailer:     params.Mailer,
		pushSvc:    params.PushSvc,
		logger:     params.Logger,
	}
}

func (srv *deliveryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Deliver emails the recipient and pushes to their active devices, each only when
// the recipient's preferences allow it. Channel failures are logged and counted but
// never returned, so a redelivered event cannot send the same email twice.
func (srv *deliveryService) Deliver(ctx context.Context, event *service.OrderEvent) (*usecase.DeliveryResult, error) {
	recipientID, err := uuid.Parse(event.RecipientID)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("recipient_id is not a valid uuid")
	}

	logger := srv.log(ctx).With(
		slog.String("eventID", event.EventID),
		slog.String("eventType", event.Type),
		slog.String("orderGroupID", event.OrderGroupID),
	)

	result := &usecase.DeliveryResult{}
	user, err := srv.userRepo.FindByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logger.Info("Recipient no longer exists, dropping event", slog.Any("recipientID", recipientID))

			return result, nil
		}

		return nil, errors.Wrap(err, "failed to find recipient")
	}

	settings := user.Settings
	if !settings.OrderUpdates {
		logger.Debug("Recipient opted out of order updates", slog.Any("recipientID", recipientID))

		return result, nil
	}

	if settings.EmailNotifications && user.Email != "" {
		if err := srv.mailer.Send(ctx, user.Email, event.Subject, event.Body); err != nil {
			logger.Warn("Failed to email order update", slog.Any("recipientID", recipientID), slog.Any("error", err))
		} else {
			result.Emailed = true
		}
	}

	if settings.PushNotifications {
		srv.push(ctx, logger, user, event, result)
	}

	logger.Info("Order event delivered",
		slog.Bool("emailed", result.Emailed),
		slog.Int("pushSucceeded", result.PushSucceeded),
		slog.Int("pushFailed", result.PushFailed),
	)

	return result, nil
}

func (srv *deliveryService) push(ctx context.Context, logger *slog.Logger, user *entity.User, event *service.OrderEvent, result *usecase.DeliveryResult) {
	devices, err := srv.deviceRepo.FindActiveDevicesByUser(ctx, user.ID)
	if err != nil {
		logger.Warn("Failed to load devices", slog.Any("recipientID", user.ID), slog.Any("error", err))

		return
	}

	tokens := make([]string, 0, len(devices))
	for _, device := range devices {
		if device.Notifiable() {
			tokens = append(tokens, device.FCMToken)
		}
	}
	if len(tokens) == 0 {
		return
	}

	data := map[string]string{
		"event_id":       event.EventID,
		"type":           event.Type,
		"order_group_id": event.OrderGroupID,
	}

	var invalidTokens []string
	for i := 0; i < len(tokens); i += firebaseBatchSize {
		end := min(i+firebaseBatchSize, len(tokens))
		batch := tokens[i:end]

		succeeded, failed, invalid, err := srv.pushSvc.SendBatchNotification(ctx, batch, event.Subject, event.Subject, data)
		if err != nil {
			logger.Warn("Push batch failed", slog.Int("size", len(batch)), slog.Any("error", err))
			result.PushFailed += len(batch)

			continue
		}
		result.PushSucceeded += succeeded
		result.PushFailed += failed
		invalidTokens = append(invalidTokens, invalid...)
	}

	if len(invalidTokens) == 0 {
		return
	}
	deactivated, err := srv.deviceRepo.DeactivateTokens(ctx, user.ID, invalidTokens)
	if err != nil {
		logger.Warn("Failed to deactivate stale devices", slog.Int("tokens", len(invalidTokens)), slog.Any("error", err))

		return
	}
	logger.Info("Stale devices deactivated", slog.Int64("count", deactivated))
}
