package usecase

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
)

// DeviceInfo is the registration payload a client sends after obtaining an FCM token.
type DeviceInfo struct {
	FCMToken string                `json:"fcmToken" validate:"required"`
	DeviceID string                `json:"deviceId" validate:"required,max=128"`
	Platform entity.DevicePlatform `json:"platform" validate:"required,oneof=ios android web"`
}

// DeviceUsecase manages the push targets order events are sent to. Every
// per-device operation fails with ErrForbidden for devices of other accounts.
type DeviceUsecase interface {
	// RegisterDevice is idempotent per DeviceID: a known device gets the new
	// token and is reactivated.
	RegisterDevice(ctx context.Context, userID uuid.UUID, deviceInfo *DeviceInfo) (*entity.UserDevice, error)
	UpdateFCMToken(ctx context.Context, userID, deviceID uuid.UUID, fcmToken string) error
	GetUserDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)
	DeactivateDevice(ctx context.Context, userID, deviceID uuid.UUID) error
}
