package repository

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrDeviceNotFound  = errors.New("device not found")
	ErrDuplicateDevice = errors.New("device already exists")
)

// DeviceRepository stores push notification targets. Deleted devices are
// soft-deleted; deactivated ones stay listed but receive no pushes.
type DeviceRepository interface {
	CreateDevice(ctx context.Context, device *entity.UserDevice) error
	FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.UserDevice, error)

	// FindDevicesByUser includes inactive devices, newest first.
	FindDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)
	FindActiveDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)

	// UpdateFCMToken also reactivates the device.
	UpdateFCMToken(ctx context.Context, deviceID uuid.UUID, fcmToken string) error

	// DeactivateTokens switches off the user's devices holding any of the
	// tokens and reports how many were changed.
	DeactivateTokens(ctx context.Context, userID uuid.UUID, tokens []string) (int64, error)

	DeleteDevice(ctx context.Context, id uuid.UUID) error
	DeleteDevicesByUser(ctx context.Context, userID uuid.UUID) error
}
