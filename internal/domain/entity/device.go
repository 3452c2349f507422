package entity

import (
	"time"

	"github.com/google/uuid"
)

// DevicePlatform is the client family a push token belongs to.
type DevicePlatform string

const (
	PlatformIOS     DevicePlatform = "ios"
	PlatformAndroid DevicePlatform = "android"
	PlatformWeb     DevicePlatform = "web"
)

// UserDevice is a client installation that receives order push notifications.
// A device is identified per account by the client supplied DeviceID; its FCM
// token may rotate.
type UserDevice struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	FCMToken  string         `json:"fcm_token"`
	DeviceID  string         `json:"device_id"`
	Platform  DevicePlatform `json:"platform"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Notifiable reports whether pushes should be sent to this device.
func (d *UserDevice) Notifiable() bool {
	return d.IsActive && d.FCMToken != ""
}
