package model

import (
	"time"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDeviceModel maps the user_devices table. FCM tokens are unique among
// rows that are not soft-deleted.
type UserDeviceModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FCMToken  string    `gorm:"type:varchar(255);not null"`
	DeviceID  string    `gorm:"type:varchar(255);not null"`
	Platform  string    `gorm:"type:varchar(50);not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserDeviceModel) TableName() string {
	return "user_devices"
}

func (m *UserDeviceModel) ToDomain() *entity.UserDevice {
	if m == nil {
		return nil
	}

	return &entity.UserDevice{
		ID:        m.ID,
		UserID:    m.UserID,
		FCMToken:  m.FCMToken,
		DeviceID:  m.DeviceID,
		Platform:  entity.DevicePlatform(m.Platform),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func NewUserDeviceModel(d *entity.UserDevice) *UserDeviceModel {
	return &UserDeviceModel{
		ID:        d.ID,
		UserID:    d.UserID,
		FCMToken:  d.FCMToken,
		DeviceID:  d.DeviceID,
		Platform:  string(d.Platform),
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
