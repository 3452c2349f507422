package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationModel mirrors the 'notifications' table. (order_id, audience) is unique,
// so each order line has at most one buyer-facing and one seller-facing row.
type NotificationModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_notifications_order_audience"`
	OrderGroupID    string    `gorm:"type:varchar(32);not null"`
	Audience        string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_notifications_order_audience"`
	BuyerID         uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	DeliveryAddress string    `gorm:"type:text"`
	Status          string    `gorm:"type:varchar(20);not null"`
	Message         string    `gorm:"type:text;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (NotificationModel) TableName() string {
	return "notifications"
}
