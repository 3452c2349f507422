package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. One row per product line of a checkout.
type OrderModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderGroupID    string    `gorm:"type:varchar(32);not null;index"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index"`
	BuyerID         uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductName     string    `gorm:"type:varchar(200);not null"`
	UnitPrice       float64   `gorm:"type:numeric(12,2);not null"`
	Quantity        int       `gorm:"not null"`
	TotalPrice      float64   `gorm:"type:numeric(14,2);not null"`
	DeliveryAddress string    `gorm:"type:text;not null"`
	PaymentMethod   string    `gorm:"type:varchar(20);not null"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
