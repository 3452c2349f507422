package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel mirrors the 'products' table. SellerID references users.id.
type ProductModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SellerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Name            string    `gorm:"type:varchar(200);not null"`
	Description     string    `gorm:"type:text"`
	Category        string    `gorm:"type:varchar(100);index"`
	Price           float64   `gorm:"type:numeric(12,2);not null"`
	Unit            string    `gorm:"type:varchar(20);not null"`
	Quantity        int       `gorm:"not null;check:quantity >= 0"`
	Location        string    `gorm:"type:varchar(255)"`
	HarvestDate     *time.Time
	ExpiryDate      *time.Time
	DeliveryOptions string `gorm:"type:varchar(255)"`
	ImageURL        string `gorm:"type:varchar(500)"`
	VideoURL        string `gorm:"type:varchar(500)"`
	Offer           string `gorm:"type:varchar(255)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// CartItemModel mirrors the 'cart_items' table. (user_id, product_id) is unique.
type CartItemModel struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	ProductID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int           `gorm:"not null"`
	Product   *ProductModel `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}
