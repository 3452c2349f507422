package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a listing owned by a Producer. Quantity is the live stock counter.
type Product struct {
	ID              uuid.UUID  `json:"id"`
	SellerID        uuid.UUID  `json:"sellerId"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Price           float64    `json:"price"`
	Unit            string     `json:"unit"`
	Quantity        int        `json:"quantity"`
	Location        string     `json:"location"`
	HarvestDate     *time.Time `json:"harvestDate,omitempty"`
	ExpiryDate      *time.Time `json:"expiryDate,omitempty"`
	DeliveryOptions string     `json:"deliveryOptions"`
	ImageURL        string     `json:"imageUrl,omitempty"`
	VideoURL        string     `json:"videoUrl,omitempty"`
	Offer           string     `json:"offer,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// ProductFilter narrows a public product listing.
type ProductFilter struct {
	Query       string
	Category    string
	Location    string
	SellerID    *uuid.UUID
	MaxPrice    float64
	InStockOnly bool
	Limit       int
	Offset      int
}
