package usecase

import (
	"context"
	"time"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
)

// ProductInput defines a listing as submitted or edited by its Producer.
type ProductInput struct {
	Name            string     `json:"name" validate:"required,max=128"`
	Description     string     `json:"description" validate:"max=2000"`
	Category        string     `json:"category" validate:"required,max=64"`
	Price           float64    `json:"price" validate:"required,gt=0"`
	Unit            string     `json:"unit" validate:"required,max=32"`
	Quantity        int        `json:"quantity" validate:"gte=0"`
	Location        string     `json:"location" validate:"required,max=256"`
	HarvestDate     *time.Time `json:"harvestDate,omitempty"`
	ExpiryDate      *time.Time `json:"expiryDate,omitempty"`
	DeliveryOptions string     `json:"deliveryOptions" validate:"max=256"`
	ImageURL        string     `json:"imageUrl" validate:"omitempty,url"`
	VideoURL        string     `json:"videoUrl" validate:"omitempty,url"`
	Offer           string     `json:"offer" validate:"max=128"`
}

// ProductUsecase defines product listing operations.
type ProductUsecase interface {
	Submit(ctx context.Context, sellerID uuid.UUID, input *ProductInput) (*entity.Product, error)
	ListMine(ctx context.Context, sellerID uuid.UUID) ([]*entity.Product, error)
	Update(ctx context.Context, sellerID, productID uuid.UUID, input *ProductInput) (*entity.Product, error)
	Delete(ctx context.Context, sellerID, productID uuid.UUID) error

	// List and Get are public.
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	Get(ctx context.Context, productID uuid.UUID) (*entity.Product, error)
}
