package repository

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for product persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a conditional stock decrement matched no row.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository defines product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error

	// FindByID reads from the primary so stock checks inside a transaction see committed writes.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// List returns public listings matching filter, newest first. May be served by a read replica.
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)

	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Product, error)

	Update(ctx context.Context, product *entity.Product) error

	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteBySeller removes every product of a seller and reports how many were removed.
	DeleteBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)

	// DecrementStock subtracts quantity only while enough stock remains.
	// It returns ErrInsufficientStock when the guard fails.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}
