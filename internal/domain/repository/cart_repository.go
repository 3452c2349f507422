package repository

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrCartItemNotFound is returned when a user has no cart row for a product.
var ErrCartItemNotFound = errors.New("cart item not found")

// CartRepository persists per-user per-product cart rows.
type CartRepository interface {
	FindItem(ctx context.Context, userID, productID uuid.UUID) (*entity.CartItem, error)

	// ListByUser returns the cart rows with their products loaded.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error)

	// Save inserts or updates the row of (item.UserID, item.ProductID).
	Save(ctx context.Context, item *entity.CartItem) error

	DeleteItem(ctx context.Context, userID, productID uuid.UUID) error

	// DeleteItems removes the rows of the given products, ignoring products not in the cart.
	DeleteItems(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error

	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
