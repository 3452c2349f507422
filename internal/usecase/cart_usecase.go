package usecase

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
)

// CartUsecase defines the server-side cart of a Consumer.
type CartUsecase interface {
	// AddToCart adds quantity to the row of productID. The cumulative quantity may not exceed stock.
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*entity.CartItem, error)
	GetCart(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error)
	RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}
