package repository

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrOrderNotFound is returned when an order line is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository persists order lines.
type OrderRepository interface {
	// CreateBatch inserts all lines of one checkout.
	CreateBatch(ctx context.Context, orders []*entity.Order) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	ListByGroup(ctx context.Context, groupID string) ([]*entity.Order, error)

	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.Order, error)

	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error)

	// TransitionStatus moves the line from one status to another only if it is
	// still in from. It reports whether a row was changed.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus) (bool, error)

	// CountAcceptedBetween counts accepted or confirmed lines between a seller and a buyer,
	// excluding the line identified by exclude.
	CountAcceptedBetween(ctx context.Context, sellerID, buyerID, exclude uuid.UUID) (int64, error)
}
