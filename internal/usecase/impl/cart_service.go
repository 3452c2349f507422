package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "agrimarket/internal/delivery/context"
	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type cartService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	logger      *slog.Logger
	now         func() time.Time
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository
	Logger      *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		userRepo:    params.UserRepo,
		productRepo: params.ProductRepo,
		cartRepo:    params.CartRepo,
		logger:      params.Logger,
		now:         time.Now,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddToCart adds quantity to the user's row for the product.
func (srv *cartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*entity.CartItem, error) {
	if quantity <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("quantity must be positive")
	}

	user, err := findUser(ctx, srv.userRepo, userID)
	if err != nil {
		return nil, err
	}
	if user.IsProducer() {
		return nil, domainerrors.ErrConsumerOnly
	}

	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	item, err := srv.cartRepo.FindItem(ctx, userID, productID)
	switch {
	case errors.Is(err, repository.ErrCartItemNotFound):
		item = &entity.CartItem{
			ID:        uuid.New(),
			UserID:    userID,
			ProductID: productID,
			CreatedAt: srv.now(),
		}
	case err != nil:
		return nil, errors.Wrap(err, "failed to find cart item")
	}

	if item.Quantity+quantity > product.Quantity {
		return nil, domainerrors.ErrInsufficientStock.WithMessage("Insufficient stock for " + product.Name)
	}
	item.Quantity += quantity
	item.UpdatedAt = srv.now()
	item.Product = product

	if err := srv.cartRepo.Save(ctx, item); err != nil {
		return nil, errors.Wrap(err, "failed to save cart item")
	}

	srv.log(ctx).Debug("Cart updated", slog.Any("userID", userID), slog.Any("productID", productID), slog.Int("quantity", item.Quantity))

	return item, nil
}

// GetCart returns the cart rows with their products.
func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	items, err := srv.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart")
	}

	return items, nil
}

// RemoveFromCart drops the row of one product.
func (srv *cartService) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) error {
	if err := srv.cartRepo.DeleteItem(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return domainerrors.ErrCartItemNotFound
		}

		return errors.Wrap(err, "failed to remove cart item")
	}

	return nil
}

// ClearCart empties the cart.
func (srv *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return errors.Wrap(srv.cartRepo.DeleteByUser(ctx, userID), "failed to clear cart")
}
