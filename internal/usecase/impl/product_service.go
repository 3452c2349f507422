package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "agrimarket/internal/delivery/context"
	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/domain/service"
	"agrimarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultProductPageSize = 20
	maxProductPageSize     = 100
)

type productService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	sanitizer   service.TextSanitizer
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProductRepo repository.ProductRepository
	Sanitizer   service.TextSanitizer
	Logger      *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		txManager:   params.TxManager,
		productRepo: params.ProductRepo,
		sanitizer:   params.Sanitizer,
		logger:      params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Submit lists a new product and bumps the seller's listed item counter in the same transaction.
func (srv *productService) Submit(ctx context.Context, sellerID uuid.UUID, input *usecase.ProductInput) (*entity.Product, error) {
	product := &entity.Product{
		ID:       uuid.New(),
		SellerID: sellerID,
	}
	srv.apply(product, input)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		seller, err := findUser(ctx, userRepo, sellerID)
		if err != nil {
			return err
		}
		if !seller.IsProducer() {
			return domainerrors.ErrProducerOnly
		}

		if err := repoFactory.NewProductRepository().Create(ctx, product); err != nil {
			return errors.Wrap(err, "failed to create product")
		}

		return errors.Wrap(userRepo.AddStats(ctx, sellerID, entity.SellerStats{ListedItems: 1}), "failed to update listed items")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute submit product transaction")
	}

	srv.log(ctx).Info("Product submitted", slog.Any("productID", product.ID), slog.Any("sellerID", sellerID))

	return product, nil
}

// ListMine returns every product of the seller, including sold out ones.
func (srv *productService) ListMine(ctx context.Context, sellerID uuid.UUID) ([]*entity.Product, error) {
	products, err := srv.productRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list seller products")
	}

	return products, nil
}

// Update replaces the listing fields. Only the owner may edit.
func (srv *productService) Update(ctx context.Context, sellerID, productID uuid.UUID, input *usecase.ProductInput) (*entity.Product, error) {
	var product *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()

		var err error
		product, err = findOwnedProduct(ctx, productRepo, sellerID, productID)
		if err != nil {
			return err
		}
		srv.apply(product, input)

		return errors.Wrap(productRepo.Update(ctx, product), "failed to update product")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute update product transaction")
	}

	return product, nil
}

// Delete removes the listing and decrements the seller's listed item counter.
func (srv *productService) Delete(ctx context.Context, sellerID, productID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()
		if _, err := findOwnedProduct(ctx, productRepo, sellerID, productID); err != nil {
			return err
		}

		if err := productRepo.Delete(ctx, productID); err != nil {
			return errors.Wrap(err, "failed to delete product")
		}

		return errors.Wrap(repoFactory.NewUserRepository().AddStats(ctx, sellerID, entity.SellerStats{ListedItems: -1}), "failed to update listed items")
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute delete product transaction")
	}

	srv.log(ctx).Info("Product deleted", slog.Any("productID", productID), slog.Any("sellerID", sellerID))

	return nil
}

// List returns public listings. Paging is clamped to a sane window.
func (srv *productService) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Limit <= 0 {
		filter.Limit = defaultProductPageSize
	}
	if filter.Limit > maxProductPageSize {
		filter.Limit = maxProductPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// Get returns one product.
func (srv *productService) Get(ctx context.Context, productID uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

func (srv *productService) apply(product *entity.Product, input *usecase.ProductInput) {
	product.Name = srv.sanitizer.Sanitize(input.Name)
	product.Description = srv.sanitizer.Sanitize(input.Description)
	product.Category = strings.TrimSpace(input.Category)
	product.Price = input.Price
	product.Unit = strings.TrimSpace(input.Unit)
	product.Quantity = input.Quantity
	product.Location = strings.TrimSpace(input.Location)
	product.HarvestDate = input.HarvestDate
	product.ExpiryDate = input.ExpiryDate
	product.DeliveryOptions = strings.TrimSpace(input.DeliveryOptions)
	product.ImageURL = input.ImageURL
	product.VideoURL = input.VideoURL
	product.Offer = srv.sanitizer.Sanitize(input.Offer)
}

func findOwnedProduct(ctx context.Context, productRepo repository.ProductRepository, sellerID, productID uuid.UUID) (*entity.Product, error) {
	product, err := productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product")
	}
	if product.SellerID != sellerID {
		return nil, domainerrors.ErrProductOwnershipViolation
	}

	return product, nil
}
