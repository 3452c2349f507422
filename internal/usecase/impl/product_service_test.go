package impl

import (
	"context"
	"testing"

	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/repository"
	mockRepo "agrimarket/internal/mocks/repository"
	"agrimarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productServiceFixtures struct {
	service     usecase.ProductUsecase
	txManager   *mockRepo.MockTransactionManager
	repoFactory *mockRepo.MockRepositoryFactory
	userRepo    *mockRepo.MockUserRepository
	productRepo *mockRepo.MockProductRepository
}

func createTestProductService(t *testing.T) productServiceFixtures {
	f := productServiceFixtures{
		txManager:   mockRepo.NewMockTransactionManager(t),
		repoFactory: mockRepo.NewMockRepositoryFactory(t),
		userRepo:    mockRepo.NewMockUserRepository(t),
		productRepo: mockRepo.NewMockProductRepository(t),
	}
	f.service = NewProductService(ProductServiceParams{
		TxManager:   f.txManager,
		ProductRepo: f.productRepo,
		Sanitizer:   trimSanitizer{},
		Logger:      newDiscardLogger(),
	})

	return f
}

func (f productServiceFixtures) inTransaction() {
	f.txManager.On("Execute", mock.Anything, mock.Anything).Return(f.repoFactory)
	f.repoFactory.On("NewUserRepository").Return(f.userRepo).Maybe()
	f.repoFactory.On("NewProductRepository").Return(f.productRepo).Maybe()
}

func newProductInput() *usecase.ProductInput {
	return &usecase.ProductInput{
		Name:     " Basmati Rice ",
		Category: "grains",
		Price:    80,
		Unit:     "kg",
		Quantity: 50,
		Location: "Karnal",
	}
}

func TestProductService_Submit(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	seller := newTestUser(entity.UserTypeProducer)
	fx.inTransaction()

	fx.userRepo.On("FindByID", ctx, seller.ID).Return(seller, nil)
	fx.productRepo.On("Create", ctx, mock.MatchedBy(func(p *entity.Product) bool {
		return p.SellerID == seller.ID && p.Name == "Basmati Rice" && p.Quantity == 50
	})).Return(nil)
	fx.userRepo.On("AddStats", ctx, seller.ID, entity.SellerStats{ListedItems: 1}).Return(nil)

	product, err := fx.service.Submit(ctx, seller.ID, newProductInput())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, product.ID)
}

func TestProductService_Submit_ConsumerRejected(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	buyer := newTestUser(entity.UserTypeConsumer)
	fx.inTransaction()

	fx.userRepo.On("FindByID", ctx, buyer.ID).Return(buyer, nil)

	_, err := fx.service.Submit(ctx, buyer.ID, newProductInput())

	assert.ErrorIs(t, err, domainerrors.ErrProducerOnly)
	fx.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_Update_OwnerOnly(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	product := &entity.Product{ID: uuid.New(), SellerID: uuid.New(), Name: "Wheat"}
	fx.inTransaction()

	fx.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

	_, err := fx.service.Update(ctx, uuid.New(), product.ID, newProductInput())

	assert.ErrorIs(t, err, domainerrors.ErrProductOwnershipViolation)
	fx.productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductService_Update(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	sellerID := uuid.New()
	product := &entity.Product{ID: uuid.New(), SellerID: sellerID, Name: "Wheat"}
	fx.inTransaction()

	fx.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.productRepo.On("Update", ctx, product).Return(nil)

	updated, err := fx.service.Update(ctx, sellerID, product.ID, newProductInput())

	require.NoError(t, err)
	assert.Equal(t, "Basmati Rice", updated.Name)
	assert.Equal(t, sellerID, updated.SellerID)
}

func TestProductService_Delete(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	sellerID := uuid.New()
	product := &entity.Product{ID: uuid.New(), SellerID: sellerID}
	fx.inTransaction()

	fx.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	fx.productRepo.On("Delete", ctx, product.ID).Return(nil)
	fx.userRepo.On("AddStats", ctx, sellerID, entity.SellerStats{ListedItems: -1}).Return(nil)

	require.NoError(t, fx.service.Delete(ctx, sellerID, product.ID))
}

func TestProductService_Delete_Missing(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	productID := uuid.New()
	fx.inTransaction()

	fx.productRepo.On("FindByID", ctx, productID).Return(nil, repository.ErrProductNotFound)

	err := fx.service.Delete(ctx, uuid.New(), productID)

	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestProductService_List_ClampsPaging(t *testing.T) {
	tests := []struct {
		name      string
		filter    entity.ProductFilter
		wantLimit int
	}{
		{name: "default", filter: entity.ProductFilter{}, wantLimit: defaultProductPageSize},
		{name: "too large", filter: entity.ProductFilter{Limit: 1000}, wantLimit: maxProductPageSize},
		{name: "within range", filter: entity.ProductFilter{Limit: 5, Offset: -3}, wantLimit: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestProductService(t)

			fx.productRepo.On("List", mock.Anything, mock.MatchedBy(func(f entity.ProductFilter) bool {
				return f.Limit == tt.wantLimit && f.Offset >= 0
			})).Return([]*entity.Product{}, nil)

			products, err := fx.service.List(context.Background(), tt.filter)

			require.NoError(t, err)
			assert.Empty(t, products)
		})
	}
}

func TestProductService_Get_NotFound(t *testing.T) {
	fx := createTestProductService(t)
	productID := uuid.New()

	fx.productRepo.On("FindByID", mock.Anything, productID).Return(nil, repository.ErrProductNotFound)

	_, err := fx.service.Get(context.Background(), productID)

	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}
