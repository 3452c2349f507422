package impl

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"agrimarket/internal/domain/constants"
	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/domain/service"
	mockRepo "agrimarket/internal/mocks/repository"
	mockSvc "agrimarket/internal/mocks/service"
	"agrimarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// marketStore is an in-memory stand-in for the products, orders and notifications tables.
// It enforces the same guards as the SQL repositories: conditional stock decrement,
// compare-and-set status transitions and one notification per (order, audience).
type marketStore struct {
	mu            sync.Mutex
	products      map[uuid.UUID]*entity.Product
	orders        map[uuid.UUID]*entity.Order
	notifications map[string]*entity.Notification
}

func newMarketStore(products ...*entity.Product) *marketStore {
	s := &marketStore{
		products:      make(map[uuid.UUID]*entity.Product),
		orders:        make(map[uuid.UUID]*entity.Order),
		notifications: make(map[string]*entity.Notification),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}

	return s
}

func (s *marketStore) notificationsFor(orderID uuid.UUID) []*entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*entity.Notification
	for _, n := range s.notifications {
		if n.OrderID == orderID {
			out = append(out, n)
		}
	}

	return out
}

type memoryProductRepo struct {
	repository.ProductRepository
	s *marketStore
}

func (r memoryProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p

	return &cp, nil
}

func (r memoryProductRepo) DecrementStock(_ context.Context, id uuid.UUID, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok || p.Quantity < quantity {
		return repository.ErrInsufficientStock
	}
	p.Quantity -= quantity

	return nil
}

type memoryOrderRepo struct {
	repository.OrderRepository
	s *marketStore
}

func (r memoryOrderRepo) CreateBatch(_ context.Context, orders []*entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, o := range orders {
		cp := *o
		r.s.orders[o.ID] = &cp
	}

	return nil
}

func (r memoryOrderRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o

	return &cp, nil
}

func (r memoryOrderRepo) filter(keep func(*entity.Order) bool) []*entity.Order {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Order
	for _, o := range r.s.orders {
		if keep(o) {
			cp := *o
			out = append(out, &cp)
		}
	}

	return out
}

func (r memoryOrderRepo) ListByGroup(_ context.Context, groupID string) ([]*entity.Order, error) {
	return r.filter(func(o *entity.Order) bool { return o.OrderGroupID == groupID }), nil
}

func (r memoryOrderRepo) ListBySeller(_ context.Context, sellerID uuid.UUID) ([]*entity.Order, error) {
	return r.filter(func(o *entity.Order) bool { return o.SellerID == sellerID }), nil
}

func (r memoryOrderRepo) ListByBuyer(_ context.Context, buyerID uuid.UUID) ([]*entity.Order, error) {
	return r.filter(func(o *entity.Order) bool { return o.BuyerID == buyerID }), nil
}

func (r memoryOrderRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to entity.OrderStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to

	return true, nil
}

func (r memoryOrderRepo) CountAcceptedBetween(_ context.Context, sellerID, buyerID, exclude uuid.UUID) (int64, error) {
	n := len(r.filter(func(o *entity.Order) bool {
		return o.SellerID == sellerID && o.BuyerID == buyerID && o.ID != exclude &&
			(o.Status == entity.OrderStatusAccepted || o.Status == entity.OrderStatusConfirmed)
	}))

	return int64(n), nil
}

type memoryNotificationRepo struct {
	repository.NotificationRepository
	s *marketStore
}

func notificationKey(n *entity.Notification) string {
	return n.OrderID.String() + "/" + string(n.Audience)
}

func (r memoryNotificationRepo) CreateBatch(_ context.Context, notifications []*entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, n := range notifications {
		cp := *n
		r.s.notifications[notificationKey(n)] = &cp
	}

	return nil
}

func (r memoryNotificationRepo) Upsert(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.notifications[notificationKey(n)]; ok {
		existing.Status = n.Status
		existing.Message = n.Message

		return nil
	}
	cp := *n
	r.s.notifications[notificationKey(n)] = &cp

	return nil
}

type orderServiceFixtures struct {
	service     *orderService
	store       *marketStore
	txManager   *mockRepo.MockTransactionManager
	repoFactory *mockRepo.MockRepositoryFactory
	userRepo    *mockRepo.MockUserRepository
	cartRepo    *mockRepo.MockCartRepository
	publisher   *mockSvc.MockEventPublisher
	qrService   *mockSvc.MockQRCodeService
	metrics     *mockSvc.MockMarketMetrics
}

func createTestOrderService(t *testing.T, products ...*entity.Product) orderServiceFixtures {
	store := newMarketStore(products...)
	f := orderServiceFixtures{
		store:       store,
		txManager:   mockRepo.NewMockTransactionManager(t),
		repoFactory: mockRepo.NewMockRepositoryFactory(t),
		userRepo:    mockRepo.NewMockUserRepository(t),
		cartRepo:    mockRepo.NewMockCartRepository(t),
		publisher:   mockSvc.NewMockEventPublisher(t),
		qrService:   mockSvc.NewMockQRCodeService(t),
		metrics:     mockSvc.NewMockMarketMetrics(t),
	}

	svc, ok := NewOrderService(OrderServiceParams{
		TxManager: f.txManager,
		UserRepo:  f.userRepo,
		OrderRepo: memoryOrderRepo{s: store},
		CartRepo:  f.cartRepo,
		Publisher: f.publisher,
		QRService: f.qrService,
		Metrics:   f.metrics,
		Logger:    newDiscardLogger(),
	}).(*orderService)
	require.True(t, ok)
	svc.now = fixedNow
	f.service = svc

	f.txManager.On("Execute", mock.Anything, mock.Anything).Return(f.repoFactory).Maybe()
	f.repoFactory.On("NewProductRepository").Return(memoryProductRepo{s: store}).Maybe()
	f.repoFactory.On("NewOrderRepository").Return(memoryOrderRepo{s: store}).Maybe()
	f.repoFactory.On("NewNotificationRepository").Return(memoryNotificationRepo{s: store}).Maybe()
	f.repoFactory.On("NewUserRepository").Return(f.userRepo).Maybe()

	return f
}

// seedOrder stores a pending line and returns it.
func (f orderServiceFixtures) seedOrder(product *entity.Product, buyerID uuid.UUID, quantity int) *entity.Order {
	order := &entity.Order{
		ID:           uuid.New(),
		OrderGroupID: "ORD-20261015-ABCDEF",
		ProductID:    product.ID,
		BuyerID:      buyerID,
		SellerID:     product.SellerID,
		ProductName:  product.Name,
		UnitPrice:    product.Price,
		Quantity:     quantity,
		TotalPrice:   product.Price * float64(quantity),
		Status:       entity.OrderStatusPending,
	}
	_ = memoryOrderRepo{s: f.store}.CreateBatch(context.Background(), []*entity.Order{order})

	return order
}

func (f orderServiceFixtures) stockOf(id uuid.UUID) int {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	return f.store.products[id].Quantity
}

func (f orderServiceFixtures) statusOf(id uuid.UUID) entity.OrderStatus {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	return f.store.orders[id].Status
}

func newTestProduct(sellerID uuid.UUID, name string, price float64, quantity int) *entity.Product {
	return &entity.Product{ID: uuid.New(), SellerID: sellerID, Name: name, Price: price, Unit: "kg", Quantity: quantity}
}

var groupIDPattern = regexp.MustCompile(`^ORD-20261015-[A-Z2-9]{6}$`)

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	buyer := newTestUser(entity.UserTypeConsumer)
	sellerA, sellerB := uuid.New(), uuid.New()
	rice := newTestProduct(sellerA, "Rice", 40, 10)
	dal := newTestProduct(sellerB, "Dal", 95.5, 4)
	fx := createTestOrderService(t, rice, dal)
	ctx := context.Background()

	fx.userRepo.On("FindByID", ctx, buyer.ID).Return(buyer, nil)
	fx.cartRepo.On("DeleteItems", ctx, buyer.ID, []uuid.UUID{rice.ID, dal.ID}).Return(nil)
	fx.metrics.On("OrderLinesPlaced", 2).Return()
	var events []*service.OrderEvent
	fx.publisher.On("PublishOrderEvent", ctx, mock.AnythingOfType("*service.OrderEvent")).
		Run(func(args mock.Arguments) { events = append(events, args.Get(1).(*service.OrderEvent)) }).
		Return(nil)

	output, err := fx.service.PlaceOrder(ctx, buyer.ID, &usecase.PlaceOrderInput{
		Lines: []usecase.OrderLineInput{
			{ProductID: rice.ID, Quantity: 2, Price: 40},
			{ProductID: dal.ID, Quantity: 1, Price: 95.5},
			{ProductID: rice.ID, Quantity: 1, Price: 40},
		},
		TotalAmount:     215.5,
		DeliveryAddress: "12 MG Road, Pune",
		PaymentMethod:   entity.PaymentMethodCOD,
	})

	require.NoError(t, err)
	assert.Regexp(t, groupIDPattern, output.OrderGroupID)
	assert.InDelta(t, 215.5, output.TotalAmount, 0.001)
	require.Len(t, output.Orders, 2)
	assert.Equal(t, 3, output.Orders[0].Quantity)
	assert.Len(t, fx.store.orders, 2)
	assert.Len(t, fx.store.notifications, 2)
	for _, n := range fx.store.notifications {
		assert.Equal(t, entity.AudienceSeller, n.Audience)
		assert.Equal(t, output.OrderGroupID, n.OrderGroupID)
	}

	// placing an order reserves nothing; stock moves on acceptance
	assert.Equal(t, 10, fx.stockOf(rice.ID))

	require.Len(t, events, 2)
	recipients := []string{events[0].RecipientID, events[1].RecipientID}
	assert.ElementsMatch(t, []string{sellerA.String(), sellerB.String()}, recipients)
	assert.Equal(t, constants.EventOrderPlaced, events[0].Type)
}

func TestOrderService_PlaceOrder_InsufficientStockWritesNothing(t *testing.T) {
	buyer := newTestUser(entity.UserTypeConsumer)
	onions := newTestProduct(uuid.New(), "Onion", 30, 2)
	fx := createTestOrderService(t, onions)
	ctx := context.Background()

	fx.userRepo.On("FindByID", ctx, buyer.ID).Return(buyer, nil)

	_, err := fx.service.PlaceOrder(ctx, buyer.ID, &usecase.PlaceOrderInput{
		Lines:           []usecase.OrderLineInput{{ProductID: onions.ID, Quantity: 3, Price: 30}},
		TotalAmount:     90,
		DeliveryAddress: "Nashik",
		PaymentMethod:   entity.PaymentMethodCOD,
	})

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.HTTPCode())
	assert.Equal(t, "Insufficient stock for Onion", appErr.Message())
	assert.Empty(t, fx.store.orders)
	assert.Empty(t, fx.store.notifications)
	fx.publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
	fx.cartRepo.AssertNotCalled(t, "DeleteItems", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_RejectedBeforeAnyWrite(t *testing.T) {
	buyer := newTestUser(entity.UserTypeConsumer)
	wheat := newTestProduct(uuid.New(), "Wheat", 25, 100)

	tests := []struct {
		name    string
		input   *usecase.PlaceOrderInput
		wantErr error
	}{
		{
			name: "total mismatch",
			input: &usecase.PlaceOrderInput{
				Lines:       []usecase.OrderLineInput{{ProductID: wheat.ID, Quantity: 4, Price: 20}},
				TotalAmount: 80, DeliveryAddress: "Indore", PaymentMethod: entity.PaymentMethodOnline,
			},
			wantErr: domainerrors.ErrTotalMismatch,
		},
		{
			name: "unknown product",
			input: &usecase.PlaceOrderInput{
				Lines: []usecase.OrderLineInput{
					{ProductID: wheat.ID, Quantity: 1, Price: 25},
					{ProductID: uuid.New(), Quantity: 1, Price: 10},
				},
				TotalAmount: 35, DeliveryAddress: "Indore", PaymentMethod: entity.PaymentMethodCOD,
			},
			wantErr: domainerrors.ErrOrderProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestOrderService(t, wheat)
			fx.userRepo.On("FindByID", mock.Anything, buyer.ID).Return(buyer, nil)

			_, err := fx.service.PlaceOrder(context.Background(), buyer.ID, tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, fx.store.orders)
			assert.Empty(t, fx.store.notifications)
		})
	}
}

func TestOrderService_PlaceOrder_InputValidation(t *testing.T) {
	fx := createTestOrderService(t)

	_, err := fx.service.PlaceOrder(context.Background(), uuid.New(), &usecase.PlaceOrderInput{PaymentMethod: entity.PaymentMethodCOD})
	assert.ErrorIs(t, err, domainerrors.ErrEmptyCart)

	_, err = fx.service.PlaceOrder(context.Background(), uuid.New(), &usecase.PlaceOrderInput{
		Lines:         []usecase.OrderLineInput{{ProductID: uuid.New(), Quantity: 1}},
		PaymentMethod: "barter",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestOrderService_ActOnOrder_AcceptDecrementsStockExactlyOnce(t *testing.T) {
	buyer := newTestUser(entity.UserTypeConsumer)
	seller := newTestUser(entity.UserTypeProducer)
	mango := newTestProduct(seller.ID, "Mango", 120, 10)
	fx := createTestOrderService(t, mango)
	ctx := context.Background()
	order := fx.seedOrder(mango, buyer.ID, 3)

	fx.userRepo.On("AddStats", ctx, seller.ID, entity.SellerStats{QuantitySold: 3, MonthlyIncome: 360, BuyersCount: 1}).Return(nil).Once()
	fx.userRepo.On("FindByIDs", ctx, []uuid.UUID{buyer.ID, seller.ID}).
		Return(map[uuid.UUID]*entity.User{buyer.ID: buyer, seller.ID: seller}, nil).Once()
	fx.metrics.On("OrderActioned", "accepted").Return().Once()
	fx.publisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e *service.OrderEvent) bool {
		return e.Type == constants.EventOrderAccepted && e.RecipientID == buyer.ID.String()
	})).Return(nil).Once()

	accepted, err := fx.service.ActOnOrder(ctx, seller.ID, order.ID, entity.OrderActionAccept)

	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusAccepted, accepted.Status)
	assert.Equal(t, 7, fx.stockOf(mango.ID))
	assert.Equal(t, entity.OrderStatusAccepted, fx.statusOf(order.ID))

	notifications := fx.store.notificationsFor(order.ID)
	require.Len(t, notifications, 2)
	audiences := []entity.NotificationAudience{notifications[0].Audience, notifications[1].Audience}
	assert.ElementsMatch(t, []entity.NotificationAudience{entity.AudienceBuyer, entity.AudienceSeller}, audiences)

	_, err = fx.service.ActOnOrder(ctx, seller.ID, order.ID, entity.OrderActionAccept)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.HTTPCode())
	assert.Equal(t, 7, fx.stockOf(mango.ID))
	assert.Len(t, fx.store.notificationsFor(order.ID), 2)
}

func TestOrderService_ActOnOrder_InsufficientStockRollsBack(t *testing.T) {
	buyer := newTestUser(entity.UserTypeConsumer)
	sellerID := uuid.New()
	mango := newTestProduct(sellerID, "Mango", 120, 1)
	fx := createTestOrderService(t, mango)
	order := fx.seedOrder(mango, buyer.ID, 3)

	_, err := fx.service.ActOnOrder(context.Background(), sellerID, order.ID, entity.OrderActionAccept)

	assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)
	assert.Equal(t, 1, fx.stockOf(mango.ID))
	assert.Equal(t, entity.OrderStatusPending, fx.statusOf(order.ID))
	assert.Empty(t, fx.store.notificationsFor(order.ID))
}

func TestOrderService_ActOnOrder_DeclineLeavesStock(t *testing.T) {
	buyer := newTestUser(entity.UserTypeConsumer)
	seller := newTestUser(entity.UserTypeProducer)
	mango := newTestProduct(seller.ID, "Mango", 120, 10)
	fx := createTestOrderService(t, mango)
	ctx := context.Background()
	order := fx.seedOrder(mango, buyer.ID, 3)

	fx.userRepo.On("FindByIDs", ctx, mock.Anything).Return(map[uuid.UUID]*entity.User{buyer.ID: buyer, seller.ID: seller}, nil)
	fx.metrics.On("OrderActioned", "declined").Return()
	fx.metrics.On("EventPublishFailed", constants.EventOrderDeclined).Return()
	fx.publisher.On("PublishOrderEvent", ctx, mock.Anything).Return(errors.New("topic not found"))

	declined, err := fx.service.ActOnOrder(ctx, seller.ID, order.ID, entity.OrderActionDecline)

	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDeclined, declined.Status)
	assert.Equal(t, 10, fx.stockOf(mango.ID))
	assert.Len(t, fx.store.notificationsFor(order.ID), 2)
	fx.userRepo.AssertNotCalled(t, "AddStats", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_ActOnOrder_Guards(t *testing.T) {
	buyerID, sellerID := uuid.New(), uuid.New()
	mango := newTestProduct(sellerID, "Mango", 120, 10)

	t.Run("invalid action", func(t *testing.T) {
		fx := createTestOrderService(t, mango)
		_, err := fx.service.ActOnOrder(context.Background(), sellerID, uuid.New(), "shipped")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidOrderAction)
	})

	t.Run("unknown order", func(t *testing.T) {
		fx := createTestOrderService(t, mango)
		_, err := fx.service.ActOnOrder(context.Background(), sellerID, uuid.New(), entity.OrderActionAccept)
		assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
	})

	t.Run("not the seller", func(t *testing.T) {
		fx := createTestOrderService(t, mango)
		order := fx.seedOrder(mango, buyerID, 1)

		_, err := fx.service.ActOnOrder(context.Background(), buyerID, order.ID, entity.OrderActionAccept)

		assert.ErrorIs(t, err, domainerrors.ErrOrderAccessDenied)
		assert.Equal(t, 10, fx.stockOf(mango.ID))
	})
}

func TestOrderService_ConfirmOrder(t *testing.T) {
	buyer := newTestUser(entity.UserTypeConsumer)
	sellerID := uuid.New()
	mango := newTestProduct(sellerID, "Mango", 120, 10)

	t.Run("accepted lines become confirmed", func(t *testing.T) {
		fx := createTestOrderService(t, mango)
		ctx := context.Background()
		accepted := fx.seedOrder(mango, buyer.ID, 1)
		pending := fx.seedOrder(mango, buyer.ID, 2)
		fx.store.orders[accepted.ID].Status = entity.OrderStatusAccepted

		fx.metrics.On("OrderActioned", "confirmed").Return()
		fx.publisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e *service.OrderEvent) bool {
			return e.Type == constants.EventOrderConfirm && e.RecipientID == sellerID.String()
		})).Return(nil).Once()

		confirmed, err := fx.service.ConfirmOrder(ctx, buyer.ID, accepted.OrderGroupID)

		require.NoError(t, err)
		require.Len(t, confirmed, 1)
		assert.Equal(t, entity.OrderStatusConfirmed, fx.statusOf(accepted.ID))
		assert.Equal(t, entity.OrderStatusPending, fx.statusOf(pending.ID))
	})

	t.Run("nothing accepted yet", func(t *testing.T) {
		fx := createTestOrderService(t, mango)
		order := fx.seedOrder(mango, buyer.ID, 1)

		_, err := fx.service.ConfirmOrder(context.Background(), buyer.ID, order.OrderGroupID)

		assert.ErrorIs(t, err, domainerrors.ErrOrderNotActionable)
	})

	t.Run("group of another buyer", func(t *testing.T) {
		fx := createTestOrderService(t, mango)
		order := fx.seedOrder(mango, uuid.New(), 1)

		_, err := fx.service.ConfirmOrder(context.Background(), buyer.ID, order.OrderGroupID)

		assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
	})
}

func TestOrderService_ListMine_ScopedByUserType(t *testing.T) {
	buyer := newTestUser(entity.UserTypeConsumer)
	seller := newTestUser(entity.UserTypeProducer)
	seller.Username = "ramesh"
	mango := newTestProduct(seller.ID, "Mango", 120, 10)
	fx := createTestOrderService(t, mango)
	ctx := context.Background()
	fx.seedOrder(mango, buyer.ID, 1)
	fx.seedOrder(mango, uuid.New(), 1)

	fx.userRepo.On("FindByIDs", ctx, mock.Anything).Return(map[uuid.UUID]*entity.User{buyer.ID: buyer, seller.ID: seller}, nil)

	sellerView, err := fx.service.ListMine(ctx, seller.ID, entity.UserTypeProducer)
	require.NoError(t, err)
	assert.Len(t, sellerView, 2)

	buyerView, err := fx.service.ListMine(ctx, buyer.ID, entity.UserTypeConsumer)
	require.NoError(t, err)
	require.Len(t, buyerView, 1)
	assert.Equal(t, "ramesh", buyerView[0].SellerName)
	assert.Equal(t, "asha", buyerView[0].BuyerName)
}

func TestOrderService_VerifyPayment_IsUnsupported(t *testing.T) {
	fx := createTestOrderService(t)

	err := fx.service.VerifyPayment(context.Background(), uuid.New())

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.HTTPCode())
	assert.Equal(t, "Payment verification is not supported", appErr.Message())
}

func TestOrderService_PickupQRCode(t *testing.T) {
	buyerID, sellerID := uuid.New(), uuid.New()
	mango := newTestProduct(sellerID, "Mango", 120, 10)

	t.Run("participant", func(t *testing.T) {
		fx := createTestOrderService(t, mango)
		order := fx.seedOrder(mango, buyerID, 1)
		fx.qrService.On("GenerateOrderQR", order.OrderGroupID).Return([]byte{0x89, 'P', 'N', 'G'}, nil)

		png, err := fx.service.PickupQRCode(context.Background(), sellerID, order.OrderGroupID)

		require.NoError(t, err)
		assert.NotEmpty(t, png)
	})

	t.Run("outsider", func(t *testing.T) {
		fx := createTestOrderService(t, mango)
		order := fx.seedOrder(mango, buyerID, 1)

		_, err := fx.service.PickupQRCode(context.Background(), uuid.New(), order.OrderGroupID)

		assert.ErrorIs(t, err, domainerrors.ErrOrderAccessDenied)
	})

	t.Run("unknown group", func(t *testing.T) {
		fx := createTestOrderService(t, mango)

		_, err := fx.service.PickupQRCode(context.Background(), buyerID, "ORD-20261015-ZZZZZZ")

		assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
	})
}
