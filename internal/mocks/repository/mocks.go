// Package repository provides testify mocks of the repository interfaces.
package repository

import (
	"context"
	"time"

	"agrimarket/internal/domain/entity"
	"agrimarket/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTransactionManager is a testify mock of repository.TransactionManager.
type MockTransactionManager struct {
	mock.Mock
}

// NewMockTransactionManager creates a MockTransactionManager whose expectations are asserted when the test ends.
func NewMockTransactionManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTransactionManager {
	m := &MockTransactionManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Execute runs fn against the factory passed to Return, or returns the error passed to Return.
func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)
	if factory, ok := args.Get(0).(repository.RepositoryFactory); ok {
		return fn(factory)
	}

	return args.Error(0)
}

// MockRepositoryFactory is a testify mock of repository.RepositoryFactory.
type MockRepositoryFactory struct {
	mock.Mock
}

// NewMockRepositoryFactory creates a MockRepositoryFactory whose expectations are asserted when the test ends.
func NewMockRepositoryFactory(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepositoryFactory {
	m := &MockRepositoryFactory{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRepositoryFactory) NewUserRepository() repository.UserRepository {
	args := m.Called()
	r0, _ := args.Get(0).(repository.UserRepository)

	return r0
}

func (m *MockRepositoryFactory) NewProfileRepository() repository.ProfileRepository {
	args := m.Called()
	r0, _ := args.Get(0).(repository.ProfileRepository)

	return r0
}

func (m *MockRepositoryFactory) NewProductRepository() repository.ProductRepository {
	args := m.Called()
	r0, _ := args.Get(0).(repository.ProductRepository)

	return r0
}

func (m *MockRepositoryFactory) NewCartRepository() repository.CartRepository {
	args := m.Called()
	r0, _ := args.Get(0).(repository.CartRepository)

	return r0
}

func (m *MockRepositoryFactory) NewOrderRepository() repository.OrderRepository {
	args := m.Called()
	r0, _ := args.Get(0).(repository.OrderRepository)

	return r0
}

func (m *MockRepositoryFactory) NewNotificationRepository() repository.NotificationRepository {
	args := m.Called()
	r0, _ := args.Get(0).(repository.NotificationRepository)

	return r0
}

func (m *MockRepositoryFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	args := m.Called()
	r0, _ := args.Get(0).(repository.RefreshTokenRepository)

	return r0
}

func (m *MockRepositoryFactory) NewDeviceRepository() repository.DeviceRepository {
	args := m.Called()
	r0, _ := args.Get(0).(repository.DeviceRepository)

	return r0
}

// MockUserRepository is a testify mock of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a MockUserRepository whose expectations are asserted when the test ends.
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(*entity.User)

	return r0, args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	args := m.Called(ctx, ids)
	r0, _ := args.Get(0).(map[uuid.UUID]*entity.User)

	return r0, args.Error(1)
}

func (m *MockUserRepository) FindByEmailAndType(ctx context.Context, email string, userType entity.UserType) (*entity.User, error) {
	args := m.Called(ctx, email, userType)
	r0, _ := args.Get(0).(*entity.User)

	return r0, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *MockUserRepository) AddStats(ctx context.Context, id uuid.UUID, delta entity.SellerStats) error {
	args := m.Called(ctx, id, delta)

	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockProfileRepository is a testify mock of repository.ProfileRepository.
type MockProfileRepository struct {
	mock.Mock
}

// NewMockProfileRepository creates a MockProfileRepository whose expectations are asserted when the test ends.
func NewMockProfileRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProfileRepository {
	m := &MockProfileRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	args := m.Called(ctx, userID)
	r0, _ := args.Get(0).(*entity.Profile)

	return r0, args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	args := m.Called(ctx, profile)

	return args.Error(0)
}

func (m *MockProfileRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

// MockProductRepository is a testify mock of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

// NewMockProductRepository creates a MockProductRepository whose expectations are asserted when the test ends.
func NewMockProductRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProductRepository {
	m := &MockProductRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(*entity.Product)

	return r0, args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	args := m.Called(ctx, filter)
	r0, _ := args.Get(0).([]*entity.Product)

	return r0, args.Error(1)
}

func (m *MockProductRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Product, error) {
	args := m.Called(ctx, sellerID)
	r0, _ := args.Get(0).([]*entity.Product)

	return r0, args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockProductRepository) DeleteBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, sellerID)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)

	return args.Error(0)
}

// MockCartRepository is a testify mock of repository.CartRepository.
type MockCartRepository struct {
	mock.Mock
}

// NewMockCartRepository creates a MockCartRepository whose expectations are asserted when the test ends.
func NewMockCartRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCartRepository {
	m := &MockCartRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCartRepository) FindItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*entity.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	r0, _ := args.Get(0).(*entity.CartItem)

	return r0, args.Error(1)
}

func (m *MockCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error) {
	args := m.Called(ctx, userID)
	r0, _ := args.Get(0).([]*entity.CartItem)

	return r0, args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, item *entity.CartItem) error {
	args := m.Called(ctx, item)

	return args.Error(0)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)

	return args.Error(0)
}

func (m *MockCartRepository) DeleteItems(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) error {
	args := m.Called(ctx, userID, productIDs)

	return args.Error(0)
}

func (m *MockCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

// MockOrderRepository is a testify mock of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

// NewMockOrderRepository creates a MockOrderRepository whose expectations are asserted when the test ends.
func NewMockOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOrderRepository {
	m := &MockOrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOrderRepository) CreateBatch(ctx context.Context, orders []*entity.Order) error {
	args := m.Called(ctx, orders)

	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(*entity.Order)

	return r0, args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(*entity.Order)

	return r0, args.Error(1)
}

func (m *MockOrderRepository) ListByGroup(ctx context.Context, groupID string) ([]*entity.Order, error) {
	args := m.Called(ctx, groupID)
	r0, _ := args.Get(0).([]*entity.Order)

	return r0, args.Error(1)
}

func (m *MockOrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.Order, error) {
	args := m.Called(ctx, buyerID)
	r0, _ := args.Get(0).([]*entity.Order)

	return r0, args.Error(1)
}

func (m *MockOrderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error) {
	args := m.Called(ctx, sellerID)
	r0, _ := args.Get(0).([]*entity.Order)

	return r0, args.Error(1)
}

func (m *MockOrderRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from entity.OrderStatus, to entity.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)

	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) CountAcceptedBetween(ctx context.Context, sellerID uuid.UUID, buyerID uuid.UUID, exclude uuid.UUID) (int64, error) {
	args := m.Called(ctx, sellerID, buyerID, exclude)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}

// MockNotificationRepository is a testify mock of repository.NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

// NewMockNotificationRepository creates a MockNotificationRepository whose expectations are asserted when the test ends.
func NewMockNotificationRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotificationRepository {
	m := &MockNotificationRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifications []*entity.Notification) error {
	args := m.Called(ctx, notifications)

	return args.Error(0)
}

func (m *MockNotificationRepository) Upsert(ctx context.Context, notification *entity.Notification) error {
	args := m.Called(ctx, notification)

	return args.Error(0)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(*entity.Notification)

	return r0, args.Error(1)
}

func (m *MockNotificationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, audience entity.NotificationAudience) ([]*entity.Notification, error) {
	args := m.Called(ctx, ownerID, audience)
	r0, _ := args.Get(0).([]*entity.Notification)

	return r0, args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, ownerID uuid.UUID, audience entity.NotificationAudience) (int64, error) {
	args := m.Called(ctx, ownerID, audience)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}

func (m *MockNotificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.NotificationStatus) error {
	args := m.Called(ctx, id, status)

	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockRefreshTokenRepository is a testify mock of repository.RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mock.Mock
}

// NewMockRefreshTokenRepository creates a MockRefreshTokenRepository whose expectations are asserted when the test ends.
func NewMockRefreshTokenRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRefreshTokenRepository {
	m := &MockRefreshTokenRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRefreshTokenRepository) ReplaceRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindRefreshTokenByUserID(ctx context.Context, userID uuid.UUID) (*entity.RefreshToken, error) {
	args := m.Called(ctx, userID)
	r0, _ := args.Get(0).(*entity.RefreshToken)

	return r0, args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}

// MockDeviceRepository is a testify mock of repository.DeviceRepository.
type MockDeviceRepository struct {
	mock.Mock
}

// NewMockDeviceRepository creates a MockDeviceRepository whose expectations are asserted when the test ends.
func NewMockDeviceRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDeviceRepository {
	m := &MockDeviceRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockDeviceRepository) CreateDevice(ctx context.Context, device *entity.UserDevice) error {
	args := m.Called(ctx, device)

	return args.Error(0)
}

func (m *MockDeviceRepository) FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.UserDevice, error) {
	args := m.Called(ctx, id)
	r0, _ := args.Get(0).(*entity.UserDevice)

	return r0, args.Error(1)
}

func (m *MockDeviceRepository) FindDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	args := m.Called(ctx, userID)
	r0, _ := args.Get(0).([]*entity.UserDevice)

	return r0, args.Error(1)
}

func (m *MockDeviceRepository) FindActiveDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	args := m.Called(ctx, userID)
	r0, _ := args.Get(0).([]*entity.UserDevice)

	return r0, args.Error(1)
}

func (m *MockDeviceRepository) UpdateFCMToken(ctx context.Context, deviceID uuid.UUID, fcmToken string) error {
	args := m.Called(ctx, deviceID, fcmToken)

	return args.Error(0)
}

func (m *MockDeviceRepository) DeactivateTokens(ctx context.Context, userID uuid.UUID, tokens []string) (int64, error) {
	args := m.Called(ctx, userID, tokens)
	r0, _ := args.Get(0).(int64)

	return r0, args.Error(1)
}

func (m *MockDeviceRepository) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockDeviceRepository) DeleteDevicesByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

// MockOTPRepository is a testify mock of repository.OTPRepository.
type MockOTPRepository struct {
	mock.Mock
}

// NewMockOTPRepository creates a MockOTPRepository whose expectations are asserted when the test ends.
func NewMockOTPRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOTPRepository {
	m := &MockOTPRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOTPRepository) Save(ctx context.Context, otp *entity.OneTimePassword) error {
	args := m.Called(ctx, otp)

	return args.Error(0)
}

func (m *MockOTPRepository) Consume(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose, codeHash string) (bool, error) {
	args := m.Called(ctx, userID, purpose, codeHash)

	return args.Bool(0), args.Error(1)
}

// MockActionGrantRepository is a testify mock of repository.ActionGrantRepository.
type MockActionGrantRepository struct {
	mock.Mock
}

// NewMockActionGrantRepository creates a MockActionGrantRepository whose expectations are asserted when the test ends.
func NewMockActionGrantRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockActionGrantRepository {
	m := &MockActionGrantRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockActionGrantRepository) Grant(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, userID, ttl)

	return args.Error(0)
}

func (m *MockActionGrantRepository) HasGrant(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)

	return args.Bool(0), args.Error(1)
}

func (m *MockActionGrantRepository) Revoke(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

// MockMessageRepository is a testify mock of repository.MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

// NewMockMessageRepository creates a MockMessageRepository whose expectations are asserted when the test ends.
func NewMockMessageRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMessageRepository {
	m := &MockMessageRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	args := m.Called(ctx, message)

	return args.Error(0)
}

func (m *MockMessageRepository) ListConversation(ctx context.Context, groupID string, userID uuid.UUID, limit int) ([]*entity.Message, error) {
	args := m.Called(ctx, groupID, userID, limit)
	r0, _ := args.Get(0).([]*entity.Message)

	return r0, args.Error(1)
}
