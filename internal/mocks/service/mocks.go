// Package service provides testify mocks of the domain service interfaces.
package service

import (
	"context"
	"time"

	"agrimarket/internal/domain/entity"
	"agrimarket/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a testify mock of service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a MockPasswordHasher whose expectations are asserted when the test ends.
func NewMockPasswordHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password string, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

// MockTokenService is a testify mock of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a MockTokenService whose expectations are asserted when the test ends.
func NewMockTokenService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenService {
	m := &MockTokenService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) GenerateTokens(user *entity.User) (string, string, error) {
	args := m.Called(user)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	r0, _ := args.Get(0).(*service.Claims)

	return r0, args.Error(1)
}

func (m *MockTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	r0, _ := args.Get(0).(*service.Claims)

	return r0, args.Error(1)
}

func (m *MockTokenService) GetAccessTokenDuration() time.Duration {
	args := m.Called()
	r0, _ := args.Get(0).(time.Duration)

	return r0
}

func (m *MockTokenService) GetRefreshTokenDuration() time.Duration {
	args := m.Called()
	r0, _ := args.Get(0).(time.Duration)

	return r0
}

// MockEventPublisher is a testify mock of service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// NewMockEventPublisher creates a MockEventPublisher whose expectations are asserted when the test ends.
func NewMockEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEventPublisher) PublishOrderEvent(ctx context.Context, event *service.OrderEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}

// MockMailer is a testify mock of service.Mailer.
type MockMailer struct {
	mock.Mock
}

// NewMockMailer creates a MockMailer whose expectations are asserted when the test ends.
func NewMockMailer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMailer {
	m := &MockMailer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMailer) Send(ctx context.Context, to string, subject string, body string) error {
	args := m.Called(ctx, to, subject, body)

	return args.Error(0)
}

// MockChatBroadcaster is a testify mock of service.ChatBroadcaster.
type MockChatBroadcaster struct {
	mock.Mock
}

// NewMockChatBroadcaster creates a MockChatBroadcaster whose expectations are asserted when the test ends.
func NewMockChatBroadcaster(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockChatBroadcaster {
	m := &MockChatBroadcaster{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockChatBroadcaster) Broadcast(message *entity.Message) {
	m.Called(message)
}

// MockRateLimiter is a testify mock of service.RateLimiter.
type MockRateLimiter struct {
	mock.Mock
}

// NewMockRateLimiter creates a MockRateLimiter whose expectations are asserted when the test ends.
func NewMockRateLimiter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRateLimiter {
	m := &MockRateLimiter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRateLimiter) Allow(key string) bool {
	args := m.Called(key)

	return args.Bool(0)
}

// MockMarketMetrics is a testify mock of service.MarketMetrics.
type MockMarketMetrics struct {
	mock.Mock
}

// NewMockMarketMetrics creates a MockMarketMetrics whose expectations are asserted when the test ends.
func NewMockMarketMetrics(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMarketMetrics {
	m := &MockMarketMetrics{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMarketMetrics) OrderLinesPlaced(count int) {
	m.Called(count)
}

func (m *MockMarketMetrics) OrderActioned(status string) {
	m.Called(status)
}

func (m *MockMarketMetrics) OTPIssued(purpose string) {
	m.Called(purpose)
}

func (m *MockMarketMetrics) EventPublishFailed(eventType string) {
	m.Called(eventType)
}

// MockTextSanitizer is a testify mock of service.TextSanitizer.
type MockTextSanitizer struct {
	mock.Mock
}

// NewMockTextSanitizer creates a MockTextSanitizer whose expectations are asserted when the test ends.
func NewMockTextSanitizer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTextSanitizer {
	m := &MockTextSanitizer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTextSanitizer) Sanitize(input string) string {
	args := m.Called(input)

	return args.String(0)
}

// MockNotificationService is a testify mock of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

// NewMockNotificationService creates a MockNotificationService whose expectations are asserted when the test ends.
func NewMockNotificationService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotificationService {
	m := &MockNotificationService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockNotificationService) SendBatchNotification(ctx context.Context, tokens []string, title string, body string, data map[string]string) (int, int, []string, error) {
	args := m.Called(ctx, tokens, title, body, data)
	r2, _ := args.Get(2).([]string)

	return args.Int(0), args.Int(1), r2, args.Error(3)
}

func (m *MockNotificationService) SendSingleNotification(ctx context.Context, token string, title string, body string, data map[string]string) error {
	args := m.Called(ctx, token, title, body, data)

	return args.Error(0)
}

// MockQRCodeService is a testify mock of service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

// NewMockQRCodeService creates a MockQRCodeService whose expectations are asserted when the test ends.
func NewMockQRCodeService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQRCodeService {
	m := &MockQRCodeService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockQRCodeService) GenerateOrderQR(orderGroupID string) ([]byte, error) {
	args := m.Called(orderGroupID)
	r0, _ := args.Get(0).([]byte)

	return r0, args.Error(1)
}

func (m *MockQRCodeService) ParseOrderQR(qrData string) (string, error) {
	args := m.Called(qrData)

	return args.String(0), args.Error(1)
}
