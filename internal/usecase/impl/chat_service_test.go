package impl

import (
	"context"
	"strings"
	"testing"

	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	mockRepo "agrimarket/internal/mocks/repository"
	mockSvc "agrimarket/internal/mocks/service"
	"agrimarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testGroupID = "ORD-20261015-K7Q2MZ"

type chatServiceFixtures struct {
	service     *chatService
	orderRepo   *mockRepo.MockOrderRepository
	messageRepo *mockRepo.MockMessageRepository
	broadcaster *mockSvc.MockChatBroadcaster
}

func createTestChatService(t *testing.T) chatServiceFixtures {
	f := chatServiceFixtures{
		orderRepo:   mockRepo.NewMockOrderRepository(t),
		messageRepo: mockRepo.NewMockMessageRepository(t),
		broadcaster: mockSvc.NewMockChatBroadcaster(t),
	}
	svc, ok := NewChatService(ChatServiceParams{
		Config:      newTestConfig(),
		OrderRepo:   f.orderRepo,
		MessageRepo: f.messageRepo,
		Broadcaster: f.broadcaster,
		Sanitizer:   trimSanitizer{},
		Logger:      newDiscardLogger(),
	}).(*chatService)
	require.True(t, ok)
	svc.now = fixedNow
	f.service = svc

	return f
}

// twoSellerGroup is one checkout with a buyer and two sellers.
func twoSellerGroup(buyerID, sellerA, sellerB uuid.UUID) []*entity.Order {
	return []*entity.Order{
		{ID: uuid.New(), OrderGroupID: testGroupID, BuyerID: buyerID, SellerID: sellerA},
		{ID: uuid.New(), OrderGroupID: testGroupID, BuyerID: buyerID, SellerID: sellerB},
	}
}

func TestChatService_ListMessages(t *testing.T) {
	buyerID, sellerA, sellerB := uuid.New(), uuid.New(), uuid.New()

	t.Run("participant reads only their own conversation", func(t *testing.T) {
		fx := createTestChatService(t)
		ctx := context.Background()
		history := []*entity.Message{{ID: "m1", Text: "Is it organic?"}}
		fx.orderRepo.On("ListByGroup", ctx, testGroupID).Return(twoSellerGroup(buyerID, sellerA, sellerB), nil)
		fx.messageRepo.On("ListConversation", ctx, testGroupID, sellerB, 100).Return(history, nil)

		messages, err := fx.service.ListMessages(ctx, sellerB, testGroupID)

		require.NoError(t, err)
		assert.Equal(t, history, messages)
	})

	t.Run("outsider", func(t *testing.T) {
		fx := createTestChatService(t)
		ctx := context.Background()
		fx.orderRepo.On("ListByGroup", ctx, testGroupID).Return(twoSellerGroup(buyerID, sellerA, sellerB), nil)

		_, err := fx.service.ListMessages(ctx, uuid.New(), testGroupID)

		assert.ErrorIs(t, err, domainerrors.ErrChatAccessDenied)
		fx.messageRepo.AssertNotCalled(t, "ListConversation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown group", func(t *testing.T) {
		fx := createTestChatService(t)
		ctx := context.Background()
		fx.orderRepo.On("ListByGroup", ctx, "ORD-20261015-ZZZZZZ").Return([]*entity.Order{}, nil)

		_, err := fx.service.ListMessages(ctx, buyerID, "ORD-20261015-ZZZZZZ")

		assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
	})
}

func TestChatService_SendMessage_ResolvesReceiver(t *testing.T) {
	buyerID, sellerA, sellerB := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name     string
		sender   uuid.UUID
		receiver *uuid.UUID
		want     uuid.UUID
	}{
		{name: "seller defaults to the buyer", sender: sellerB, want: buyerID},
		{name: "buyer defaults to the first seller", sender: buyerID, want: sellerA},
		{name: "buyer picks the second seller", sender: buyerID, receiver: &sellerB, want: sellerB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestChatService(t)
			ctx := context.Background()
			fx.orderRepo.On("ListByGroup", ctx, testGroupID).Return(twoSellerGroup(buyerID, sellerA, sellerB), nil)
			fx.messageRepo.On("Create", ctx, mock.AnythingOfType("*entity.Message")).
				Run(func(args mock.Arguments) { args.Get(1).(*entity.Message).ID = "6710f2" }).
				Return(nil)
			fx.broadcaster.On("Broadcast", mock.MatchedBy(func(m *entity.Message) bool { return m.ID == "6710f2" })).Return()

			message, err := fx.service.SendMessage(ctx, tt.sender, &usecase.SendMessageInput{
				OrderGroupID: testGroupID,
				ReceiverID:   tt.receiver,
				Text:         "  Pickup at 5pm?  ",
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, message.ReceiverID)
			assert.Equal(t, tt.sender, message.SenderID)
			assert.Equal(t, "Pickup at 5pm?", message.Text)
			assert.Equal(t, fixedNow(), message.CreatedAt)
		})
	}
}

func TestChatService_SendMessage_Rejections(t *testing.T) {
	buyerID, sellerA, sellerB := uuid.New(), uuid.New(), uuid.New()
	outsider := uuid.New()

	tests := []struct {
		name     string
		sender   uuid.UUID
		receiver *uuid.UUID
		text     string
		wantErr  error
		lookup   bool
	}{
		{name: "blank text", sender: buyerID, text: "   ", wantErr: domainerrors.ErrValidationFailed},
		{name: "too long", sender: buyerID, text: strings.Repeat("a", maxMessageLength+1), wantErr: domainerrors.ErrValidationFailed},
		{name: "sender outside the group", sender: outsider, text: "hi", wantErr: domainerrors.ErrChatAccessDenied, lookup: true},
		{name: "receiver outside the group", sender: buyerID, receiver: &outsider, text: "hi", wantErr: domainerrors.ErrValidationFailed, lookup: true},
		{name: "receiver is the sender", sender: buyerID, receiver: &buyerID, text: "hi", wantErr: domainerrors.ErrValidationFailed, lookup: true},
		{name: "seller writes to another seller", sender: sellerA, receiver: &sellerB, text: "hi", wantErr: domainerrors.ErrValidationFailed, lookup: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestChatService(t)
			ctx := context.Background()
			if tt.lookup {
				fx.orderRepo.On("ListByGroup", ctx, testGroupID).Return(twoSellerGroup(buyerID, sellerA, sellerB), nil)
			}

			_, err := fx.service.SendMessage(ctx, tt.sender, &usecase.SendMessageInput{
				OrderGroupID: testGroupID,
				ReceiverID:   tt.receiver,
				Text:         tt.text,
			})

			assert.ErrorIs(t, err, tt.wantErr)
			fx.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			fx.broadcaster.AssertNotCalled(t, "Broadcast", mock.Anything)
		})
	}
}

func TestChatService_Authorize(t *testing.T) {
	buyerID, sellerA, sellerB := uuid.New(), uuid.New(), uuid.New()
	fx := createTestChatService(t)
	ctx := context.Background()
	fx.orderRepo.On("ListByGroup", ctx, testGroupID).Return(twoSellerGroup(buyerID, sellerA, sellerB), nil)

	assert.NoError(t, fx.service.Authorize(ctx, sellerA, testGroupID))
	assert.ErrorIs(t, fx.service.Authorize(ctx, uuid.New(), testGroupID), domainerrors.ErrChatAccessDenied)
}
