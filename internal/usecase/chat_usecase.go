package usecase

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
)

// SendMessageInput defines a chat line sent to an order group.
type SendMessageInput struct {
	OrderGroupID string     `json:"orderId" validate:"required"`
	ReceiverID   *uuid.UUID `json:"receiverId,omitempty"`
	Text         string     `json:"text" validate:"required"`
}

// ChatUsecase defines buyer-seller chat scoped to an order group.
type ChatUsecase interface {
	ListMessages(ctx context.Context, userID uuid.UUID, groupID string) ([]*entity.Message, error)
	SendMessage(ctx context.Context, userID uuid.UUID, input *SendMessageInput) (*entity.Message, error)

	// Authorize reports an error unless userID participates in the group.
	Authorize(ctx context.Context, userID uuid.UUID, groupID string) error
}
