package repository

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
)

// MessageRepository persists the chat log of order groups.
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error

	// ListConversation returns up to limit of the latest messages of a group
	// sent or received by userID, oldest first.
	ListConversation(ctx context.Context, groupID string, userID uuid.UUID, limit int) ([]*entity.Message, error)
}
