package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is a chat line exchanged between the buyer and seller of an order group.
type Message struct {
	ID           string    `json:"id"`
	OrderGroupID string    `json:"orderId"`
	SenderID     uuid.UUID `json:"senderId"`
	ReceiverID   uuid.UUID `json:"receiverId"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"timestamp"`
}
