package service

import (
	"context"
)

// OrderEvent represents an order update to be delivered by the notifier worker.
// Type is one of the order event constants (order.placed, order.accepted, ...).
type OrderEvent struct {
	RequestID    string   `json:"request_id,omitempty"` // For distributed tracing
	EventID      string   `json:"event_id"`
	Type         string   `json:"type"`
	OrderGroupID string   `json:"order_group_id"`
	OrderIDs     []string `json:"order_ids"`
	RecipientID  string   `json:"recipient_id"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderEvent publishes an order event for async delivery
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
