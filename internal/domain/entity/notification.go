// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationAudience says which party of an order owns a notification row.
type NotificationAudience string

const (
	AudienceBuyer  NotificationAudience = "buyer"
	AudienceSeller NotificationAudience = "seller"
)

// AudienceFor maps a user type onto the notifications it is allowed to list.
func AudienceFor(userType UserType) NotificationAudience {
	if userType == UserTypeProducer {
		return AudienceSeller
	}

	return AudienceBuyer
}

// NotificationStatus mirrors the order status at write time and can be changed
// by its owner independently of the order.
type NotificationStatus string

const (
	NotificationStatusPending   NotificationStatus = "pending"
	NotificationStatusAccepted  NotificationStatus = "accepted"
	NotificationStatusDeclined  NotificationStatus = "declined"
	NotificationStatusConfirmed NotificationStatus = "confirmed"
	NotificationStatusRead      NotificationStatus = "read"
)

// IsSettable reports whether an owner may set this status directly.
func (s NotificationStatus) IsSettable() bool {
	switch s {
	case NotificationStatusRead, NotificationStatusAccepted, NotificationStatusDeclined:
		return true
	default:
		return false
	}
}

// Notification is an order update addressed to the buyer or the seller of one order line.
type Notification struct {
	ID              uuid.UUID            `json:"id"`
	OrderID         uuid.UUID            `json:"orderRef"`
	OrderGroupID    string               `json:"orderId"`
	Audience        NotificationAudience `json:"audience"`
	BuyerID         uuid.UUID            `json:"buyerId"`
	SellerID        uuid.UUID            `json:"sellerId"`
	DeliveryAddress string               `json:"deliveryAddress"`
	Status          NotificationStatus   `json:"status"`
	Message         string               `json:"message"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// OwnerID returns the user the row belongs to.
func (n *Notification) OwnerID() uuid.UUID {
	if n.Audience == AudienceSeller {
		return n.SellerID
	}

	return n.BuyerID
}
