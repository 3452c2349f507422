package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// OrderStatus is the closed set of states an order line can be in.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusDeclined  OrderStatus = "declined"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// ErrInvalidOrderTransition is returned when a status change is not in the transition table.
var ErrInvalidOrderTransition = errors.New("invalid order status transition")

// orderTransitions lists every allowed move. Anything absent is rejected.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:  {OrderStatusAccepted, OrderStatusDeclined},
	OrderStatusAccepted: {OrderStatusConfirmed},
}

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a known value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusDeclined, OrderStatusConfirmed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// OrderAction is what a seller can do with a pending order.
type OrderAction string

const (
	OrderActionAccept  OrderAction = "accepted"
	OrderActionDecline OrderAction = "declined"
)

// IsValid checks if the OrderAction is a known value.
func (a OrderAction) IsValid() bool {
	return a == OrderActionAccept || a == OrderActionDecline
}

// TargetStatus maps an action onto the status it produces.
func (a OrderAction) TargetStatus() OrderStatus {
	if a == OrderActionAccept {
		return OrderStatusAccepted
	}

	return OrderStatusDeclined
}

// PaymentMethod is how the buyer intends to pay.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
)

// Order is one product line of a checkout. Lines of the same checkout share OrderGroupID.
type Order struct {
	ID              uuid.UUID     `json:"id"`
	OrderGroupID    string        `json:"orderId"`
	ProductID       uuid.UUID     `json:"productId"`
	BuyerID         uuid.UUID     `json:"buyerId"`
	SellerID        uuid.UUID     `json:"sellerId"`
	ProductName     string        `json:"productName"`
	UnitPrice       float64       `json:"unitPrice"`
	Quantity        int           `json:"quantity"`
	TotalPrice      float64       `json:"totalPrice"`
	DeliveryAddress string        `json:"deliveryAddress"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	Status          OrderStatus   `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// TransitionTo moves the order to next if the transition table allows it.
func (o *Order) TransitionTo(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return errors.Wrapf(ErrInvalidOrderTransition, "%s -> %s", o.Status, next)
	}
	o.Status = next

	return nil
}

// IsParticipant reports whether userID is the buyer or seller of this line.
func (o *Order) IsParticipant(userID uuid.UUID) bool {
	return o.BuyerID == userID || o.SellerID == userID
}

// Counterpart returns the other party of the line relative to userID.
func (o *Order) Counterpart(userID uuid.UUID) uuid.UUID {
	if o.BuyerID == userID {
		return o.SellerID
	}

	return o.BuyerID
}
