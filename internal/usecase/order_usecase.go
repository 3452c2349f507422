package usecase

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderLineInput is one cart line submitted at checkout.
type OrderLineInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Price     float64   `json:"price" validate:"gte=0"`
}

// PlaceOrderInput defines a checkout.
type PlaceOrderInput struct {
	Lines           []OrderLineInput     `json:"cart" validate:"required,min=1,dive"`
	TotalAmount     float64              `json:"totalAmount" validate:"gt=0"`
	DeliveryAddress string               `json:"deliveryAddress" validate:"required,max=512"`
	PaymentMethod   entity.PaymentMethod `json:"paymentMethod" validate:"required,oneof=cod online"`
}

// PlaceOrderOutput returns the lines created by one checkout.
type PlaceOrderOutput struct {
	OrderGroupID string          `json:"orderId"`
	TotalAmount  float64         `json:"totalAmount"`
	Orders       []*entity.Order `json:"orders"`
}

// OrderView is an order line annotated with the counterpart names for display.
type OrderView struct {
	*entity.Order
	BuyerName  string `json:"buyerName"`
	SellerName string `json:"sellerName"`
}

// OrderUsecase defines the order workflow.
type OrderUsecase interface {
	PlaceOrder(ctx context.Context, buyerID uuid.UUID, input *PlaceOrderInput) (*PlaceOrderOutput, error)

	// ActOnOrder accepts or declines a pending line. Only its seller may act, and only once.
	ActOnOrder(ctx context.Context, sellerID, orderID uuid.UUID, action entity.OrderAction) (*entity.Order, error)

	// ConfirmOrder moves the accepted lines of a group owned by the buyer to confirmed.
	ConfirmOrder(ctx context.Context, buyerID uuid.UUID, groupID string) ([]*entity.Order, error)

	ListMine(ctx context.Context, userID uuid.UUID, userType entity.UserType) ([]*OrderView, error)
	VerifyPayment(ctx context.Context, userID uuid.UUID) error

	// PickupQRCode renders a PNG QR code of the group for its participants.
	PickupQRCode(ctx context.Context, userID uuid.UUID, groupID string) ([]byte, error)
}
