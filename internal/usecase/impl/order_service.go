package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	deliverycontext "agrimarket/internal/delivery/context"
	"agrimarket/internal/domain/constants"
	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/domain/service"
	"agrimarket/internal/usecase"
	"agrimarket/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// totalAmountEpsilon is the tolerated difference between the submitted and computed checkout total.
const totalAmountEpsilon = 0.01

type orderService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	publisher service.EventPublisher
	qrService service.QRCodeService
	metrics   service.MarketMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	OrderRepo repository.OrderRepository
	CartRepo  repository.CartRepository
	Publisher service.EventPublisher
	QRService service.QRCodeService
	Metrics   service.MarketMetrics
	Logger    *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		orderRepo: params.OrderRepo,
		cartRepo:  params.CartRepo,
		publisher: params.Publisher,
		qrService: params.QRService,
		metrics:   params.Metrics,
		logger:    params.Logger,
		now:       time.Now,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PlaceOrder validates every line against live stock and prices, then writes all
// lines and their seller notifications in one transaction. Nothing is written when
// any check fails.
func (srv *orderService) PlaceOrder(ctx context.Context, buyerID uuid.UUID, input *usecase.PlaceOrderInput) (*usecase.PlaceOrderOutput, error) {
	lines, err := mergeOrderLines(input.Lines)
	if err != nil {
		return nil, err
	}
	if input.PaymentMethod != entity.PaymentMethodCOD && input.PaymentMethod != entity.PaymentMethodOnline {
		return nil, domainerrors.ErrValidationFailed.WithDetails("paymentMethod must be cod or online")
	}

	buyer, err := findUser(ctx, srv.userRepo, buyerID)
	if err != nil {
		return nil, err
	}
	if buyer.IsProducer() {
		return nil, domainerrors.ErrConsumerOnly
	}

	output := &usecase.PlaceOrderOutput{}
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()

		now := srv.now()
		orders := make([]*entity.Order, 0, len(lines))
		var computed float64
		for _, line := range lines {
			product, err := productRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return domainerrors.ErrOrderProductNotFound.WithDetails(line.ProductID.String())
				}

				return errors.Wrap(err, "failed to find product")
			}
			if line.Quantity > product.Quantity {
				return domainerrors.ErrInsufficientStock.WithMessage("Insufficient stock for " + product.Name)
			}

			lineTotal := util.RoundMoney(product.Price * float64(line.Quantity))
			computed += lineTotal
			orders = append(orders, &entity.Order{
				ID:              uuid.New(),
				ProductID:       product.ID,
				BuyerID:         buyerID,
				SellerID:        product.SellerID,
				ProductName:     product.Name,
				UnitPrice:       product.Price,
				Quantity:        line.Quantity,
				TotalPrice:      lineTotal,
				DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
				PaymentMethod:   input.PaymentMethod,
				Status:          entity.OrderStatusPending,
				CreatedAt:       now,
				UpdatedAt:       now,
			})
		}

		computed = util.RoundMoney(computed)
		if !util.AmountsMatch(computed, input.TotalAmount, totalAmountEpsilon) {
			return domainerrors.ErrTotalMismatch.WithDetails(fmt.Sprintf("expected %.2f, got %.2f", computed, input.TotalAmount))
		}

		groupID, err := util.GenerateOrderGroupID(now)
		if err != nil {
			return errors.Wrap(err, "failed to generate order group id")
		}

		notifications := make([]*entity.Notification, 0, len(orders))
		for _, order := range orders {
			order.OrderGroupID = groupID
			notifications = append(notifications, &entity.Notification{
				ID:              uuid.New(),
				OrderID:         order.ID,
				OrderGroupID:    groupID,
				Audience:        entity.AudienceSeller,
				BuyerID:         buyerID,
				SellerID:        order.SellerID,
				DeliveryAddress: order.DeliveryAddress,
				Status:          entity.NotificationStatusPending,
				Message:         fmt.Sprintf("New order %s from %s: %d x %s", groupID, buyer.Username, order.Quantity, order.ProductName),
				CreatedAt:       now,
				UpdatedAt:       now,
			})
		}

		if err := repoFactory.NewOrderRepository().CreateBatch(ctx, orders); err != nil {
			return errors.Wrap(err, "failed to create orders")
		}
		if err := repoFactory.NewNotificationRepository().CreateBatch(ctx, notifications); err != nil {
			return errors.Wrap(err, "failed to create notifications")
		}

		output.OrderGroupID = groupID
		output.TotalAmount = computed
		output.Orders = orders

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order placement rejected", slog.Any("buyerID", buyerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute place order transaction")
	}

	srv.afterPlacement(ctx, buyer, output)

	return output, nil
}

// afterPlacement runs the side effects that must not roll the checkout back.
func (srv *orderService) afterPlacement(ctx context.Context, buyer *entity.User, output *usecase.PlaceOrderOutput) {
	productIDs := make([]uuid.UUID, 0, len(output.Orders))
	bySeller := make(map[uuid.UUID][]*entity.Order)
	sellers := make([]uuid.UUID, 0)
	for _, order := range output.Orders {
		productIDs = append(productIDs, order.ProductID)
		if _, seen := bySeller[order.SellerID]; !seen {
			sellers = append(sellers, order.SellerID)
		}
		bySeller[order.SellerID] = append(bySeller[order.SellerID], order)
	}

	if err := srv.cartRepo.DeleteItems(ctx, buyer.ID, productIDs); err != nil {
		srv.log(ctx).Warn("Failed to clear purchased cart items", slog.Any("buyerID", buyer.ID), slog.Any("error", err))
	}
	srv.metrics.OrderLinesPlaced(len(output.Orders))

	for _, sellerID := range sellers {
		orders := bySeller[sellerID]

		var body strings.Builder
		fmt.Fprintf(&body, "You have a new order %s from %s.\n\n", output.OrderGroupID, buyer.Username)
		for _, order := range orders {
			fmt.Fprintf(&body, "- %d x %s (%.2f)\n", order.Quantity, order.ProductName, order.TotalPrice)
		}
		fmt.Fprintf(&body, "\nDeliver to: %s\nPayment: %s\n", orders[0].DeliveryAddress, orders[0].PaymentMethod)

		srv.publish(ctx, constants.EventOrderPlaced, output.OrderGroupID, orders, sellerID,
			"New order "+output.OrderGroupID, body.String())
	}

	srv.log(ctx).Info("Order placed",
		slog.String("orderGroupID", output.OrderGroupID),
		slog.Any("buyerID", buyer.ID),
		slog.Int("lines", len(output.Orders)),
		slog.Float64("total", output.TotalAmount),
	)
}

// ActOnOrder accepts or declines a pending line. Acceptance decrements stock with a
// conditional update, so a line is accepted and its stock taken at most once.
func (srv *orderService) ActOnOrder(ctx context.Context, sellerID, orderID uuid.UUID, action entity.OrderAction) (*entity.Order, error) {
	if !action.IsValid() {
		return nil, domainerrors.ErrInvalidOrderAction
	}
	target := action.TargetStatus()

	var (
		order      *entity.Order
		buyerName  string
		sellerName string
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		var err error
		order, err = orderRepo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound
			}

			return errors.Wrap(err, "failed to find order")
		}
		if order.SellerID != sellerID {
			return domainerrors.ErrOrderAccessDenied
		}

		from := order.Status
		if err := order.TransitionTo(target); err != nil {
			return domainerrors.ErrOrderNotActionable.WithDetails(err.Error())
		}

		userRepo := repoFactory.NewUserRepository()
		if target == entity.OrderStatusAccepted {
			if err := srv.takeStock(ctx, repoFactory, userRepo, order); err != nil {
				return err
			}
		}

		changed, err := orderRepo.TransitionStatus(ctx, order.ID, from, target)
		if err != nil {
			return errors.Wrap(err, "failed to update order status")
		}
		if !changed {
			return domainerrors.ErrOrderNotActionable
		}
		order.UpdatedAt = srv.now()

		names, err := userRepo.FindByIDs(ctx, []uuid.UUID{order.BuyerID, order.SellerID})
		if err != nil {
			return errors.Wrap(err, "failed to load order parties")
		}
		buyerName, sellerName = displayName(names, order.BuyerID), displayName(names, order.SellerID)

		return srv.upsertNotifications(ctx, repoFactory.NewNotificationRepository(), order,
			fmt.Sprintf("Your order %s for %s was %s by %s", order.OrderGroupID, order.ProductName, target, sellerName),
			fmt.Sprintf("You %s order %s: %d x %s for %s", target, order.OrderGroupID, order.Quantity, order.ProductName, buyerName),
		)
	})
	if err != nil {
		srv.log(ctx).Warn("Order action rejected", slog.Any("orderID", orderID), slog.String("action", string(action)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute order action transaction")
	}

	srv.metrics.OrderActioned(target.String())

	eventType := constants.EventOrderAccepted
	if target == entity.OrderStatusDeclined {
		eventType = constants.EventOrderDeclined
	}
	srv.publish(ctx, eventType, order.OrderGroupID, []*entity.Order{order}, order.BuyerID,
		fmt.Sprintf("Order %s %s", order.OrderGroupID, target),
		fmt.Sprintf("Hello %s,\n\nYour order of %d x %s was %s by %s.\n", buyerName, order.Quantity, order.ProductName, target, sellerName),
	)

	srv.log(ctx).Info("Order actioned", slog.Any("orderID", order.ID), slog.String("status", target.String()))

	return order, nil
}

// takeStock decrements the product and updates the seller counters for an accepted line.
func (srv *orderService) takeStock(ctx context.Context, repoFactory repository.RepositoryFactory, userRepo repository.UserRepository, order *entity.Order) error {
	if err := repoFactory.NewProductRepository().DecrementStock(ctx, order.ProductID, order.Quantity); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return domainerrors.ErrInsufficientStock.WithMessage("Insufficient stock for " + order.ProductName)
		}

		return errors.Wrap(err, "failed to decrement stock")
	}

	previous, err := repoFactory.NewOrderRepository().CountAcceptedBetween(ctx, order.SellerID, order.BuyerID, order.ID)
	if err != nil {
		return errors.Wrap(err, "failed to count previous orders")
	}

	delta := entity.SellerStats{
		QuantitySold:  order.Quantity,
		MonthlyIncome: order.TotalPrice,
	}
	if previous == 0 {
		delta.BuyersCount = 1
	}

	return errors.Wrap(userRepo.AddStats(ctx, order.SellerID, delta), "failed to update seller stats")
}

// upsertNotifications leaves exactly one buyer-facing and one seller-facing row for the line.
func (srv *orderService) upsertNotifications(ctx context.Context, notificationRepo repository.NotificationRepository, order *entity.Order, buyerMessage, sellerMessage string) error {
	now := srv.now()
	status := entity.NotificationStatus(order.Status)

	for _, n := range []*entity.Notification{
		{Audience: entity.AudienceBuyer, Message: buyerMessage},
		{Audience: entity.AudienceSeller, Message: sellerMessage},
	} {
		n.ID = uuid.New()
		n.OrderID = order.ID
		n.OrderGroupID = order.OrderGroupID
		n.BuyerID = order.BuyerID
		n.SellerID = order.SellerID
		n.DeliveryAddress = order.DeliveryAddress
		n.Status = status
		n.CreatedAt = now
		n.UpdatedAt = now

		if err := notificationRepo.Upsert(ctx, n); err != nil {
			return errors.Wrapf(err, "failed to upsert %s notification", n.Audience)
		}
	}

	return nil
}

// ConfirmOrder moves every accepted line of the buyer's group to confirmed.
func (srv *orderService) ConfirmOrder(ctx context.Context, buyerID uuid.UUID, groupID string) ([]*entity.Order, error) {
	var confirmed []*entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()
		lines, err := orderRepo.ListByGroup(ctx, groupID)
		if err != nil {
			return errors.Wrap(err, "failed to list order group")
		}

		owned := 0
		notificationRepo := repoFactory.NewNotificationRepository()
		for _, line := range lines {
			if line.BuyerID != buyerID {
				continue
			}
			owned++

			from := line.Status
			if err := line.TransitionTo(entity.OrderStatusConfirmed); err != nil {
				continue
			}
			changed, err := orderRepo.TransitionStatus(ctx, line.ID, from, entity.OrderStatusConfirmed)
			if err != nil {
				return errors.Wrap(err, "failed to confirm order line")
			}
			if !changed {
				continue
			}

			if err := srv.upsertNotifications(ctx, notificationRepo, line,
				fmt.Sprintf("You confirmed order %s for %s", line.OrderGroupID, line.ProductName),
				fmt.Sprintf("The buyer confirmed order %s for %d x %s", line.OrderGroupID, line.Quantity, line.ProductName),
			); err != nil {
				return err
			}
			confirmed = append(confirmed, line)
		}

		if owned == 0 {
			return domainerrors.ErrOrderNotFound
		}
		if len(confirmed) == 0 {
			return domainerrors.ErrOrderNotActionable.WithDetails("no accepted lines to confirm")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute confirm order transaction")
	}

	srv.metrics.OrderActioned(entity.OrderStatusConfirmed.String())
	for _, line := range confirmed {
		srv.publish(ctx, constants.EventOrderConfirm, groupID, []*entity.Order{line}, line.SellerID,
			"Order "+groupID+" confirmed",
			fmt.Sprintf("The buyer confirmed %d x %s of order %s.\n", line.Quantity, line.ProductName, groupID),
		)
	}

	return confirmed, nil
}

// ListMine returns the seller view for Producers and the buyer view for Consumers, newest first.
func (srv *orderService) ListMine(ctx context.Context, userID uuid.UUID, userType entity.UserType) ([]*usecase.OrderView, error) {
	var (
		orders []*entity.Order
		err    error
	)
	if userType == entity.UserTypeProducer {
		orders, err = srv.orderRepo.ListBySeller(ctx, userID)
	} else {
		orders, err = srv.orderRepo.ListByBuyer(ctx, userID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	idSet := make(map[uuid.UUID]struct{}, len(orders)*2)
	ids := make([]uuid.UUID, 0, len(orders)*2)
	for _, order := range orders {
		for _, id := range []uuid.UUID{order.BuyerID, order.SellerID} {
			if _, ok := idSet[id]; !ok {
				idSet[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	names := map[uuid.UUID]*entity.User{}
	if len(ids) > 0 {
		names, err = srv.userRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load order parties")
		}
	}

	views := make([]*usecase.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, &usecase.OrderView{
			Order:      order,
			BuyerName:  displayName(names, order.BuyerID),
			SellerName: displayName(names, order.SellerID),
		})
	}

	return views, nil
}

// VerifyPayment is a placeholder until a payment gateway is integrated.
func (srv *orderService) VerifyPayment(_ context.Context, _ uuid.UUID) error {
	return domainerrors.ErrPaymentNotSupported
}

// PickupQRCode renders the group id as a QR code for the buyer and sellers of the group.
func (srv *orderService) PickupQRCode(ctx context.Context, userID uuid.UUID, groupID string) ([]byte, error) {
	lines, err := srv.orderRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list order group")
	}
	if len(lines) == 0 {
		return nil, domainerrors.ErrOrderNotFound
	}
	if !isGroupParticipant(lines, userID) {
		return nil, domainerrors.ErrOrderAccessDenied
	}

	png, err := srv.qrService.GenerateOrderQR(groupID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate pickup qr code")
	}

	return png, nil
}

func (srv *orderService) publish(ctx context.Context, eventType, groupID string, orders []*entity.Order, recipientID uuid.UUID, subject, body string) {
	orderIDs := make([]string, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID.String())
	}

	event := &service.OrderEvent{
		RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
		EventID:      uuid.NewString(),
		Type:         eventType,
		OrderGroupID: groupID,
		OrderIDs:     orderIDs,
		RecipientID:  recipientID.String(),
		Subject:      subject,
		Body:         body,
	}
	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.metrics.EventPublishFailed(eventType)
		srv.log(ctx).Warn("Failed to publish order event",
			slog.String("eventType", eventType),
			slog.String("orderGroupID", groupID),
			slog.Any("error", err),
		)
	}
}

// mergeOrderLines folds repeated products into one line so each product yields one order.
func mergeOrderLines(lines []usecase.OrderLineInput) ([]usecase.OrderLineInput, error) {
	if len(lines) == 0 {
		return nil, domainerrors.ErrEmptyCart
	}

	merged := make([]usecase.OrderLineInput, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, domainerrors.ErrValidationFailed.WithDetails("quantity must be positive")
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity

			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	return merged, nil
}

func isGroupParticipant(lines []*entity.Order, userID uuid.UUID) bool {
	for _, line := range lines {
		if line.IsParticipant(userID) {
			return true
		}
	}

	return false
}

func displayName(users map[uuid.UUID]*entity.User, id uuid.UUID) string {
	if user, ok := users[id]; ok && user.Username != "" {
		return user.Username
	}

	return "a user"
}
