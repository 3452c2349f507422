package postgres

import (
	"context"

	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// CreateBatch inserts all lines of one checkout in a single statement.
func (repo *orderRepository) CreateBatch(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}

	orderModels := make([]*model.OrderModel, 0, len(orders))
	for _, order := range orders {
		orderModels = append(orderModels, fromOrderDomain(order))
	}

	if err := repo.db.WithContext(ctx).Create(&orderModels).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create orders")
	}

	for i, orderM := range orderModels {
		orders[i].ID = orderM.ID
		orders[i].CreatedAt = orderM.CreatedAt
		orders[i].UpdatedAt = orderM.UpdatedAt
	}

	return nil
}

func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return repo.findOne(repo.db.WithContext(ctx), id)
}

// FindByIDForUpdate takes a row lock held until the surrounding transaction ends.
func (repo *orderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return repo.findOne(repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (repo *orderRepository) findOne(query *gorm.DB, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := query.Where("id = ?", id).First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID")
	}

	return toOrderDomain(&orderM), nil
}

func (repo *orderRepository) ListByGroup(ctx context.Context, groupID string) ([]*entity.Order, error) {
	return repo.list(ctx, "order_group_id = ?", groupID)
}

func (repo *orderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.Order, error) {
	return repo.list(ctx, "buyer_id = ?", buyerID)
}

func (repo *orderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error) {
	return repo.list(ctx, "seller_id = ?", sellerID)
}

func (repo *orderRepository) list(ctx context.Context, cond string, arg any) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// TransitionStatus is a compare-and-set on the status column.
func (repo *orderRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))

	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}

	return result.RowsAffected == 1, nil
}

func (repo *orderRepository) CountAcceptedBetween(ctx context.Context, sellerID, buyerID, exclude uuid.UUID) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("seller_id = ? AND buyer_id = ? AND id <> ? AND status IN ?", sellerID, buyerID, exclude,
			[]string{string(entity.OrderStatusAccepted), string(entity.OrderStatusConfirmed)}).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count accepted orders")
	}

	return count, nil
}

// --- Mapper Functions ---

func toOrderDomain(data *model.OrderModel) *entity.Order {
	return &entity.Order{
		ID:              data.ID,
		OrderGroupID:    data.OrderGroupID,
		ProductID:       data.ProductID,
		BuyerID:         data.BuyerID,
		SellerID:        data.SellerID,
		ProductName:     data.ProductName,
		UnitPrice:       data.UnitPrice,
		Quantity:        data.Quantity,
		TotalPrice:      data.TotalPrice,
		DeliveryAddress: data.DeliveryAddress,
		PaymentMethod:   entity.PaymentMethod(data.PaymentMethod),
		Status:          entity.OrderStatus(data.Status),
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	id := data.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &model.OrderModel{
		ID:              id,
		OrderGroupID:    data.OrderGroupID,
		ProductID:       data.ProductID,
		BuyerID:         data.BuyerID,
		SellerID:        data.SellerID,
		ProductName:     data.ProductName,
		UnitPrice:       data.UnitPrice,
		Quantity:        data.Quantity,
		TotalPrice:      data.TotalPrice,
		DeliveryAddress: data.DeliveryAddress,
		PaymentMethod:   string(data.PaymentMethod),
		Status:          string(data.Status),
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
