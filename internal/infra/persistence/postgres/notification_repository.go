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

// notificationRepository implements the repository.NotificationRepository interface.
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository is the constructor for notificationRepository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateBatch(ctx context.Context, notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	notificationModels := make([]*model.NotificationModel, 0, len(notifications))
	for _, notification := range notifications {
		notificationModels = append(notificationModels, fromNotificationDomain(notification))
	}

	if err := repo.db.WithContext(ctx).Create(&notificationModels).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create notifications")
	}

	for i, notificationM := range notificationModels {
		notifications[i].ID = notificationM.ID
		notifications[i].CreatedAt = notificationM.CreatedAt
		notifications[i].UpdatedAt = notificationM.UpdatedAt
	}

	return nil
}

// Upsert keys on (order_id, audience) so repeated writes never duplicate a row.
// The returned columns belong to the surviving row, so an update keeps its original id.
func (repo *notificationRepository) Upsert(ctx context.Context, notification *entity.Notification) error {
	notificationM := fromNotificationDomain(notification)

	if err := repo.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "order_id"}, {Name: "audience"}},
				DoUpdates: clause.AssignmentColumns([]string{"status", "message", "delivery_address", "updated_at"}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "created_at"}, {Name: "updated_at"}}},
		).
		Create(notificationM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert notification")
	}

	notification.ID = notificationM.ID
	notification.CreatedAt = notificationM.CreatedAt
	notification.UpdatedAt = notificationM.UpdatedAt

	return nil
}

func (repo *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	var notificationM model.NotificationModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&notificationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotificationNotFound
		}

		return nil, errors.Wrap(err, "failed to find notification by ID")
	}

	return toNotificationDomain(&notificationM), nil
}

func (repo *notificationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, audience entity.NotificationAudience) ([]*entity.Notification, error) {
	var notificationModels []*model.NotificationModel

	if err := repo.ownedBy(ctx, ownerID, audience).
		Order("created_at DESC").
		Find(&notificationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}

	notifications := make([]*entity.Notification, 0, len(notificationModels))
	for _, notificationM := range notificationModels {
		notifications = append(notifications, toNotificationDomain(notificationM))
	}

	return notifications, nil
}

func (repo *notificationRepository) CountUnread(ctx context.Context, ownerID uuid.UUID, audience entity.NotificationAudience) (int64, error) {
	var count int64

	if err := repo.ownedBy(ctx, ownerID, audience).
		Model(&model.NotificationModel{}).
		Where("status <> ?", string(entity.NotificationStatusRead)).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count unread notifications")
	}

	return count, nil
}

func (repo *notificationRepository) ownedBy(ctx context.Context, ownerID uuid.UUID, audience entity.NotificationAudience) *gorm.DB {
	ownerColumn := "buyer_id"
	if audience == entity.AudienceSeller {
		ownerColumn = "seller_id"
	}

	return repo.db.WithContext(ctx).
		Where(ownerColumn+" = ? AND audience = ?", ownerID, string(audience))
}

func (repo *notificationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.NotificationStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationModel{}).
		Where("id = ?", id).
		Update("status", string(status))

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update notification status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotificationNotFound
	}

	return nil
}

func (repo *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.NotificationModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete notification")
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotificationNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toNotificationDomain(data *model.NotificationModel) *entity.Notification {
	return &entity.Notification{
		ID:              data.ID,
		OrderID:         data.OrderID,
		OrderGroupID:    data.OrderGroupID,
		Audience:        entity.NotificationAudience(data.Audience),
		BuyerID:         data.BuyerID,
		SellerID:        data.SellerID,
		DeliveryAddress: data.DeliveryAddress,
		Status:          entity.NotificationStatus(data.Status),
		Message:         data.Message,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func fromNotificationDomain(data *entity.Notification) *model.NotificationModel {
	id := data.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &model.NotificationModel{
		ID:              id,
		OrderID:         data.OrderID,
		OrderGroupID:    data.OrderGroupID,
		Audience:        string(data.Audience),
		BuyerID:         data.BuyerID,
		SellerID:        data.SellerID,
		DeliveryAddress: data.DeliveryAddress,
		Status:          string(data.Status),
		Message:         data.Message,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
