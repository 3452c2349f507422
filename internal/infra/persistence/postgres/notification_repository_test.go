package postgres

import (
	"context"
	"testing"
	"time"

	"agrimarket/internal/domain/entity"
	"agrimarket/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_UpsertConflictsOnOrderAndAudience(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	notification := &entity.Notification{
		OrderID:  uuid.New(),
		Audience: entity.AudienceSeller,
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
		Status:   entity.NotificationStatusAccepted,
		Message:  "Order accepted",
	}

	mock.ExpectQuery(`ON CONFLICT ("order_id","audience") DO UPDATE SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))

	require.NoError(t, repo.Upsert(context.Background(), notification))
	assert.NotEqual(t, uuid.Nil, notification.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_UpsertKeepsExistingRowID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	existingID := uuid.New()
	createdAt := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	updatedAt := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	notification := &entity.Notification{
		OrderID:  uuid.New(),
		Audience: entity.AudienceBuyer,
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
		Status:   entity.NotificationStatusAccepted,
		Message:  "Your order was accepted",
	}

	mock.ExpectQuery(`DO UPDATE SET "status"="excluded"."status"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(existingID.String(), createdAt, updatedAt))

	require.NoError(t, repo.Upsert(context.Background(), notification))
	assert.Equal(t, existingID, notification.ID)
	assert.True(t, createdAt.Equal(notification.CreatedAt))
	assert.True(t, updatedAt.Equal(notification.UpdatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_CountUnreadScopesByAudience(t *testing.T) {
	tests := []struct {
		name     string
		audience entity.NotificationAudience
		fragment string
	}{
		{name: "seller", audience: entity.AudienceSeller, fragment: `WHERE seller_id = $1 AND audience = $2 AND status <> $3`},
		{name: "buyer", audience: entity.AudienceBuyer, fragment: `WHERE buyer_id = $1 AND audience = $2 AND status <> $3`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewNotificationRepository(db)

			mock.ExpectQuery(tt.fragment).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

			count, err := repo.CountUnread(context.Background(), uuid.New(), tt.audience)
			require.NoError(t, err)
			assert.Equal(t, int64(3), count)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationRepository_UpdateStatusMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectExec(`UPDATE "notifications" SET "status"=$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), uuid.New(), entity.NotificationStatusRead)
	assert.ErrorIs(t, err, repository.ErrNotificationNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
