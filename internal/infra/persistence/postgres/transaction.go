// Package postgres implements the repositories on GORM and PostgreSQL.
package postgres

import (
	"context"

	"agrimarket/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// maxTxAttempts bounds reruns of a transaction that lost a serialization
// race, e.g. two checkouts decrementing the same product.
const maxTxAttempts = 3

type gormTransactionManager struct {
	db *gorm.DB
}

// gormRepositoryFactory hands out repositories bound to one transaction.
type gormRepositoryFactory struct {
	tx *gorm.DB
}

func (f *gormRepositoryFactory) NewUserRepository() repository.UserRepository {
	return NewUserRepository(f.tx)
}

func (f *gormRepositoryFactory) NewProfileRepository() repository.ProfileRepository {
	return NewProfileRepository(f.tx)
}

func (f *gormRepositoryFactory) NewProductRepository() repository.ProductRepository {
	return NewProductRepository(f.tx)
}

func (f *gormRepositoryFactory) NewCartRepository() repository.CartRepository {
	return NewCartRepository(f.tx)
}

func (f *gormRepositoryFactory) NewOrderRepository() repository.OrderRepository {
	return NewOrderRepository(f.tx)
}

func (f *gormRepositoryFactory) NewNotificationRepository() repository.NotificationRepository {
	return NewNotificationRepository(f.tx)
}

func (f *gormRepositoryFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return NewRefreshTokenRepository(f.tx)
}

func (f *gormRepositoryFactory) NewDeviceRepository() repository.DeviceRepository {
	return NewDeviceRepository(f.tx)
}

func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &gormTransactionManager{db: db}
}

// Execute commits when fn returns nil and rolls back otherwise, including on
// panic. fn is rerun from scratch on serialization failures and deadlocks, so
// it must not have side effects outside the transaction.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&gormRepositoryFactory{tx: tx})
		})
		if err == nil || !isRetryableTxError(err) || ctx.Err() != nil {
			break
		}
	}

	if err != nil && isRetryableTxError(err) {
		return errors.Wrapf(err, "transaction aborted after %d attempts", maxTxAttempts)
	}

	return err
}
