// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
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

// userRepository implements the repository.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by ID")
	}

	return toUserDomain(&userM), nil
}

// FindByIDs retrieves the users with the given IDs, keyed by ID.
func (repo *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	users := make(map[uuid.UUID]*entity.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var userModels []*model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&userModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find users by IDs")
	}

	for _, userM := range userModels {
		users[userM.ID] = toUserDomain(userM)
	}

	return users, nil
}

// FindByEmailAndType retrieves the account registered with email for one side of the marketplace.
func (repo *userRepository) FindByEmailAndType(ctx context.Context, email string, userType entity.UserType) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Where("email = ? AND user_type = ?", email, userType.String()).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrUserAlreadyExists
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update writes every mutable column of user. Seller stats are left to AddStats.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Select("username", "email", "password_hash", "mobile", "address", "kisan_card", "farmer_id",
			"verified", "bank_account_holder", "bank_account_number", "bank_ifsc", "bank_bank_name",
			"bank_upi_id", "email_notifications", "push_notifications", "order_updates", "language", "updated_at").
		Updates(userM)

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrUserAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// AddStats adds delta to the seller counters in a single statement.
func (repo *userRepository) AddStats(ctx context.Context, id uuid.UUID, delta entity.SellerStats) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"listed_items":   gorm.Expr("listed_items + ?", delta.ListedItems),
			"monthly_income": gorm.Expr("monthly_income + ?", delta.MonthlyIncome),
			"buyers_count":   gorm.Expr("buyers_count + ?", delta.BuyersCount),
			"quantity_sold":  gorm.Expr("quantity_sold + ?", delta.QuantitySold),
		})

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update seller stats")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// Delete removes the user.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.UserModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// profileRepository implements the repository.ProfileRepository interface.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository is the constructor for profileRepository.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	var profileM model.ProfileModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile")
	}

	return toProfileDomain(&profileM), nil
}

func (repo *profileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	profileM := fromProfileDomain(profile)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"bio", "avatar_url", "completion_percentage", "verification_status", "verified_at", "updated_at",
			}),
		}).
		Create(profileM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert profile")
	}

	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

func (repo *profileRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.ProfileModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete profile")
	}

	return nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	user := &entity.User{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Mobile:       data.Mobile,
		UserType:     entity.UserType(data.UserType),
		Address:      data.Address,
		KisanCard:    data.KisanCard,
		FarmerID:     data.FarmerID,
		Verified:     data.Verified,
		Stats: entity.SellerStats{
			ListedItems:   data.Stats.ListedItems,
			MonthlyIncome: data.Stats.MonthlyIncome,
			BuyersCount:   data.Stats.BuyersCount,
			QuantitySold:  data.Stats.QuantitySold,
		},
		Settings: entity.Settings{
			EmailNotifications: data.Settings.EmailNotifications,
			PushNotifications:  data.Settings.PushNotifications,
			OrderUpdates:       data.Settings.OrderUpdates,
			Language:           data.Settings.Language,
		},
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}

	if data.Bank != (model.BankDetailsModel{}) {
		user.Bank = &entity.BankDetails{
			AccountHolder: data.Bank.AccountHolder,
			AccountNumber: data.Bank.AccountNumber,
			IFSC:          data.Bank.IFSC,
			BankName:      data.Bank.BankName,
			UPIID:         data.Bank.UPIID,
		}
	}

	return user
}

// fromUserDomain converts a domain User entity to a GORM UserModel.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	userM := &model.UserModel{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Mobile:       data.Mobile,
		UserType:     data.UserType.String(),
		Address:      data.Address,
		KisanCard:    data.KisanCard,
		FarmerID:     data.FarmerID,
		Verified:     data.Verified,
		Stats: model.SellerStatsModel{
			ListedItems:   data.Stats.ListedItems,
			MonthlyIncome: data.Stats.MonthlyIncome,
			BuyersCount:   data.Stats.BuyersCount,
			QuantitySold:  data.Stats.QuantitySold,
		},
		Settings: model.SettingsModel{
			EmailNotifications: data.Settings.EmailNotifications,
			PushNotifications:  data.Settings.PushNotifications,
			OrderUpdates:       data.Settings.OrderUpdates,
			Language:           data.Settings.Language,
		},
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}

	if data.Bank != nil {
		userM.Bank = model.BankDetailsModel{
			AccountHolder: data.Bank.AccountHolder,
			AccountNumber: data.Bank.AccountNumber,
			IFSC:          data.Bank.IFSC,
			BankName:      data.Bank.BankName,
			UPIID:         data.Bank.UPIID,
		}
	}

	return userM
}

func toProfileDomain(data *model.ProfileModel) *entity.Profile {
	return &entity.Profile{
		UserID:               data.UserID,
		Bio:                  data.Bio,
		AvatarURL:            data.AvatarURL,
		CompletionPercentage: data.CompletionPercentage,
		VerificationStatus:   entity.VerificationStatus(data.VerificationStatus),
		VerifiedAt:           data.VerifiedAt,
		UpdatedAt:            data.UpdatedAt,
	}
}

func fromProfileDomain(data *entity.Profile) *model.ProfileModel {
	status := data.VerificationStatus
	if status == "" {
		status = entity.VerificationPending
	}

	return &model.ProfileModel{
		UserID:               data.UserID,
		Bio:                  data.Bio,
		AvatarURL:            data.AvatarURL,
		CompletionPercentage: data.CompletionPercentage,
		VerificationStatus:   string(status),
		VerifiedAt:           data.VerifiedAt,
		UpdatedAt:            data.UpdatedAt,
	}
}
