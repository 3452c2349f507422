package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "agrimarket/internal/delivery/context"
	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/domain/service"
	"agrimarket/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager   repository.TransactionManager
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	grantRepo   repository.ActionGrantRepository
	hasher      service.PasswordHasher
	logger      *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	UserRepo    repository.UserRepository
	ProfileRepo repository.ProfileRepository
	GrantRepo   repository.ActionGrantRepository
	Hasher      service.PasswordHasher
	Logger      *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager:   params.TxManager,
		userRepo:    params.UserRepo,
		profileRepo: params.ProfileRepo,
		grantRepo:   params.GrantRepo,
		hasher:      params.Hasher,
		logger:      params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile returns the account with its profile and a freshly computed completion percentage.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*usecase.ProfileOutput, error) {
	user, err := findUser(ctx, srv.userRepo, userID)
	if err != nil {
		return nil, err
	}

	profile, err := loadProfile(ctx, srv.profileRepo, userID)
	if err != nil {
		return nil, err
	}
	profile.CompletionPercentage = entity.ComputeCompletion(user, profile)

	return &usecase.ProfileOutput{User: user, Profile: profile}, nil
}

// UpdateProfile applies the non-nil fields and recomputes completion.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*usecase.ProfileOutput, error) {
	var output *usecase.ProfileOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := findUser(ctx, repoFactory.NewUserRepository(), userID)
		if err != nil {
			return err
		}

		applyString(&user.Username, input.Username)
		applyString(&user.Mobile, input.Mobile)
		applyString(&user.Address, input.Address)
		if user.IsProducer() {
			applyString(&user.KisanCard, input.KisanCard)
			applyString(&user.FarmerID, input.FarmerID)
		}
		if err := repoFactory.NewUserRepository().Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user")
		}

		profileRepo := repoFactory.NewProfileRepository()
		profile, err := loadProfile(ctx, profileRepo, userID)
		if err != nil {
			return err
		}
		applyString(&profile.Bio, input.Bio)
		applyString(&profile.AvatarURL, input.AvatarURL)

		output, err = saveProfile(ctx, profileRepo, user, profile)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute profile update transaction")
	}

	srv.log(ctx).Info("Profile updated", slog.Any("userID", userID), slog.Int("completion", output.Profile.CompletionPercentage))

	return output, nil
}

// UpdateBankDetails stores the payout account. Only Producers have one.
func (srv *profileService) UpdateBankDetails(ctx context.Context, userID uuid.UUID, input *usecase.UpdateBankDetailsInput) (*usecase.ProfileOutput, error) {
	var output *usecase.ProfileOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		user, err := findUser(ctx, userRepo, userID)
		if err != nil {
			return err
		}
		if !user.IsProducer() {
			return domainerrors.ErrProducerOnly
		}

		user.Bank = &entity.BankDetails{
			AccountHolder: strings.TrimSpace(input.AccountHolder),
			AccountNumber: strings.TrimSpace(input.AccountNumber),
			IFSC:          strings.ToUpper(strings.TrimSpace(input.IFSC)),
			BankName:      strings.TrimSpace(input.BankName),
			UPIID:         strings.TrimSpace(input.UPIID),
		}
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update bank details")
		}

		profileRepo := repoFactory.NewProfileRepository()
		profile, err := loadProfile(ctx, profileRepo, userID)
		if err != nil {
			return err
		}

		output, err = saveProfile(ctx, profileRepo, user, profile)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute bank details transaction")
	}

	return output, nil
}

// ChangePassword verifies the current password, stores the new hash and ends the active session.
func (srv *profileService) ChangePassword(ctx context.Context, userID uuid.UUID, input *usecase.ChangePasswordInput) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		user, err := findUser(ctx, userRepo, userID)
		if err != nil {
			return err
		}
		if !srv.hasher.Check(input.CurrentPassword, user.PasswordHash) {
			return domainerrors.ErrIncorrectPassword
		}

		hash, err := srv.hasher.Hash(input.NewPassword)
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
		}
		user.PasswordHash = hash
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update password")
		}

		return errors.Wrap(repoFactory.NewRefreshTokenRepository().DeleteRefreshTokensByUserID(ctx, userID), "failed to revoke refresh token")
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute change password transaction")
	}

	srv.log(ctx).Info("Password changed", slog.Any("userID", userID))

	return nil
}

// DeleteAccount removes the account and everything owned by it. Orders and notifications stay as history.
func (srv *profileService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	var removedProducts int64
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		user, err := findUser(ctx, userRepo, userID)
		if err != nil {
			return err
		}

		if user.IsProducer() {
			removedProducts, err = repoFactory.NewProductRepository().DeleteBySeller(ctx, userID)
			if err != nil {
				return errors.Wrap(err, "failed to delete products")
			}
		}
		if err := repoFactory.NewCartRepository().DeleteByUser(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to delete cart")
		}
		if err := repoFactory.NewProfileRepository().DeleteByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to delete profile")
		}
		if err := repoFactory.NewRefreshTokenRepository().DeleteRefreshTokensByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to delete refresh token")
		}
		if err := repoFactory.NewDeviceRepository().DeleteDevicesByUser(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to delete devices")
		}

		return errors.Wrap(userRepo.Delete(ctx, userID), "failed to delete user")
	})
	if err != nil {
		return errors.Wrap(err, "failed to execute delete account transaction")
	}

	if err := srv.grantRepo.Revoke(ctx, userID); err != nil {
		srv.log(ctx).Warn("Failed to revoke action grant", slog.Any("userID", userID), slog.Any("error", err))
	}
	srv.log(ctx).Info("Account deleted", slog.Any("userID", userID), slog.Int64("products", removedProducts))

	return nil
}

// GetSettings returns the notification and language preferences.
func (srv *profileService) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.Settings, error) {
	user, err := findUser(ctx, srv.userRepo, userID)
	if err != nil {
		return nil, err
	}

	return &user.Settings, nil
}

// UpdateSettings applies the non-nil preferences.
func (srv *profileService) UpdateSettings(ctx context.Context, userID uuid.UUID, input *usecase.UpdateSettingsInput) (*entity.Settings, error) {
	user, err := findUser(ctx, srv.userRepo, userID)
	if err != nil {
		return nil, err
	}

	settings := &user.Settings
	if input.EmailNotifications != nil {
		settings.EmailNotifications = *input.EmailNotifications
	}
	if input.PushNotifications != nil {
		settings.PushNotifications = *input.PushNotifications
	}
	if input.OrderUpdates != nil {
		settings.OrderUpdates = *input.OrderUpdates
	}
	applyString(&settings.Language, input.Language)

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update settings")
	}

	return settings, nil
}

// findUser maps a missing account onto the 404 domain error.
func findUser(ctx context.Context, userRepo repository.UserRepository, userID uuid.UUID) (*entity.User, error) {
	user, err := userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// loadProfile returns the stored profile or a fresh one for accounts that never had a row.
func loadProfile(ctx context.Context, profileRepo repository.ProfileRepository, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := profileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return &entity.Profile{UserID: userID, VerificationStatus: entity.VerificationPending}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find profile")
	}

	return profile, nil
}

func saveProfile(ctx context.Context, profileRepo repository.ProfileRepository, user *entity.User, profile *entity.Profile) (*usecase.ProfileOutput, error) {
	profile.CompletionPercentage = entity.ComputeCompletion(user, profile)
	if err := profileRepo.Upsert(ctx, profile); err != nil {
		return nil, errors.Wrap(err, "failed to save profile")
	}

	return &usecase.ProfileOutput{User: user, Profile: profile}, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
