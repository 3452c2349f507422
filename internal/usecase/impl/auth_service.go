// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"agrimarket/config"
	deliverycontext "agrimarket/internal/delivery/context"
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

// authService implements the AuthUsecase interface.
type authService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	otpRepo          repository.OTPRepository
	grantRepo        repository.ActionGrantRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	mailer           service.Mailer
	otpLimiter       service.RateLimiter
	metrics          service.MarketMetrics
	otpLength        int
	otpTTL           time.Duration
	otpMaxAttempts   int
	logger           *slog.Logger
	now              func() time.Time
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	OTPRepo          repository.OTPRepository
	GrantRepo        repository.ActionGrantRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Mailer           service.Mailer
	OTPLimiter       service.RateLimiter
	Metrics          service.MarketMetrics
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	otpLength, otpTTL, otpMaxAttempts := 6, 5*time.Minute, 5
	if params.Config != nil && params.Config.OTP != nil {
		otpLength = params.Config.OTP.Length
		otpTTL = params.Config.OTP.TTL
		if params.Config.OTP.MaxAttempts > 0 {
			otpMaxAttempts = params.Config.OTP.MaxAttempts
		}
	}

	return &authService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		otpRepo:          params.OTPRepo,
		grantRepo:        params.GrantRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		mailer:           params.Mailer,
		otpLimiter:       params.OTPLimiter,
		metrics:          params.Metrics,
		otpLength:        otpLength,
		otpTTL:           otpTTL,
		otpMaxAttempts:   otpMaxAttempts,
		logger:           params.Logger,
		now:              time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates the account and its profile in one transaction.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (*entity.User, error) {
	if !input.UserType.IsValid() {
		return nil, domainerrors.ErrInvalidUserType
	}
	email := normalizeEmail(input.Email)

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	user := &entity.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(input.Username),
		Email:        email,
		PasswordHash: hash,
		Mobile:       input.Mobile,
		UserType:     input.UserType,
		Address:      input.Address,
		Settings:     entity.DefaultSettings(),
	}
	if user.IsProducer() {
		user.KisanCard = input.KisanCard
		user.FarmerID = input.FarmerID
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		_, err := userRepo.FindByEmailAndType(ctx, email, input.UserType)
		if err == nil {
			return domainerrors.ErrUserAlreadyExists
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to look up existing user")
		}

		if err := userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrUserAlreadyExists) {
				return domainerrors.ErrUserAlreadyExists
			}

			return errors.Wrap(err, "failed to create user")
		}

		profile := &entity.Profile{
			UserID:             user.ID,
			VerificationStatus: entity.VerificationPending,
		}
		profile.CompletionPercentage = entity.ComputeCompletion(user, profile)

		return errors.Wrap(repoFactory.NewProfileRepository().Upsert(ctx, profile), "failed to create profile")
	})
	if err != nil {
		srv.log(ctx).Warn("Signup failed", slog.String("email", email), slog.Any("userType", input.UserType), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute signup transaction")
	}

	srv.log(ctx).Info("User signed up", slog.Any("userID", user.ID), slog.Any("userType", user.UserType))

	return user, nil
}

// Login checks the credentials and opens a new session, replacing any previous one.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	user, err := srv.userRepo.FindByEmailAndType(ctx, normalizeEmail(input.Email), input.UserType)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Info("Login rejected", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	return srv.issueSession(ctx, user)
}

// RefreshToken rotates the refresh token. Only the most recently issued token is accepted.
func (srv *authService) RefreshToken(ctx context.Context, refreshToken string) (*usecase.AuthOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	stored, err := srv.refreshTokenRepo.FindRefreshTokenByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to find refresh token")
	}
	if stored.TokenHash != util.HashToken(refreshToken) || !stored.ExpiresAt.After(srv.now()) {
		srv.log(ctx).Info("Refresh token does not match the active session", slog.Any("userID", claims.UserID))

		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return srv.issueSession(ctx, user)
}

// Logout ends the active session and drops any action grant.
func (srv *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to delete refresh token")
	}
	if err := srv.grantRepo.Revoke(ctx, userID); err != nil {
		srv.log(ctx).Warn("Failed to revoke action grant", slog.Any("userID", userID), slog.Any("error", err))
	}

	return nil
}

// SendLoginOTP issues a passwordless login code for an existing account.
func (srv *authService) SendLoginOTP(ctx context.Context, input *usecase.SendOTPInput) error {
	user, err := srv.userRepo.FindByEmailAndType(ctx, normalizeEmail(input.Email), input.UserType)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to find user")
	}

	return srv.issueOTP(ctx, user, entity.OTPPurposeLogin)
}

// VerifyLoginOTP consumes a login code and opens a session.
func (srv *authService) VerifyLoginOTP(ctx context.Context, input *usecase.VerifyOTPInput) (*usecase.AuthOutput, error) {
	user, err := srv.userRepo.FindByEmailAndType(ctx, normalizeEmail(input.Email), input.UserType)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidOTP
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	if err := srv.consumeOTP(ctx, user.ID, entity.OTPPurposeLogin, input.OTP); err != nil {
		return nil, err
	}

	if !user.Verified {
		user.Verified = true
		if err := srv.userRepo.Update(ctx, user); err != nil {
			return nil, errors.Wrap(err, "failed to mark user verified")
		}
	}

	return srv.issueSession(ctx, user)
}

// SendActionOTP issues a code that unlocks product management.
func (srv *authService) SendActionOTP(ctx context.Context, userID uuid.UUID) error {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to find user")
	}

	return srv.issueOTP(ctx, user, entity.OTPPurposeAction)
}

// VerifyActionOTP consumes an action code and grants product management for one access-token lifetime.
func (srv *authService) VerifyActionOTP(ctx context.Context, userID uuid.UUID, code string) error {
	if err := srv.consumeOTP(ctx, userID, entity.OTPPurposeAction, code); err != nil {
		return err
	}

	if err := srv.grantRepo.Grant(ctx, userID, srv.tokenService.GetAccessTokenDuration()); err != nil {
		return errors.Wrap(err, "failed to record action grant")
	}

	srv.log(ctx).Info("Action verification granted", slog.Any("userID", userID))

	return nil
}

// HasActionGrant reports whether the user passed action verification recently.
func (srv *authService) HasActionGrant(ctx context.Context, userID uuid.UUID) (bool, error) {
	granted, err := srv.grantRepo.HasGrant(ctx, userID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check action grant")
	}

	return granted, nil
}

func (srv *authService) issueSession(ctx context.Context, user *entity.User) (*usecase.AuthOutput, error) {
	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	now := srv.now()
	token := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: util.HashToken(refreshToken),
		ExpiresAt: now.Add(srv.tokenService.GetRefreshTokenDuration()),
		CreatedAt: now,
	}
	if err := srv.refreshTokenRepo.ReplaceRefreshToken(ctx, token); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	srv.log(ctx).Debug("Session issued", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (srv *authService) issueOTP(ctx context.Context, user *entity.User, purpose entity.OTPPurpose) error {
	if !srv.otpLimiter.Allow(purpose.String() + ":" + user.ID.String()) {
		return domainerrors.ErrOTPRateLimited
	}

	code, err := util.GenerateNumericCode(srv.otpLength)
	if err != nil {
		return errors.Wrap(err, "failed to generate otp")
	}

	otp := &entity.OneTimePassword{
		UserID:    user.ID,
		Purpose:   purpose,
		CodeHash:    util.HashToken(code),
		ExpiresAt:   srv.now().Add(srv.otpTTL),
		MaxAttempts: srv.otpMaxAttempts,
	}
	if err := srv.otpRepo.Save(ctx, otp); err != nil {
		return errors.Wrap(err, "failed to store otp")
	}
	srv.metrics.OTPIssued(purpose.String())

	subject := "Your AgriMarket login code"
	if purpose == entity.OTPPurposeAction {
		subject = "Your AgriMarket verification code"
	}
	body := fmt.Sprintf("Hello %s,\n\nYour code is %s. It expires in %s.\n", user.Username, code, util.FormatDuration(srv.otpTTL))
	if err := srv.mailer.Send(ctx, user.Email, subject, body); err != nil {
		srv.log(ctx).Warn("Failed to email otp", slog.Any("userID", user.ID), slog.String("purpose", purpose.String()), slog.Any("error", err))
	}

	return nil
}

func (srv *authService) consumeOTP(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose, code string) error {
	ok, err := srv.otpRepo.Consume(ctx, userID, purpose, util.HashToken(strings.TrimSpace(code)))
	if err != nil {
		return errors.Wrap(err, "failed to consume otp")
	}
	if !ok {
		return domainerrors.ErrInvalidOTP
	}

	return nil
}
