package impl

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"agrimarket/internal/domain/entity"
	domainerrors "agrimarket/internal/domain/errors"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/domain/service"
	mockRepo "agrimarket/internal/mocks/repository"
	mockSvc "agrimarket/internal/mocks/service"
	"agrimarket/internal/usecase"
	"agrimarket/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service          *authService
	txManager        *mockRepo.MockTransactionManager
	repoFactory      *mockRepo.MockRepositoryFactory
	userRepo         *mockRepo.MockUserRepository
	profileRepo      *mockRepo.MockProfileRepository
	refreshTokenRepo *mockRepo.MockRefreshTokenRepository
	grantRepo        *mockRepo.MockActionGrantRepository
	otpStore         *memoryOTPStore
	hasher           *mockSvc.MockPasswordHasher
	tokenService     *mockSvc.MockTokenService
	mailer           *mockSvc.MockMailer
	limiter          *mockSvc.MockRateLimiter
	metrics          *mockSvc.MockMarketMetrics
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	f := authServiceFixtures{
		txManager:        mockRepo.NewMockTransactionManager(t),
		repoFactory:      mockRepo.NewMockRepositoryFactory(t),
		userRepo:         mockRepo.NewMockUserRepository(t),
		profileRepo:      mockRepo.NewMockProfileRepository(t),
		refreshTokenRepo: mockRepo.NewMockRefreshTokenRepository(t),
		grantRepo:        mockRepo.NewMockActionGrantRepository(t),
		otpStore:         newMemoryOTPStore(),
		hasher:           mockSvc.NewMockPasswordHasher(t),
		tokenService:     mockSvc.NewMockTokenService(t),
		mailer:           mockSvc.NewMockMailer(t),
		limiter:          mockSvc.NewMockRateLimiter(t),
		metrics:          mockSvc.NewMockMarketMetrics(t),
	}

	svc, ok := NewAuthService(AuthServiceParams{
		TxManager:        f.txManager,
		UserRepo:         f.userRepo,
		RefreshTokenRepo: f.refreshTokenRepo,
		OTPRepo:          f.otpStore,
		GrantRepo:        f.grantRepo,
		Hasher:           f.hasher,
		TokenService:     f.tokenService,
		Mailer:           f.mailer,
		OTPLimiter:       f.limiter,
		Metrics:          f.metrics,
		Config:           newTestConfig(),
		Logger:           newDiscardLogger(),
	}).(*authService)
	require.True(t, ok)
	svc.now = fixedNow
	f.service = svc

	return f
}

// memoryOTPStore is an in-process OTPRepository with the same consume-once
// and attempt-budget semantics as the redis store.
type memoryOTPStore struct {
	mu       sync.Mutex
	codes    map[string]*entity.OneTimePassword
	attempts map[string]int
	now      func() time.Time
}

func newMemoryOTPStore() *memoryOTPStore {
	return &memoryOTPStore{
		codes:    make(map[string]*entity.OneTimePassword),
		attempts: make(map[string]int),
		now:      fixedNow,
	}
}

func (s *memoryOTPStore) Save(_ context.Context, otp *entity.OneTimePassword) error {
	if otp.MaxAttempts <= 0 {
		return errors.New("otp needs at least one attempt")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := otp.Purpose.String() + ":" + otp.UserID.String()
	s.codes[key] = otp
	s.attempts[key] = otp.MaxAttempts

	return nil
}

func (s *memoryOTPStore) Consume(_ context.Context, userID uuid.UUID, purpose entity.OTPPurpose, codeHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := purpose.String() + ":" + userID.String()
	otp, ok := s.codes[key]
	if !ok || !otp.ExpiresAt.After(s.now()) {
		return false, nil
	}
	if otp.CodeHash != codeHash {
		s.attempts[key]--
		if s.attempts[key] <= 0 {
			delete(s.codes, key)
		}

		return false, nil
	}
	delete(s.codes, key)

	return true, nil
}

var codePattern = regexp.MustCompile(`code is (\d{6})`)

// expectMail captures the code of every OTP email sent to addr.
func (f authServiceFixtures) expectMail(addr string) *[]string {
	var codes []string
	f.mailer.On("Send", mock.Anything, addr, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			if m := codePattern.FindStringSubmatch(args.String(3)); m != nil {
				codes = append(codes, m[1])
			}
		}).
		Return(nil)

	return &codes
}

func newTestUser(userType entity.UserType) *entity.User {
	return &entity.User{
		ID:           uuid.New(),
		Username:     "asha",
		Email:        "asha@example.com",
		PasswordHash: "hashed",
		UserType:     userType,
		Settings:     entity.DefaultSettings(),
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	input := &usecase.SignupInput{
		Username:  "asha",
		Email:     " Asha@Example.com ",
		Password:  "secret123",
		UserType:  entity.UserTypeProducer,
		KisanCard: "KC-1",
	}

	fx.hasher.On("Hash", "secret123").Return("hashed", nil)
	fx.txManager.On("Execute", ctx, mock.Anything).Return(fx.repoFactory)
	fx.repoFactory.On("NewUserRepository").Return(fx.userRepo)
	fx.repoFactory.On("NewProfileRepository").Return(fx.profileRepo)
	fx.userRepo.On("FindByEmailAndType", ctx, "asha@example.com", entity.UserTypeProducer).Return(nil, repository.ErrUserNotFound)
	fx.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil)
	fx.profileRepo.On("Upsert", ctx, mock.MatchedBy(func(p *entity.Profile) bool {
		return p.VerificationStatus == entity.VerificationPending && p.CompletionPercentage > 0
	})).Return(nil)

	user, err := fx.service.Signup(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, "hashed", user.PasswordHash)
	assert.Equal(t, "KC-1", user.KisanCard)
	assert.Equal(t, entity.DefaultSettings(), user.Settings)
}

func TestAuthService_Signup_DuplicateEmailAndType(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	input := &usecase.SignupInput{
		Username: "asha",
		Email:    "asha@example.com",
		Password: "secret123",
		UserType: entity.UserTypeConsumer,
	}

	fx.hasher.On("Hash", "secret123").Return("hashed", nil)
	fx.txManager.On("Execute", ctx, mock.Anything).Return(fx.repoFactory)
	fx.repoFactory.On("NewUserRepository").Return(fx.userRepo)
	fx.userRepo.On("FindByEmailAndType", ctx, "asha@example.com", entity.UserTypeConsumer).
		Return(newTestUser(entity.UserTypeConsumer), nil)

	user, err := fx.service.Signup(ctx, input)

	require.Error(t, err)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
	fx.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Signup_CreateRaceMapsToConflict(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.hasher.On("Hash", "secret123").Return("hashed", nil)
	fx.txManager.On("Execute", ctx, mock.Anything).Return(fx.repoFactory)
	fx.repoFactory.On("NewUserRepository").Return(fx.userRepo)
	fx.userRepo.On("FindByEmailAndType", ctx, "asha@example.com", entity.UserTypeConsumer).Return(nil, repository.ErrUserNotFound)
	fx.userRepo.On("Create", ctx, mock.Anything).Return(repository.ErrUserAlreadyExists)

	_, err := fx.service.Signup(ctx, &usecase.SignupInput{
		Username: "asha", Email: "asha@example.com", Password: "secret123", UserType: entity.UserTypeConsumer,
	})

	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAuthService_Signup_InvalidUserType(t *testing.T) {
	fx := createTestAuthService(t)

	_, err := fx.service.Signup(context.Background(), &usecase.SignupInput{
		Username: "asha", Email: "asha@example.com", Password: "secret123", UserType: "Admin",
	})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidUserType)
}

func TestAuthService_Login_GenericFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(fx authServiceFixtures)
		input *usecase.LoginInput
	}{
		{
			name: "unknown email",
			setup: func(fx authServiceFixtures) {
				fx.userRepo.On("FindByEmailAndType", mock.Anything, "ghost@example.com", entity.UserTypeConsumer).
					Return(nil, repository.ErrUserNotFound)
			},
			input: &usecase.LoginInput{Email: "ghost@example.com", Password: "secret123", UserType: entity.UserTypeConsumer},
		},
		{
			name: "wrong user type",
			setup: func(fx authServiceFixtures) {
				fx.userRepo.On("FindByEmailAndType", mock.Anything, "asha@example.com", entity.UserTypeConsumer).
					Return(nil, repository.ErrUserNotFound)
			},
			input: &usecase.LoginInput{Email: "asha@example.com", Password: "secret123", UserType: entity.UserTypeConsumer},
		},
		{
			name: "wrong password",
			setup: func(fx authServiceFixtures) {
				fx.userRepo.On("FindByEmailAndType", mock.Anything, "asha@example.com", entity.UserTypeProducer).
					Return(newTestUser(entity.UserTypeProducer), nil)
				fx.hasher.On("Check", "wrong", "hashed").Return(false)
			},
			input: &usecase.LoginInput{Email: "asha@example.com", Password: "wrong", UserType: entity.UserTypeProducer},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAuthService(t)
			tt.setup(fx)

			output, err := fx.service.Login(context.Background(), tt.input)

			require.Error(t, err)
			assert.Nil(t, output)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
			assert.Equal(t, "Invalid credentials", err.Error())
		})
	}
}

func TestAuthService_Login_ReplacesRefreshToken(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := newTestUser(entity.UserTypeProducer)

	fx.userRepo.On("FindByEmailAndType", ctx, "asha@example.com", entity.UserTypeProducer).Return(user, nil)
	fx.hasher.On("Check", "secret123", "hashed").Return(true)
	fx.tokenService.On("GenerateTokens", user).Return("access", "refresh", nil)
	fx.tokenService.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fx.refreshTokenRepo.On("ReplaceRefreshToken", ctx, mock.MatchedBy(func(token *entity.RefreshToken) bool {
		return token.UserID == user.ID &&
			token.TokenHash == util.HashToken("refresh") &&
			token.ExpiresAt.Equal(fixedNow().Add(7*24*time.Hour))
	})).Return(nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "asha@example.com", Password: "secret123", UserType: entity.UserTypeProducer})

	require.NoError(t, err)
	assert.Equal(t, "access", output.AccessToken)
	assert.Equal(t, "refresh", output.RefreshToken)
	assert.Equal(t, user, output.User)
}

func TestAuthService_RefreshToken(t *testing.T) {
	user := newTestUser(entity.UserTypeConsumer)

	t.Run("rotates the active token", func(t *testing.T) {
		fx := createTestAuthService(t)
		ctx := context.Background()

		fx.tokenService.On("ValidateRefreshToken", "refresh-1").Return(&service.Claims{UserID: user.ID, Type: service.TokenTypeRefresh}, nil)
		fx.refreshTokenRepo.On("FindRefreshTokenByUserID", ctx, user.ID).Return(&entity.RefreshToken{
			UserID:    user.ID,
			TokenHash: util.HashToken("refresh-1"),
			ExpiresAt: fixedNow().Add(time.Hour),
		}, nil)
		fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
		fx.tokenService.On("GenerateTokens", user).Return("access-2", "refresh-2", nil)
		fx.tokenService.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
		fx.refreshTokenRepo.On("ReplaceRefreshToken", ctx, mock.MatchedBy(func(token *entity.RefreshToken) bool {
			return token.TokenHash == util.HashToken("refresh-2")
		})).Return(nil)

		output, err := fx.service.RefreshToken(ctx, "refresh-1")

		require.NoError(t, err)
		assert.Equal(t, "refresh-2", output.RefreshToken)
	})

	t.Run("rejects a superseded token", func(t *testing.T) {
		fx := createTestAuthService(t)
		ctx := context.Background()

		fx.tokenService.On("ValidateRefreshToken", "refresh-old").Return(&service.Claims{UserID: user.ID, Type: service.TokenTypeRefresh}, nil)
		fx.refreshTokenRepo.On("FindRefreshTokenByUserID", ctx, user.ID).Return(&entity.RefreshToken{
			UserID:    user.ID,
			TokenHash: util.HashToken("refresh-new"),
			ExpiresAt: fixedNow().Add(time.Hour),
		}, nil)

		_, err := fx.service.RefreshToken(ctx, "refresh-old")

		assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
	})

	t.Run("rejects an invalid signature", func(t *testing.T) {
		fx := createTestAuthService(t)

		fx.tokenService.On("ValidateRefreshToken", "garbage").Return(nil, errors.New("token is malformed"))

		_, err := fx.service.RefreshToken(context.Background(), "garbage")

		assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
	})
}

func TestAuthService_LoginOTP_VerifiesExactlyOnce(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := newTestUser(entity.UserTypeConsumer)
	codes := fx.expectMail(user.Email)

	fx.userRepo.On("FindByEmailAndType", ctx, user.Email, entity.UserTypeConsumer).Return(user, nil)
	fx.limiter.On("Allow", "login:"+user.ID.String()).Return(true)
	fx.metrics.On("OTPIssued", "login").Return()
	fx.userRepo.On("Update", ctx, user).Return(nil).Once()
	fx.tokenService.On("GenerateTokens", user).Return("access", "refresh", nil)
	fx.tokenService.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fx.refreshTokenRepo.On("ReplaceRefreshToken", ctx, mock.Anything).Return(nil)

	require.NoError(t, fx.service.SendLoginOTP(ctx, &usecase.SendOTPInput{Email: user.Email, UserType: entity.UserTypeConsumer}))
	require.Len(t, *codes, 1)
	verify := &usecase.VerifyOTPInput{Email: user.Email, UserType: entity.UserTypeConsumer, OTP: (*codes)[0]}

	output, err := fx.service.VerifyLoginOTP(ctx, verify)
	require.NoError(t, err)
	assert.Equal(t, "access", output.AccessToken)
	assert.True(t, user.Verified)

	_, err = fx.service.VerifyLoginOTP(ctx, verify)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOTP)
}

func TestAuthService_LoginOTP_Expired(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := newTestUser(entity.UserTypeConsumer)
	codes := fx.expectMail(user.Email)

	fx.userRepo.On("FindByEmailAndType", ctx, user.Email, entity.UserTypeConsumer).Return(user, nil)
	fx.limiter.On("Allow", mock.Anything).Return(true)
	fx.metrics.On("OTPIssued", "login").Return()

	require.NoError(t, fx.service.SendLoginOTP(ctx, &usecase.SendOTPInput{Email: user.Email, UserType: entity.UserTypeConsumer}))
	fx.otpStore.now = func() time.Time { return fixedNow().Add(5*time.Minute + time.Second) }

	_, err := fx.service.VerifyLoginOTP(ctx, &usecase.VerifyOTPInput{Email: user.Email, UserType: entity.UserTypeConsumer, OTP: (*codes)[0]})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidOTP)
}

func TestAuthService_LoginOTP_WrongGuessBudget(t *testing.T) {
	tests := []struct {
		name         string
		wrongGuesses int
		wantErr      error
	}{
		{name: "code survives fewer wrong guesses than the budget", wrongGuesses: 4},
		{name: "code is discarded once the budget is spent", wrongGuesses: 5, wantErr: domainerrors.ErrInvalidOTP},
		{name: "thousands of guesses never reach the code", wrongGuesses: 5000, wantErr: domainerrors.ErrInvalidOTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAuthService(t)
			ctx := context.Background()
			user := newTestUser(entity.UserTypeConsumer)
			codes := fx.expectMail(user.Email)

			fx.userRepo.On("FindByEmailAndType", ctx, user.Email, entity.UserTypeConsumer).Return(user, nil)
			fx.limiter.On("Allow", mock.Anything).Return(true)
			fx.metrics.On("OTPIssued", "login").Return()
			if tt.wantErr == nil {
				fx.userRepo.On("Update", ctx, user).Return(nil).Once()
				fx.tokenService.On("GenerateTokens", user).Return("access", "refresh", nil)
				fx.tokenService.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
				fx.refreshTokenRepo.On("ReplaceRefreshToken", ctx, mock.Anything).Return(nil)
			}

			require.NoError(t, fx.service.SendLoginOTP(ctx, &usecase.SendOTPInput{Email: user.Email, UserType: entity.UserTypeConsumer}))
			require.Len(t, *codes, 1)
			code := (*codes)[0]
			wrong := "000000"
			if code == wrong {
				wrong = "111111"
			}

			for range tt.wrongGuesses {
				_, err := fx.service.VerifyLoginOTP(ctx, &usecase.VerifyOTPInput{Email: user.Email, UserType: entity.UserTypeConsumer, OTP: wrong})
				require.ErrorIs(t, err, domainerrors.ErrInvalidOTP)
			}

			output, err := fx.service.VerifyLoginOTP(ctx, &usecase.VerifyOTPInput{Email: user.Email, UserType: entity.UserTypeConsumer, OTP: code})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, fx.otpStore.codes)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, "access", output.AccessToken)
		})
	}
}

func TestAuthService_SendOTP_StoresAttemptBudget(t *testing.T) {
	fx := createTestAuthService(t)
	user := newTestUser(entity.UserTypeProducer)

	fx.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	fx.limiter.On("Allow", mock.Anything).Return(true)
	fx.metrics.On("OTPIssued", "action").Return()
	fx.mailer.On("Send", mock.Anything, user.Email, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, fx.service.SendActionOTP(context.Background(), user.ID))

	stored := fx.otpStore.codes["action:"+user.ID.String()]
	require.NotNil(t, stored)
	assert.Equal(t, 5, stored.MaxAttempts)
}

func TestAuthService_SendLoginOTP_UnknownUser(t *testing.T) {
	fx := createTestAuthService(t)

	fx.userRepo.On("FindByEmailAndType", mock.Anything, "ghost@example.com", entity.UserTypeConsumer).Return(nil, repository.ErrUserNotFound)

	err := fx.service.SendLoginOTP(context.Background(), &usecase.SendOTPInput{Email: "ghost@example.com", UserType: entity.UserTypeConsumer})

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAuthService_SendOTP_RateLimited(t *testing.T) {
	fx := createTestAuthService(t)
	user := newTestUser(entity.UserTypeProducer)

	fx.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	fx.limiter.On("Allow", "action:"+user.ID.String()).Return(false)

	err := fx.service.SendActionOTP(context.Background(), user.ID)

	assert.ErrorIs(t, err, domainerrors.ErrOTPRateLimited)
	assert.Empty(t, fx.otpStore.codes)
}

func TestAuthService_SendOTP_MailFailureIsNotFatal(t *testing.T) {
	fx := createTestAuthService(t)
	user := newTestUser(entity.UserTypeProducer)

	fx.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	fx.limiter.On("Allow", mock.Anything).Return(true)
	fx.metrics.On("OTPIssued", "action").Return()
	fx.mailer.On("Send", mock.Anything, user.Email, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	require.NoError(t, fx.service.SendActionOTP(context.Background(), user.ID))
	assert.Len(t, fx.otpStore.codes, 1)
}

func TestAuthService_ActionAndLoginOTPAreIndependent(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := newTestUser(entity.UserTypeProducer)
	user.Verified = true
	codes := fx.expectMail(user.Email)

	fx.userRepo.On("FindByEmailAndType", ctx, user.Email, entity.UserTypeProducer).Return(user, nil)
	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.limiter.On("Allow", mock.Anything).Return(true)
	fx.metrics.On("OTPIssued", mock.Anything).Return()
	fx.tokenService.On("GetAccessTokenDuration").Return(8 * time.Hour)
	fx.grantRepo.On("Grant", ctx, user.ID, 8*time.Hour).Return(nil)
	fx.tokenService.On("GenerateTokens", user).Return("access", "refresh", nil)
	fx.tokenService.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fx.refreshTokenRepo.On("ReplaceRefreshToken", ctx, mock.Anything).Return(nil)

	require.NoError(t, fx.service.SendLoginOTP(ctx, &usecase.SendOTPInput{Email: user.Email, UserType: entity.UserTypeProducer}))
	require.NoError(t, fx.service.SendActionOTP(ctx, user.ID))
	require.Len(t, *codes, 2)
	loginCode, actionCode := (*codes)[0], (*codes)[1]

	require.NoError(t, fx.service.VerifyActionOTP(ctx, user.ID, actionCode))

	_, err := fx.service.VerifyLoginOTP(ctx, &usecase.VerifyOTPInput{Email: user.Email, UserType: entity.UserTypeProducer, OTP: loginCode})
	require.NoError(t, err)
}

func TestAuthService_VerifyActionOTP_WrongCode(t *testing.T) {
	fx := createTestAuthService(t)
	userID := uuid.New()

	err := fx.service.VerifyActionOTP(context.Background(), userID, "000000")

	assert.ErrorIs(t, err, domainerrors.ErrInvalidOTP)
	fx.grantRepo.AssertNotCalled(t, "Grant", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Logout(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.refreshTokenRepo.On("DeleteRefreshTokensByUserID", ctx, userID).Return(nil)
	fx.grantRepo.On("Revoke", ctx, userID).Return(errors.New("redis unavailable"))

	assert.NoError(t, fx.service.Logout(ctx, userID))
}
