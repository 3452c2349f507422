// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new account.
type SignupInput struct {
	Username  string          `json:"username" validate:"required,min=2,max=64"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8,max=72"`
	Mobile    string          `json:"mobile" validate:"omitempty,min=7,max=20"`
	UserType  entity.UserType `json:"userType" validate:"required,oneof=Producer Consumer"`
	Address   string          `json:"address" validate:"omitempty,max=512"`
	KisanCard string          `json:"kisanCard" validate:"omitempty,max=64"`
	FarmerID  string          `json:"farmerId" validate:"omitempty,max=64"`
}

// LoginInput defines the data required for a user to log in.
// The same email may own one account per user type, so the type is part of the credentials.
type LoginInput struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required"`
	UserType entity.UserType `json:"userType" validate:"required,oneof=Producer Consumer"`
}

// SendOTPInput identifies the account a login code is sent to.
type SendOTPInput struct {
	Email    string          `json:"email" validate:"required,email"`
	UserType entity.UserType `json:"userType" validate:"required,oneof=Producer Consumer"`
}

// VerifyOTPInput completes a passwordless login.
type VerifyOTPInput struct {
	Email    string          `json:"email" validate:"required,email"`
	UserType entity.UserType `json:"userType" validate:"required,oneof=Producer Consumer"`
	OTP      string          `json:"otp" validate:"required,numeric"`
}

// --- Output DTOs ---

// AuthOutput returns the generated tokens after a successful login or refresh.
type AuthOutput struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *entity.User `json:"user"`
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Signup(ctx context.Context, input *SignupInput) (*entity.User, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// RefreshToken rotates the single active refresh token of the user.
	RefreshToken(ctx context.Context, refreshToken string) (*AuthOutput, error)
	Logout(ctx context.Context, userID uuid.UUID) error

	SendLoginOTP(ctx context.Context, input *SendOTPInput) error
	VerifyLoginOTP(ctx context.Context, input *VerifyOTPInput) (*AuthOutput, error)

	// SendActionOTP and VerifyActionOTP gate product management behind a second factor.
	SendActionOTP(ctx context.Context, userID uuid.UUID) error
	VerifyActionOTP(ctx context.Context, userID uuid.UUID, code string) error
	HasActionGrant(ctx context.Context, userID uuid.UUID) (bool, error)
}
