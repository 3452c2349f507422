package usecase

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileUsecase defines the interface for profile, bank detail and settings operations.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileOutput, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*ProfileOutput, error)
	UpdateBankDetails(ctx context.Context, userID uuid.UUID, input *UpdateBankDetailsInput) (*ProfileOutput, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input *ChangePasswordInput) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
	GetSettings(ctx context.Context, userID uuid.UUID) (*entity.Settings, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, input *UpdateSettingsInput) (*entity.Settings, error)
}

// --- Input DTOs ---

// UpdateProfileInput defines the editable personal fields. Nil fields are left unchanged.
type UpdateProfileInput struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=2,max=64"`
	Mobile    *string `json:"mobile,omitempty" validate:"omitempty,min=7,max=20"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=512"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
	KisanCard *string `json:"kisanCard,omitempty" validate:"omitempty,max=64"`
	FarmerID  *string `json:"farmerId,omitempty" validate:"omitempty,max=64"`
}

// UpdateBankDetailsInput defines the payout account of a Producer.
type UpdateBankDetailsInput struct {
	AccountHolder string `json:"accountHolder" validate:"required,max=128"`
	AccountNumber string `json:"accountNumber" validate:"required,numeric,min=6,max=20"`
	IFSC          string `json:"ifsc" validate:"required,len=11,alphanum"`
	BankName      string `json:"bankName" validate:"required,max=128"`
	UPIID         string `json:"upiId" validate:"omitempty,max=64"`
}

// ChangePasswordInput defines the data required to change a password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// UpdateSettingsInput defines the preference changes. Nil fields are left unchanged.
type UpdateSettingsInput struct {
	EmailNotifications *bool   `json:"emailNotifications,omitempty"`
	PushNotifications  *bool   `json:"pushNotifications,omitempty"`
	OrderUpdates       *bool   `json:"orderUpdates,omitempty"`
	Language           *string `json:"language,omitempty" validate:"omitempty,min=2,max=8"`
}

// --- Output DTOs ---

// ProfileOutput combines the account with its profile bookkeeping.
type ProfileOutput struct {
	User    *entity.User    `json:"user"`
	Profile *entity.Profile `json:"profile"`
}
