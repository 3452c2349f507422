package cache

import (
	"context"
	"testing"
	"time"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPKeysArePurposeScoped(t *testing.T) {
	userID := uuid.MustParse("0b8f1c1e-4a53-4b1e-9a43-6d1f6b0c2a11")

	login := otpKey(userID, entity.OTPPurposeLogin)
	action := otpKey(userID, entity.OTPPurposeAction)

	assert.Equal(t, "otp:login:0b8f1c1e-4a53-4b1e-9a43-6d1f6b0c2a11", login)
	assert.Equal(t, "otp:action:0b8f1c1e-4a53-4b1e-9a43-6d1f6b0c2a11", action)
	assert.NotEqual(t, login, action)
	assert.Equal(t, "action-grant:0b8f1c1e-4a53-4b1e-9a43-6d1f6b0c2a11", actionGrantKey(userID))
}

func TestSaveRejectsExpiredCode(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &otpRepository{
		// Unreachable address: Save must fail before issuing any command.
		client: redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}),
		now:    func() time.Time { return now },
	}

	err := repo.Save(context.Background(), &entity.OneTimePassword{
		UserID:    uuid.New(),
		Purpose:   entity.OTPPurposeLogin,
		CodeHash:  "hash",
		ExpiresAt: now.Add(-time.Second),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestSaveRejectsCodeWithoutAttempts(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &otpRepository{
		client: redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}),
		now:    func() time.Time { return now },
	}

	err := repo.Save(context.Background(), &entity.OneTimePassword{
		UserID:    uuid.New(),
		Purpose:   entity.OTPPurposeLogin,
		CodeHash:  "hash",
		ExpiresAt: now.Add(time.Minute),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attempt")
}
