package repository

import (
	"context"
	"time"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
)

// OTPRepository stores one-time passwords, one record per (user, purpose).
type OTPRepository interface {
	// Save stores otp, replacing a previous record of the same user and purpose only.
	Save(ctx context.Context, otp *entity.OneTimePassword) error

	// Consume deletes the record if codeHash matches and it has not expired.
	// It reports whether the code was accepted. A record is consumed at most once.
	// Every mismatch spends one of the record's MaxAttempts; the record is
	// deleted when none remain, so the correct code no longer verifies.
	Consume(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose, codeHash string) (bool, error)
}

// ActionGrantRepository records that a user passed action verification.
type ActionGrantRepository interface {
	Grant(ctx context.Context, userID uuid.UUID, ttl time.Duration) error
	HasGrant(ctx context.Context, userID uuid.UUID) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID) error
}
