// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken represents the single active session of a user.
// A new login replaces it, which invalidates any session opened elsewhere.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this specific refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // Stores a SHA-256 hash of the raw refresh token for secure comparison in the database.
	ExpiresAt time.Time // The exact time when this refresh token will expire and become invalid.
	CreatedAt time.Time // Timestamp of when this session was created (i.e., when the user logged in).
}

// OTPPurpose tags what a one-time password unlocks. Each purpose is stored independently.
type OTPPurpose string

const (
	// OTPPurposeLogin is a passwordless login code.
	OTPPurposeLogin OTPPurpose = "login"
	// OTPPurposeAction gates product management operations.
	OTPPurposeAction OTPPurpose = "action"
)

// String returns the string representation of the OTPPurpose.
func (p OTPPurpose) String() string {
	return string(p)
}

// OneTimePassword is an issued code awaiting verification.
type OneTimePassword struct {
	UserID    uuid.UUID
	Purpose   OTPPurpose
	CodeHash  string // SHA-256 of the numeric code
	ExpiresAt time.Time
	// MaxAttempts is the number of wrong guesses after which the code is discarded.
	MaxAttempts int
}
