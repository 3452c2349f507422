// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"agrimarket/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrRefreshTokenNotFound is returned when a refresh token is not found.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository defines the interface for refresh token persistence.
// A user holds at most one refresh token at a time.
type RefreshTokenRepository interface {
	// ReplaceRefreshToken removes any token of token.UserID and stores token in its place.
	ReplaceRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByUserID retrieves the active token of a user.
	FindRefreshTokenByUserID(ctx context.Context, userID uuid.UUID) (*entity.RefreshToken, error)

	// DeleteRefreshTokensByUserID removes the token of a user, ending the session.
	DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteExpiredRefreshTokens removes all expired refresh tokens and reports how many were removed.
	DeleteExpiredRefreshTokens(ctx context.Context) (int64, error)
}
