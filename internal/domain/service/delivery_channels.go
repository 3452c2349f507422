// Package service declares the ports the use cases depend on. Infrastructure
// packages provide the implementations.
package service

import "context"

// NotificationService fans a push message out to the FCM tokens of one account.
type NotificationService interface {
	// SendBatchNotification reports tokens the provider no longer recognizes in
	// invalidTokens so the caller can deactivate those devices.
	SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error)

	SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error
}

// PasswordHasher hashes account passwords. Check never reveals why a comparison failed.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}
