package impl

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"agrimarket/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:      4,
			AccessTokenTTL:  8 * time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		OTP: &config.OTPConfig{
			Length:       6,
			TTL:          5 * time.Minute,
			SendInterval: 30 * time.Second,
			SendBurst:    3,
			MaxAttempts:  5,
		},
		Chat: &config.ChatConfig{HistoryLimit: 100},
	}
}

// fixedNow returns a clock frozen at a known instant.
func fixedNow() time.Time {
	return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
}

// trimSanitizer stands in for the HTML sanitizer and only trims whitespace.
type trimSanitizer struct{}

func (trimSanitizer) Sanitize(input string) string {
	return strings.TrimSpace(input)
}
