package service

import "context"

// Mailer sends plain-text email. Delivery is best-effort; callers log and drop failures.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
