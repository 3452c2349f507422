// Package mail delivers transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"agrimarket/config"
	"agrimarket/internal/domain/service"
	"agrimarket/internal/errors"

	"go.uber.org/fx"
)

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

type dialFunc func(ctx context.Context, addr string) error

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type smtpMailer struct {
	addr    string
	from    string
	auth    smtp.Auth
	retries int
	backoff time.Duration
	logger  *slog.Logger
	send    sendFunc
	dial    dialFunc
}

// New returns an SMTP mailer, or a logging no-op when no host is configured.
// The transport is checked in the background on start; a failed check is logged
// and the service keeps running since mail is best-effort.
func New(params Params) service.Mailer {
	cfg := params.Config.SMTP
	if cfg == nil || cfg.Host == "" {
		params.Logger.Warn("SMTP host not configured, email delivery disabled")

		return &noopMailer{logger: params.Logger}
	}

	mailer := newSMTPMailer(cfg, params.Logger)

	verifyCtx, cancel := context.WithCancel(context.Background())
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := mailer.Verify(verifyCtx); err != nil {
					params.Logger.Warn("SMTP transport unavailable, emails will fail until it recovers",
						slog.String("addr", mailer.addr), slog.Any("error", err))
				}
			}()

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()

			return nil
		},
	})

	return mailer
}

func newSMTPMailer(cfg *config.SMTPConfig, logger *slog.Logger) *smtpMailer {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &smtpMailer{
		addr:    addr,
		from:    from,
		auth:    auth,
		retries: max(cfg.VerifyRetries, 1),
		backoff: cfg.VerifyBackoff,
		logger:  logger,
		send:    smtp.SendMail,
		dial:    dialSMTP,
	}
}

// Send writes a plain-text message to a single recipient.
func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(m.from, to, subject, body)
	if err := m.send(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return errors.Wrapf(err, "failed to send email to %s", to)
	}
	m.logger.DebugContext(ctx, "Email sent", slog.String("to", to), slog.String("subject", subject))

	return nil
}

// Verify dials the server up to retries times, waiting backoff between attempts.
func (m *smtpMailer) Verify(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= m.retries; attempt++ {
		if lastErr = m.dial(ctx, m.addr); lastErr == nil {
			m.logger.Info("SMTP transport ready", slog.String("addr", m.addr), slog.Int("attempt", attempt))

			return nil
		}
		m.logger.Warn("SMTP check failed", slog.Int("attempt", attempt), slog.Any("error", lastErr))

		if attempt == m.retries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.backoff):
		}
	}

	return errors.Wrapf(lastErr, "smtp transport unreachable after %d attempts", m.retries)
}

func dialSMTP(ctx context.Context, addr string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	host, _, _ := net.SplitHostPort(addr)
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()

		return err
	}

	return client.Quit()
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(body)

	return []byte(b.String())
}

// sanitizeHeader strips line breaks so user-supplied text cannot inject headers.
func sanitizeHeader(value string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(value)
}

type noopMailer struct {
	logger *slog.Logger
}

func (m *noopMailer) Send(ctx context.Context, to, subject, _ string) error {
	m.logger.InfoContext(ctx, "Email delivery disabled, dropping message",
		slog.String("to", to), slog.String("subject", subject))

	return nil
}
