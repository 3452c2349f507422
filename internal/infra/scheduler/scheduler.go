// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"agrimarket/config"
	"agrimarket/internal/domain/repository"
	"agrimarket/internal/errors"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

const (
	defaultTokenCleanupSpec = "@hourly"
	jobTimeout              = time.Minute
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config        *config.Config
	Logger        *slog.Logger
	RefreshTokens repository.RefreshTokenRepository
}

// Scheduler wraps a cron runner whose lifetime follows the fx app.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New registers the housekeeping jobs. Nothing runs when the scheduler is disabled.
func New(params Params) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		logger: params.Logger,
	}

	cfg := params.Config.Scheduler
	if cfg == nil || !cfg.Enabled {
		params.Logger.Info("Scheduler disabled")

		return s, nil
	}

	spec := cfg.TokenCleanupSpec
	if spec == "" {
		spec = defaultTokenCleanupSpec
	}
	if err := s.Add(spec, "refresh-token-cleanup", TokenCleanupJob(params.RefreshTokens)); err != nil {
		return nil, err
	}

	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.cron.Start()
			params.Logger.Info("Scheduler started", slog.Int("jobs", len(s.cron.Entries())))

			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-s.cron.Stop().Done():
			case <-ctx.Done():
			}

			return nil
		},
	})

	return s, nil
}

// Add schedules job under spec, logging each run's outcome.
func (s *Scheduler) Add(spec, name string, job func(ctx context.Context) (int64, error)) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		affected, err := job(ctx)
		if err != nil {
			s.logger.Error("Scheduled job failed", slog.String("job", name), slog.Any("error", err))

			return
		}
		s.logger.Info("Scheduled job finished",
			slog.String("job", name),
			slog.Int64("affected", affected),
			slog.Duration("took", time.Since(start)),
		)
	})
	if err != nil {
		return errors.Wrapf(err, "invalid schedule %q for job %s", spec, name)
	}

	return nil
}

// TokenCleanupJob deletes refresh tokens past their expiry.
func TokenCleanupJob(tokens repository.RefreshTokenRepository) func(ctx context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) {
		return tokens.DeleteExpiredRefreshTokens(ctx)
	}
}
