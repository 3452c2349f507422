package main

import (
	"context"
	"log/slog"
	"os"

	"agrimarket/config"
	"agrimarket/internal/delivery"
	"agrimarket/internal/delivery/api"
	apimiddleware "agrimarket/internal/delivery/api/middleware"
	"agrimarket/internal/delivery/api/router/handler"
	"agrimarket/internal/infra/auth"
	"agrimarket/internal/infra/cache"
	logs "agrimarket/internal/infra/log"
	"agrimarket/internal/infra/mail"
	"agrimarket/internal/infra/metrics"
	"agrimarket/internal/infra/persistence/mongodb"
	"agrimarket/internal/infra/persistence/postgres"
	"agrimarket/internal/infra/pubsub"
	"agrimarket/internal/infra/qrcode"
	"agrimarket/internal/infra/ratelimit"
	"agrimarket/internal/infra/realtime"
	"agrimarket/internal/infra/sanitize"
	"agrimarket/internal/infra/scheduler"
	"agrimarket/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			// The scheduler registers its own lifecycle hooks once constructed.
			func(*scheduler.Scheduler) {},
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		mongodb.New,
		cache.New,
		metrics.New,
		realtime.NewHub,
		scheduler.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
			postgres.NewUserRepository,
			postgres.NewProfileRepository,
			postgres.NewProductRepository,
			postgres.NewCartRepository,
			postgres.NewOrderRepository,
			postgres.NewNotificationRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewDeviceRepository,
			mongodb.NewMessageRepository,
			cache.NewOTPRepository,
			cache.NewActionGrantRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			mail.New,
			pubsub.NewEventPublisher,
			qrcode.NewFromConfig,
			ratelimit.NewOTPLimiter,
			sanitize.NewTextSanitizer,
			metrics.AsMarketMetrics,
			realtime.AsBroadcaster,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewProfileService,
			impl.NewProductService,
			impl.NewCartService,
			impl.NewOrderService,
			impl.NewNotificationService,
			impl.NewChatService,
			impl.NewDeviceService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			apimiddleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewProfileHandler,
			handler.NewProductHandler,
			handler.NewCartHandler,
			handler.NewOrderHandler,
			handler.NewNotificationHandler,
			handler.NewChatHandler,
			handler.NewDeviceHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
