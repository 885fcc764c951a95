package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"pinpoint/config"
	"pinpoint/internal/delivery"
	"pinpoint/internal/delivery/http"
	"pinpoint/internal/delivery/http/middleware"
	"pinpoint/internal/delivery/http/router/handler"
	"pinpoint/internal/domain/service"
	"pinpoint/internal/infra/auth"
	logs "pinpoint/internal/infra/log"
	"pinpoint/internal/infra/notification"
	"pinpoint/internal/infra/persistence/postgres"
	"pinpoint/internal/infra/pubsub"
	"pinpoint/internal/infra/qrcode"
	"pinpoint/internal/usecase"
	"pinpoint/internal/usecase/impl"

	"go.uber.org/fx"
)

// sessionCleanupInterval is how often expired refresh sessions are purged.
const sessionCleanupInterval = time.Hour

type startServerParams struct {
	fx.In
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
			startSessionCleanup,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
			postgres.NewUserRepository,
			postgres.NewAuthRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewAddressRepository,
			postgres.NewFallbackContactRepository,
			postgres.NewSubscriptionRepository,
			postgres.NewFeedbackRepository,
			postgres.NewDeviceRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		pubsub.Module,
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			newFirebaseService,
			newQRCodeService,
		),
	)
}

// newFirebaseService creates a Firebase service when credentials are configured.
func newFirebaseService(ctx context.Context, cfg *config.Config) (service.NotificationService, error) {
	if cfg.Firebase == nil {
		return nil, nil // Firebase is optional
	}

	svc, err := notification.NewFirebaseService(ctx, cfg.Firebase.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firebase service: %w", err)
	}

	return svc, nil
}

// newQRCodeService creates a QR code service with configured rendering options.
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewSessionService,
			impl.NewAddressService,
			impl.NewFallbackService,
			impl.NewLookupService,
			impl.NewFeedbackService,
			impl.NewSubscriptionService,
			impl.NewDeviceService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewSessionHandler,
			handler.NewAddressHandler,
			handler.NewFallbackHandler,
			handler.NewLookupHandler,
			handler.NewFeedbackHandler,
			handler.NewSubscriptionHandler,
			handler.NewDeviceHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// startSessionCleanup periodically purges expired refresh sessions.
func startSessionCleanup(lc fx.Lifecycle, logger *slog.Logger, sessionUC usecase.SessionUsecase) {
	cleanupCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go runSessionCleanup(cleanupCtx, logger, sessionUC, sessionCleanupInterval)

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()

			return nil
		},
	})
}

func runSessionCleanup(ctx context.Context, logger *slog.Logger, sessionUC usecase.SessionUsecase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessionUC.CleanupExpiredSessions(ctx); err != nil {
				logger.Warn("Failed to clean up expired sessions", slog.Any("error", err))
			}
		}
	}
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
