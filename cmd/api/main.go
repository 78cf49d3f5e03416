package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/art-gallery-service/internal/api/http"
	"github.com/spec-kit/art-gallery-service/internal/api/http/handlers"
	"github.com/spec-kit/art-gallery-service/internal/auth"
	"github.com/spec-kit/art-gallery-service/internal/config"
	"github.com/spec-kit/art-gallery-service/internal/events"
	"github.com/spec-kit/art-gallery-service/internal/observability"
	"github.com/spec-kit/art-gallery-service/internal/payments"
	"github.com/spec-kit/art-gallery-service/internal/persistence"
	"github.com/spec-kit/art-gallery-service/internal/repository"
	"github.com/spec-kit/art-gallery-service/internal/service"
	"github.com/spec-kit/art-gallery-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	signingKey, err := auth.NewSigningKey(cfg.Auth.JWTSecret)
	if err != nil {
		log.Fatalf("invalid signing key: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	db := pg.Querier()
	var pgHealth handlers.Pinger
	if pg.Enabled() {
		pgHealth = pg
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notifications := service.NewNotificationService(logger, cfg.Notification)
	notificationWorker := worker.StartNotificationWorker(ctx, dispatcher, notifications, logger)

	tokens := auth.NewTokenManager(signingKey, cfg.Auth.TokenLifetime())
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   repository.NewUserRepository(db),
		Tokens:     tokens,
		BcryptCost: cfg.Auth.BcryptCost,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	var gateway payments.Gateway
	if cfg.Payments.Enabled() {
		rzp, err := payments.NewRazorpayGateway(cfg.Payments.KeyID, cfg.Payments.KeySecret)
		if err != nil {
			logger.Fatal("failed to init payment gateway", zap.Error(err))
		}
		gateway = rzp
	} else {
		logger.Warn("RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET not provided; order creation disabled")
	}

	paymentService := service.NewPaymentService(cfg.Payments, service.PaymentDependencies{
		Gateway:    gateway,
		OrderRepo:  repository.NewPaymentOrderRepository(db),
		Replays:    repository.NewPaymentReplayCache(redis.Cmdable(), cfg.Payments.ReplayTTL()),
		Dispatcher: dispatcher,
		Recorder:   metrics,
		Logger:     logger,
	})

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pgHealth, redis, paymentService.Ready()),
		Auth:          handlers.NewAuthHandler(authService),
		Dashboards:    handlers.NewDashboardHandler(),
		Payments:      handlers.NewPaymentsHandler(paymentService),
		Authenticator: auth.NewAuthenticator(tokens, logger, metrics, auth.PaymentCallbackPrefix),
		Metrics:       metrics,
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	notificationWorker.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
