package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository/memory"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/repository/postgres"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/homeservices-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(!cfg.IsProduction())

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var (
		store       *repository.Store
		ping        func() error
		pgLogs      *logging.PGHandler
		cleanupDone = make(chan struct{})
	)

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		store = memory.New()
	default:
		if err := database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		store = postgres.New(database.DB)
		ping = database.Ping

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogs = logging.NewPGHandler(logging.GormLogWriter{DB: database.DB}, 5*time.Second)
		logging.Setup(!cfg.IsProduction(), pgLogs)

		logging.StartCleanup(database.DB, cfg.LogRetention, cleanupDone)
	}

	// Services
	ctx := context.Background()
	settingsService := services.NewSettingsService(store.Settings)
	if err := settingsService.SeedDefaults(ctx); err != nil {
		slog.Error("seeding settings failed", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(store, cfg, settingsService)
	if _, err := authService.EnsureAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		slog.Error("bootstrap admin failed", "error", err)
		os.Exit(1)
	}
	bookingService := services.NewBookingService(store)
	reviewService := services.NewReviewService(store, services.NewContentFilter())
	userService := services.NewUserService(store)
	providerService := services.NewProviderService(store)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, authService, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Health:   handlers.NewHealthHandler(cfg.StoreDriver, ping),
		Bookings: handlers.NewBookingHandler(bookingService),
		Reviews:  handlers.NewReviewHandler(reviewService),
		Users:    handlers.NewUserHandler(userService),
		Provider: handlers.NewProviderHandler(providerService),
		Settings: handlers.NewSettingsHandler(settingsService),
	}, routes.DefaultLimits)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if pgLogs != nil {
		pgLogs.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
