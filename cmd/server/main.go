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
	"github.com/go-redis/redis/v8"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/realtime"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout, logging.ParseLevel(cfg.LogLevel)),
		pgLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Services
	st := store.New(database.DB)
	authService := services.NewAuthService(st, cfg)
	moderationService := services.NewModerationService(st, cfg)
	catalogService := services.NewCatalogService(st)
	conversationService := services.NewConversationService(st)
	shoppingService := services.NewShoppingService(st)
	adminService := services.NewAdminService(st)

	// Presence, mirrored into Redis when configured
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var presence realtime.Presence = realtime.NewLocalPresence()
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable, presence mirror will retry per call", "error", err)
		}
		mirror := realtime.NewRedisPresence(presence, rdb, 2*time.Minute)
		go mirror.Run(ctx)
		presence = mirror
		slog.Info("presence mirrored to redis")
	}
	hub := realtime.NewHub(presence, conversationService, cfg.RealtimePersist)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	productHandler := handlers.NewProductHandler(catalogService, moderationService, cfg)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService, cfg)
	messageHandler := handlers.NewMessageHandler(conversationService, hub, cfg)
	adminHandler := handlers.NewAdminHandler(adminService, moderationService, cfg)
	healthHandler := handlers.NewHealthHandler(database.DB)
	realtimeHandler := handlers.NewRealtimeHandler(authService, hub)

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
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.Metrics())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${respHeader:X-Request-ID}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Routes
	routes.Setup(app, cfg, authService, st.Users, authHandler, productHandler, shoppingHandler, messageHandler, adminHandler, healthHandler, realtimeHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "initial_status", cfg.ProductInitialStatus, "realtime_persist", cfg.RealtimePersist)
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

	cancel()
	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
