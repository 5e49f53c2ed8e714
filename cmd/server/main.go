package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/payment"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

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
	logging.Attach(pgLogHandler)

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Public page cache
	var pages cache.PageCache = cache.Noop{}
	var redisCache *cache.RedisPageCache
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.PublicCacheTTL)
		if err != nil {
			slog.Warn("redis unavailable, public pages are served uncached", "addr", cfg.RedisAddr, "error", err)
		} else {
			redisCache = rc
			pages = rc
			slog.Info("public page cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.PublicCacheTTL.String())
		}
	}

	// Object storage
	var store storage.Presigner
	if cld, err := storage.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret); err != nil {
		slog.Warn("uploads disabled", "error", err)
	} else {
		store = cld
	}

	gateway := newGateway(cfg)
	google := services.NewGoogleJWKSClient(cfg.GoogleClientID)

	// Onboarding
	table := onboarding.DefaultTable()
	mirror := onboarding.NewCookieMirror(table, cfg.CookieSecure)

	// Services
	onboardingService := services.NewOnboardingService(database.DB, table)
	authService := services.NewAuthService(database.DB, cfg, google, onboardingService)
	profileService := services.NewProfileService(database.DB, onboardingService)
	waitlistService := services.NewWaitlistService(database.DB, onboardingService, pages)
	subscriberService := services.NewSubscriberService(database.DB, waitlistService, gateway)
	paymentService := services.NewPaymentService(database.DB, gateway)
	uploadService := services.NewUploadService(database.DB, store, waitlistService, cfg.UploadFolder)

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
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, mirror),
		Health:     handlers.NewHealthHandler(database.DB, pages),
		Onboarding: handlers.NewOnboardingHandler(onboardingService, mirror),
		Profile:    handlers.NewProfileHandler(profileService, waitlistService, mirror, table),
		Waitlist:   handlers.NewWaitlistHandler(waitlistService, mirror, table),
		Page:       handlers.NewPageHandler(profileService, waitlistService, table),
		Subscriber: handlers.NewSubscriberHandler(subscriberService),
		Payment:    handlers.NewPaymentHandler(paymentService),
		Upload:     handlers.NewUploadHandler(uploadService),
		Gate:       middleware.NewOnboardingGate(table, mirror, onboardingService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "gateway", cfg.PaymentGateway)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	google.Close()
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	sentry.Flush(2 * time.Second)

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// newGateway picks the configured payment gateway. Paid joins answer 503
// when it returns nil.
func newGateway(cfg *config.Config) payment.Gateway {
	switch strings.ToLower(cfg.PaymentGateway) {
	case "stripe":
		if cfg.StripeSecretKey == "" {
			break
		}
		return payment.NewStripe(cfg.StripeSecretKey, cfg.StripePublishableKey, cfg.StripeWebhookSecret)
	case "razorpay":
		if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
			break
		}
		return payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookKey)
	default:
		slog.Warn("unknown payment gateway", "gateway", cfg.PaymentGateway)
		return nil
	}
	slog.Warn("payments disabled: gateway keys missing", "gateway", cfg.PaymentGateway)
	return nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
