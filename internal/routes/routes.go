package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers bundles everything Setup mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Onboarding *handlers.OnboardingHandler
	Profile    *handlers.ProfileHandler
	Waitlist   *handlers.WaitlistHandler
	Page       *handlers.PageHandler
	Subscriber *handlers.SubscriberHandler
	Payment    *handlers.PaymentHandler
	Upload     *handlers.UploadHandler
	Gate       *middleware.OnboardingGate
}

func perMinute(n int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               n,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	protected := middleware.JWTProtected(cfg)
	gate := h.Gate

	// Wizard pages: the gate decides from the cookie when it can.
	app.Get("/profile", protected, gate.Page(), h.Page.Profile)
	app.Get("/wait-list/setup/:mode", protected, gate.Page(), h.Page.Setup)
	app.Get("/dashboard", protected, gate.Page(), h.Page.Dashboard)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(perMinute(60))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(perMinute(10))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/google", h.Auth.GoogleSignIn)
	api.Post("/auth/logout", protected, h.Auth.Logout)

	// Onboarding state
	api.Get("/me", protected, h.Profile.Me)
	api.Get("/onboarding", protected, h.Onboarding.Status)
	api.Get("/onboarding/access", protected, h.Onboarding.Access)

	// Step APIs always check the persisted status.
	api.Get("/profile", protected, gate.Step(onboarding.StatusProfile), h.Profile.Get)
	api.Post("/profile", protected, gate.Step(onboarding.StatusProfile), h.Profile.Create)
	api.Patch("/profile", protected, gate.Step(onboarding.StatusProfile), h.Profile.Update)

	waitlists := api.Group("/waitlists", protected)
	waitlists.Get("/slug", h.Waitlist.SlugAvailability)
	waitlists.Get("/mine", gate.Step(onboarding.StatusCourse), h.Waitlist.Mine)
	waitlists.Post("/", gate.Step(onboarding.StatusCourse), h.Waitlist.Create)
	waitlists.Get("/:id", gate.Step(onboarding.StatusCourse), h.Waitlist.Course)
	waitlists.Patch("/:id", gate.Step(onboarding.StatusCourse), h.Waitlist.SaveCourse)
	waitlists.Get("/:id/content", gate.Step(onboarding.StatusContent), h.Waitlist.Content)
	waitlists.Patch("/:id/content", gate.Step(onboarding.StatusContent), h.Waitlist.SaveContent)
	waitlists.Get("/:id/price", gate.Step(onboarding.StatusPrice), h.Waitlist.Price)
	waitlists.Patch("/:id/price", gate.Step(onboarding.StatusPrice), h.Waitlist.SavePrice)

	// Subscriber management opens once the page is live.
	subscribers := api.Group("/subscribers", protected, gate.Step(onboarding.StatusCompleted))
	subscribers.Get("/", h.Subscriber.List)
	subscribers.Post("/", h.Subscriber.Upsert)
	subscribers.Delete("/:id", h.Subscriber.Delete)

	api.Post("/uploads/presign", protected, h.Upload.Presign)
	api.Post("/uploads/commit", protected, h.Upload.Commit)

	// Public page and checkout (no JWT)
	public := api.Group("/public")
	public.Get("/waitlists/:idOrSlug", h.Waitlist.Public)
	public.Post("/waitlists/:idOrSlug/join", perMinute(10), h.Subscriber.Join)
	api.Post("/payment/verify", perMinute(10), h.Payment.Verify)

	// Webhooks are authenticated by the gateway signature.
	api.Post("/webhooks/payments", h.Payment.Webhook)
}
