package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// StatusLocalsKey holds the onboarding status the gate decided on.
const StatusLocalsKey = "onboarding_status"

// StatusSource reads a user's persisted onboarding status.
type StatusSource interface {
	Status(userID uuid.UUID) (onboarding.Status, error)
}

// OnboardingGate enforces the wizard order on page and API routes. Every
// route goes through ResolveAccess on the shared step table.
type OnboardingGate struct {
	table    *onboarding.Table
	mirror   *onboarding.CookieMirror
	statuses StatusSource
}

func NewOnboardingGate(table *onboarding.Table, mirror *onboarding.CookieMirror, statuses StatusSource) *OnboardingGate {
	return &OnboardingGate{table: table, mirror: mirror, statuses: statuses}
}

// Page gates wizard pages. The requested step is looked up from the path;
// paths outside the table pass through. A valid cookie decides on its own,
// anything else falls back to the persisted status.
func (g *OnboardingGate) Page() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requested, gated := g.table.Lookup(c.Path())
		if !gated {
			return c.Next()
		}

		status, ok := g.mirror.Read(c)
		if !ok {
			var err error
			if status, err = g.fullCheck(c); err != nil {
				return g.fail(c, err)
			}
		}
		c.Locals(StatusLocalsKey, status)

		decision := g.table.ResolveAccess(status, requested)
		if !decision.Allow {
			return c.Redirect(decision.RedirectTo, fiber.StatusFound)
		}
		return c.Next()
	}
}

// Step gates API routes that read or write one step's data. The persisted
// status always decides and the cookie is corrected when it disagrees.
func (g *OnboardingGate) Step(step onboarding.Status) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := g.fullCheck(c)
		if err != nil {
			return g.fail(c, err)
		}
		c.Locals(StatusLocalsKey, status)

		decision := g.table.ResolveAccess(status, step)
		if !decision.Allow {
			return c.Status(fiber.StatusForbidden).JSON(dto.GateResponse{
				Error:            true,
				Message:          "Finish the current onboarding step first",
				OnboardingStatus: status.String(),
				RedirectTo:       decision.RedirectTo,
			})
		}
		return c.Next()
	}
}

func (g *OnboardingGate) fullCheck(c *fiber.Ctx) (onboarding.Status, error) {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return g.table.First(), err
	}
	status, err := g.statuses.Status(userID)
	if err != nil {
		slog.Error("onboarding status lookup failed",
			"error", err,
			"user_id", userID.String(),
			"action", "onboarding.gate",
			"request_id", identity.GetRequestID(c),
		)
		return g.table.First(), errStatusLookup
	}
	g.mirror.Sync(c, status)
	return status, nil
}

var errStatusLookup = fiber.NewError(fiber.StatusInternalServerError, "Failed to load onboarding status")

func (g *OnboardingGate) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, errStatusLookup) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: errStatusLookup.Message,
		})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

// StatusFrom returns the status a gate stored on the request.
func StatusFrom(c *fiber.Ctx) (onboarding.Status, bool) {
	s, ok := c.Locals(StatusLocalsKey).(onboarding.Status)
	return s, ok
}
