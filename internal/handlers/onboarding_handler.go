package handlers

import (
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type OnboardingHandler struct {
	onboarding *services.OnboardingService
	mirror     *onboarding.CookieMirror
}

func NewOnboardingHandler(svc *services.OnboardingService, mirror *onboarding.CookieMirror) *OnboardingHandler {
	return &OnboardingHandler{onboarding: svc, mirror: mirror}
}

func (h *OnboardingHandler) Status(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	snap, err := h.onboarding.Snapshot(userID)
	if err != nil {
		return writeError(c, err, "Failed to load onboarding status", "user_id", userID.String(), "action", "onboarding.status")
	}
	h.mirror.Sync(c, onboarding.ParseStatus(snap.Status))
	return c.JSON(snap)
}

// Access answers the gate for ?path= so an edge check can ask before it
// renders a page.
func (h *OnboardingHandler) Access(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "path is required", Field: "path",
		})
	}

	resp, err := h.onboarding.Access(userID, path)
	if err != nil {
		return writeError(c, err, "Failed to resolve access", "user_id", userID.String(), "action", "onboarding.access")
	}
	h.mirror.Sync(c, onboarding.ParseStatus(resp.Status))
	return c.JSON(resp)
}
