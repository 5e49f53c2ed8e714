package handlers

import (
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PageHandler serves the wizard pages once the gate let the request through.
// Each page returns the JSON its step renders from.
type PageHandler struct {
	profiles  *services.ProfileService
	waitlists *services.WaitlistService
	table     *onboarding.Table
}

func NewPageHandler(profiles *services.ProfileService, waitlists *services.WaitlistService, table *onboarding.Table) *PageHandler {
	return &PageHandler{profiles: profiles, waitlists: waitlists, table: table}
}

func (h *PageHandler) render(c *fiber.Ctx, step onboarding.Status, waitlistID *uuid.UUID, data interface{}) error {
	status, ok := middleware.StatusFrom(c)
	if !ok {
		status = step
	}
	return c.JSON(dto.PageResponse{
		Step:             step.String(),
		OnboardingStatus: status.String(),
		WaitlistID:       waitlistID,
		Data:             data,
	})
}

func (h *PageHandler) Profile(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	profile, err := h.profiles.Get(userID)
	if err != nil {
		return writeError(c, err, "Failed to load profile", "user_id", userID.String(), "action", "page.profile")
	}
	return h.render(c, onboarding.StatusProfile, nil, profile)
}

// Setup serves /wait-list/setup/:mode for the course, content and price
// steps of the caller's latest waitlist.
func (h *PageHandler) Setup(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	step, ok := h.table.Lookup(c.Path())
	if !ok || step == onboarding.StatusProfile || step == h.table.Terminal() {
		return notFound(c)
	}

	wl, err := h.waitlists.Mine(userID)
	if err != nil {
		return writeError(c, err, "Failed to load waitlist", "user_id", userID.String(), "action", "page.setup")
	}

	var data interface{}
	switch step {
	case onboarding.StatusCourse:
		data, err = h.waitlists.Course(userID, wl.ID)
	case onboarding.StatusContent:
		data, err = h.waitlists.Content(userID, wl.ID)
	case onboarding.StatusPrice:
		data, err = h.waitlists.Price(userID, wl.ID)
	}
	if err != nil {
		return writeError(c, err, "Failed to load step", "user_id", userID.String(), "step", step.String(), "action", "page.setup")
	}
	return h.render(c, step, &wl.ID, data)
}

func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	profile, err := h.profiles.Get(userID)
	if err != nil {
		return writeError(c, err, "Failed to load profile", "user_id", userID.String(), "action", "page.dashboard")
	}
	waitlists, err := h.waitlists.Dashboard(userID)
	if err != nil {
		return writeError(c, err, "Failed to load waitlists", "user_id", userID.String(), "action", "page.dashboard")
	}
	return h.render(c, h.table.Terminal(), nil, dto.MeResponse{Profile: *profile, Waitlists: waitlists})
}
