package handlers

import (
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profiles  *services.ProfileService
	waitlists *services.WaitlistService
	mirror    *onboarding.CookieMirror
	table     *onboarding.Table
}

func NewProfileHandler(profiles *services.ProfileService, waitlists *services.WaitlistService, mirror *onboarding.CookieMirror, table *onboarding.Table) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, waitlists: waitlists, mirror: mirror, table: table}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	profile, err := h.profiles.Get(userID)
	if err != nil {
		return writeError(c, err, "Failed to load profile", "user_id", userID.String(), "action", "profile.get")
	}
	return c.JSON(profile)
}

// Create saves the whole profile; full name is required.
func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	return h.save(c, false)
}

// Update saves only the fields present in the body.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	return h.save(c, true)
}

func (h *ProfileHandler) save(c *fiber.Ctx, partial bool) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	profile, status, err := h.profiles.Save(userID, &req, partial)
	if err != nil {
		return writeError(c, err, "Failed to save",
			"user_id", userID.String(), "step", onboarding.StatusProfile.String(), "action", "profile.save")
	}

	h.mirror.Write(c, status)
	return c.JSON(dto.StepSaveResponse{
		OK:               true,
		OnboardingStatus: status.String(),
		Next:             h.table.Path(status),
		Data:             profile,
	})
}

// Me is the dashboard payload: profile, progress and every owned waitlist.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	profile, err := h.profiles.Get(userID)
	if err != nil {
		return writeError(c, err, "Failed to load profile", "user_id", userID.String(), "action", "me")
	}
	waitlists, err := h.waitlists.Dashboard(userID)
	if err != nil {
		return writeError(c, err, "Failed to load waitlists", "user_id", userID.String(), "action", "me")
	}

	h.mirror.Sync(c, onboarding.ParseStatus(profile.OnboardingStatus))
	return c.JSON(dto.MeResponse{Profile: *profile, Waitlists: waitlists})
}
