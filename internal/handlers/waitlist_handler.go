package handlers

import (
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type WaitlistHandler struct {
	waitlists *services.WaitlistService
	mirror    *onboarding.CookieMirror
	table     *onboarding.Table
}

func NewWaitlistHandler(waitlists *services.WaitlistService, mirror *onboarding.CookieMirror, table *onboarding.Table) *WaitlistHandler {
	return &WaitlistHandler{waitlists: waitlists, mirror: mirror, table: table}
}

// ids resolves the caller and the :id param.
func (h *WaitlistHandler) ids(c *fiber.Ctx) (userID, waitlistID uuid.UUID, err error) {
	if userID, err = identity.GetUserID(c); err != nil {
		return uuid.Nil, uuid.Nil, errUnauthenticated
	}
	if waitlistID, err = uuid.Parse(c.Params("id")); err != nil {
		return uuid.Nil, uuid.Nil, errBadID
	}
	return userID, waitlistID, nil
}

// saved writes the step save response and refreshes the onboarding cookie.
func (h *WaitlistHandler) saved(c *fiber.Ctx, status onboarding.Status, data interface{}) error {
	h.mirror.Write(c, status)
	return c.JSON(dto.StepSaveResponse{
		OK:               true,
		OnboardingStatus: status.String(),
		Next:             h.table.Path(status),
		Data:             data,
	})
}

func (h *WaitlistHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	wl, err := h.waitlists.Create(userID)
	if err != nil {
		return writeError(c, err, "Failed to create waitlist", "user_id", userID.String(), "action", "waitlist.create")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.WaitlistRef{ID: wl.ID})
}

func (h *WaitlistHandler) Mine(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	wl, err := h.waitlists.Mine(userID)
	if err != nil {
		return writeError(c, err, "Failed to load waitlist", "user_id", userID.String(), "action", "waitlist.mine")
	}
	return c.JSON(dto.WaitlistRef{ID: wl.ID})
}

func (h *WaitlistHandler) SlugAvailability(c *fiber.Ctx) error {
	resp, err := h.waitlists.SlugAvailability(c.Query("value"))
	if err != nil {
		return writeError(c, err, "Failed to check slug", "action", "waitlist.slug")
	}
	return c.JSON(resp)
}

func (h *WaitlistHandler) Course(c *fiber.Ctx) error {
	userID, id, err := h.ids(c)
	if err != nil {
		return writeError(c, err, "Unauthorized")
	}
	course, err := h.waitlists.Course(userID, id)
	if err != nil {
		return writeError(c, err, "Failed to load course", "user_id", userID.String(), "action", "course.get")
	}
	return c.JSON(course)
}

func (h *WaitlistHandler) SaveCourse(c *fiber.Ctx) error {
	userID, id, err := h.ids(c)
	if err != nil {
		return writeError(c, err, "Unauthorized")
	}
	var req dto.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	course, status, err := h.waitlists.SaveCourse(c.UserContext(), userID, id, &req)
	if err != nil {
		return writeError(c, err, "Failed to save",
			"user_id", userID.String(), "step", onboarding.StatusCourse.String(), "action", "course.save")
	}
	return h.saved(c, status, course)
}

func (h *WaitlistHandler) Content(c *fiber.Ctx) error {
	userID, id, err := h.ids(c)
	if err != nil {
		return writeError(c, err, "Unauthorized")
	}
	content, err := h.waitlists.Content(userID, id)
	if err != nil {
		return writeError(c, err, "Failed to load content", "user_id", userID.String(), "action", "content.get")
	}
	return c.JSON(content)
}

func (h *WaitlistHandler) SaveContent(c *fiber.Ctx) error {
	userID, id, err := h.ids(c)
	if err != nil {
		return writeError(c, err, "Unauthorized")
	}
	var req dto.ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	status, err := h.waitlists.SaveContent(c.UserContext(), userID, id, &req)
	if err != nil {
		return writeError(c, err, "Failed to save",
			"user_id", userID.String(), "step", onboarding.StatusContent.String(), "action", "content.save")
	}
	return h.saved(c, status, nil)
}

func (h *WaitlistHandler) Price(c *fiber.Ctx) error {
	userID, id, err := h.ids(c)
	if err != nil {
		return writeError(c, err, "Unauthorized")
	}
	price, err := h.waitlists.Price(userID, id)
	if err != nil {
		return writeError(c, err, "Failed to load price", "user_id", userID.String(), "action", "price.get")
	}
	return c.JSON(price)
}

// SavePrice stores the price and, with publish set, takes the page live.
func (h *WaitlistHandler) SavePrice(c *fiber.Ctx) error {
	userID, id, err := h.ids(c)
	if err != nil {
		return writeError(c, err, "Unauthorized")
	}
	var req dto.PriceRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	price, status, err := h.waitlists.SavePrice(c.UserContext(), userID, id, &req)
	if err != nil {
		return writeError(c, err, "Failed to save",
			"user_id", userID.String(), "step", onboarding.StatusPrice.String(), "action", "price.save")
	}

	h.mirror.Write(c, status)
	result := "saved"
	if req.Publish {
		result = "published"
	}
	return c.JSON(dto.StepSaveResponse{
		OK:               true,
		Status:           result,
		OnboardingStatus: status.String(),
		Next:             h.table.Path(status),
		Data:             price,
	})
}

// Public serves a published page to anonymous visitors.
func (h *WaitlistHandler) Public(c *fiber.Ctx) error {
	page, err := h.waitlists.Public(c.UserContext(), c.Params("idOrSlug"))
	if err != nil {
		return writeError(c, err, "Failed to load waitlist", "action", "public.get")
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=30")
	return c.JSON(page)
}
