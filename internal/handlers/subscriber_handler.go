package handlers

import (
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SubscriberHandler struct {
	subscribers *services.SubscriberService
}

func NewSubscriberHandler(subscribers *services.SubscriberService) *SubscriberHandler {
	return &SubscriberHandler{subscribers: subscribers}
}

func (h *SubscriberHandler) List(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	waitlistID, err := uuid.Parse(c.Query("waitlist_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "waitlist_id is required", Field: "waitlist_id",
		})
	}

	page, err := h.subscribers.List(userID, waitlistID, c.QueryInt("page", 1), c.QueryInt("page_size", 50))
	if err != nil {
		return writeError(c, err, "Failed to list subscribers", "user_id", userID.String(), "action", "subscribers.list")
	}
	return c.JSON(page)
}

func (h *SubscriberHandler) Upsert(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.SubscriberRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	sub, err := h.subscribers.Upsert(userID, &req)
	if err != nil {
		return writeError(c, err, "Failed to save subscriber", "user_id", userID.String(), "action", "subscribers.upsert")
	}
	return c.JSON(sub)
}

func (h *SubscriberHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return notFound(c)
	}

	if err := h.subscribers.Delete(userID, id); err != nil {
		return writeError(c, err, "Failed to delete subscriber", "user_id", userID.String(), "action", "subscribers.delete")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Join is the public signup on a published page.
func (h *SubscriberHandler) Join(c *fiber.Ctx) error {
	var req dto.JoinRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.subscribers.Join(c.UserContext(), c.Params("idOrSlug"), &req)
	if err != nil {
		return writeError(c, err, "Failed to join waitlist", "action", "public.join")
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
