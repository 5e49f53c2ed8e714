package handlers

import (
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	uploads *services.UploadService
}

func NewUploadHandler(uploads *services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

func (h *UploadHandler) Presign(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.PresignRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.uploads.Presign(c.UserContext(), userID, &req)
	if err != nil {
		return writeError(c, err, "Failed to presign upload", "user_id", userID.String(), "action", "uploads.presign")
	}
	return c.JSON(resp)
}

func (h *UploadHandler) Commit(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CommitRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	result, err := h.uploads.Commit(c.UserContext(), userID, &req)
	if err != nil {
		return writeError(c, err, "Failed to commit upload", "user_id", userID.String(), "action", "uploads.commit")
	}
	return c.JSON(result)
}
