package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	mirror      *onboarding.CookieMirror
}

func NewAuthHandler(authService *services.AuthService, mirror *onboarding.CookieMirror) *AuthHandler {
	return &AuthHandler{authService: authService, mirror: mirror}
}

// signedIn seeds the onboarding cookie so the first page load can use the
// fast path.
func (h *AuthHandler) signedIn(c *fiber.Ctx, status int, resp *dto.AuthResponse) error {
	h.mirror.Write(c, onboarding.ParseStatus(resp.OnboardingStatus))
	return c.Status(status).JSON(resp)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrWeakCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return writeError(c, err, "Failed to register", "action", "auth.register")
	}

	return h.signedIn(c, fiber.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return writeError(c, err, "Internal server error", "action", "auth.login")
	}

	return h.signedIn(c, fiber.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return writeError(c, err, "Internal server error", "action", "auth.refresh")
	}

	return h.signedIn(c, fiber.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.authService.Logout(&req); err != nil {
		return writeError(c, err, "Failed to logout", "action", "auth.logout")
	}

	c.ClearCookie(onboarding.CookieName)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) GoogleSignIn(c *fiber.Ctx) error {
	var req dto.GoogleSignInRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if req.IDToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "ID token is required",
		})
	}

	resp, err := h.authService.GoogleSignIn(&req)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Google sign-in failed",
		})
	}

	return h.signedIn(c, fiber.StatusOK, resp)
}
