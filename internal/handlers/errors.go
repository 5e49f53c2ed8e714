package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/payment"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

var (
	errUnauthenticated = errors.New("Unauthorized")
	errBadID           = errors.New("Not found")
)

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: true, Message: "Not found",
	})
}

// statusFor maps a service error to an HTTP status. Zero means the error is
// unexpected.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrHandleReserved),
		errors.Is(err, services.ErrHandleTaken),
		errors.Is(err, services.ErrSlugTaken),
		errors.Is(err, services.ErrPublishNotAllowed),
		errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, errBadID),
		errors.Is(err, services.ErrWaitlistNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNotPublished),
		errors.Is(err, services.ErrSubscriberNotFound),
		errors.Is(err, services.ErrPaymentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotAllowed),
		errors.Is(err, services.ErrForeignKey):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNoFields),
		errors.Is(err, payment.ErrInvalidSignature):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUploadsDisabled),
		errors.Is(err, services.ErrPaymentsDisabled):
		return fiber.StatusServiceUnavailable
	}
	return 0
}

// writeError answers a service error. Validation errors name their field;
// unexpected errors are logged with attrs and reported as fallback.
func writeError(c *fiber.Ctx, err error, fallback string, attrs ...any) error {
	if v, ok := services.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: v.Message, Field: v.Field,
		})
	}
	if status := statusFor(err); status != 0 {
		return c.Status(status).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	args := append([]any{"error", err, "request_id", identity.GetRequestID(c)}, attrs...)
	slog.Error(fallback, args...)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: fallback,
	})
}
