package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/payment"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Signature headers of the supported gateways.
var webhookSignatureHeaders = []string{"X-Razorpay-Signature", "Stripe-Signature"}

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Verify settles a checkout from the client callback.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "order_id is required", Field: "order_id",
		})
	}

	if err := h.payments.Verify(c.UserContext(), req.OrderID, req.PaymentID, req.Signature); err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Payment verification failed",
			})
		}
		return writeError(c, err, "Failed to verify payment", "action", "payment.verify", "order_id", req.OrderID)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Webhook applies a signed gateway event. Bad signatures get 401 so the
// gateway flags the endpoint; processing errors get 500 so it retries.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	var signature string
	for _, header := range webhookSignatureHeaders {
		if signature = c.Get(header); signature != "" {
			break
		}
	}
	if signature == "" {
		return unauthorized(c)
	}

	if err := h.payments.HandleWebhook(c.Body(), signature); err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSignature):
			return unauthorized(c)
		case errors.Is(err, payment.ErrUnknownEvent):
			return c.JSON(fiber.Map{"received": true, "ignored": true})
		}
		return writeError(c, err, "Failed to process webhook event", "action", "payment.webhook")
	}

	slog.Info("webhook processed", "action", "payment.webhook")
	return c.JSON(fiber.Map{"received": true})
}
