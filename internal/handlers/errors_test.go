package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/payment"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrHandleTaken, fiber.StatusConflict},
		{fmt.Errorf("wrapped: %w", services.ErrSlugTaken), fiber.StatusConflict},
		{services.ErrPublishNotAllowed, fiber.StatusConflict},
		{services.ErrWaitlistNotFound, fiber.StatusNotFound},
		{services.ErrNotPublished, fiber.StatusNotFound},
		{services.ErrForbidden, fiber.StatusForbidden},
		{services.ErrForeignKey, fiber.StatusForbidden},
		{payment.ErrInvalidSignature, fiber.StatusBadRequest},
		{services.ErrUploadsDisabled, fiber.StatusServiceUnavailable},
		{errUnauthenticated, fiber.StatusUnauthorized},
		{errors.New("disk full"), 0},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantField string
		wantMsg   string
	}{
		{"validation names the field", &services.ValidationError{Field: "slug", Message: "Slug is invalid"}, fiber.StatusBadRequest, "slug", "Slug is invalid"},
		{"known error keeps its message", services.ErrNoFields, fiber.StatusBadRequest, "", "No fields to update"},
		{"unexpected error is hidden", errors.New("pq: connection reset"), fiber.StatusInternalServerError, "", "Failed to save"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return writeError(c, tt.err, "Failed to save", "step", "course")
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.wantCode {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantCode)
			}
			var body dto.ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !body.Error || body.Message != tt.wantMsg || body.Field != tt.wantField {
				t.Fatalf("body = %+v", body)
			}
		})
	}
}
