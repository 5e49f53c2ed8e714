package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/payment"
	"gorm.io/gorm"
)

// PaymentService settles gateway orders created by SubscriberService.Join.
type PaymentService struct {
	db      *gorm.DB
	gateway payment.Gateway
}

func NewPaymentService(db *gorm.DB, gateway payment.Gateway) *PaymentService {
	return &PaymentService{db: db, gateway: gateway}
}

// Verify checks a checkout callback. A bad signature marks the payment
// failed and returns payment.ErrInvalidSignature.
func (s *PaymentService) Verify(ctx context.Context, orderID, paymentID, signature string) error {
	if s.gateway == nil {
		return ErrPaymentsDisabled
	}

	var pay models.Payment
	if err := s.db.Where("order_id = ?", orderID).First(&pay).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return fmt.Errorf("failed to load payment: %w", err)
	}

	if err := s.gateway.VerifyPayment(ctx, orderID, paymentID, signature); err != nil {
		if markErr := s.markFailed(&pay); markErr != nil {
			return markErr
		}
		return err
	}
	return s.capture(&pay, paymentID)
}

// HandleWebhook applies a verified gateway event. Unknown orders are
// ignored so the gateway stops retrying.
func (s *PaymentService) HandleWebhook(payload []byte, signature string) error {
	if s.gateway == nil {
		return ErrPaymentsDisabled
	}
	ev, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	var pay models.Payment
	if err := s.db.Where("order_id = ?", ev.OrderID).First(&pay).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("webhook for unknown order", "order_id", ev.OrderID, "gateway", s.gateway.Name())
			return nil
		}
		return fmt.Errorf("failed to load payment: %w", err)
	}

	switch ev.Type {
	case payment.EventCaptured:
		return s.capture(&pay, ev.PaymentID)
	case payment.EventFailed:
		return s.markFailed(&pay)
	}
	return nil
}

// capture is idempotent: an already captured payment is left alone.
func (s *PaymentService) capture(pay *models.Payment, paymentID string) error {
	if pay.Status == models.PaymentCaptured {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		updates := map[string]interface{}{
			"status":      models.PaymentCaptured,
			"captured_at": now,
		}
		if paymentID != "" {
			updates["payment_id"] = paymentID
		}
		if err := tx.Model(pay).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to capture payment: %w", err)
		}
		if err := tx.Model(&models.Subscriber{}).
			Where("id = ?", pay.SubscriberID).
			Update("status", models.SubscriberPaid).Error; err != nil {
			return fmt.Errorf("failed to mark subscriber paid: %w", err)
		}
		return nil
	})
}

func (s *PaymentService) markFailed(pay *models.Payment) error {
	if pay.Status == models.PaymentCaptured {
		return nil
	}
	if err := s.db.Model(pay).Update("status", models.PaymentFailed).Error; err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	return nil
}
