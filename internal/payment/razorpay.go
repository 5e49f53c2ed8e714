package payment

import (
	"context"
	"encoding/json"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// Razorpay creates orders through the Razorpay SDK and checks the HMAC
// signatures it attaches to checkout callbacks and webhooks.
type Razorpay struct {
	client        *razorpay.Client
	keyID         string
	keySecret     string
	webhookSecret string
}

func NewRazorpay(keyID, keySecret, webhookSecret string) *Razorpay {
	return &Razorpay{
		client:        razorpay.NewClient(keyID, keySecret),
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

func (r *Razorpay) Name() string      { return "razorpay" }
func (r *Razorpay) PublicKey() string { return r.keyID }

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (r *Razorpay) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := r.client.Order.Create(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	// The SDK hands back a generic map; round-trip it into the typed order.
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode razorpay order: %w", err)
	}
	var order razorpayOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("failed to decode razorpay order: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay order response has no id")
	}
	return &Order{ID: order.ID, Amount: order.Amount, Currency: order.Currency}, nil
}

// VerifyPayment checks the checkout signature over orderID|paymentID.
func (r *Razorpay) VerifyPayment(_ context.Context, orderID, paymentID, signature string) error {
	if r.keySecret == "" || signature == "" {
		return ErrInvalidSignature
	}
	ok := utils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, signature, r.keySecret)
	if !ok {
		return ErrInvalidSignature
	}
	return nil
}

type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func (r *Razorpay) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if r.webhookSecret == "" || signature == "" ||
		!utils.VerifyWebhookSignature(string(payload), signature, r.webhookSecret) {
		return nil, ErrInvalidSignature
	}

	var hook razorpayWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("failed to decode webhook: %w", err)
	}

	ev := &Event{
		OrderID:   hook.Payload.Payment.Entity.OrderID,
		PaymentID: hook.Payload.Payment.Entity.ID,
	}
	switch hook.Event {
	case "payment.captured", "order.paid":
		ev.Type = EventCaptured
	case "payment.failed":
		ev.Type = EventFailed
	default:
		return nil, ErrUnknownEvent
	}
	return ev, nil
}
