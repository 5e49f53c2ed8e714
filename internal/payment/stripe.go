package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Stripe uses PaymentIntents as orders. A payment is verified by reading the
// intent back rather than trusting a client signature.
type Stripe struct {
	api           *client.API
	publishable   string
	webhookSecret string
}

func NewStripe(secretKey, publishableKey, webhookSecret string) *Stripe {
	return &Stripe{
		api:           client.New(secretKey, nil),
		publishable:   publishableKey,
		webhookSecret: webhookSecret,
	}
}

func (s *Stripe) Name() string      { return "stripe" }
func (s *Stripe) PublicKey() string { return s.publishable }

func (s *Stripe) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx
	params.AddMetadata("receipt", receipt)

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return &Order{
		ID:           pi.ID,
		Amount:       pi.Amount,
		Currency:     strings.ToUpper(string(pi.Currency)),
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (s *Stripe) VerifyPayment(ctx context.Context, orderID, _, _ string) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.api.PaymentIntents.Get(orderID, params)
	if err != nil {
		return fmt.Errorf("failed to load payment intent: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return ErrInvalidSignature
	}
	return nil
}

func (s *Stripe) ParseWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return nil, errors.Join(ErrInvalidSignature, err)
	}

	var ev Event
	switch event.Type {
	case "payment_intent.succeeded":
		ev.Type = EventCaptured
	case "payment_intent.payment_failed":
		ev.Type = EventFailed
	default:
		return nil, ErrUnknownEvent
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent: %w", err)
	}
	ev.OrderID = pi.ID
	if pi.LatestCharge != nil {
		ev.PaymentID = pi.LatestCharge.ID
	}
	return &ev, nil
}
