// Package payment talks to the checkout provider that collects waitlist
// payments.
package payment

import (
	"context"
	"errors"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUnknownEvent     = errors.New("unhandled webhook event")
)

// Order is a provider-side order the client completes at checkout.
type Order struct {
	ID           string
	Amount       int64
	Currency     string
	ClientSecret string
}

type EventType string

const (
	EventCaptured EventType = "captured"
	EventFailed   EventType = "failed"
)

// Event is a provider webhook reduced to what the payment flow needs.
type Event struct {
	Type      EventType
	OrderID   string
	PaymentID string
}

// Gateway is implemented by each supported provider.
type Gateway interface {
	Name() string
	PublicKey() string
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
	// VerifyPayment checks the client-reported payment for orderID.
	VerifyPayment(ctx context.Context, orderID, paymentID, signature string) error
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
