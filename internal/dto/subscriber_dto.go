package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubscriberRequest struct {
	WaitlistID  string  `json:"waitlist_id"`
	FullName    *string `json:"full_name"`
	Email       string  `json:"email"`
	PriceAmount *int64  `json:"price_amount"`
	Currency    *string `json:"currency"`
	Status      *string `json:"status"`
}

type SubscriberResponse struct {
	ID          uuid.UUID `json:"id"`
	FullName    *string   `json:"full_name"`
	Email       string    `json:"email"`
	PriceAmount *int64    `json:"price_amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type SubscriberListResponse struct {
	Data     []SubscriberResponse `json:"data"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Total    int64                `json:"total"`
	HasMore  bool                 `json:"has_more"`
}

type JoinRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type CheckoutOrder struct {
	Gateway      string `json:"gateway"`
	OrderID      string `json:"order_id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	ClientSecret string `json:"client_secret,omitempty"`
	KeyID        string `json:"key_id,omitempty"`
}

type JoinResponse struct {
	OK           bool           `json:"ok"`
	SubscriberID uuid.UUID      `json:"subscriber_id"`
	Status       string         `json:"status"`
	Order        *CheckoutOrder `json:"order,omitempty"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}
