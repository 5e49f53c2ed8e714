package models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriberStatus string

const (
	SubscriberLead     SubscriberStatus = "LEAD"
	SubscriberPaid     SubscriberStatus = "PAID"
	SubscriberRefunded SubscriberStatus = "REFUNDED"
	SubscriberFailed   SubscriberStatus = "FAILED"
)

// Subscriber is a visitor who joined a published waitlist. Email is unique
// per waitlist.
type Subscriber struct {
	Base
	WaitlistID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_subscribers_waitlist_email,priority:1" json:"waitlist_id"`
	FullName    *string          `gorm:"size:120" json:"full_name,omitempty"`
	Email       string           `gorm:"size:255;not null;uniqueIndex:idx_subscribers_waitlist_email,priority:2" json:"email"`
	PriceAmount *int64           `json:"price_amount,omitempty"`
	Currency    string           `gorm:"size:3;not null;default:'INR'" json:"currency"`
	Status      SubscriberStatus `gorm:"size:20;not null;default:'LEAD';index" json:"status"`
	Waitlist    Waitlist         `gorm:"foreignKey:WaitlistID" json:"-"`
}

type PaymentStatus string

const (
	PaymentCreated  PaymentStatus = "CREATED"
	PaymentCaptured PaymentStatus = "CAPTURED"
	PaymentFailed   PaymentStatus = "FAILED"
)

// Payment tracks one gateway order for a subscriber.
type Payment struct {
	Base
	WaitlistID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"waitlist_id"`
	SubscriberID uuid.UUID     `gorm:"type:uuid;not null;index" json:"subscriber_id"`
	Gateway      string        `gorm:"size:20;not null" json:"gateway"`
	OrderID      string        `gorm:"size:255;not null;uniqueIndex" json:"order_id"`
	PaymentID    *string       `gorm:"size:255" json:"payment_id,omitempty"`
	Amount       int64         `gorm:"not null" json:"amount"`
	Currency     string        `gorm:"size:3;not null" json:"currency"`
	Status       PaymentStatus `gorm:"size:20;not null;default:'CREATED';index" json:"status"`
	CapturedAt   *time.Time    `json:"captured_at,omitempty"`
}
