package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileRequest struct {
	FullName *string `json:"full_name"`
	Handle   *string `json:"handle"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

type ProfileResponse struct {
	ID               uuid.UUID      `json:"id"`
	Email            string         `json:"email"`
	FullName         string         `json:"full_name"`
	Handle           string         `json:"handle"`
	Bio              string         `json:"bio"`
	Image            string         `json:"image"`
	OnboardingStatus string         `json:"onboarding_status"`
	Progress         *ProgressFlags `json:"progress,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type MeWaitlist struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	PriceAmount     *int64    `json:"price_amount"`
	Currency        string    `json:"currency"`
	Published       bool      `json:"published"`
	SubscriberCount int64     `json:"subscriber_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type MeResponse struct {
	Profile   ProfileResponse `json:"profile"`
	Waitlists []MeWaitlist    `json:"waitlists"`
}
