package dto

import "github.com/google/uuid"

type ProgressFlags struct {
	ProfileDone bool `json:"profile_done"`
	CourseDone  bool `json:"course_done"`
	ContentDone bool `json:"content_done"`
	PriceDone   bool `json:"price_done"`
}

type OnboardingResponse struct {
	Status   string        `json:"status"`
	Progress ProgressFlags `json:"progress"`
	Next     string        `json:"next"`
}

type AccessResponse struct {
	Path       string `json:"path"`
	Gated      bool   `json:"gated"`
	Allow      bool   `json:"allow"`
	RedirectTo string `json:"redirect_to,omitempty"`
	Status     string `json:"status"`
}

// StepSaveResponse is returned by every step save that may advance status.
type StepSaveResponse struct {
	OK               bool        `json:"ok"`
	Status           string      `json:"status,omitempty"`
	OnboardingStatus string      `json:"onboarding_status"`
	Next             string      `json:"next"`
	Data             interface{} `json:"data,omitempty"`
}

// GateResponse is the body of a 403 from a gated API route.
type GateResponse struct {
	Error            bool   `json:"error"`
	Message          string `json:"message"`
	OnboardingStatus string `json:"onboarding_status"`
	RedirectTo       string `json:"redirect_to"`
}

// PageResponse is the state a wizard page renders from.
type PageResponse struct {
	Step             string      `json:"step"`
	OnboardingStatus string      `json:"onboarding_status"`
	WaitlistID       *uuid.UUID  `json:"waitlist_id,omitempty"`
	Data             interface{} `json:"data"`
}
