package models

import "github.com/google/uuid"

// OnboardingProgress holds the advisory per-step completion flags. It is
// created in the same transaction as its user.
type OnboardingProgress struct {
	Base
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	ProfileDone bool      `gorm:"not null;default:false" json:"profile_done"`
	CourseDone  bool      `gorm:"not null;default:false" json:"course_done"`
	ContentDone bool      `gorm:"not null;default:false" json:"content_done"`
	PriceDone   bool      `gorm:"not null;default:false" json:"price_done"`
}
