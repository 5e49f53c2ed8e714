package models

import (
	"gorm.io/gorm"
)

// User is a creator account. OnboardingStatus is the gating signal of the
// setup wizard; the per-step flags live in OnboardingProgress.
type User struct {
	Base
	Email            string              `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password         string              `gorm:"not null;default:''" json:"-"`
	AuthProvider     string              `gorm:"size:50;default:'email'" json:"-"`
	GoogleSubject    *string             `gorm:"size:255;uniqueIndex" json:"-"`
	Name             *string             `gorm:"size:120" json:"name,omitempty"`
	FullName         *string             `gorm:"size:60" json:"full_name,omitempty"`
	Handle           *string             `gorm:"size:30;uniqueIndex" json:"handle,omitempty"`
	Bio              *string             `gorm:"size:280" json:"bio,omitempty"`
	Image            *string             `gorm:"type:text" json:"image,omitempty"`
	OnboardingStatus string              `gorm:"size:20;not null;default:'profile'" json:"onboarding_status"`
	Progress         *OnboardingProgress `gorm:"foreignKey:UserID" json:"progress,omitempty"`
	DeletedAt        gorm.DeletedAt      `gorm:"index" json:"-"`
}

// DisplayName picks the best available name for public pages.
func (u *User) DisplayName() string {
	for _, s := range []*string{u.FullName, u.Name, u.Handle} {
		if s != nil && *s != "" {
			return *s
		}
	}
	return "Creator"
}
