package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) (*gorm.DB, *OnboardingService) {
	t.Helper()
	db := testutil.NewDB(t)
	return db, NewOnboardingService(db, onboarding.DefaultTable())
}

func newTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, AuthProvider: "email"}
	if err := newUserWithProgress(db, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func setStatus(t *testing.T, db *gorm.DB, userID uuid.UUID, status string) {
	t.Helper()
	if err := db.Model(&models.User{}).Where("id = ?", userID).Update("onboarding_status", status).Error; err != nil {
		t.Fatalf("set status: %v", err)
	}
}

func statusOf(t *testing.T, db *gorm.DB, userID uuid.UUID) string {
	t.Helper()
	var u models.User
	if err := db.Select("onboarding_status").First(&u, "id = ?", userID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	return u.OnboardingStatus
}

func progressOf(t *testing.T, db *gorm.DB, userID uuid.UUID) models.OnboardingProgress {
	t.Helper()
	var p models.OnboardingProgress
	if err := db.First(&p, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("load progress: %v", err)
	}
	return p
}

func strPtr(s string) *string { return &s }
