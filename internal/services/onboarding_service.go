package services

import (
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var doneColumns = map[onboarding.Status]string{
	onboarding.StatusProfile: "profile_done",
	onboarding.StatusCourse:  "course_done",
	onboarding.StatusContent: "content_done",
	onboarding.StatusPrice:   "price_done",
}

// OnboardingService owns the persisted onboarding status and the per-step
// completion flags. Step services call Advance inside their own save
// transaction.
type OnboardingService struct {
	db    *gorm.DB
	table *onboarding.Table
}

func NewOnboardingService(db *gorm.DB, table *onboarding.Table) *OnboardingService {
	if table == nil {
		table = onboarding.DefaultTable()
	}
	return &OnboardingService{db: db, table: table}
}

func (s *OnboardingService) Table() *onboarding.Table {
	return s.table
}

// Status returns the persisted status. A missing user row reads as profile.
func (s *OnboardingService) Status(userID uuid.UUID) (onboarding.Status, error) {
	return loadStatus(s.db, userID)
}

func (s *OnboardingService) Snapshot(userID uuid.UUID) (*dto.OnboardingResponse, error) {
	status, err := loadStatus(s.db, userID)
	if err != nil {
		return nil, err
	}
	flags, err := loadFlags(s.db, userID)
	if err != nil {
		return nil, err
	}
	return &dto.OnboardingResponse{
		Status:   status.String(),
		Progress: flags,
		Next:     s.table.Path(status),
	}, nil
}

// Access evaluates the gate for an arbitrary path. Paths outside the step
// table are not gated.
func (s *OnboardingService) Access(userID uuid.UUID, path string) (*dto.AccessResponse, error) {
	status, err := loadStatus(s.db, userID)
	if err != nil {
		return nil, err
	}
	resp := &dto.AccessResponse{Path: path, Allow: true, Status: status.String()}
	requested, ok := s.table.Lookup(path)
	if !ok {
		return resp, nil
	}
	decision := s.table.ResolveAccess(status, requested)
	resp.Gated = true
	resp.Allow = decision.Allow
	resp.RedirectTo = decision.RedirectTo
	return resp, nil
}

// Advance records a step save for userID inside tx and returns the status
// the user ends up with. The done flag is upserted when the step is
// complete; the status moves with a compare-and-set on the value read under
// the row lock, so concurrent saves can advance it at most once.
func (s *OnboardingService) Advance(tx *gorm.DB, userID uuid.UUID, save onboarding.Save) (onboarding.Status, error) {
	if save.Complete {
		if err := markDone(tx, userID, save.Step); err != nil {
			return "", fmt.Errorf("failed to mark %s done: %w", save.Step, err)
		}
	}

	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "onboarding_status").
		First(&user, "id = ?", userID).Error; err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	current := onboarding.ParseStatus(user.OnboardingStatus)
	next := s.table.Advance(current, save)
	if next == current {
		return current, nil
	}

	if err := tx.Model(&models.User{}).
		Where("id = ? AND onboarding_status = ?", userID, user.OnboardingStatus).
		Update("onboarding_status", next.String()).Error; err != nil {
		return "", fmt.Errorf("failed to advance status: %w", err)
	}

	return loadStatus(tx, userID)
}

func loadStatus(db *gorm.DB, userID uuid.UUID) (onboarding.Status, error) {
	var values []string
	if err := db.Model(&models.User{}).
		Where("id = ?", userID).
		Limit(1).
		Pluck("onboarding_status", &values).Error; err != nil {
		return onboarding.StatusProfile, fmt.Errorf("failed to load onboarding status: %w", err)
	}
	if len(values) == 0 {
		return onboarding.StatusProfile, nil
	}
	return onboarding.ParseStatus(values[0]), nil
}

func loadFlags(db *gorm.DB, userID uuid.UUID) (dto.ProgressFlags, error) {
	var progress models.OnboardingProgress
	if err := db.Where("user_id = ?", userID).Limit(1).Find(&progress).Error; err != nil {
		return dto.ProgressFlags{}, fmt.Errorf("failed to load onboarding progress: %w", err)
	}
	return toFlags(&progress), nil
}

func toFlags(p *models.OnboardingProgress) dto.ProgressFlags {
	if p == nil {
		return dto.ProgressFlags{}
	}
	return dto.ProgressFlags{
		ProfileDone: p.ProfileDone,
		CourseDone:  p.CourseDone,
		ContentDone: p.ContentDone,
		PriceDone:   p.PriceDone,
	}
}

func markDone(tx *gorm.DB, userID uuid.UUID, step onboarding.Status) error {
	column, ok := doneColumns[step]
	if !ok {
		return nil
	}

	progress := models.OnboardingProgress{UserID: userID}
	switch step {
	case onboarding.StatusProfile:
		progress.ProfileDone = true
	case onboarding.StatusCourse:
		progress.CourseDone = true
	case onboarding.StatusContent:
		progress.ContentDone = true
	case onboarding.StatusPrice:
		progress.PriceDone = true
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{column: true, "updated_at": time.Now()}),
	}).Create(&progress).Error
}

// newUserWithProgress inserts the user and its progress row in one
// transaction. Every sign-up path goes through here.
func newUserWithProgress(db *gorm.DB, user *models.User) error {
	user.OnboardingStatus = onboarding.StatusProfile.String()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.OnboardingProgress{UserID: user.ID}).Error
	})
}
