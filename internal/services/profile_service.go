package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrHandleReserved = errors.New("This username is reserved. Please choose another.")
	ErrHandleTaken    = errors.New("This username is taken. Please choose another.")
	ErrNoFields       = errors.New("No fields to update")
)

type ProfileService struct {
	db         *gorm.DB
	onboarding *OnboardingService
}

func NewProfileService(db *gorm.DB, onboarding *OnboardingService) *ProfileService {
	return &ProfileService{db: db, onboarding: onboarding}
}

func (s *ProfileService) Get(userID uuid.UUID) (*dto.ProfileResponse, error) {
	var user models.User
	if err := s.db.Preload("Progress").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	resp := toProfileResponse(&user)
	flags := toFlags(user.Progress)
	resp.Progress = &flags
	return resp, nil
}

// Save validates and stores the profile step. A create (partial == false)
// requires a full name and derives the handle from it when none is given;
// an update changes only the fields present. Both advance profile → course
// once the user has a full name and a handle.
func (s *ProfileService) Save(userID uuid.UUID, req *dto.ProfileRequest, partial bool) (*dto.ProfileResponse, onboarding.Status, error) {
	updates, err := s.profileUpdates(userID, req, partial)
	if err != nil {
		return nil, "", err
	}

	var user models.User
	var status onboarding.Status
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrHandleTaken
			}
			return err
		}
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		complete := deref(user.FullName) != "" && deref(user.Handle) != ""
		status, err = s.onboarding.Advance(tx, userID, onboarding.Save{
			Step:     onboarding.StatusProfile,
			Complete: complete,
		})
		if err != nil {
			return err
		}
		user.OnboardingStatus = status.String()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrHandleTaken) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("failed to save profile: %w", err)
	}

	return toProfileResponse(&user), status, nil
}

func (s *ProfileService) profileUpdates(userID uuid.UUID, req *dto.ProfileRequest, partial bool) (map[string]interface{}, error) {
	updates := map[string]interface{}{}

	fullName := ""
	if req.FullName != nil {
		fullName = strings.TrimSpace(*req.FullName)
	}
	if req.FullName != nil || !partial {
		if fullName == "" {
			return nil, invalid("full_name", "Full name is required")
		}
		if runeLen(fullName) > 60 {
			return nil, invalid("full_name", "Full name must be at most 60 characters")
		}
		updates["full_name"] = fullName
	}

	var handle string
	switch {
	case req.Handle != nil:
		handle = NormalizeHandle(*req.Handle)
		if err := validHandle(handle); err != nil {
			return nil, err
		}
		if IsReservedHandle(handle) {
			return nil, ErrHandleReserved
		}
	case !partial:
		handle = HandleFromFullName(fullName)
	}
	if handle != "" {
		unique, err := s.ensureUniqueHandle(handle, userID)
		if err != nil {
			return nil, err
		}
		updates["handle"] = unique
	}

	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		if runeLen(bio) > 280 {
			return nil, invalid("bio", "Bio must be at most 280 characters")
		}
		updates["bio"] = optionalString(bio)
	}

	if req.Image != nil {
		image := strings.TrimSpace(*req.Image)
		if !validHTTPURL(image) {
			return nil, invalid("image", "Image must be a valid URL")
		}
		updates["image"] = image
	}

	if len(updates) == 0 {
		return nil, ErrNoFields
	}
	return updates, nil
}

// ensureUniqueHandle returns candidate or the first free variant with a
// numeric suffix, falling back to a random one.
func (s *ProfileService) ensureUniqueHandle(candidate string, userID uuid.UUID) (string, error) {
	h := candidate
	if IsReservedHandle(h) {
		h += "1"
	}

	taken := func(val string) (bool, error) {
		var count int64
		err := s.db.Model(&models.User{}).
			Where("handle = ? AND id <> ?", val, userID).
			Count(&count).Error
		return count > 0, err
	}

	hit, err := taken(h)
	if err != nil {
		return "", fmt.Errorf("failed to check handle: %w", err)
	}
	if !hit {
		return h, nil
	}

	for i := 1; i < 100; i++ {
		suffix := strconv.Itoa(i)
		base := h
		if len(base)+len(suffix) > 30 {
			base = base[:30-len(suffix)]
		}
		try := base + suffix
		hit, err := taken(try)
		if err != nil {
			return "", fmt.Errorf("failed to check handle: %w", err)
		}
		if !hit {
			return try, nil
		}
	}

	base := h
	if len(base) > 26 {
		base = base[:26]
	}
	return base + strconv.Itoa(rand.Intn(10000)), nil
}

func toProfileResponse(u *models.User) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         deref(u.FullName),
		Handle:           deref(u.Handle),
		Bio:              deref(u.Bio),
		Image:            deref(u.Image),
		OnboardingStatus: onboarding.ParseStatus(u.OnboardingStatus).String(),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
