package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TargetUserImage     = "user.image"
	TargetWaitlistMedia = "waitlist.media"
)

var (
	ErrUploadsDisabled = errors.New("uploads are not configured")
	ErrNotAllowed      = errors.New("Not allowed")
	ErrForeignKey      = errors.New("upload key does not belong to this user")
)

var unsafeNameChars = regexp.MustCompile(`[^\w.\-]+`)

type UploadService struct {
	db        *gorm.DB
	store     storage.Presigner
	waitlists *WaitlistService
	folder    string
	now       func() time.Time
}

func NewUploadService(db *gorm.DB, store storage.Presigner, waitlists *WaitlistService, folder string) *UploadService {
	if folder == "" {
		folder = "uploads"
	}
	return &UploadService{db: db, store: store, waitlists: waitlists, folder: folder, now: time.Now}
}

type uploadTarget struct {
	target     string
	kind       storage.Kind
	waitlistID *uuid.UUID
}

func parseTarget(target, kind, waitlistID string) (*uploadTarget, error) {
	t := &uploadTarget{target: target, kind: storage.Kind(strings.ToUpper(kind))}
	switch target {
	case TargetUserImage:
		if t.kind != storage.KindImage {
			return nil, invalid("kind", "Profile image must be IMAGE")
		}
	case TargetWaitlistMedia:
		if t.kind != storage.KindImage && t.kind != storage.KindVideo {
			return nil, invalid("kind", "kind must be IMAGE or VIDEO")
		}
		id, err := uuid.Parse(waitlistID)
		if err != nil {
			return nil, invalid("waitlist_id", "waitlist_id is required")
		}
		t.waitlistID = &id
	default:
		return nil, invalid("target", "target must be user.image or waitlist.media")
	}
	return t, nil
}

// Presign returns signed parameters for a direct upload. Keys follow
// <folder>/<kind>/<YYYY-MM-DD>/<userID>/<uuid>/<name>.
func (s *UploadService) Presign(ctx context.Context, userID uuid.UUID, req *dto.PresignRequest) (*dto.PresignResponse, error) {
	if s.store == nil {
		return nil, ErrUploadsDisabled
	}
	t, err := parseTarget(req.Target, req.Kind, req.WaitlistID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Filename) == "" {
		return nil, invalid("filename", "filename is required")
	}
	switch {
	case t.target == TargetUserImage && !strings.HasPrefix(req.ContentType, "image/"):
		return nil, invalid("content_type", "Profile image must be image/*")
	case t.target == TargetWaitlistMedia &&
		!strings.HasPrefix(req.ContentType, "image/") && !strings.HasPrefix(req.ContentType, "video/"):
		return nil, invalid("content_type", "Waitlist media must be image/* or video/*")
	}

	key := strings.Join([]string{
		s.folder,
		strings.ToLower(string(t.kind)),
		s.now().UTC().Format("2006-01-02"),
		userID.String(),
		uuid.NewString(),
		safeObjectName(req.Filename),
	}, "/")

	up, err := s.store.Presign(ctx, key, t.kind)
	if err != nil {
		return nil, fmt.Errorf("failed to presign: %w", err)
	}

	uc := dto.UploadContext{Target: t.target, Kind: string(t.kind)}
	if t.waitlistID != nil {
		id := t.waitlistID.String()
		uc.WaitlistID = &id
	}
	return &dto.PresignResponse{
		OK:        true,
		UploadURL: up.URL,
		Fields:    up.Fields,
		Key:       up.Key,
		PublicURL: up.PublicURL,
		Context:   uc,
	}, nil
}

// Commit attaches an uploaded object to the user image or to a waitlist's
// media. The key must have been issued to userID. Public pages showing the
// changed image or media are dropped from the page cache.
func (s *UploadService) Commit(ctx context.Context, userID uuid.UUID, req *dto.CommitRequest) (interface{}, error) {
	if s.store == nil {
		return nil, ErrUploadsDisabled
	}
	t, err := parseTarget(req.Target, req.Kind, req.WaitlistID)
	if err != nil {
		return nil, err
	}
	if !s.ownsKey(req.Key, userID, t.kind) {
		return nil, ErrForeignKey
	}
	publicURL, err := s.store.PublicURL(req.Key, t.kind)
	if err != nil {
		return nil, fmt.Errorf("failed to build public url: %w", err)
	}

	if t.target == TargetUserImage {
		if err := s.db.Model(&models.User{}).Where("id = ?", userID).Update("image", publicURL).Error; err != nil {
			return nil, fmt.Errorf("failed to set image: %w", err)
		}
		s.waitlists.invalidateOwner(ctx, userID)
		return map[string]interface{}{"user": map[string]interface{}{"id": userID, "image": publicURL}}, nil
	}

	wl, err := s.waitlists.owned(s.db, userID, *t.waitlistID)
	if err != nil {
		if errors.Is(err, ErrWaitlistNotFound) {
			return nil, ErrNotAllowed
		}
		return nil, err
	}

	var media models.WaitlistMedia
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var last []int
		if err := tx.Model(&models.WaitlistMedia{}).
			Where("waitlist_id = ?", *t.waitlistID).
			Order("display_order DESC").
			Limit(1).
			Pluck("display_order", &last).Error; err != nil {
			return err
		}
		next := 1
		if len(last) > 0 {
			next = last[0] + 1
		}
		media = models.WaitlistMedia{
			WaitlistID:   *t.waitlistID,
			Kind:         models.MediaKind(t.kind),
			URL:          publicURL,
			DisplayOrder: next,
		}
		return tx.Create(&media).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add media: %w", err)
	}
	s.waitlists.invalidate(ctx, wl.ID.String(), deref(wl.Slug))
	return map[string]interface{}{"media": media}, nil
}

func (s *UploadService) ownsKey(key string, userID uuid.UUID, kind storage.Kind) bool {
	rest, ok := strings.CutPrefix(key, s.folder+"/")
	if !ok || strings.Contains(rest, "..") {
		return false
	}
	parts := strings.Split(rest, "/")
	return len(parts) == 5 &&
		parts[0] == strings.ToLower(string(kind)) &&
		parts[2] == userID.String()
}

// safeObjectName keeps the last 80 safe characters of the base name and
// drops the extension; the store derives the format from the content.
func safeObjectName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.TrimSuffix(name, path.Ext(name))
	name = unsafeNameChars.ReplaceAllString(name, "_")
	if len(name) > 80 {
		name = name[len(name)-80:]
	}
	if name == "" || name == "." {
		name = "file"
	}
	return name
}
