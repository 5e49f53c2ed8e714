package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/onboarding"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrWaitlistNotFound  = errors.New("Not found")
	ErrSlugTaken         = errors.New("Slug already in use")
	ErrPublishNotAllowed = errors.New("Finish the earlier setup steps before publishing")
	ErrNotPublished      = errors.New("Waitlist not found or not published.")
)

var videoExt = regexp.MustCompile(`(?i)\.(mp4|mov|avi|webm|ogg)$`)

type WaitlistService struct {
	db         *gorm.DB
	onboarding *OnboardingService
	pages      cache.PageCache
}

func NewWaitlistService(db *gorm.DB, onboarding *OnboardingService, pages cache.PageCache) *WaitlistService {
	if pages == nil {
		pages = cache.Noop{}
	}
	return &WaitlistService{db: db, onboarding: onboarding, pages: pages}
}

// Create adds an empty draft waitlist for ownerID.
func (s *WaitlistService) Create(ownerID uuid.UUID) (*models.Waitlist, error) {
	wl := models.Waitlist{OwnerID: ownerID}
	if err := s.db.Omit(clause.Associations).Create(&wl).Error; err != nil {
		return nil, fmt.Errorf("failed to create waitlist: %w", err)
	}
	return &wl, nil
}

// Mine returns the caller's latest waitlist, creating one if none exists.
func (s *WaitlistService) Mine(ownerID uuid.UUID) (*models.Waitlist, error) {
	var wl models.Waitlist
	err := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC").First(&wl).Error
	if err == nil {
		return &wl, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load waitlist: %w", err)
	}
	return s.Create(ownerID)
}

func (s *WaitlistService) SlugAvailability(value string) (*dto.SlugAvailability, error) {
	slug := NormalizeSlug(value)
	if !ValidSlug(slug) {
		return &dto.SlugAvailability{OK: true, Available: false, Reason: "invalid"}, nil
	}
	var count int64
	if err := s.db.Model(&models.Waitlist{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	return &dto.SlugAvailability{OK: true, Available: count == 0}, nil
}

func (s *WaitlistService) owned(db *gorm.DB, ownerID, id uuid.UUID) (*models.Waitlist, error) {
	var wl models.Waitlist
	err := db.Where("id = ? AND owner_id = ?", id, ownerID).First(&wl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWaitlistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load waitlist: %w", err)
	}
	return &wl, nil
}

// --- course step ---

func (s *WaitlistService) Course(ownerID, id uuid.UUID) (*dto.CourseResponse, error) {
	wl, err := s.owned(s.db, ownerID, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(wl), nil
}

func validateCourse(req *dto.CourseRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = NormalizeSlug(req.Slug)
	switch {
	case req.Title == "":
		return invalid("title", "Course title is required.")
	case strings.TrimSpace(req.BioHTML) == "":
		return invalid("bio_html", "Course bio is required.")
	case strings.TrimSpace(req.AboutHTML) == "":
		return invalid("about_html", "About course is required.")
	case !ValidSlug(req.Slug):
		return invalid("slug", "Use 3+ chars: lowercase letters, numbers, and hyphens.")
	}
	if req.ThumbnailURL != nil && *req.ThumbnailURL != "" && !validHTTPURL(*req.ThumbnailURL) {
		return invalid("thumbnail_url", "Thumbnail must be a valid URL")
	}
	return nil
}

// SaveCourse stores the course details and advances course → content.
func (s *WaitlistService) SaveCourse(ctx context.Context, ownerID, id uuid.UUID, req *dto.CourseRequest) (*dto.CourseResponse, onboarding.Status, error) {
	wl, err := s.owned(s.db, ownerID, id)
	if err != nil {
		return nil, "", err
	}
	if err := validateCourse(req); err != nil {
		return nil, "", err
	}
	oldSlug := deref(wl.Slug)

	var status onboarding.Status
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Waitlist{}).Where("slug = ? AND id <> ?", req.Slug, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSlugTaken
		}

		var thumbnail *string
		if req.ThumbnailURL != nil {
			thumbnail = optionalString(*req.ThumbnailURL)
		}
		if err := tx.Model(wl).Updates(map[string]interface{}{
			"title":         req.Title,
			"course_bio":    req.BioHTML,
			"about":         req.AboutHTML,
			"slug":          req.Slug,
			"thumbnail_url": thumbnail,
			"trusted_by":    req.TrustedBy,
		}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlugTaken
			}
			return err
		}
		if err := tx.First(wl, "id = ?", id).Error; err != nil {
			return err
		}

		status, err = s.onboarding.Advance(tx, ownerID, onboarding.Save{
			Step:     onboarding.StatusCourse,
			Complete: wl.Title != "" && deref(wl.Slug) != "",
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("failed to save course: %w", err)
	}

	s.invalidate(ctx, wl.ID.String(), oldSlug, deref(wl.Slug))
	return toCourseResponse(wl), status, nil
}

func toCourseResponse(wl *models.Waitlist) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:           wl.ID,
		Title:        wl.Title,
		BioHTML:      deref(wl.CourseBio),
		AboutHTML:    deref(wl.About),
		Slug:         deref(wl.Slug),
		ThumbnailURL: deref(wl.ThumbnailURL),
		TrustedBy:    wl.TrustedBy,
		CreatedAt:    wl.CreatedAt,
		UpdatedAt:    wl.UpdatedAt,
	}
}

// --- content step ---

func (s *WaitlistService) Content(ownerID, id uuid.UUID) (*dto.ContentResponse, error) {
	wl, err := s.owned(s.db.
		Preload("Media", orderByDisplay).
		Preload("Benefits", orderByDisplay).
		Preload("Faqs", orderByDisplay).
		Preload("Socials"), ownerID, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.ContentResponse{
		Media:          make([]string, 0, len(wl.Media)),
		BannerVideoURL: wl.BannerVideoURL,
		Benefits:       make([]string, 0, len(wl.Benefits)),
		FAQs:           make([]dto.FAQ, 0, len(wl.Faqs)),
	}
	for _, m := range wl.Media {
		resp.Media = append(resp.Media, m.URL)
	}
	for _, b := range wl.Benefits {
		resp.Benefits = append(resp.Benefits, b.Text)
	}
	for _, f := range wl.Faqs {
		resp.FAQs = append(resp.FAQs, dto.FAQ{Question: f.Question, Answer: f.Answer})
	}
	if so := wl.Socials; so != nil {
		resp.Socials = &dto.Socials{
			Website:   deref(so.WebsiteURL),
			Youtube:   deref(so.YoutubeURL),
			Instagram: deref(so.InstagramURL),
			Linkedin:  deref(so.LinkedinURL),
			Facebook:  deref(so.FacebookURL),
			X:         deref(so.XURL),
		}
	}
	return resp, nil
}

func orderByDisplay(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC")
}

func validateContent(req *dto.ContentRequest) error {
	if len(req.Media) == 0 {
		return invalid("media", "At least one media file is required.")
	}
	for i, m := range req.Media {
		req.Media[i] = strings.TrimSpace(m)
		if !validHTTPURL(req.Media[i]) {
			return invalid("media", "Media must be valid URLs")
		}
	}
	req.BannerVideoURL = strings.TrimSpace(req.BannerVideoURL)
	if !validHTTPURL(req.BannerVideoURL) {
		return invalid("banner_video_url", "Banner video is required.")
	}

	benefits := req.Benefits[:0]
	for _, b := range req.Benefits {
		if b = strings.TrimSpace(b); b != "" {
			benefits = append(benefits, b)
		}
	}
	req.Benefits = benefits
	if len(req.Benefits) == 0 {
		return invalid("benefits", "At least one benefit is required.")
	}

	for field, v := range map[string]*string{
		"socials.website":   &req.Socials.Website,
		"socials.youtube":   &req.Socials.Youtube,
		"socials.instagram": &req.Socials.Instagram,
		"socials.linkedin":  &req.Socials.Linkedin,
		"socials.facebook":  &req.Socials.Facebook,
		"socials.x":         &req.Socials.X,
	} {
		*v = strings.TrimSpace(*v)
		if *v != "" && !validHTTPURL(*v) {
			return invalid(field, "Must be a valid URL (include http(s)://)")
		}
	}

	if len(req.FAQs) == 0 {
		return invalid("faqs", "At least one FAQ is required.")
	}
	for i, f := range req.FAQs {
		req.FAQs[i] = dto.FAQ{Question: strings.TrimSpace(f.Question), Answer: strings.TrimSpace(f.Answer)}
		if req.FAQs[i].Question == "" || req.FAQs[i].Answer == "" {
			return invalid("faqs", "Every FAQ needs a question and an answer")
		}
	}
	return nil
}

// MediaKindFor infers the media kind from the URL's file extension or,
// for extensionless store URLs, from the video delivery path.
func MediaKindFor(rawURL string) models.MediaKind {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	if videoExt.MatchString(p) || strings.Contains(p, "/video/upload/") {
		return models.MediaVideo
	}
	return models.MediaImage
}

// SaveContent replaces the page content and advances content → price.
func (s *WaitlistService) SaveContent(ctx context.Context, ownerID, id uuid.UUID, req *dto.ContentRequest) (onboarding.Status, error) {
	wl, err := s.owned(s.db, ownerID, id)
	if err != nil {
		return "", err
	}
	if err := validateContent(req); err != nil {
		return "", err
	}

	var status onboarding.Status
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(wl).Update("banner_video_url", req.BannerVideoURL).Error; err != nil {
			return err
		}

		// Committed uploads already know their kind; keep it across resaves.
		var existing []models.WaitlistMedia
		if err := tx.Where("waitlist_id = ?", id).Find(&existing).Error; err != nil {
			return err
		}
		kinds := make(map[string]models.MediaKind, len(existing))
		for _, m := range existing {
			kinds[m.URL] = m.Kind
		}

		for _, model := range []interface{}{&models.WaitlistMedia{}, &models.WaitlistBenefit{}, &models.WaitlistFaq{}} {
			if err := tx.Where("waitlist_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		media := make([]models.WaitlistMedia, len(req.Media))
		for i, u := range req.Media {
			kind, ok := kinds[u]
			if !ok {
				kind = MediaKindFor(u)
			}
			media[i] = models.WaitlistMedia{WaitlistID: id, Kind: kind, URL: u, DisplayOrder: i}
		}
		benefits := make([]models.WaitlistBenefit, len(req.Benefits))
		for i, b := range req.Benefits {
			benefits[i] = models.WaitlistBenefit{WaitlistID: id, Text: b, DisplayOrder: i}
		}
		faqs := make([]models.WaitlistFaq, len(req.FAQs))
		for i, f := range req.FAQs {
			faqs[i] = models.WaitlistFaq{WaitlistID: id, Question: f.Question, Answer: f.Answer, DisplayOrder: i}
		}
		if err := tx.Create(&media).Error; err != nil {
			return err
		}
		if err := tx.Create(&benefits).Error; err != nil {
			return err
		}
		if err := tx.Create(&faqs).Error; err != nil {
			return err
		}

		social := models.WaitlistSocial{
			WaitlistID:   id,
			WebsiteURL:   optionalString(req.Socials.Website),
			YoutubeURL:   optionalString(req.Socials.Youtube),
			InstagramURL: optionalString(req.Socials.Instagram),
			LinkedinURL:  optionalString(req.Socials.Linkedin),
			FacebookURL:  optionalString(req.Socials.Facebook),
			XURL:         optionalString(req.Socials.X),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "waitlist_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"website_url", "youtube_url", "instagram_url", "linkedin_url", "facebook_url", "x_url", "updated_at",
			}),
		}).Create(&social).Error; err != nil {
			return err
		}

		status, err = s.onboarding.Advance(tx, ownerID, onboarding.Save{
			Step:     onboarding.StatusContent,
			Complete: len(media) > 0 && len(benefits) > 0 && len(faqs) > 0 && req.BannerVideoURL != "",
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to save content: %w", err)
	}

	s.invalidate(ctx, wl.ID.String(), deref(wl.Slug))
	return status, nil
}

// --- price step ---

func (s *WaitlistService) Price(ownerID, id uuid.UUID) (*dto.PriceResponse, error) {
	wl, err := s.owned(s.db, ownerID, id)
	if err != nil {
		return nil, err
	}
	return toPriceResponse(wl), nil
}

func toPriceResponse(wl *models.Waitlist) *dto.PriceResponse {
	resp := &dto.PriceResponse{
		Currency:    wl.Currency,
		PriceAmount: wl.PriceAmount,
		ButtonLabel: wl.ButtonLabel,
		Published:   wl.Published,
	}
	if wl.LaunchDate != nil {
		d := wl.LaunchDate.UTC().Format(time.RFC3339)
		resp.LaunchDate = &d
	}
	return resp
}

func validatePrice(req *dto.PriceRequest) (time.Time, error) {
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	req.ButtonLabel = strings.TrimSpace(req.ButtonLabel)
	if !validCurrency(req.Currency) {
		return time.Time{}, invalid("currency", "Currency must be a 3-letter code")
	}
	if req.PriceAmount <= 0 {
		return time.Time{}, invalid("price_amount", "Price must be a positive amount")
	}
	launch, err := time.Parse("2006-01-02", strings.TrimSpace(req.LaunchDate))
	if err != nil {
		return time.Time{}, invalid("launch_date", "Launch date must be YYYY-MM-DD")
	}
	if req.ButtonLabel == "" {
		return time.Time{}, invalid("button_label", "Button label is required")
	}
	return launch, nil
}

// SavePrice stores the price draft. With Publish set it also publishes the
// page, which is the only way onboarding reaches completed. Publishing is
// refused while the owner has not reached the price step.
func (s *WaitlistService) SavePrice(ctx context.Context, ownerID, id uuid.UUID, req *dto.PriceRequest) (*dto.PriceResponse, onboarding.Status, error) {
	wl, err := s.owned(s.db, ownerID, id)
	if err != nil {
		return nil, "", err
	}
	launch, err := validatePrice(req)
	if err != nil {
		return nil, "", err
	}

	var status onboarding.Status
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"currency":     req.Currency,
			"price_amount": req.PriceAmount,
			"launch_date":  launch,
			"button_label": req.ButtonLabel,
		}
		if err := tx.Model(wl).Updates(updates).Error; err != nil {
			return err
		}

		status, err = s.onboarding.Advance(tx, ownerID, onboarding.Save{
			Step:     onboarding.StatusPrice,
			Complete: req.PriceAmount > 0,
			Publish:  req.Publish,
		})
		if err != nil {
			return err
		}

		if req.Publish {
			if status != s.onboarding.Table().Terminal() {
				return ErrPublishNotAllowed
			}
			publish := map[string]interface{}{"published": true}
			if !wl.Published {
				publish["published_at"] = time.Now()
			}
			if err := tx.Model(wl).Updates(publish).Error; err != nil {
				return err
			}
		}
		return tx.First(wl, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, ErrPublishNotAllowed) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("failed to save price: %w", err)
	}

	s.invalidate(ctx, wl.ID.String(), deref(wl.Slug))
	return toPriceResponse(wl), status, nil
}

// --- dashboard ---

func (s *WaitlistService) Dashboard(ownerID uuid.UUID) ([]dto.MeWaitlist, error) {
	var rows []models.Waitlist
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load waitlists: %w", err)
	}

	type countRow struct {
		WaitlistID uuid.UUID
		Total      int64
	}
	counts := map[uuid.UUID]int64{}
	if len(rows) > 0 {
		ids := make([]uuid.UUID, len(rows))
		for i, wl := range rows {
			ids[i] = wl.ID
		}
		var cr []countRow
		if err := s.db.Model(&models.Subscriber{}).
			Select("waitlist_id, COUNT(*) AS total").
			Where("waitlist_id IN ?", ids).
			Group("waitlist_id").
			Scan(&cr).Error; err != nil {
			return nil, fmt.Errorf("failed to count subscribers: %w", err)
		}
		for _, c := range cr {
			counts[c.WaitlistID] = c.Total
		}
	}

	out := make([]dto.MeWaitlist, 0, len(rows))
	for _, wl := range rows {
		out = append(out, dto.MeWaitlist{
			ID:              wl.ID,
			Title:           wl.Title,
			Slug:            deref(wl.Slug),
			ThumbnailURL:    deref(wl.ThumbnailURL),
			PriceAmount:     wl.PriceAmount,
			Currency:        wl.Currency,
			Published:       wl.Published,
			SubscriberCount: counts[wl.ID],
			UpdatedAt:       wl.UpdatedAt,
		})
	}
	return out, nil
}

// --- public page ---

// FindPublished loads a published waitlist by id or slug.
func (s *WaitlistService) FindPublished(db *gorm.DB, idOrSlug string) (*models.Waitlist, error) {
	q := db.Where("published = ?", true)
	if id, err := uuid.Parse(idOrSlug); err == nil {
		q = q.Where("id = ?", id)
	} else {
		q = q.Where("slug = ?", NormalizeSlug(idOrSlug))
	}
	var wl models.Waitlist
	err := q.First(&wl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotPublished
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load waitlist: %w", err)
	}
	return &wl, nil
}

// Public renders the public page, serving from the page cache when
// possible. Cache errors fall through to the database.
func (s *WaitlistService) Public(ctx context.Context, idOrSlug string) (*dto.PublicWaitlist, error) {
	var page dto.PublicWaitlist
	hit, err := s.pages.Get(ctx, idOrSlug, &page)
	if err != nil {
		slog.Warn("page cache read failed", "error", err, "key", idOrSlug)
	}
	if hit {
		return &page, nil
	}

	wl, err := s.FindPublished(s.db.
		Preload("Owner").
		Preload("Media", orderByDisplay).
		Preload("Benefits", orderByDisplay).
		Preload("Faqs", orderByDisplay).
		Preload("Socials"), idOrSlug)
	if err != nil {
		return nil, err
	}

	out := toPublicWaitlist(wl)
	if err := s.pages.Set(ctx, idOrSlug, out); err != nil {
		slog.Warn("page cache write failed", "error", err, "key", idOrSlug)
	}
	return out, nil
}

func (s *WaitlistService) invalidate(ctx context.Context, keys ...string) {
	if err := s.pages.Delete(ctx, keys...); err != nil {
		slog.Warn("page cache invalidation failed", "error", err, "keys", keys)
	}
}

// invalidateOwner drops the cached pages of every published waitlist owned
// by ownerID, for changes such as a new owner image.
func (s *WaitlistService) invalidateOwner(ctx context.Context, ownerID uuid.UUID) {
	var pages []models.Waitlist
	if err := s.db.Select("id", "slug").
		Where("owner_id = ? AND published = ?", ownerID, true).
		Find(&pages).Error; err != nil {
		slog.Warn("failed to list pages for invalidation", "error", err, "user_id", ownerID.String())
		return
	}
	keys := make([]string, 0, 2*len(pages))
	for _, wl := range pages {
		keys = append(keys, wl.ID.String())
		if slug := deref(wl.Slug); slug != "" {
			keys = append(keys, slug)
		}
	}
	if len(keys) > 0 {
		s.invalidate(ctx, keys...)
	}
}

func toPublicWaitlist(wl *models.Waitlist) *dto.PublicWaitlist {
	out := &dto.PublicWaitlist{
		ID:             wl.ID,
		Slug:           deref(wl.Slug),
		Title:          wl.Title,
		CourseBio:      deref(wl.CourseBio),
		About:          deref(wl.About),
		Owner:          dto.PublicOwner{Name: wl.Owner.DisplayName(), Image: deref(wl.Owner.Image)},
		BannerVideoURL: deref(wl.BannerVideoURL),
		Currency:       wl.Currency,
		PriceAmount:    wl.PriceAmount,
		ButtonLabel:    deref(wl.ButtonLabel),
		LaunchDate:     wl.LaunchDate,
		PublishedAt:    wl.PublishedAt,
		Slides:         []dto.Slide{},
		Features:       []string{},
		Socials:        []dto.SocialLink{},
		FAQs:           []dto.PublicFAQ{},
	}
	if out.ButtonLabel == "" {
		out.ButtonLabel = "Join"
		if wl.PriceAmount != nil {
			out.ButtonLabel = "Join for " + FormatMinor(*wl.PriceAmount, wl.Currency)
		}
	}

	for _, m := range wl.Media {
		kind := "image"
		if m.Kind == models.MediaVideo {
			kind = "video"
		}
		out.Slides = append(out.Slides, dto.Slide{Type: kind, Src: m.URL})
	}
	if len(out.Slides) == 0 && wl.ThumbnailURL != nil {
		out.Slides = append(out.Slides, dto.Slide{Type: "image", Src: *wl.ThumbnailURL})
	}
	for _, b := range wl.Benefits {
		out.Features = append(out.Features, b.Text)
	}
	for _, f := range wl.Faqs {
		out.FAQs = append(out.FAQs, dto.PublicFAQ{Q: f.Question, A: f.Answer})
	}
	if so := wl.Socials; so != nil {
		for _, link := range []struct {
			label string
			href  *string
		}{
			{"Instagram", so.InstagramURL},
			{"Facebook", so.FacebookURL},
			{"LinkedIn", so.LinkedinURL},
			{"X", so.XURL},
			{"YouTube", so.YoutubeURL},
			{"Website", so.WebsiteURL},
		} {
			if link.href == nil || *link.href == "" {
				continue
			}
			out.Socials = append(out.Socials, dto.SocialLink{
				Label:  link.label,
				Handle: socialHandle(*link.href),
				Href:   *link.href,
			})
		}
	}
	return out
}

// socialHandle shows the path of a profile URL, or its host for bare sites.
func socialHandle(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		return p
	}
	if u.Host != "" {
		return u.Host
	}
	return raw
}
