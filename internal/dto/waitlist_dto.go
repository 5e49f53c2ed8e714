package dto

import (
	"time"

	"github.com/google/uuid"
)

type WaitlistRef struct {
	ID uuid.UUID `json:"id"`
}

type CourseRequest struct {
	Title        string  `json:"title"`
	BioHTML      string  `json:"bio_html"`
	AboutHTML    string  `json:"about_html"`
	Slug         string  `json:"slug"`
	ThumbnailURL *string `json:"thumbnail_url"`
	TrustedBy    *int    `json:"trusted_by"`
}

type CourseResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	BioHTML      string    `json:"bio_html"`
	AboutHTML    string    `json:"about_html"`
	Slug         string    `json:"slug"`
	ThumbnailURL string    `json:"thumbnail_url"`
	TrustedBy    *int      `json:"trusted_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Socials struct {
	Website   string `json:"website"`
	Youtube   string `json:"youtube"`
	Instagram string `json:"instagram"`
	Linkedin  string `json:"linkedin"`
	Facebook  string `json:"facebook"`
	X         string `json:"x"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ContentRequest struct {
	Media          []string `json:"media"`
	BannerVideoURL string   `json:"banner_video_url"`
	Benefits       []string `json:"benefits"`
	Socials        Socials  `json:"socials"`
	FAQs           []FAQ    `json:"faqs"`
}

type ContentResponse struct {
	Media          []string `json:"media"`
	BannerVideoURL *string  `json:"banner_video_url"`
	Benefits       []string `json:"benefits"`
	Socials        *Socials `json:"socials,omitempty"`
	FAQs           []FAQ    `json:"faqs"`
}

type PriceRequest struct {
	Currency    string `json:"currency"`
	PriceAmount int64  `json:"price_amount"`
	LaunchDate  string `json:"launch_date"`
	ButtonLabel string `json:"button_label"`
	Publish     bool   `json:"publish"`
}

type PriceResponse struct {
	Currency    string  `json:"currency"`
	PriceAmount *int64  `json:"price_amount"`
	LaunchDate  *string `json:"launch_date"`
	ButtonLabel *string `json:"button_label"`
	Published   bool    `json:"published"`
}

type SlugAvailability struct {
	OK        bool   `json:"ok"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type PublicOwner struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Slide struct {
	Type string `json:"type"`
	Src  string `json:"src"`
}

type SocialLink struct {
	Label  string `json:"label"`
	Handle string `json:"handle"`
	Href   string `json:"href"`
}

type PublicFAQ struct {
	Q string `json:"q"`
	A string `json:"a"`
}

type PublicWaitlist struct {
	ID             uuid.UUID    `json:"id"`
	Slug           string       `json:"slug"`
	Title          string       `json:"title"`
	CourseBio      string       `json:"course_bio"`
	About          string       `json:"about"`
	Owner          PublicOwner  `json:"owner"`
	BannerVideoURL string       `json:"banner_video_url"`
	Currency       string       `json:"currency"`
	PriceAmount    *int64       `json:"price_amount"`
	ButtonLabel    string       `json:"button_label"`
	LaunchDate     *time.Time   `json:"launch_date"`
	PublishedAt    *time.Time   `json:"published_at"`
	Slides         []Slide      `json:"slides"`
	Features       []string     `json:"features"`
	Socials        []SocialLink `json:"socials"`
	FAQs           []PublicFAQ  `json:"faqs"`
}
