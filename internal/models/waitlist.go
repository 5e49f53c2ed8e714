package models

import (
	"time"

	"github.com/google/uuid"
)

type MediaKind string

const (
	MediaImage MediaKind = "IMAGE"
	MediaVideo MediaKind = "VIDEO"
)

type Waitlist struct {
	Base
	OwnerID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title          string            `gorm:"size:200;not null;default:''" json:"title"`
	CourseBio      *string           `gorm:"type:text" json:"course_bio,omitempty"`
	About          *string           `gorm:"type:text" json:"about,omitempty"`
	Slug           *string           `gorm:"size:100;uniqueIndex" json:"slug,omitempty"`
	ThumbnailURL   *string           `gorm:"type:text" json:"thumbnail_url,omitempty"`
	TrustedBy      *int              `json:"trusted_by,omitempty"`
	BannerVideoURL *string           `gorm:"type:text" json:"banner_video_url,omitempty"`
	Currency       string            `gorm:"size:3;not null;default:'INR'" json:"currency"`
	PriceAmount    *int64            `json:"price_amount,omitempty"`
	LaunchDate     *time.Time        `json:"launch_date,omitempty"`
	ButtonLabel    *string           `gorm:"size:80" json:"button_label,omitempty"`
	Published      bool              `gorm:"not null;default:false;index" json:"published"`
	PublishedAt    *time.Time        `json:"published_at,omitempty"`
	Owner          User              `gorm:"foreignKey:OwnerID" json:"-"`
	Media          []WaitlistMedia   `gorm:"foreignKey:WaitlistID" json:"-"`
	Benefits       []WaitlistBenefit `gorm:"foreignKey:WaitlistID" json:"-"`
	Socials        *WaitlistSocial   `gorm:"foreignKey:WaitlistID" json:"-"`
	Faqs           []WaitlistFaq     `gorm:"foreignKey:WaitlistID" json:"-"`
}

type WaitlistMedia struct {
	Base
	WaitlistID   uuid.UUID `gorm:"type:uuid;not null;index" json:"waitlist_id"`
	Kind         MediaKind `gorm:"size:10;not null" json:"kind"`
	URL          string    `gorm:"type:text;not null" json:"url"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
}

type WaitlistBenefit struct {
	Base
	WaitlistID   uuid.UUID `gorm:"type:uuid;not null;index" json:"waitlist_id"`
	Text         string    `gorm:"type:text;not null" json:"text"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
}

type WaitlistSocial struct {
	Base
	WaitlistID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"waitlist_id"`
	WebsiteURL   *string   `gorm:"type:text" json:"website_url,omitempty"`
	YoutubeURL   *string   `gorm:"type:text" json:"youtube_url,omitempty"`
	InstagramURL *string   `gorm:"type:text" json:"instagram_url,omitempty"`
	LinkedinURL  *string   `gorm:"type:text" json:"linkedin_url,omitempty"`
	FacebookURL  *string   `gorm:"type:text" json:"facebook_url,omitempty"`
	XURL         *string   `gorm:"type:text" json:"x_url,omitempty"`
}

type WaitlistFaq struct {
	Base
	WaitlistID   uuid.UUID `gorm:"type:uuid;not null;index" json:"waitlist_id"`
	Question     string    `gorm:"type:text;not null" json:"question"`
	Answer       string    `gorm:"type:text;not null" json:"answer"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
}
