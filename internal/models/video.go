package models

import (
	"time"

	"github.com/google/uuid"
)

// Video represents a playable unit in the catalog
type Video struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Title       string    `json:"title" gorm:"type:text;not null;column:title" validate:"required"`
	Description *string   `json:"description,omitempty" gorm:"type:text;column:description"`
	ExternalID  string    `json:"video_id" gorm:"type:text;not null;column:video_id" validate:"required"` // opaque reference to the hosted asset
	Slug        string    `json:"slug" gorm:"type:text;not null;uniqueIndex;column:slug"`
	Active      bool      `json:"active" gorm:"type:integer;not null;column:active"`
	Publishing
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewVideo creates a new active draft Video with generated UUID and timestamps
func NewVideo(title, externalID string) *Video {
	now := time.Now().UTC()
	return &Video{
		ID:         uuid.New(),
		Title:      title,
		ExternalID: externalID,
		Active:     true,
		Publishing: Publishing{State: StateDraft},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TableName implements Entity
func (Video) TableName() string { return "videos" }

// GetID implements Entity
func (v *Video) GetID() uuid.UUID { return v.ID }

// SlugSource implements Sluggable
func (v *Video) SlugSource() string { return v.Title }

// GetSlug implements Sluggable
func (v *Video) GetSlug() string { return v.Slug }

// SetSlug implements Sluggable
func (v *Video) SetSlug(slug string) { v.Slug = slug }

// IsPublished is the admin convenience flag. It reflects Active only, not
// the published() filter.
func (v *Video) IsPublished() bool { return v.Active }

// IsLive reports whether the video is active and visible through published() at now
func (v *Video) IsLive(now time.Time) bool {
	return v.Active && v.IsPublishedAt(now)
}
