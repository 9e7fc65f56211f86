package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultOrder is the order value used when the caller supplies none
const DefaultOrder = 1

// Playlist is a named, ordered collection of videos. A playlist without a
// parent is surfaced as a show, one with a parent as a season.
type Playlist struct {
	ID              uuid.UUID  `json:"id" gorm:"type:text;primaryKey;column:id"`
	ParentID        *uuid.UUID `json:"parent_id,omitempty" gorm:"type:text;column:parent_id"`
	Order           int        `json:"order" gorm:"type:integer;not null;column:order"`
	Title           string     `json:"title" gorm:"type:text;not null;column:title" validate:"required"`
	Description     *string    `json:"description,omitempty" gorm:"type:text;column:description"`
	Slug            string     `json:"slug" gorm:"type:text;not null;uniqueIndex;column:slug"`
	FeaturedVideoID *uuid.UUID `json:"featured_video_id,omitempty" gorm:"type:text;column:featured_video_id"`
	Active          bool       `json:"active" gorm:"type:integer;not null;column:active"`
	Publishing
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`
}

// NewPlaylist creates a new active draft Playlist with generated UUID and timestamps
func NewPlaylist(title string) *Playlist {
	now := time.Now().UTC()
	return &Playlist{
		ID:         uuid.New(),
		Order:      DefaultOrder,
		Title:      title,
		Active:     true,
		Publishing: Publishing{State: StateDraft},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TableName implements Entity
func (Playlist) TableName() string { return "playlists" }

// GetID implements Entity
func (p *Playlist) GetID() uuid.UUID { return p.ID }

// SlugSource implements Sluggable
func (p *Playlist) SlugSource() string { return p.Title }

// GetSlug implements Sluggable
func (p *Playlist) GetSlug() string { return p.Slug }

// SetSlug implements Sluggable
func (p *Playlist) SetSlug(slug string) { p.Slug = slug }

// IsPublished is the admin convenience flag, see Video.IsPublished
func (p *Playlist) IsPublished() bool { return p.Active }

// IsLive reports whether the playlist is active and visible through published() at now
func (p *Playlist) IsLive(now time.Time) bool {
	return p.Active && p.IsPublishedAt(now)
}

// IsShow reports whether the playlist sits at the root of the hierarchy
func (p *Playlist) IsShow() bool { return p.ParentID == nil }
