package models

import (
	"time"

	"github.com/google/uuid"
)

// PlaylistItem is the ordered membership of a video in a playlist
type PlaylistItem struct {
	ID         uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	PlaylistID uuid.UUID `json:"playlist_id" gorm:"type:text;not null;column:playlist_id" validate:"required"`
	VideoID    uuid.UUID `json:"video_id" gorm:"type:text;not null;column:video_id" validate:"required"`
	Order      int       `json:"order" gorm:"type:integer;not null;column:order"`
	CreatedAt  time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`

	// Populated by the repository, not stored in database
	Video *Video `json:"video,omitempty" gorm:"-"`
}

// TableName sets the table for GORM
func (PlaylistItem) TableName() string { return "playlist_items" }

// NewPlaylistItem creates a new PlaylistItem with generated UUID and timestamp
func NewPlaylistItem(playlistID, videoID uuid.UUID, order int) *PlaylistItem {
	return &PlaylistItem{
		ID:         uuid.New(),
		PlaylistID: playlistID,
		VideoID:    videoID,
		Order:      order,
		CreatedAt:  time.Now().UTC(),
	}
}
