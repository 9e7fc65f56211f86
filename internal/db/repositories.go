package db

import (
	"strings"
	"time"

	"github.com/stwalsh4118/marquee/internal/models"
	"github.com/stwalsh4118/marquee/internal/slug"
	"gorm.io/gorm"
)

// Repositories provides access to all database repositories
type Repositories struct {
	Videos        *VideoRepository
	Playlists     *PlaylistRepository
	PlaylistItems *PlaylistItemRepository
}

// NewRepositories creates a new repository collection using the default
// before-save hooks
func NewRepositories(db *DB) *Repositories {
	return NewRepositoriesWithHooks(db, DefaultHooks(slug.NewGenerator(0, 0, 0), time.Now))
}

// NewRepositoriesWithHooks creates a new repository collection whose video and
// playlist writes run hooks
func NewRepositoriesWithHooks(db *DB, hooks Hooks) *Repositories {
	return &Repositories{
		Videos:        NewVideoRepository(db, hooks),
		Playlists:     NewPlaylistRepository(db, hooks),
		PlaylistItems: NewPlaylistItemRepository(db),
	}
}

// ListFilter narrows video and playlist listings
type ListFilter struct {
	// Query matches titles case-insensitively
	Query  string
	State  *models.PublishState
	Active *bool
	// PublishedAt applies the Published scope at the given instant
	PublishedAt *time.Time
	Limit       int
	Offset      int
}

func (f ListFilter) apply(q *gorm.DB) *gorm.DB {
	if query := strings.TrimSpace(f.Query); query != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	if f.State != nil {
		q = q.Where("state = ?", *f.State)
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	if f.PublishedAt != nil {
		q = q.Scopes(Published(*f.PublishedAt))
	}
	return q
}

func (f ListFilter) paginate(q *gorm.DB) *gorm.DB {
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	return q
}
