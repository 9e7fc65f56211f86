package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/marquee/internal/models"
	"gorm.io/gorm"
)

// HierarchyLevel selects which part of the playlist hierarchy a listing covers
type HierarchyLevel int

const (
	// LevelAll includes every playlist
	LevelAll HierarchyLevel = iota
	// LevelShows includes playlists without a parent
	LevelShows
	// LevelSeasons includes playlists with a parent
	LevelSeasons
)

// PlaylistFilter narrows playlist listings
type PlaylistFilter struct {
	ListFilter
	Level    HierarchyLevel
	ParentID *uuid.UUID
}

func (f PlaylistFilter) apply(q *gorm.DB) *gorm.DB {
	q = f.ListFilter.apply(q)
	switch f.Level {
	case LevelShows:
		q = q.Scopes(Shows)
	case LevelSeasons:
		q = q.Scopes(Seasons)
	}
	if f.ParentID != nil {
		q = q.Scopes(ChildrenOf(*f.ParentID))
	}
	return q
}

// PlaylistRepository handles database operations for playlists
type PlaylistRepository struct {
	db    *DB
	hooks Hooks
}

// NewPlaylistRepository creates a new playlist repository
func NewPlaylistRepository(db *DB, hooks Hooks) *PlaylistRepository {
	return &PlaylistRepository{db: db, hooks: hooks}
}

// Create runs the before-save hooks and inserts the playlist in one transaction
func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	if playlist.ID == uuid.Nil {
		playlist.ID = uuid.New()
	}
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return r.create(ctx, tx, playlist)
	})
}

func (r *PlaylistRepository) create(ctx context.Context, tx *gorm.DB, playlist *models.Playlist) error {
	if err := r.hooks.Run(ctx, tx, playlist); err != nil {
		return err
	}
	if err := tx.Create(playlist).Error; err != nil {
		return fmt.Errorf("failed to create playlist: %w", MapGormError(err))
	}
	return nil
}

// GetByID retrieves a playlist by its UUID
func (r *PlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	return r.get(ctx, r.db.DB, id)
}

// GetShow retrieves a playlist by UUID only if it is a root playlist
func (r *PlaylistRepository) GetShow(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	return r.get(ctx, r.db.Scopes(Shows), id)
}

// GetSeason retrieves a playlist by UUID only if it has a parent
func (r *PlaylistRepository) GetSeason(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	return r.get(ctx, r.db.Scopes(Seasons), id)
}

func (r *PlaylistRepository) get(ctx context.Context, q *gorm.DB, id uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist
	result := q.WithContext(ctx).Where("id = ?", id.String()).First(&playlist)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &playlist, nil
}

// GetBySlug retrieves a playlist by its slug
func (r *PlaylistRepository) GetBySlug(ctx context.Context, slug string) (*models.Playlist, error) {
	var playlist models.Playlist
	result := r.db.WithContext(ctx).Where("slug = ?", slug).First(&playlist)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &playlist, nil
}

// List retrieves playlists matching filter in hierarchy order
func (r *PlaylistRepository) List(ctx context.Context, filter PlaylistFilter) ([]*models.Playlist, error) {
	var playlists []*models.Playlist
	query := filter.paginate(filter.apply(r.db.WithContext(ctx).Model(&models.Playlist{}))).
		Scopes(HierarchyOrder)

	if err := query.Find(&playlists).Error; err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", MapGormError(err))
	}
	return playlists, nil
}

// Count returns the number of playlists matching filter, ignoring pagination
func (r *PlaylistRepository) Count(ctx context.Context, filter PlaylistFilter) (int64, error) {
	var count int64
	if err := filter.apply(r.db.WithContext(ctx).Model(&models.Playlist{})).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count playlists: %w", MapGormError(err))
	}
	return count, nil
}

// Published retrieves playlists in the Publish state whose timestamp has passed
func (r *PlaylistRepository) Published(ctx context.Context, now time.Time) ([]*models.Playlist, error) {
	return r.List(ctx, PlaylistFilter{ListFilter: ListFilter{PublishedAt: &now}})
}

// ListShows retrieves every root playlist
func (r *PlaylistRepository) ListShows(ctx context.Context) ([]*models.Playlist, error) {
	return ListShows(ctx, r.db.DB)
}

// ListSeasons retrieves every playlist that has a parent
func (r *PlaylistRepository) ListSeasons(ctx context.Context) ([]*models.Playlist, error) {
	return ListSeasons(ctx, r.db.DB)
}

// Children retrieves the direct children of a playlist in hierarchy order
func (r *PlaylistRepository) Children(ctx context.Context, parentID uuid.UUID) ([]*models.Playlist, error) {
	return r.List(ctx, PlaylistFilter{ParentID: &parentID})
}

// Update runs the before-save hooks and persists every mutable column
// Note: Uses map-based updates to support setting fields to zero values
func (r *PlaylistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return r.update(ctx, tx, playlist)
	})
}

func (r *PlaylistRepository) update(ctx context.Context, tx *gorm.DB, playlist *models.Playlist) error {
	if err := r.hooks.Run(ctx, tx, playlist); err != nil {
		return err
	}

	playlist.UpdatedAt = time.Now().UTC()
	updates := map[string]interface{}{
		"parent_id":         playlist.ParentID,
		"order":             playlist.Order,
		"title":             playlist.Title,
		"description":       playlist.Description,
		"slug":              playlist.Slug,
		"featured_video_id": playlist.FeaturedVideoID,
		"active":            playlist.Active,
		"state":             playlist.State,
		"publish_timestamp": playlist.PublishTimestamp,
		"updated_at":        playlist.UpdatedAt,
	}

	result := tx.Model(&models.Playlist{}).Where("id = ?", playlist.ID.String()).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update playlist: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveAll creates or updates each playlist in a single transaction, running
// the before-save hooks for every row. Rows with a nil ID are created.
func (r *PlaylistRepository) SaveAll(ctx context.Context, playlists []*models.Playlist) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		for _, p := range playlists {
			if p.ID == uuid.Nil {
				p.ID = uuid.New()
				if err := r.create(ctx, tx, p); err != nil {
					return err
				}
				continue
			}
			if err := r.update(ctx, tx, p); err != nil {
				return fmt.Errorf("playlist %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// Delete removes a playlist and its membership items in one transaction.
// Child playlists are not deleted; they are moved to the root level.
func (r *PlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Playlist{}).
			Where("parent_id = ?", id.String()).
			Update("parent_id", nil).Error; err != nil {
			return fmt.Errorf("failed to orphan child playlists: %w", MapGormError(err))
		}

		if err := tx.Where("playlist_id = ?", id.String()).Delete(&models.PlaylistItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete playlist items: %w", MapGormError(err))
		}

		result := tx.Where("id = ?", id.String()).Delete(&models.Playlist{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete playlist: %w", MapGormError(result.Error))
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ParentID returns the parent of a playlist, nil for root playlists
func (r *PlaylistRepository) ParentID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	var playlist models.Playlist
	result := r.db.WithContext(ctx).Select("id", "parent_id").Where("id = ?", id.String()).First(&playlist)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return playlist.ParentID, nil
}
