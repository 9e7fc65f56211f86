package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/marquee/internal/models"
	"gorm.io/gorm"
)

// PlaylistItemRepository handles database operations for playlist items
type PlaylistItemRepository struct {
	db *DB
}

// NewPlaylistItemRepository creates a new playlist item repository
func NewPlaylistItemRepository(db *DB) *PlaylistItemRepository {
	return &PlaylistItemRepository{db: db}
}

// ReorderItem represents a playlist item order update
type ReorderItem struct {
	ID    uuid.UUID
	Order int
}

// Create inserts a new playlist item into the database
func (r *PlaylistItemRepository) Create(ctx context.Context, item *models.PlaylistItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	result := r.db.WithContext(ctx).Create(item)
	if result.Error != nil {
		return fmt.Errorf("failed to create playlist item: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByPlaylistID retrieves all items of a playlist in membership order
func (r *PlaylistItemRepository) GetByPlaylistID(ctx context.Context, playlistID uuid.UUID) ([]*models.PlaylistItem, error) {
	var items []*models.PlaylistItem
	result := r.db.WithContext(ctx).
		Where("playlist_id = ?", playlistID.String()).
		Scopes(MembershipOrder).
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get playlist items by playlist: %w", MapGormError(result.Error))
	}
	return items, nil
}

// GetWithVideos retrieves the items of a playlist in membership order with
// each item's video attached
func (r *PlaylistItemRepository) GetWithVideos(ctx context.Context, playlistID uuid.UUID) ([]*models.PlaylistItem, error) {
	items, err := r.GetByPlaylistID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	videoIDs := make([]string, 0, len(items))
	for _, item := range items {
		videoIDs = append(videoIDs, item.VideoID.String())
	}

	var videos []*models.Video
	if err := r.db.WithContext(ctx).Where("id IN ?", videoIDs).Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to get videos of playlist items: %w", MapGormError(err))
	}
	byID := make(map[uuid.UUID]*models.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	for _, item := range items {
		item.Video = byID[item.VideoID]
	}
	return items, nil
}

// VideoIDs returns the ids of the videos in a playlist in membership order
func (r *PlaylistItemRepository) VideoIDs(ctx context.Context, playlistID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	result := r.db.WithContext(ctx).
		Model(&models.PlaylistItem{}).
		Where("playlist_id = ?", playlistID.String()).
		Scopes(MembershipOrder).
		Pluck("video_id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get video ids of playlist: %w", MapGormError(result.Error))
	}
	return ids, nil
}

// DeleteFromPlaylist deletes an item only if it belongs to playlistID.
// Remaining items keep their order values; gaps are allowed.
func (r *PlaylistItemRepository) DeleteFromPlaylist(ctx context.Context, playlistID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND playlist_id = ?", itemID.String(), playlistID.String()).
		Delete(&models.PlaylistItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete playlist item: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder updates order values for multiple playlist items in a transaction
func (r *PlaylistItemRepository) Reorder(ctx context.Context, playlistID uuid.UUID, items []ReorderItem) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		for _, item := range items {
			result := tx.Model(&models.PlaylistItem{}).
				Where("id = ? AND playlist_id = ?", item.ID.String(), playlistID.String()).
				Update("order", item.Order)
			if result.Error != nil {
				return fmt.Errorf("failed to update order for item %s: %w", item.ID, MapGormError(result.Error))
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("playlist item %s not found in playlist: %w", item.ID, ErrNotFound)
			}
		}
		return nil
	})
}

// SetVideos makes videoIDs the exact membership of a playlist. Items for
// videos already present are kept as they are; missing videos are appended
// with their position in videoIDs as order; everything else is removed.
func (r *PlaylistItemRepository) SetVideos(ctx context.Context, playlistID uuid.UUID, videoIDs []uuid.UUID) ([]*models.PlaylistItem, error) {
	var added []*models.PlaylistItem
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var existing []*models.PlaylistItem
		if err := tx.Where("playlist_id = ?", playlistID.String()).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load playlist items: %w", MapGormError(err))
		}

		wanted := make(map[uuid.UUID]bool, len(videoIDs))
		for _, id := range videoIDs {
			wanted[id] = true
		}

		present := make(map[uuid.UUID]bool, len(existing))
		var stale []string
		for _, item := range existing {
			if wanted[item.VideoID] && !present[item.VideoID] {
				present[item.VideoID] = true
				continue
			}
			stale = append(stale, item.ID.String())
		}

		if len(stale) > 0 {
			if err := tx.Where("id IN ?", stale).Delete(&models.PlaylistItem{}).Error; err != nil {
				return fmt.Errorf("failed to remove playlist items: %w", MapGormError(err))
			}
		}

		now := time.Now().UTC()
		for i, videoID := range videoIDs {
			if present[videoID] {
				continue
			}
			present[videoID] = true
			item := &models.PlaylistItem{
				ID:         uuid.New(),
				PlaylistID: playlistID,
				VideoID:    videoID,
				Order:      i + 1,
				CreatedAt:  now,
			}
			added = append(added, item)
		}

		if len(added) > 0 {
			if err := tx.Create(&added).Error; err != nil {
				return fmt.Errorf("failed to create playlist items: %w", MapGormError(err))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}
