package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/marquee/internal/models"
	"gorm.io/gorm"
)

// VideoRepository handles database operations for videos
type VideoRepository struct {
	db    *DB
	hooks Hooks
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *DB, hooks Hooks) *VideoRepository {
	return &VideoRepository{db: db, hooks: hooks}
}

// Create runs the before-save hooks and inserts the video in one transaction
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := r.hooks.Run(ctx, tx, video); err != nil {
			return err
		}
		if err := tx.Create(video).Error; err != nil {
			return fmt.Errorf("failed to create video: %w", MapGormError(err))
		}
		return nil
	})
}

// GetByID retrieves a video by its UUID
func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&video)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &video, nil
}

// GetBySlug retrieves a video by its slug
func (r *VideoRepository) GetBySlug(ctx context.Context, slug string) (*models.Video, error) {
	var video models.Video
	result := r.db.WithContext(ctx).Where("slug = ?", slug).First(&video)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &video, nil
}

// List retrieves videos matching filter, oldest first
func (r *VideoRepository) List(ctx context.Context, filter ListFilter) ([]*models.Video, error) {
	var videos []*models.Video
	query := filter.paginate(filter.apply(r.db.WithContext(ctx).Model(&models.Video{}))).
		Order("created_at ASC").
		Order("id ASC")

	if err := query.Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", MapGormError(err))
	}
	return videos, nil
}

// Count returns the number of videos matching filter, ignoring pagination
func (r *VideoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	var count int64
	if err := filter.apply(r.db.WithContext(ctx).Model(&models.Video{})).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", MapGormError(err))
	}
	return count, nil
}

// Published retrieves videos in the Publish state whose timestamp has passed
func (r *VideoRepository) Published(ctx context.Context, now time.Time) ([]*models.Video, error) {
	return r.List(ctx, ListFilter{PublishedAt: &now})
}

// Update runs the before-save hooks and persists every mutable column
// Note: Uses map-based updates to support setting fields to zero values
func (r *VideoRepository) Update(ctx context.Context, video *models.Video) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := r.hooks.Run(ctx, tx, video); err != nil {
			return err
		}

		video.UpdatedAt = time.Now().UTC()
		updates := map[string]interface{}{
			"title":             video.Title,
			"description":       video.Description,
			"video_id":          video.ExternalID,
			"slug":              video.Slug,
			"active":            video.Active,
			"state":             video.State,
			"publish_timestamp": video.PublishTimestamp,
			"updated_at":        video.UpdatedAt,
		}

		result := tx.Model(&models.Video{}).Where("id = ?", video.ID.String()).Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update video: %w", MapGormError(result.Error))
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Delete removes a video together with its playlist memberships and clears it
// as featured video wherever it was used, all in one transaction.
func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", id.String()).Delete(&models.PlaylistItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete memberships of video: %w", MapGormError(err))
		}

		if err := tx.Model(&models.Playlist{}).
			Where("featured_video_id = ?", id.String()).
			Update("featured_video_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear featured video: %w", MapGormError(err))
		}

		result := tx.Where("id = ?", id.String()).Delete(&models.Video{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete video: %w", MapGormError(result.Error))
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// PlaylistIDs returns the playlists referencing the video, either as featured
// video or through a membership item, ordered by playlist creation.
func (r *VideoRepository) PlaylistIDs(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	members := r.db.Model(&models.PlaylistItem{}).Select("playlist_id").Where("video_id = ?", videoID.String())

	result := r.db.WithContext(ctx).
		Model(&models.Playlist{}).
		Where("featured_video_id = ? OR id IN (?)", videoID.String(), members).
		Order("created_at ASC").
		Order("id ASC").
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to look up playlists of video: %w", MapGormError(result.Error))
	}
	return ids, nil
}

// FeaturedPlaylistIDs returns only the playlists featuring the video
func (r *VideoRepository) FeaturedPlaylistIDs(ctx context.Context, videoID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	result := r.db.WithContext(ctx).
		Model(&models.Playlist{}).
		Where("featured_video_id = ?", videoID.String()).
		Order("created_at ASC").
		Order("id ASC").
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to look up featuring playlists: %w", MapGormError(result.Error))
	}
	return ids, nil
}

// GetByIDs retrieves the videos with the given ids, keyed by id
func (r *VideoRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Video, error) {
	byID := make(map[uuid.UUID]*models.Video, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	var videos []*models.Video
	if err := r.db.WithContext(ctx).Where("id IN ?", idStrings).Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to get videos by ids: %w", MapGormError(err))
	}
	for _, v := range videos {
		byID[v.ID] = v
	}
	return byID, nil
}
