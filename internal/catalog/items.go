package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/models"
)

// Items returns the membership rows of a playlist with their videos attached,
// ordered by order ascending and newest first on ties
func (s *PlaylistService) Items(ctx context.Context, playlistID uuid.UUID) ([]*models.PlaylistItem, error) {
	if _, err := s.Get(ctx, playlistID); err != nil {
		return nil, err
	}

	items, err := s.repos.PlaylistItems.GetWithVideos(ctx, playlistID)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("playlist_id", playlistID.String()).
			Msg("Failed to get playlist items")
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}
	return items, nil
}

// Videos returns the playlist's videos in membership order. A video that is
// a member twice is listed twice.
func (s *PlaylistService) Videos(ctx context.Context, playlistID uuid.UUID) ([]*models.Video, error) {
	if _, err := s.Get(ctx, playlistID); err != nil {
		return nil, err
	}

	ids, err := s.repos.PlaylistItems.VideoIDs(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist videos: %w", err)
	}
	byID, err := s.repos.Videos.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist videos: %w", err)
	}

	videos := make([]*models.Video, 0, len(ids))
	for _, id := range ids {
		if video, ok := byID[id]; ok {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

// AddItem appends a video to a playlist. A nil order uses the default order
// value; existing items are never renumbered.
func (s *PlaylistService) AddItem(ctx context.Context, playlistID, videoID uuid.UUID, order *int) (*models.PlaylistItem, error) {
	if _, err := s.Get(ctx, playlistID); err != nil {
		return nil, err
	}
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}

	position := models.DefaultOrder
	if order != nil {
		position = *order
	}

	item := models.NewPlaylistItem(playlistID, videoID, position)
	if err := s.repos.PlaylistItems.Create(ctx, item); err != nil {
		if db.IsForeignKey(err) {
			// playlist or video deleted since the checks above
			return nil, fmt.Errorf("failed to add playlist item: %w", ErrVideoNotFound)
		}
		s.log.Error().
			Err(err).
			Str("playlist_id", playlistID.String()).
			Str("video_id", videoID.String()).
			Msg("Failed to add video to playlist")
		return nil, fmt.Errorf("failed to add playlist item: %w", err)
	}

	s.log.Info().
		Str("playlist_id", playlistID.String()).
		Str("video_id", videoID.String()).
		Int("order", item.Order).
		Msg("Video added to playlist")

	return item, nil
}

// RemoveItem deletes one membership row. Remaining orders keep their gaps.
func (s *PlaylistService) RemoveItem(ctx context.Context, playlistID, itemID uuid.UUID) error {
	if err := s.repos.PlaylistItems.DeleteFromPlaylist(ctx, playlistID, itemID); err != nil {
		if db.IsNotFound(err) {
			return ErrPlaylistItemNotFound
		}
		return fmt.Errorf("failed to remove playlist item: %w", err)
	}

	s.log.Info().
		Str("playlist_id", playlistID.String()).
		Str("item_id", itemID.String()).
		Msg("Playlist item removed")
	return nil
}

// ReorderItems sets new order values for items of a playlist atomically
func (s *PlaylistService) ReorderItems(ctx context.Context, playlistID uuid.UUID, items []db.ReorderItem) ([]*models.PlaylistItem, error) {
	if _, err := s.Get(ctx, playlistID); err != nil {
		return nil, err
	}

	if err := s.repos.PlaylistItems.Reorder(ctx, playlistID, items); err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", ErrPlaylistItemNotFound, err)
		}
		return nil, fmt.Errorf("failed to reorder playlist items: %w", err)
	}

	s.log.Info().
		Str("playlist_id", playlistID.String()).
		Int("count", len(items)).
		Msg("Playlist items reordered")

	return s.Items(ctx, playlistID)
}

// SetVideos replaces the membership of a playlist with videoIDs
func (s *PlaylistService) SetVideos(ctx context.Context, playlistID uuid.UUID, videoIDs []uuid.UUID) ([]*models.PlaylistItem, error) {
	if _, err := s.Get(ctx, playlistID); err != nil {
		return nil, err
	}

	found, err := s.repos.Videos.GetByIDs(ctx, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to set playlist videos: %w", err)
	}
	for _, id := range videoIDs {
		if _, ok := found[id]; !ok {
			return nil, fmt.Errorf("video %s: %w", id, ErrVideoNotFound)
		}
	}

	added, err := s.repos.PlaylistItems.SetVideos(ctx, playlistID, videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to set playlist videos: %w", err)
	}

	s.log.Info().
		Str("playlist_id", playlistID.String()).
		Int("videos", len(videoIDs)).
		Int("added", len(added)).
		Msg("Playlist membership replaced")

	return s.Items(ctx, playlistID)
}
