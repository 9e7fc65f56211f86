package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/logger"
	"github.com/stwalsh4118/marquee/internal/models"
)

// VideoService handles business logic for video operations
type VideoService struct {
	repos *db.Repositories
	opts  Options
	log   zerolog.Logger
}

// NewVideoService creates a new video service instance
func NewVideoService(repos *db.Repositories, opts Options) *VideoService {
	return &VideoService{
		repos: repos,
		opts:  opts.withDefaults(),
		log:   logger.Component("catalog"),
	}
}

// CreateVideoInput holds the caller supplied fields of a new video
type CreateVideoInput struct {
	Title            string
	ExternalID       string
	Description      *string
	Slug             string
	State            models.PublishState
	PublishTimestamp *time.Time
	// Active defaults to true when nil
	Active *bool
}

// VideoPatch holds the fields to change on an existing video; nil means keep
type VideoPatch struct {
	Title            *string
	Description      *string
	ExternalID       *string
	Slug             *string
	State            *models.PublishState
	PublishTimestamp *time.Time
	Active           *bool
}

// VideoRow is the admin listing projection of a video
type VideoRow struct {
	Title       string              `json:"title"`
	ID          uuid.UUID           `json:"id"`
	State       models.PublishState `json:"state"`
	ExternalID  string              `json:"video_id"`
	IsPublished bool                `json:"is_published"`
	PlaylistIDs []uuid.UUID         `json:"playlist_ids"`
}

// Create validates input and stores a new video. Slug and publish timestamp
// are filled in by the write path hooks.
func (s *VideoService) Create(ctx context.Context, in CreateVideoInput) (*models.Video, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("failed to create video: %w", ErrTitleRequired)
	}
	externalID := strings.TrimSpace(in.ExternalID)
	if externalID == "" {
		return nil, fmt.Errorf("failed to create video: %w", ErrExternalIDRequired)
	}
	state, err := normalizeState(in.State)
	if err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	video := models.NewVideo(title, externalID)
	video.Description = in.Description
	video.Slug = strings.TrimSpace(in.Slug)
	video.State = state
	video.PublishTimestamp = utcPtr(in.PublishTimestamp)
	if in.Active != nil {
		video.Active = *in.Active
	}

	if err := s.repos.Videos.Create(ctx, video); err != nil {
		s.log.Error().
			Err(err).
			Str("title", title).
			Msg("Failed to create video in database")
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	s.log.Info().
		Str("video_id", video.ID.String()).
		Str("slug", video.Slug).
		Str("state", string(video.State)).
		Msg("Video created successfully")

	return video, nil
}

// Get retrieves a video by its ID
func (s *VideoService) Get(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	video, err := s.repos.Videos.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrVideoNotFound
		}
		s.log.Error().
			Err(err).
			Str("video_id", id.String()).
			Msg("Failed to get video by ID")
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

// GetBySlug retrieves a video by its slug
func (s *VideoService) GetBySlug(ctx context.Context, slug string) (*models.Video, error) {
	video, err := s.repos.Videos.GetBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return video, nil
}

// Page applies the default and maximum page size to filter
func (s *VideoService) Page(filter db.ListFilter) db.ListFilter {
	return s.opts.page(filter)
}

// List retrieves a page of videos matching filter and the total match count
func (s *VideoService) List(ctx context.Context, filter db.ListFilter) ([]*models.Video, int64, error) {
	filter = s.opts.page(filter)

	videos, err := s.repos.Videos.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list videos")
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	total, err := s.repos.Videos.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	s.log.Debug().
		Int("count", len(videos)).
		Int64("total", total).
		Msg("Listed videos")

	return videos, total, nil
}

// Rows retrieves a page of admin rows, each carrying its reverse playlist lookup
func (s *VideoService) Rows(ctx context.Context, filter db.ListFilter) ([]VideoRow, int64, error) {
	videos, total, err := s.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]VideoRow, 0, len(videos))
	for _, v := range videos {
		ids, err := s.repos.Videos.PlaylistIDs(ctx, v.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list video rows: %w", err)
		}
		if ids == nil {
			ids = []uuid.UUID{}
		}
		rows = append(rows, VideoRow{
			Title:       v.Title,
			ID:          v.ID,
			State:       v.State,
			ExternalID:  v.ExternalID,
			IsPublished: v.IsPublished(),
			PlaylistIDs: ids,
		})
	}
	return rows, total, nil
}

// Published retrieves the videos visible through the published() filter right now
func (s *VideoService) Published(ctx context.Context) ([]*models.Video, error) {
	videos, err := s.repos.Videos.Published(ctx, s.opts.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list published videos: %w", err)
	}
	return videos, nil
}

// Update applies patch to an existing video and saves it through the hooks
func (s *VideoService) Update(ctx context.Context, id uuid.UUID, patch VideoPatch) (*models.Video, error) {
	video, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("failed to update video: %w", ErrTitleRequired)
		}
		video.Title = title
	}
	if patch.ExternalID != nil {
		externalID := strings.TrimSpace(*patch.ExternalID)
		if externalID == "" {
			return nil, fmt.Errorf("failed to update video: %w", ErrExternalIDRequired)
		}
		video.ExternalID = externalID
	}
	if patch.Description != nil {
		video.Description = patch.Description
	}
	if patch.Slug != nil {
		video.Slug = strings.TrimSpace(*patch.Slug)
	}
	if patch.State != nil {
		state, err := normalizeState(*patch.State)
		if err != nil {
			return nil, fmt.Errorf("failed to update video: %w", err)
		}
		// Returning to Draft keeps an existing publish timestamp
		video.State = state
	}
	if patch.PublishTimestamp != nil {
		video.PublishTimestamp = utcPtr(patch.PublishTimestamp)
	}
	if patch.Active != nil {
		video.Active = *patch.Active
	}

	if err := s.repos.Videos.Update(ctx, video); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrVideoNotFound
		}
		s.log.Error().
			Err(err).
			Str("video_id", id.String()).
			Msg("Failed to update video in database")
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	s.log.Info().
		Str("video_id", video.ID.String()).
		Str("state", string(video.State)).
		Msg("Video updated successfully")

	return video, nil
}

// Delete removes a video. Its memberships go with it and playlists featuring
// it lose their featured video.
func (s *VideoService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repos.Videos.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return ErrVideoNotFound
		}
		s.log.Error().
			Err(err).
			Str("video_id", id.String()).
			Msg("Failed to delete video")
		return fmt.Errorf("failed to delete video: %w", err)
	}

	s.log.Info().
		Str("video_id", id.String()).
		Msg("Video deleted successfully")
	return nil
}

// PlaylistIDs returns every playlist that features or contains the video
func (s *VideoService) PlaylistIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	ids, err := s.repos.Videos.PlaylistIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up playlists: %w", err)
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}

// Playlists resolves the reverse lookup to full playlist rows, in the same order
func (s *VideoService) Playlists(ctx context.Context, id uuid.UUID) ([]*models.Playlist, error) {
	ids, err := s.PlaylistIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolvePlaylists(ctx, ids)
}

// FeaturedPlaylists returns only the playlists that feature the video,
// ordered by playlist creation
func (s *VideoService) FeaturedPlaylists(ctx context.Context, id uuid.UUID) ([]*models.Playlist, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	ids, err := s.repos.Videos.FeaturedPlaylistIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up featuring playlists: %w", err)
	}
	return s.resolvePlaylists(ctx, ids)
}

// resolvePlaylists loads ids in order, skipping rows deleted in between
func (s *VideoService) resolvePlaylists(ctx context.Context, ids []uuid.UUID) ([]*models.Playlist, error) {
	playlists := make([]*models.Playlist, 0, len(ids))
	for _, pid := range ids {
		p, err := s.repos.Playlists.GetByID(ctx, pid)
		if err != nil {
			if db.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("failed to load playlist %s: %w", pid, err)
		}
		playlists = append(playlists, p)
	}
	return playlists, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
