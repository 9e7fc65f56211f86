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

// PlaylistService handles playlists, their membership items and the
// show/season hierarchy built on top of them
type PlaylistService struct {
	repos *db.Repositories
	opts  Options
	log   zerolog.Logger
}

// NewPlaylistService creates a new playlist service instance
func NewPlaylistService(repos *db.Repositories, opts Options) *PlaylistService {
	return &PlaylistService{
		repos: repos,
		opts:  opts.withDefaults(),
		log:   logger.Component("catalog"),
	}
}

// CreatePlaylistInput holds the caller supplied fields of a new playlist
type CreatePlaylistInput struct {
	Title           string
	Description     *string
	Slug            string
	ParentID        *uuid.UUID
	Order           *int
	FeaturedVideoID *uuid.UUID
	State           models.PublishState
	// PublishTimestamp may be set ahead of time to schedule visibility
	PublishTimestamp *time.Time
	Active           *bool
}

// PlaylistPatch holds the fields to change on an existing playlist. Pointer
// fields left nil are kept; the Clear flags null out optional references.
type PlaylistPatch struct {
	Title            *string
	Description      *string
	Slug             *string
	ParentID         *uuid.UUID
	ClearParent      bool
	Order            *int
	FeaturedVideoID  *uuid.UUID
	ClearFeatured    bool
	State            *models.PublishState
	PublishTimestamp *time.Time
	Active           *bool
}

// Create validates input and stores a new playlist
func (s *PlaylistService) Create(ctx context.Context, in CreatePlaylistInput) (*models.Playlist, error) {
	playlist, err := s.build(ctx, in)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("title", in.Title).
			Msg("Playlist creation failed: invalid input")
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	if err := s.repos.Playlists.Create(ctx, playlist); err != nil {
		s.log.Error().
			Err(err).
			Str("title", playlist.Title).
			Msg("Failed to create playlist in database")
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	s.log.Info().
		Str("playlist_id", playlist.ID.String()).
		Str("slug", playlist.Slug).
		Bool("show", playlist.IsShow()).
		Msg("Playlist created successfully")

	return playlist, nil
}

// build validates input and turns it into an unsaved playlist
func (s *PlaylistService) build(ctx context.Context, in CreatePlaylistInput) (*models.Playlist, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	state, err := normalizeState(in.State)
	if err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := s.Get(ctx, *in.ParentID); err != nil {
			return nil, fmt.Errorf("parent %s: %w", *in.ParentID, err)
		}
	}
	if in.FeaturedVideoID != nil {
		if err := s.requireVideo(ctx, *in.FeaturedVideoID); err != nil {
			return nil, err
		}
	}

	playlist := models.NewPlaylist(title)
	playlist.Description = in.Description
	playlist.Slug = strings.TrimSpace(in.Slug)
	playlist.ParentID = in.ParentID
	playlist.FeaturedVideoID = in.FeaturedVideoID
	playlist.State = state
	playlist.PublishTimestamp = utcPtr(in.PublishTimestamp)
	if in.Order != nil {
		playlist.Order = *in.Order
	}
	if in.Active != nil {
		playlist.Active = *in.Active
	}
	return playlist, nil
}

// Get retrieves a playlist by its ID
func (s *PlaylistService) Get(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	playlist, err := s.repos.Playlists.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrPlaylistNotFound
		}
		s.log.Error().
			Err(err).
			Str("playlist_id", id.String()).
			Msg("Failed to get playlist by ID")
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return playlist, nil
}

// GetBySlug retrieves a playlist by its slug
func (s *PlaylistService) GetBySlug(ctx context.Context, slug string) (*models.Playlist, error) {
	playlist, err := s.repos.Playlists.GetBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return playlist, nil
}

// Page applies the default and maximum page size to filter
func (s *PlaylistService) Page(filter db.PlaylistFilter) db.PlaylistFilter {
	filter.ListFilter = s.opts.page(filter.ListFilter)
	return filter
}

// List retrieves a page of playlists matching filter and the total match count
func (s *PlaylistService) List(ctx context.Context, filter db.PlaylistFilter) ([]*models.Playlist, int64, error) {
	filter.ListFilter = s.opts.page(filter.ListFilter)

	playlists, err := s.repos.Playlists.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list playlists")
		return nil, 0, fmt.Errorf("failed to list playlists: %w", err)
	}
	total, err := s.repos.Playlists.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count playlists: %w", err)
	}

	s.log.Debug().
		Int("count", len(playlists)).
		Int64("total", total).
		Msg("Listed playlists")

	return playlists, total, nil
}

// Published retrieves the playlists visible through the published() filter right now
func (s *PlaylistService) Published(ctx context.Context) ([]*models.Playlist, error) {
	playlists, err := s.repos.Playlists.Published(ctx, s.opts.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list published playlists: %w", err)
	}
	return playlists, nil
}

// Update applies patch to an existing playlist and saves it through the hooks
func (s *PlaylistService) Update(ctx context.Context, id uuid.UUID, patch PlaylistPatch) (*models.Playlist, error) {
	playlist, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyPatch(ctx, playlist, patch); err != nil {
		s.log.Warn().
			Err(err).
			Str("playlist_id", id.String()).
			Msg("Playlist update rejected")
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}

	if err := s.repos.Playlists.Update(ctx, playlist); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrPlaylistNotFound
		}
		s.log.Error().
			Err(err).
			Str("playlist_id", id.String()).
			Msg("Failed to update playlist in database")
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}

	s.log.Info().
		Str("playlist_id", playlist.ID.String()).
		Str("state", string(playlist.State)).
		Msg("Playlist updated successfully")

	return playlist, nil
}

func (s *PlaylistService) applyPatch(ctx context.Context, playlist *models.Playlist, patch PlaylistPatch) error {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return ErrTitleRequired
		}
		playlist.Title = title
	}
	if patch.Description != nil {
		playlist.Description = patch.Description
	}
	if patch.Slug != nil {
		playlist.Slug = strings.TrimSpace(*patch.Slug)
	}
	if patch.Order != nil {
		playlist.Order = *patch.Order
	}
	if patch.State != nil {
		state, err := normalizeState(*patch.State)
		if err != nil {
			return err
		}
		// Returning to Draft keeps an existing publish timestamp
		playlist.State = state
	}
	if patch.PublishTimestamp != nil {
		playlist.PublishTimestamp = utcPtr(patch.PublishTimestamp)
	}
	if patch.Active != nil {
		playlist.Active = *patch.Active
	}

	switch {
	case patch.ClearParent:
		playlist.ParentID = nil
	case patch.ParentID != nil:
		if err := s.validateParent(ctx, playlist.ID, *patch.ParentID); err != nil {
			return err
		}
		parentID := *patch.ParentID
		playlist.ParentID = &parentID
	}

	switch {
	case patch.ClearFeatured:
		playlist.FeaturedVideoID = nil
	case patch.FeaturedVideoID != nil:
		if err := s.requireVideo(ctx, *patch.FeaturedVideoID); err != nil {
			return err
		}
		featured := *patch.FeaturedVideoID
		playlist.FeaturedVideoID = &featured
	}
	return nil
}

// validateParent rejects parents that would put id inside its own subtree.
// The walk is bounded by the playlist count so corrupt data cannot loop forever.
func (s *PlaylistService) validateParent(ctx context.Context, id, parentID uuid.UUID) error {
	if parentID == id {
		return ErrInvalidParent
	}

	limit, err := s.repos.Playlists.Count(ctx, db.PlaylistFilter{})
	if err != nil {
		return fmt.Errorf("failed to validate parent: %w", err)
	}

	current := &parentID
	for steps := int64(0); current != nil && steps <= limit; steps++ {
		if *current == id {
			return ErrInvalidParent
		}
		next, err := s.repos.Playlists.ParentID(ctx, *current)
		if err != nil {
			if db.IsNotFound(err) {
				if *current == parentID {
					return fmt.Errorf("parent %s: %w", parentID, ErrPlaylistNotFound)
				}
				return nil
			}
			return fmt.Errorf("failed to validate parent: %w", err)
		}
		current = next
	}
	if current != nil {
		return ErrInvalidParent
	}
	return nil
}

// Delete removes a playlist and its items. Child playlists move to the root.
func (s *PlaylistService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repos.Playlists.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return ErrPlaylistNotFound
		}
		s.log.Error().
			Err(err).
			Str("playlist_id", id.String()).
			Msg("Failed to delete playlist")
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	s.log.Info().
		Str("playlist_id", id.String()).
		Msg("Playlist deleted successfully")
	return nil
}

func (s *PlaylistService) requireVideo(ctx context.Context, videoID uuid.UUID) error {
	if _, err := s.repos.Videos.GetByID(ctx, videoID); err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("video %s: %w", videoID, ErrVideoNotFound)
		}
		return fmt.Errorf("failed to get video: %w", err)
	}
	return nil
}
