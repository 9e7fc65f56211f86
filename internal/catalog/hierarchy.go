package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/models"
)

// ShowDetail is a root playlist with its direct seasons inlined
type ShowDetail struct {
	*models.Playlist
	Seasons []*models.Playlist `json:"seasons"`
}

// SeasonDetail is a child playlist with its membership rows inlined
type SeasonDetail struct {
	*models.Playlist
	Items []*models.PlaylistItem `json:"items"`
}

// SeasonEdit is one inline row of a show's season list. A nil ID adds a new
// season; otherwise the row must be a direct child of the show.
type SeasonEdit struct {
	ID    uuid.UUID
	Title *string
	Order *int
	State *models.PublishState
}

// ListShows returns every playlist without a parent
func (s *PlaylistService) ListShows(ctx context.Context) ([]*models.Playlist, error) {
	shows, err := s.repos.Playlists.ListShows(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list shows")
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	return shows, nil
}

// ListSeasons returns every playlist with a parent
func (s *PlaylistService) ListSeasons(ctx context.Context) ([]*models.Playlist, error) {
	seasons, err := s.repos.Playlists.ListSeasons(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list seasons")
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	return seasons, nil
}

// GetShow retrieves a root playlist and its seasons ordered by order then title
func (s *PlaylistService) GetShow(ctx context.Context, id uuid.UUID) (*ShowDetail, error) {
	show, err := s.repos.Playlists.GetShow(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("show %s: %w", id, ErrPlaylistNotFound)
		}
		return nil, fmt.Errorf("failed to get show: %w", err)
	}

	seasons, err := s.repos.Playlists.Children(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get seasons of show: %w", err)
	}
	if seasons == nil {
		seasons = []*models.Playlist{}
	}
	return &ShowDetail{Playlist: show, Seasons: seasons}, nil
}

// GetSeason retrieves a child playlist and its items in membership order
func (s *PlaylistService) GetSeason(ctx context.Context, id uuid.UUID) (*SeasonDetail, error) {
	season, err := s.repos.Playlists.GetSeason(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("season %s: %w", id, ErrPlaylistNotFound)
		}
		return nil, fmt.Errorf("failed to get season: %w", err)
	}

	items, err := s.repos.PlaylistItems.GetWithVideos(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get items of season: %w", err)
	}
	if items == nil {
		items = []*models.PlaylistItem{}
	}
	return &SeasonDetail{Playlist: season, Items: items}, nil
}

// AddSeason creates a playlist nested under the show
func (s *PlaylistService) AddSeason(ctx context.Context, showID uuid.UUID, in CreatePlaylistInput) (*models.Playlist, error) {
	if _, err := s.repos.Playlists.GetShow(ctx, showID); err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("show %s: %w", showID, ErrPlaylistNotFound)
		}
		return nil, fmt.Errorf("failed to get show: %w", err)
	}
	in.ParentID = &showID
	return s.Create(ctx, in)
}

// UpdateSeasons applies the inline season rows of a show in one transaction
// and returns the show's seasons afterwards
func (s *PlaylistService) UpdateSeasons(ctx context.Context, showID uuid.UUID, edits []SeasonEdit) ([]*models.Playlist, error) {
	detail, err := s.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*models.Playlist, len(detail.Seasons))
	for _, season := range detail.Seasons {
		byID[season.ID] = season
	}

	batch := make([]*models.Playlist, 0, len(edits))
	for _, edit := range edits {
		season, err := s.seasonFor(showID, byID, edit)
		if err != nil {
			return nil, err
		}
		batch = append(batch, season)
	}

	if err := s.repos.Playlists.SaveAll(ctx, batch); err != nil {
		s.log.Error().
			Err(err).
			Str("show_id", showID.String()).
			Msg("Failed to save inline seasons")
		return nil, fmt.Errorf("failed to update seasons: %w", err)
	}

	s.log.Info().
		Str("show_id", showID.String()).
		Int("rows", len(batch)).
		Msg("Show seasons updated")

	return s.repos.Playlists.Children(ctx, showID)
}

func (s *PlaylistService) seasonFor(showID uuid.UUID, byID map[uuid.UUID]*models.Playlist, edit SeasonEdit) (*models.Playlist, error) {
	var season *models.Playlist
	if edit.ID == uuid.Nil {
		if edit.Title == nil || strings.TrimSpace(*edit.Title) == "" {
			return nil, ErrTitleRequired
		}
		season = models.NewPlaylist(strings.TrimSpace(*edit.Title))
		season.ID = uuid.Nil
		season.ParentID = &showID
	} else {
		existing, ok := byID[edit.ID]
		if !ok {
			return nil, fmt.Errorf("season %s of show %s: %w", edit.ID, showID, ErrPlaylistNotFound)
		}
		season = existing
	}

	if edit.Title != nil {
		title := strings.TrimSpace(*edit.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		season.Title = title
	}
	if edit.Order != nil {
		season.Order = *edit.Order
	}
	if edit.State != nil {
		state, err := normalizeState(*edit.State)
		if err != nil {
			return nil, err
		}
		season.State = state
	}
	return season, nil
}
