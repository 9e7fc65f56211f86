package ingest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/marquee/internal/catalog"
	"github.com/stwalsh4118/marquee/internal/logger"
	"github.com/stwalsh4118/marquee/internal/models"
)

// ErrNoEntries is returned when an import has nothing to do
var ErrNoEntries = errors.New("no entries to import")

// Entry is one hosted asset to import
type Entry struct {
	ExternalID string
	Source     string
}

// Result describes where an entry ended up. ShowID and SeasonID are nil when
// the source name carried no show or season.
type Result struct {
	Reference Reference
	Video     *models.Video
	ShowID    *uuid.UUID
	SeasonID  *uuid.UUID
}

// Importer creates videos and files them under their show and season,
// creating either playlist when it does not exist yet
type Importer struct {
	videos    *catalog.VideoService
	playlists *catalog.PlaylistService
	// State is applied to every created video, show and season
	State models.PublishState
}

// NewImporter creates an importer that leaves everything it creates in Draft
func NewImporter(videos *catalog.VideoService, playlists *catalog.PlaylistService) *Importer {
	return &Importer{
		videos:    videos,
		playlists: playlists,
		State:     models.StateDraft,
	}
}

// run caches the hierarchy touched by one Import call
type run struct {
	shows   map[string]*models.Playlist
	seasons map[uuid.UUID]map[int]*models.Playlist
}

// Import processes entries in order and stops at the first failure,
// returning the results gathered so far
func (im *Importer) Import(ctx context.Context, entries []Entry) ([]Result, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	state := &run{
		shows:   make(map[string]*models.Playlist),
		seasons: make(map[uuid.UUID]map[int]*models.Playlist),
	}

	results := make([]Result, 0, len(entries))
	for i, entry := range entries {
		result, err := im.importOne(ctx, state, entry)
		if err != nil {
			return results, fmt.Errorf("entry %d (%s): %w", i+1, entry.Source, err)
		}
		results = append(results, result)
	}

	logger.Log.Info().
		Int("count", len(results)).
		Int("shows", len(state.shows)).
		Msg("Import completed")

	return results, nil
}

func (im *Importer) importOne(ctx context.Context, state *run, entry Entry) (Result, error) {
	ref := Parse(entry.Source)
	result := Result{Reference: ref}

	video, err := im.videos.Create(ctx, catalog.CreateVideoInput{
		Title:      ref.Title,
		ExternalID: entry.ExternalID,
		State:      im.State,
	})
	if err != nil {
		return result, err
	}
	result.Video = video

	if ref.Show == "" {
		return result, nil
	}

	show, err := im.show(ctx, state, ref.Show)
	if err != nil {
		return result, err
	}
	result.ShowID = &show.ID

	target := show
	if ref.Season > 0 {
		season, err := im.season(ctx, state, show, ref.Season)
		if err != nil {
			return result, err
		}
		result.SeasonID = &season.ID
		target = season
	}

	var order *int
	if ref.Episode > 0 {
		order = &ref.Episode
	}
	if _, err := im.playlists.AddItem(ctx, target.ID, video.ID, order); err != nil {
		return result, err
	}

	logger.Log.Debug().
		Str("video_id", video.ID.String()).
		Str("show", ref.Show).
		Int("season", ref.Season).
		Int("episode", ref.Episode).
		Msg("Imported episode")

	return result, nil
}

// show finds a show by title, ignoring case, or creates it
func (im *Importer) show(ctx context.Context, state *run, title string) (*models.Playlist, error) {
	key := strings.ToLower(title)
	if show, ok := state.shows[key]; ok {
		return show, nil
	}

	shows, err := im.playlists.ListShows(ctx)
	if err != nil {
		return nil, err
	}
	for _, show := range shows {
		if strings.EqualFold(show.Title, title) {
			state.shows[key] = show
			return show, nil
		}
	}

	show, err := im.playlists.Create(ctx, catalog.CreatePlaylistInput{Title: title, State: im.State})
	if err != nil {
		return nil, err
	}
	state.shows[key] = show
	return show, nil
}

// season finds the show's season with the given number, matched on order or
// on a "Season N" title, or creates it
func (im *Importer) season(ctx context.Context, state *run, show *models.Playlist, number int) (*models.Playlist, error) {
	byNumber, ok := state.seasons[show.ID]
	if !ok {
		detail, err := im.playlists.GetShow(ctx, show.ID)
		if err != nil {
			return nil, err
		}
		byNumber = make(map[int]*models.Playlist, len(detail.Seasons))
		for _, season := range detail.Seasons {
			if n, ok := seasonNumber(season.Title); ok {
				byNumber[n] = season
			} else if _, taken := byNumber[season.Order]; !taken {
				byNumber[season.Order] = season
			}
		}
		state.seasons[show.ID] = byNumber
	}

	if season, ok := byNumber[number]; ok {
		return season, nil
	}

	season, err := im.playlists.AddSeason(ctx, show.ID, catalog.CreatePlaylistInput{
		Title: "Season " + strconv.Itoa(number),
		Order: &number,
		State: im.State,
	})
	if err != nil {
		return nil, err
	}
	byNumber[number] = season
	return season, nil
}

func seasonNumber(title string) (int, bool) {
	m := seasonDirPattern.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil {
		return 0, false
	}
	return atoi(m[1]), true
}
