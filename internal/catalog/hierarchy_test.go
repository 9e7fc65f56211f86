package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/models"
)

func createTheOffice(t *testing.T, playlists *PlaylistService) (*models.Playlist, []*models.Playlist) {
	t.Helper()
	ctx := context.Background()

	show, err := playlists.Create(ctx, CreatePlaylistInput{Title: "The Office"})
	require.NoError(t, err)

	// Created out of order so the listing has to sort
	var seasons []*models.Playlist
	for _, n := range []int{3, 1, 2} {
		season, err := playlists.AddSeason(ctx, show.ID, CreatePlaylistInput{
			Title: "Season " + string(rune('0'+n)),
			Order: intPtr(n),
		})
		require.NoError(t, err)
		seasons = append(seasons, season)
	}
	return show, seasons
}

func TestShowAndSeasonListings(t *testing.T) {
	_, playlists := setupTestServices(t)
	ctx := context.Background()

	createTheOffice(t, playlists)

	shows, err := playlists.ListShows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"The Office"}, playlistTitles(shows))

	seasons, err := playlists.ListSeasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Season 1", "Season 2", "Season 3"}, playlistTitles(seasons))
}

func TestGetShow(t *testing.T) {
	_, playlists := setupTestServices(t)
	ctx := context.Background()

	show, seasons := createTheOffice(t, playlists)

	detail, err := playlists.GetShow(ctx, show.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Office", detail.Title)
	assert.Equal(t, []string{"Season 1", "Season 2", "Season 3"}, playlistTitles(detail.Seasons))

	// A season is not visible through the show view
	_, err = playlists.GetShow(ctx, seasons[0].ID)
	assert.True(t, IsPlaylistNotFound(err))
}

func TestGetSeason(t *testing.T) {
	videos, playlists := setupTestServices(t)
	ctx := context.Background()

	show, seasons := createTheOffice(t, playlists)
	season := seasons[1]

	pilot := mustVideo(t, videos, "Pilot")
	diversity := mustVideo(t, videos, "Diversity Day")
	_, err := playlists.AddItem(ctx, season.ID, diversity.ID, intPtr(2))
	require.NoError(t, err)
	_, err = playlists.AddItem(ctx, season.ID, pilot.ID, intPtr(1))
	require.NoError(t, err)

	detail, err := playlists.GetSeason(ctx, season.ID)
	require.NoError(t, err)
	assert.Equal(t, season.ID, detail.ID)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "Pilot", detail.Items[0].Video.Title)
	assert.Equal(t, "Diversity Day", detail.Items[1].Video.Title)

	_, err = playlists.GetSeason(ctx, show.ID)
	assert.True(t, IsPlaylistNotFound(err))

	empty, err := playlists.GetSeason(ctx, seasons[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}

func TestAddSeason_RequiresShow(t *testing.T) {
	_, playlists := setupTestServices(t)
	ctx := context.Background()

	_, seasons := createTheOffice(t, playlists)

	_, err := playlists.AddSeason(ctx, seasons[0].ID, CreatePlaylistInput{Title: "Nested"})
	assert.True(t, IsPlaylistNotFound(err))

	_, err = playlists.AddSeason(ctx, uuid.New(), CreatePlaylistInput{Title: "Nowhere"})
	assert.True(t, IsPlaylistNotFound(err))
}

func TestUpdateSeasons(t *testing.T) {
	_, playlists := setupTestServices(t)
	ctx := context.Background()

	show, seasons := createTheOffice(t, playlists)
	// seasons are in creation order: 3, 1, 2
	season3, season1 := seasons[0], seasons[1]

	updated, err := playlists.UpdateSeasons(ctx, show.ID, []SeasonEdit{
		{ID: season3.ID, Order: intPtr(0), Title: strPtr("Season 3 (Director's Cut)")},
		{ID: season1.ID, State: statePtr(models.StatePublish)},
		{Title: strPtr("Season 4"), Order: intPtr(4)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Season 3 (Director's Cut)", "Season 1", "Season 2", "Season 4"}, playlistTitles(updated))

	published, err := playlists.Get(ctx, season1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatePublish, published.State)
	assert.NotNil(t, published.PublishTimestamp)

	added := updated[3]
	assert.NotEqual(t, uuid.Nil, added.ID)
	assert.Equal(t, "season-4", added.Slug)
	require.NotNil(t, added.ParentID)
	assert.Equal(t, show.ID, *added.ParentID)
}

func TestUpdateSeasons_RejectsForeignRows(t *testing.T) {
	_, playlists := setupTestServices(t)
	ctx := context.Background()

	show, seasons := createTheOffice(t, playlists)
	other, err := playlists.Create(ctx, CreatePlaylistInput{Title: "Parks and Recreation"})
	require.NoError(t, err)

	_, err = playlists.UpdateSeasons(ctx, show.ID, []SeasonEdit{
		{ID: seasons[0].ID, Order: intPtr(9)},
		{ID: other.ID, Order: intPtr(1)},
	})
	assert.True(t, IsPlaylistNotFound(err))

	_, err = playlists.UpdateSeasons(ctx, show.ID, []SeasonEdit{{ID: seasons[0].ID, State: statePtr("ZZ")}})
	assert.ErrorIs(t, err, ErrInvalidState)

	// Nothing was written
	unchanged, err := playlists.Get(ctx, seasons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, unchanged.Order)

	children, _, err := playlists.List(ctx, db.PlaylistFilter{ParentID: &show.ID})
	require.NoError(t, err)
	assert.Len(t, children, 3)
}
