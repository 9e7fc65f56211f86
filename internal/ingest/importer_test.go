package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/marquee/internal/catalog"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/models"
)

func setupImporter(t *testing.T) (*Importer, *catalog.VideoService, *catalog.PlaylistService) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, "file://../../migrations"))

	repos := db.NewRepositories(database)
	videos := catalog.NewVideoService(repos, catalog.Options{})
	playlists := catalog.NewPlaylistService(repos, catalog.Options{})
	return NewImporter(videos, playlists), videos, playlists
}

func TestImportBuildsHierarchy(t *testing.T) {
	importer, _, playlists := setupImporter(t)
	ctx := context.Background()

	results, err := importer.Import(ctx, []Entry{
		{ExternalID: "asset-2", Source: "The Office - S01E02 - Diversity Day.mp4"},
		{ExternalID: "asset-1", Source: "The Office/Season 1/01 - Pilot.mp4"},
		{ExternalID: "asset-3", Source: "the.office.S02E01.mkv"},
		{ExternalID: "asset-4", Source: "Holiday Special.mp4"},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	shows, err := playlists.ListShows(ctx)
	require.NoError(t, err)
	require.Len(t, shows, 1, "case-insensitive show titles share one show")
	assert.Equal(t, "The Office", shows[0].Title)

	show, err := playlists.GetShow(ctx, shows[0].ID)
	require.NoError(t, err)
	require.Len(t, show.Seasons, 2)
	assert.Equal(t, "Season 1", show.Seasons[0].Title)
	assert.Equal(t, 1, show.Seasons[0].Order)
	assert.Equal(t, "Season 2", show.Seasons[1].Title)

	season1, err := playlists.GetSeason(ctx, show.Seasons[0].ID)
	require.NoError(t, err)
	require.Len(t, season1.Items, 2)
	assert.Equal(t, 1, season1.Items[0].Order)
	require.NotNil(t, season1.Items[0].Video)
	assert.Equal(t, "The Office - S01E01 - Pilot", season1.Items[0].Video.Title)
	assert.Equal(t, "The Office - S01E02 - Diversity Day", season1.Items[1].Video.Title)

	unplaced := results[3]
	assert.Nil(t, unplaced.ShowID)
	assert.Nil(t, unplaced.SeasonID)
	assert.Equal(t, "Holiday Special", unplaced.Video.Title)
	assert.Equal(t, models.StateDraft, unplaced.Video.State)
}

func TestImportReusesExistingSeasons(t *testing.T) {
	importer, _, playlists := setupImporter(t)
	ctx := context.Background()

	show, err := playlists.Create(ctx, catalog.CreatePlaylistInput{Title: "Parks and Recreation"})
	require.NoError(t, err)
	existing, err := playlists.AddSeason(ctx, show.ID, catalog.CreatePlaylistInput{Title: "Season 2"})
	require.NoError(t, err)

	results, err := importer.Import(ctx, []Entry{
		{ExternalID: "asset-1", Source: "Parks.and.Recreation.2x05.mkv"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].SeasonID)
	assert.Equal(t, existing.ID, *results[0].SeasonID)
	assert.Equal(t, show.ID, *results[0].ShowID)

	detail, err := playlists.GetShow(ctx, show.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Seasons, 1)
}

func TestImportPublishState(t *testing.T) {
	importer, videos, playlists := setupImporter(t)
	importer.State = models.StatePublish
	ctx := context.Background()

	results, err := importer.Import(ctx, []Entry{{ExternalID: "asset-1", Source: "Friends.S01E05.mp4"}})
	require.NoError(t, err)

	video, err := videos.Get(ctx, results[0].Video.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatePublish, video.State)
	assert.NotNil(t, video.PublishTimestamp)

	season, err := playlists.Get(ctx, *results[0].SeasonID)
	require.NoError(t, err)
	assert.Equal(t, models.StatePublish, season.State)
}

func TestImportStopsAtFirstFailure(t *testing.T) {
	importer, _, _ := setupImporter(t)

	results, err := importer.Import(context.Background(), []Entry{
		{ExternalID: "asset-1", Source: "Friends.S01E05.mp4"},
		{ExternalID: "", Source: "Friends.S01E06.mp4"},
		{ExternalID: "asset-3", Source: "Friends.S01E07.mp4"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrExternalIDRequired)
	assert.Len(t, results, 1)
}

func TestImportNothing(t *testing.T) {
	importer, _, _ := setupImporter(t)

	_, err := importer.Import(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoEntries)
}
