package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/marquee/internal/models"
)

func TestVideoCreateAndGet(t *testing.T) {
	_, repos := setupTestDB(t)
	ctx := context.Background()

	video := models.NewVideo("Random title", "abc")
	video.Active = false
	require.NoError(t, repos.Videos.Create(ctx, video))

	stored, err := repos.Videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "Random title", stored.Title)
	assert.Equal(t, "abc", stored.ExternalID)
	assert.Equal(t, "random-title", stored.Slug)
	assert.Equal(t, models.StateDraft, stored.State)
	assert.False(t, stored.Active)
	assert.Nil(t, stored.PublishTimestamp)

	bySlug, err := repos.Videos.GetBySlug(ctx, "random-title")
	require.NoError(t, err)
	assert.Equal(t, video.ID, bySlug.ID)
}

func TestVideoPublished(t *testing.T) {
	_, repos := setupTestDB(t)
	ctx := context.Background()

	createVideo(t, repos, "Random title", "abc")
	published := models.NewVideo("Random title", "adc")
	published.State = models.StatePublish
	require.NoError(t, repos.Videos.Create(ctx, published))
	require.NotNil(t, published.PublishTimestamp)
	assert.False(t, published.PublishTimestamp.After(time.Now()))

	got, err := repos.Videos.Published(ctx, time.Now().Add(time.Second))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, published.ID, got[0].ID)

	draft := models.StateDraft
	count, err := repos.Videos.Count(ctx, ListFilter{State: &draft})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestVideoPlaylistIDs(t *testing.T) {
	_, repos := setupTestDB(t)
	ctx := context.Background()

	video := createVideo(t, repos, "Pilot", "abc")
	other := createVideo(t, repos, "Other", "def")

	featuring := createPlaylist(t, repos, "Featuring", func(p *models.Playlist) { p.FeaturedVideoID = &video.ID })
	containing := createPlaylist(t, repos, "Containing", nil)
	both := createPlaylist(t, repos, "Both", func(p *models.Playlist) { p.FeaturedVideoID = &video.ID })
	unrelated := createPlaylist(t, repos, "Unrelated", func(p *models.Playlist) { p.FeaturedVideoID = &other.ID })

	_, err := repos.PlaylistItems.SetVideos(ctx, containing.ID, []uuid.UUID{video.ID, other.ID})
	require.NoError(t, err)
	_, err = repos.PlaylistItems.SetVideos(ctx, both.ID, []uuid.UUID{video.ID})
	require.NoError(t, err)
	_, err = repos.PlaylistItems.SetVideos(ctx, unrelated.ID, []uuid.UUID{other.ID})
	require.NoError(t, err)

	ids, err := repos.Videos.PlaylistIDs(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{featuring.ID, containing.ID, both.ID}, ids)

	featured, err := repos.Videos.FeaturedPlaylistIDs(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{featuring.ID, both.ID}, featured)

	none, err := repos.Videos.PlaylistIDs(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteVideoCascades(t *testing.T) {
	_, repos := setupTestDB(t)
	ctx := context.Background()

	video := createVideo(t, repos, "Doomed", "abc")
	keeper := createVideo(t, repos, "Keeper", "def")
	playlist := createPlaylist(t, repos, "Mix", func(p *models.Playlist) { p.FeaturedVideoID = &video.ID })
	_, err := repos.PlaylistItems.SetVideos(ctx, playlist.ID, []uuid.UUID{video.ID, keeper.ID})
	require.NoError(t, err)

	require.NoError(t, repos.Videos.Delete(ctx, video.ID))

	stored, err := repos.Playlists.GetByID(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.FeaturedVideoID)

	ids, err := repos.PlaylistItems.VideoIDs(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{keeper.ID}, ids)

	assert.True(t, IsNotFound(repos.Videos.Delete(ctx, video.ID)))
}

func TestVideoGetByIDs(t *testing.T) {
	_, repos := setupTestDB(t)
	ctx := context.Background()
	a := createVideo(t, repos, "A", "a")
	b := createVideo(t, repos, "B", "b")

	got, err := repos.Videos.GetByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "A", got[a.ID].Title)

	empty, err := repos.Videos.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
