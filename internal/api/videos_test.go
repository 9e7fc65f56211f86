package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/marquee/internal/catalog"
	"github.com/stwalsh4118/marquee/internal/models"
)

type videoBody struct {
	models.Video
	IsPublished bool `json:"is_published"`
	IsLive      bool `json:"is_live"`
}

func TestCreateVideo(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("Defaults to draft with derived slug", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/videos", CreateVideoRequest{
			Title:   "Pilot Episode",
			VideoID: "asset-001",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		video := decode[videoBody](t, w)
		assert.NotEqual(t, uuid.Nil, video.ID)
		assert.Equal(t, "pilot-episode", video.Slug)
		assert.Equal(t, models.StateDraft, video.State)
		assert.Nil(t, video.PublishTimestamp)
		assert.True(t, video.Active)
		assert.True(t, video.IsPublished)
		assert.False(t, video.IsLive)
	})

	t.Run("Publishing stamps the timestamp", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/videos", CreateVideoRequest{
			Title:   "Launch",
			VideoID: "asset-002",
			State:   "published",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		video := decode[videoBody](t, w)
		assert.Equal(t, models.StatePublish, video.State)
		require.NotNil(t, video.PublishTimestamp)
		assert.True(t, video.IsLive)
	})

	t.Run("Missing title is rejected by binding", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/videos", map[string]string{"video_id": "asset-003"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_request", decode[ErrorResponse](t, w).Error)
	})

	t.Run("Blank title is a validation error", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/videos", CreateVideoRequest{Title: "   ", VideoID: "asset-004"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_error", decode[ErrorResponse](t, w).Error)
	})

	t.Run("Unknown state", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/videos", CreateVideoRequest{
			Title:   "Bad State",
			VideoID: "asset-005",
			State:   "archived",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_state", decode[ErrorResponse](t, w).Error)
	})

	t.Run("Duplicate titles get distinct slugs", func(t *testing.T) {
		first := env.do(t, http.MethodPost, "/api/videos", CreateVideoRequest{Title: "Same Name", VideoID: "a"})
		second := env.do(t, http.MethodPost, "/api/videos", CreateVideoRequest{Title: "Same Name", VideoID: "b"})
		require.Equal(t, http.StatusCreated, first.Code)
		require.Equal(t, http.StatusCreated, second.Code)

		a := decode[videoBody](t, first)
		b := decode[videoBody](t, second)
		assert.Equal(t, "same-name", a.Slug)
		assert.NotEqual(t, a.Slug, b.Slug)
		assert.Contains(t, b.Slug, "same-name-")
	})
}

func TestGetVideo(t *testing.T) {
	env := setupTestEnv(t)

	created, err := env.videos.Create(context.Background(), catalog.CreateVideoInput{Title: "Cold Open", ExternalID: "ext-1"})
	require.NoError(t, err)

	t.Run("Found", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/videos/"+created.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
		video := decode[videoBody](t, w)
		assert.Equal(t, created.ID, video.ID)
		assert.Equal(t, "ext-1", video.ExternalID)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/videos/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_id", decode[ErrorResponse](t, w).Error)
	})

	t.Run("Not found", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/videos/"+uuid.New().String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "video_not_found", decode[ErrorResponse](t, w).Error)
	})
}

func TestListVideos(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	for _, title := range []string{"Alpha", "Bravo", "Charlie"} {
		_, err := env.videos.Create(ctx, catalog.CreateVideoInput{Title: title, ExternalID: "ext-" + title})
		require.NoError(t, err)
	}
	_, err := env.videos.Create(ctx, catalog.CreateVideoInput{
		Title:      "Delta",
		ExternalID: "ext-Delta",
		State:      models.StatePublish,
	})
	require.NoError(t, err)

	t.Run("Rows carry reverse lookup", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/videos", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[ListResponse[catalog.VideoRow]](t, w)
		assert.Equal(t, int64(4), resp.Total)
		assert.Len(t, resp.Items, 4)
		assert.Equal(t, 10, resp.Limit)
		for _, row := range resp.Items {
			assert.NotNil(t, row.PlaylistIDs)
			assert.True(t, row.IsPublished)
		}
	})

	t.Run("Pagination clamps to maximum", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/videos?limit=1000&offset=1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[ListResponse[catalog.VideoRow]](t, w)
		assert.Equal(t, 50, resp.Limit)
		assert.Equal(t, 1, resp.Offset)
		assert.Len(t, resp.Items, 3)
	})

	t.Run("Filter by state", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/videos?state=PU", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[ListResponse[catalog.VideoRow]](t, w)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Delta", resp.Items[0].Title)
	})

	t.Run("Published only", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/videos?published=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(1), decode[ListResponse[catalog.VideoRow]](t, w).Total)
	})

	t.Run("Invalid query", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/videos?offset=-2", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_query", decode[ErrorResponse](t, w).Error)
	})
}

func TestUpdateVideo(t *testing.T) {
	env := setupTestEnv(t)

	created, err := env.videos.Create(context.Background(), catalog.CreateVideoInput{Title: "Rough Cut", ExternalID: "ext-1"})
	require.NoError(t, err)
	path := "/api/videos/" + created.ID.String()

	t.Run("Publish then return to draft", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, UpdateVideoRequest{State: strPtr("PU")})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		published := decode[videoBody](t, w)
		require.NotNil(t, published.PublishTimestamp)

		w = env.do(t, http.MethodPatch, path, UpdateVideoRequest{State: strPtr("draft")})
		require.Equal(t, http.StatusOK, w.Code)
		draft := decode[videoBody](t, w)
		assert.Equal(t, models.StateDraft, draft.State)
		require.NotNil(t, draft.PublishTimestamp)
		assert.WithinDuration(t, *published.PublishTimestamp, *draft.PublishTimestamp, time.Millisecond)
		assert.False(t, draft.IsLive)
	})

	t.Run("Title change keeps slug", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, UpdateVideoRequest{Title: strPtr("Final Cut")})
		require.Equal(t, http.StatusOK, w.Code)
		video := decode[videoBody](t, w)
		assert.Equal(t, "Final Cut", video.Title)
		assert.Equal(t, "rough-cut", video.Slug)
	})

	t.Run("Invalid state", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, UpdateVideoRequest{State: strPtr("XX")})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_state", decode[ErrorResponse](t, w).Error)
	})

	t.Run("Not found", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/api/videos/"+uuid.New().String(), UpdateVideoRequest{Title: strPtr("x")})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteVideo(t *testing.T) {
	env := setupTestEnv(t)

	created, err := env.videos.Create(context.Background(), catalog.CreateVideoInput{Title: "Outtake", ExternalID: "ext-1"})
	require.NoError(t, err)

	w := env.do(t, http.MethodDelete, "/api/videos/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/videos/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/videos/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetVideoPlaylists(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	video, err := env.videos.Create(ctx, catalog.CreateVideoInput{Title: "Shared", ExternalID: "ext-1"})
	require.NoError(t, err)

	featuring, err := env.playlists.Create(ctx, catalog.CreatePlaylistInput{Title: "A", FeaturedVideoID: &video.ID})
	require.NoError(t, err)
	containing, err := env.playlists.Create(ctx, catalog.CreatePlaylistInput{Title: "B"})
	require.NoError(t, err)
	_, err = env.playlists.AddItem(ctx, containing.ID, video.ID, nil)
	require.NoError(t, err)
	_, err = env.playlists.Create(ctx, catalog.CreatePlaylistInput{Title: "Unrelated"})
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/videos/"+video.ID.String()+"/playlists", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[VideoPlaylistsResponse](t, w)
	assert.Equal(t, video.ID.String(), resp.VideoID)
	assert.ElementsMatch(t, []string{featuring.ID.String(), containing.ID.String()}, resp.PlaylistIDs)
	assert.Len(t, resp.Playlists, 2)

	w = env.do(t, http.MethodGet, "/api/videos/"+video.ID.String()+"/playlists?featured_only=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{featuring.ID.String()}, decode[VideoPlaylistsResponse](t, w).PlaylistIDs)

	w = env.do(t, http.MethodGet, "/api/videos/"+uuid.New().String()+"/playlists", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetVideoBySlug(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	video, err := env.videos.Create(ctx, catalog.CreateVideoInput{Title: "Diversity Day", ExternalID: "ext-1"})
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/videos?slug=diversity-day", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, video.ID, decode[videoBody](t, w).ID)

	w = env.do(t, http.MethodGet, "/api/videos?slug=missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "video_not_found", decode[ErrorResponse](t, w).Error)
}
