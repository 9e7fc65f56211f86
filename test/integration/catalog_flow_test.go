//go:build integration
// +build integration

package integration

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resource struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	State            string     `json:"state"`
	ParentID         *string    `json:"parent_id"`
	Order            int        `json:"order"`
	PublishTimestamp *time.Time `json:"publish_timestamp"`
	IsLive           bool       `json:"is_live"`
}

type listing struct {
	Items []resource `json:"items"`
	Total int64      `json:"total"`
}

func TestSlugCollisionsAcrossPlaylists(t *testing.T) {
	ts := startServer(t)

	slugs := map[string]bool{}
	for i := 0; i < 3; i++ {
		var p resource
		status := call(t, ts, http.MethodPost, "/api/playlists", map[string]string{"title": "Random Title"}, &p)
		require.Equal(t, http.StatusCreated, status)
		require.True(t, strings.HasPrefix(p.Slug, "random-title"), p.Slug)
		slugs[p.Slug] = true
	}
	assert.Len(t, slugs, 3)
	assert.True(t, slugs["random-title"])
}

func TestShowSeasonWorkflow(t *testing.T) {
	ts := startServer(t)

	var show resource
	require.Equal(t, http.StatusCreated, call(t, ts, http.MethodPost, "/api/playlists",
		map[string]string{"title": "The Office"}, &show))

	for _, title := range []string{"Season 2", "Season 1"} {
		var season resource
		status := call(t, ts, http.MethodPost, "/api/shows/"+show.ID+"/seasons",
			map[string]interface{}{"title": title, "order": int(title[len(title)-1] - '0')}, &season)
		require.Equal(t, http.StatusCreated, status)
	}

	var detail struct {
		resource
		Seasons []resource `json:"seasons"`
	}
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/api/shows/"+show.ID, nil, &detail))
	require.Len(t, detail.Seasons, 2)
	assert.Equal(t, "Season 1", detail.Seasons[0].Title)
	assert.Equal(t, "Season 2", detail.Seasons[1].Title)

	var video resource
	require.Equal(t, http.StatusCreated, call(t, ts, http.MethodPost, "/api/videos",
		map[string]string{"title": "Pilot", "video_id": "asset-pilot"}, &video))

	season1 := detail.Seasons[0].ID
	require.Equal(t, http.StatusCreated, call(t, ts, http.MethodPost, "/api/playlists/"+season1+"/items",
		map[string]string{"video_id": video.ID}, nil))

	var seasonDetail struct {
		resource
		Items []struct {
			VideoID string `json:"video_id"`
		} `json:"items"`
	}
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/api/seasons/"+season1, nil, &seasonDetail))
	require.Len(t, seasonDetail.Items, 1)
	assert.Equal(t, video.ID, seasonDetail.Items[0].VideoID)

	// Moving the show under its own season is a cycle
	var errResp struct {
		Error string `json:"error"`
	}
	status := call(t, ts, http.MethodPatch, "/api/playlists/"+show.ID,
		map[string]string{"parent_id": season1}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_parent", errResp.Error)

	var shows listing
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/api/shows", nil, &shows))
	assert.Len(t, shows.Items, 1)
}

func TestReverseLookupAndPublishing(t *testing.T) {
	ts := startServer(t)

	var video resource
	require.Equal(t, http.StatusCreated, call(t, ts, http.MethodPost, "/api/videos",
		map[string]string{"title": "Shared Clip", "video_id": "asset-1"}, &video))

	var a, b resource
	require.Equal(t, http.StatusCreated, call(t, ts, http.MethodPost, "/api/playlists",
		map[string]string{"title": "A", "featured_video_id": video.ID, "state": "publish"}, &a))
	require.Equal(t, http.StatusCreated, call(t, ts, http.MethodPost, "/api/playlists",
		map[string]string{"title": "B"}, &b))
	require.Equal(t, http.StatusCreated, call(t, ts, http.MethodPost, "/api/playlists/"+b.ID+"/items",
		map[string]string{"video_id": video.ID}, nil))

	var lookup struct {
		PlaylistIDs []string `json:"playlist_ids"`
	}
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/api/videos/"+video.ID+"/playlists", nil, &lookup))
	assert.ElementsMatch(t, []string{a.ID, b.ID}, lookup.PlaylistIDs)

	var published listing
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/api/playlists?published=true", nil, &published))
	require.Len(t, published.Items, 1)
	assert.Equal(t, a.ID, published.Items[0].ID)

	// A future publish timestamp keeps the video out of published listings
	future := time.Now().UTC().Add(24 * time.Hour)
	var scheduled resource
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodPatch, "/api/videos/"+video.ID,
		map[string]interface{}{"state": "PU", "publish_timestamp": future}, &scheduled))
	assert.False(t, scheduled.IsLive)
	require.NotNil(t, scheduled.PublishTimestamp)
	assert.WithinDuration(t, future, *scheduled.PublishTimestamp, time.Second)

	var videos listing
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/api/videos?published=true", nil, &videos))
	assert.Equal(t, int64(0), videos.Total)

	// Deleting the video clears it from both playlists
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodDelete, "/api/videos/"+video.ID, nil, nil))

	var items struct {
		Items []interface{} `json:"items"`
	}
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/api/playlists/"+b.ID+"/items", nil, &items))
	assert.Empty(t, items.Items)

	var featured struct {
		FeaturedVideoID *string `json:"featured_video_id"`
	}
	require.Equal(t, http.StatusOK, call(t, ts, http.MethodGet, "/api/playlists/"+a.ID, nil, &featured))
	assert.Nil(t, featured.FeaturedVideoID)
}
