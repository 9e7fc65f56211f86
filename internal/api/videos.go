package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/marquee/internal/catalog"
	"github.com/stwalsh4118/marquee/internal/models"
)

// CreateVideoRequest represents a request to create a video
type CreateVideoRequest struct {
	Title            string     `json:"title" binding:"required"`
	VideoID          string     `json:"video_id" binding:"required"`
	Description      *string    `json:"description,omitempty"`
	Slug             string     `json:"slug,omitempty"`
	State            string     `json:"state,omitempty"`
	PublishTimestamp *time.Time `json:"publish_timestamp,omitempty"`
	Active           *bool      `json:"active,omitempty"`
}

// UpdateVideoRequest represents a partial video update
type UpdateVideoRequest struct {
	Title            *string    `json:"title,omitempty"`
	VideoID          *string    `json:"video_id,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Slug             *string    `json:"slug,omitempty"`
	State            *string    `json:"state,omitempty"`
	PublishTimestamp *time.Time `json:"publish_timestamp,omitempty"`
	Active           *bool      `json:"active,omitempty"`
}

// VideoResponse is a video with its derived flags
type VideoResponse struct {
	*models.Video
	IsPublished bool `json:"is_published"`
	IsLive      bool `json:"is_live"`
}

func toVideoResponse(v *models.Video) VideoResponse {
	return VideoResponse{
		Video:       v,
		IsPublished: v.IsPublished(),
		IsLive:      v.IsLive(time.Now()),
	}
}

// VideoHandler handles video-related API requests
type VideoHandler struct {
	videos *catalog.VideoService
}

// NewVideoHandler creates a new video handler instance
func NewVideoHandler(videos *catalog.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// CreateVideo handles POST /api/videos
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	video, err := h.videos.Create(ctx, catalog.CreateVideoInput{
		Title:            req.Title,
		ExternalID:       req.VideoID,
		Description:      req.Description,
		Slug:             req.Slug,
		State:            models.PublishState(req.State),
		PublishTimestamp: req.PublishTimestamp,
		Active:           req.Active,
	})
	if err != nil {
		respondServiceError(c, err, "create video")
		return
	}

	c.JSON(http.StatusCreated, toVideoResponse(video))
}

// ListVideos handles GET /api/videos and returns admin rows. With ?slug= it
// returns the one video carrying that slug instead of a page.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	if slug := c.Query("slug"); slug != "" {
		h.getVideoBySlug(c, slug)
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		badRequest(c, "invalid_query", err)
		return
	}

	filter = h.videos.Page(filter)

	ctx, cancel := requestContext(c)
	defer cancel()

	rows, total, err := h.videos.Rows(ctx, filter)
	if err != nil {
		respondServiceError(c, err, "list videos")
		return
	}

	c.JSON(http.StatusOK, ListResponse[catalog.VideoRow]{
		Items:  rows,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (h *VideoHandler) getVideoBySlug(c *gin.Context, slug string) {
	ctx, cancel := requestContext(c)
	defer cancel()

	video, err := h.videos.GetBySlug(ctx, slug)
	if err != nil {
		respondServiceError(c, err, "retrieve video")
		return
	}

	c.JSON(http.StatusOK, toVideoResponse(video))
}

// GetVideo handles GET /api/videos/:id
func (h *VideoHandler) GetVideo(c *gin.Context) {
	id, ok := parseID(c, "id", "video")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	video, err := h.videos.Get(ctx, id)
	if err != nil {
		respondServiceError(c, err, "retrieve video")
		return
	}

	c.JSON(http.StatusOK, toVideoResponse(video))
}

// UpdateVideo handles PATCH /api/videos/:id
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	id, ok := parseID(c, "id", "video")
	if !ok {
		return
	}

	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}
	state, err := parseState(req.State)
	if err != nil {
		badRequest(c, "invalid_state", catalog.ErrInvalidState)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	video, err := h.videos.Update(ctx, id, catalog.VideoPatch{
		Title:            req.Title,
		Description:      req.Description,
		ExternalID:       req.VideoID,
		Slug:             req.Slug,
		State:            state,
		PublishTimestamp: req.PublishTimestamp,
		Active:           req.Active,
	})
	if err != nil {
		respondServiceError(c, err, "update video")
		return
	}

	c.JSON(http.StatusOK, toVideoResponse(video))
}

// DeleteVideo handles DELETE /api/videos/:id
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	id, ok := parseID(c, "id", "video")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.videos.Delete(ctx, id); err != nil {
		respondServiceError(c, err, "delete video")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Video deleted successfully"})
}

// VideoPlaylistsResponse is the reverse lookup of a video
type VideoPlaylistsResponse struct {
	VideoID     string             `json:"video_id"`
	PlaylistIDs []string           `json:"playlist_ids"`
	Playlists   []*models.Playlist `json:"playlists"`
}

// GetVideoPlaylists handles GET /api/videos/:id/playlists. With
// ?featured_only=true only playlists featuring the video are returned.
func (h *VideoHandler) GetVideoPlaylists(c *gin.Context) {
	id, ok := parseID(c, "id", "video")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	lookup := h.videos.Playlists
	if featuredOnly, _ := strconv.ParseBool(c.Query("featured_only")); featuredOnly {
		lookup = h.videos.FeaturedPlaylists
	}

	playlists, err := lookup(ctx, id)
	if err != nil {
		respondServiceError(c, err, "look up playlists of video")
		return
	}

	ids := make([]string, len(playlists))
	for i, p := range playlists {
		ids[i] = p.ID.String()
	}
	c.JSON(http.StatusOK, VideoPlaylistsResponse{
		VideoID:     id.String(),
		PlaylistIDs: ids,
		Playlists:   playlists,
	})
}

// SetupVideoRoutes registers video-related routes
func SetupVideoRoutes(apiGroup *gin.RouterGroup, videos *catalog.VideoService) {
	handler := NewVideoHandler(videos)

	apiGroup.POST("/videos", handler.CreateVideo)
	apiGroup.GET("/videos", handler.ListVideos)
	apiGroup.GET("/videos/:id", handler.GetVideo)
	apiGroup.PATCH("/videos/:id", handler.UpdateVideo)
	apiGroup.DELETE("/videos/:id", handler.DeleteVideo)
	apiGroup.GET("/videos/:id/playlists", handler.GetVideoPlaylists)
}
