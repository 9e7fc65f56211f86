package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/marquee/internal/catalog"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/models"
)

// CreatePlaylistRequest represents a request to create a playlist
type CreatePlaylistRequest struct {
	Title            string     `json:"title" binding:"required"`
	Description      *string    `json:"description,omitempty"`
	Slug             string     `json:"slug,omitempty"`
	ParentID         *string    `json:"parent_id,omitempty"`
	Order            *int       `json:"order,omitempty"`
	FeaturedVideoID  *string    `json:"featured_video_id,omitempty"`
	State            string     `json:"state,omitempty"`
	PublishTimestamp *time.Time `json:"publish_timestamp,omitempty"`
	Active           *bool      `json:"active,omitempty"`
}

// UpdatePlaylistRequest represents a partial playlist update. An empty
// parent_id or featured_video_id clears the reference.
type UpdatePlaylistRequest struct {
	Title            *string    `json:"title,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Slug             *string    `json:"slug,omitempty"`
	ParentID         *string    `json:"parent_id,omitempty"`
	Order            *int       `json:"order,omitempty"`
	FeaturedVideoID  *string    `json:"featured_video_id,omitempty"`
	State            *string    `json:"state,omitempty"`
	PublishTimestamp *time.Time `json:"publish_timestamp,omitempty"`
	Active           *bool      `json:"active,omitempty"`
}

// AddItemRequest represents a request to add a video to a playlist
type AddItemRequest struct {
	VideoID string `json:"video_id" binding:"required"`
	Order   *int   `json:"order,omitempty"`
}

// ItemOrder is one inline row of a playlist's membership list
type ItemOrder struct {
	ID    string `json:"id" binding:"required"`
	Order int    `json:"order"`
}

// UpdateItemsRequest represents an inline edit of membership rows
type UpdateItemsRequest struct {
	Items []ItemOrder `json:"items" binding:"required,min=1"`
}

// ItemsResponse represents the membership rows of a playlist
type ItemsResponse struct {
	PlaylistID string                 `json:"playlist_id"`
	Items      []*models.PlaylistItem `json:"items"`
}

// PlaylistVideosResponse lists a playlist's videos in membership order
type PlaylistVideosResponse struct {
	PlaylistID string          `json:"playlist_id"`
	Items      []VideoResponse `json:"items"`
}

// PlaylistHandler handles playlist-related API requests
type PlaylistHandler struct {
	playlists *catalog.PlaylistService
}

// NewPlaylistHandler creates a new playlist handler instance
func NewPlaylistHandler(playlists *catalog.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

func (r CreatePlaylistRequest) toInput() (catalog.CreatePlaylistInput, error) {
	parentID, _, err := parseOptionalID(r.ParentID)
	if err != nil {
		return catalog.CreatePlaylistInput{}, fmt.Errorf("invalid parent_id: %w", err)
	}
	featuredID, _, err := parseOptionalID(r.FeaturedVideoID)
	if err != nil {
		return catalog.CreatePlaylistInput{}, fmt.Errorf("invalid featured_video_id: %w", err)
	}
	return catalog.CreatePlaylistInput{
		Title:            r.Title,
		Description:      r.Description,
		Slug:             r.Slug,
		ParentID:         parentID,
		Order:            r.Order,
		FeaturedVideoID:  featuredID,
		State:            models.PublishState(r.State),
		PublishTimestamp: r.PublishTimestamp,
		Active:           r.Active,
	}, nil
}

// CreatePlaylist handles POST /api/playlists
func (h *PlaylistHandler) CreatePlaylist(c *gin.Context) {
	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		badRequest(c, "invalid_id", err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	playlist, err := h.playlists.Create(ctx, in)
	if err != nil {
		respondServiceError(c, err, "create playlist")
		return
	}

	c.JSON(http.StatusCreated, playlist)
}

// ListPlaylists handles GET /api/playlists. level=shows|seasons and
// parent_id narrow the page; ?slug= returns the one playlist with that slug.
func (h *PlaylistHandler) ListPlaylists(c *gin.Context) {
	if slug := c.Query("slug"); slug != "" {
		h.getPlaylistBySlug(c, slug)
		return
	}

	filter, err := parsePlaylistFilter(c)
	if err != nil {
		badRequest(c, "invalid_query", err)
		return
	}
	filter = h.playlists.Page(filter)

	ctx, cancel := requestContext(c)
	defer cancel()

	playlists, total, err := h.playlists.List(ctx, filter)
	if err != nil {
		respondServiceError(c, err, "list playlists")
		return
	}
	if playlists == nil {
		playlists = []*models.Playlist{}
	}

	c.JSON(http.StatusOK, ListResponse[*models.Playlist]{
		Items:  playlists,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (h *PlaylistHandler) getPlaylistBySlug(c *gin.Context, slug string) {
	ctx, cancel := requestContext(c)
	defer cancel()

	playlist, err := h.playlists.GetBySlug(ctx, slug)
	if err != nil {
		respondServiceError(c, err, "retrieve playlist")
		return
	}

	c.JSON(http.StatusOK, playlist)
}

// GetPlaylist handles GET /api/playlists/:id
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	id, ok := parseID(c, "id", "playlist")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	playlist, err := h.playlists.Get(ctx, id)
	if err != nil {
		respondServiceError(c, err, "retrieve playlist")
		return
	}

	c.JSON(http.StatusOK, playlist)
}

// UpdatePlaylist handles PATCH /api/playlists/:id
func (h *PlaylistHandler) UpdatePlaylist(c *gin.Context) {
	id, ok := parseID(c, "id", "playlist")
	if !ok {
		return
	}

	var req UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}

	parentID, clearParent, err := parseOptionalID(req.ParentID)
	if err != nil {
		badRequest(c, "invalid_id", fmt.Errorf("invalid parent_id: %w", err))
		return
	}
	featuredID, clearFeatured, err := parseOptionalID(req.FeaturedVideoID)
	if err != nil {
		badRequest(c, "invalid_id", fmt.Errorf("invalid featured_video_id: %w", err))
		return
	}
	state, err := parseState(req.State)
	if err != nil {
		badRequest(c, "invalid_state", catalog.ErrInvalidState)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	playlist, err := h.playlists.Update(ctx, id, catalog.PlaylistPatch{
		Title:            req.Title,
		Description:      req.Description,
		Slug:             req.Slug,
		ParentID:         parentID,
		ClearParent:      clearParent,
		Order:            req.Order,
		FeaturedVideoID:  featuredID,
		ClearFeatured:    clearFeatured,
		State:            state,
		PublishTimestamp: req.PublishTimestamp,
		Active:           req.Active,
	})
	if err != nil {
		respondServiceError(c, err, "update playlist")
		return
	}

	c.JSON(http.StatusOK, playlist)
}

// DeletePlaylist handles DELETE /api/playlists/:id
func (h *PlaylistHandler) DeletePlaylist(c *gin.Context) {
	id, ok := parseID(c, "id", "playlist")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.playlists.Delete(ctx, id); err != nil {
		respondServiceError(c, err, "delete playlist")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Playlist deleted successfully"})
}

// GetItems handles GET /api/playlists/:id/items
func (h *PlaylistHandler) GetItems(c *gin.Context) {
	id, ok := parseID(c, "id", "playlist")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.playlists.Items(ctx, id)
	if err != nil {
		respondServiceError(c, err, "retrieve playlist items")
		return
	}

	c.JSON(http.StatusOK, newItemsResponse(id, items))
}

// GetVideos handles GET /api/playlists/:id/videos
func (h *PlaylistHandler) GetVideos(c *gin.Context) {
	id, ok := parseID(c, "id", "playlist")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	videos, err := h.playlists.Videos(ctx, id)
	if err != nil {
		respondServiceError(c, err, "retrieve playlist videos")
		return
	}

	resp := PlaylistVideosResponse{PlaylistID: id.String(), Items: make([]VideoResponse, len(videos))}
	for i, v := range videos {
		resp.Items[i] = toVideoResponse(v)
	}
	c.JSON(http.StatusOK, resp)
}

// AddItem handles POST /api/playlists/:id/items
func (h *PlaylistHandler) AddItem(c *gin.Context) {
	id, ok := parseID(c, "id", "playlist")
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}
	videoID, err := uuid.Parse(req.VideoID)
	if err != nil {
		badRequest(c, "invalid_id", fmt.Errorf("invalid video_id: %w", err))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.playlists.AddItem(ctx, id, videoID, req.Order)
	if err != nil {
		respondServiceError(c, err, "add video to playlist")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateItems handles PUT /api/playlists/:id/items
func (h *PlaylistHandler) UpdateItems(c *gin.Context) {
	id, ok := parseID(c, "id", "playlist")
	if !ok {
		return
	}

	var req UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}

	reorder := make([]db.ReorderItem, len(req.Items))
	for i, row := range req.Items {
		itemID, err := uuid.Parse(row.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_item_id",
				Message: fmt.Sprintf("Invalid item ID format at index %d", i),
			})
			return
		}
		reorder[i] = db.ReorderItem{ID: itemID, Order: row.Order}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.playlists.ReorderItems(ctx, id, reorder)
	if err != nil {
		respondServiceError(c, err, "reorder playlist items")
		return
	}

	c.JSON(http.StatusOK, newItemsResponse(id, items))
}

// RemoveItem handles DELETE /api/playlists/:id/items/:itemId
func (h *PlaylistHandler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c, "id", "playlist")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId", "item")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.playlists.RemoveItem(ctx, id, itemID); err != nil {
		respondServiceError(c, err, "remove playlist item")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Item removed from playlist"})
}

func newItemsResponse(playlistID uuid.UUID, items []*models.PlaylistItem) ItemsResponse {
	if items == nil {
		items = []*models.PlaylistItem{}
	}
	return ItemsResponse{PlaylistID: playlistID.String(), Items: items}
}

// SetupPlaylistRoutes registers playlist-related routes
func SetupPlaylistRoutes(apiGroup *gin.RouterGroup, playlists *catalog.PlaylistService) {
	handler := NewPlaylistHandler(playlists)

	// Playlist CRUD endpoints
	apiGroup.POST("/playlists", handler.CreatePlaylist)
	apiGroup.GET("/playlists", handler.ListPlaylists)
	apiGroup.GET("/playlists/:id", handler.GetPlaylist)
	apiGroup.PATCH("/playlists/:id", handler.UpdatePlaylist)
	apiGroup.DELETE("/playlists/:id", handler.DeletePlaylist)

	// Membership endpoints
	apiGroup.GET("/playlists/:id/items", handler.GetItems)
	apiGroup.POST("/playlists/:id/items", handler.AddItem)
	apiGroup.PUT("/playlists/:id/items", handler.UpdateItems)
	apiGroup.DELETE("/playlists/:id/items/:itemId", handler.RemoveItem)
	apiGroup.GET("/playlists/:id/videos", handler.GetVideos)
}
