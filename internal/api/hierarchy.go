package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/marquee/internal/catalog"
	"github.com/stwalsh4118/marquee/internal/models"
)

// SeasonRow is one inline row of a show's season list. Rows without an id
// create a new season.
type SeasonRow struct {
	ID    string  `json:"id,omitempty"`
	Title *string `json:"title,omitempty"`
	Order *int    `json:"order,omitempty"`
	State *string `json:"state,omitempty"`
}

// UpdateSeasonsRequest represents an inline edit of a show's seasons
type UpdateSeasonsRequest struct {
	Seasons []SeasonRow `json:"seasons" binding:"required,min=1"`
}

// PlaylistsResponse represents an unpaginated playlist listing
type PlaylistsResponse struct {
	Items []*models.Playlist `json:"items"`
}

// HierarchyHandler serves the show and season views of playlists
type HierarchyHandler struct {
	playlists *catalog.PlaylistService
}

// NewHierarchyHandler creates a new hierarchy handler instance
func NewHierarchyHandler(playlists *catalog.PlaylistService) *HierarchyHandler {
	return &HierarchyHandler{playlists: playlists}
}

// ListShows handles GET /api/shows
func (h *HierarchyHandler) ListShows(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	shows, err := h.playlists.ListShows(ctx)
	if err != nil {
		respondServiceError(c, err, "list shows")
		return
	}
	c.JSON(http.StatusOK, newPlaylistsResponse(shows))
}

// GetShow handles GET /api/shows/:id
func (h *HierarchyHandler) GetShow(c *gin.Context) {
	id, ok := parseID(c, "id", "show")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	show, err := h.playlists.GetShow(ctx, id)
	if err != nil {
		respondServiceError(c, err, "retrieve show")
		return
	}
	c.JSON(http.StatusOK, show)
}

// AddSeason handles POST /api/shows/:id/seasons
func (h *HierarchyHandler) AddSeason(c *gin.Context) {
	id, ok := parseID(c, "id", "show")
	if !ok {
		return
	}

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

	season, err := h.playlists.AddSeason(ctx, id, in)
	if err != nil {
		respondServiceError(c, err, "add season")
		return
	}
	c.JSON(http.StatusCreated, season)
}

// UpdateSeasons handles PUT /api/shows/:id/seasons
func (h *HierarchyHandler) UpdateSeasons(c *gin.Context) {
	id, ok := parseID(c, "id", "show")
	if !ok {
		return
	}

	var req UpdateSeasonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err)
		return
	}

	edits := make([]catalog.SeasonEdit, len(req.Seasons))
	for i, row := range req.Seasons {
		edit := catalog.SeasonEdit{Title: row.Title, Order: row.Order}
		if row.ID != "" {
			seasonID, err := uuid.Parse(row.ID)
			if err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{
					Error:   "invalid_season_id",
					Message: fmt.Sprintf("Invalid season ID format at index %d", i),
				})
				return
			}
			edit.ID = seasonID
		}
		state, err := parseState(row.State)
		if err != nil {
			badRequest(c, "invalid_state", catalog.ErrInvalidState)
			return
		}
		edit.State = state
		edits[i] = edit
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	seasons, err := h.playlists.UpdateSeasons(ctx, id, edits)
	if err != nil {
		respondServiceError(c, err, "update seasons")
		return
	}
	c.JSON(http.StatusOK, newPlaylistsResponse(seasons))
}

// ListSeasons handles GET /api/seasons
func (h *HierarchyHandler) ListSeasons(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	seasons, err := h.playlists.ListSeasons(ctx)
	if err != nil {
		respondServiceError(c, err, "list seasons")
		return
	}
	c.JSON(http.StatusOK, newPlaylistsResponse(seasons))
}

// GetSeason handles GET /api/seasons/:id
func (h *HierarchyHandler) GetSeason(c *gin.Context) {
	id, ok := parseID(c, "id", "season")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	season, err := h.playlists.GetSeason(ctx, id)
	if err != nil {
		respondServiceError(c, err, "retrieve season")
		return
	}
	c.JSON(http.StatusOK, season)
}

func newPlaylistsResponse(playlists []*models.Playlist) PlaylistsResponse {
	if playlists == nil {
		playlists = []*models.Playlist{}
	}
	return PlaylistsResponse{Items: playlists}
}

// SetupHierarchyRoutes registers the show and season routes
func SetupHierarchyRoutes(apiGroup *gin.RouterGroup, playlists *catalog.PlaylistService) {
	handler := NewHierarchyHandler(playlists)

	apiGroup.GET("/shows", handler.ListShows)
	apiGroup.GET("/shows/:id", handler.GetShow)
	apiGroup.POST("/shows/:id/seasons", handler.AddSeason)
	apiGroup.PUT("/shows/:id/seasons", handler.UpdateSeasons)

	apiGroup.GET("/seasons", handler.ListSeasons)
	apiGroup.GET("/seasons/:id", handler.GetSeason)
}
