package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/marquee/internal/catalog"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/logger"
	"github.com/stwalsh4118/marquee/internal/models"
)

const requestTimeout = 5 * time.Second

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse represents a successful operation without a body
type MessageResponse struct {
	Message string `json:"message"`
}

// ListResponse represents a paginated list
type ListResponse[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// parseID reads a UUID path parameter, writing a 400 response when invalid
func parseID(c *gin.Context, param, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid " + entity + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalID parses an optional UUID body field. An empty string means
// the reference should be cleared.
func parseOptionalID(raw *string) (id *uuid.UUID, unset bool, err error) {
	if raw == nil {
		return nil, false, nil
	}
	if strings.TrimSpace(*raw) == "" {
		return nil, true, nil
	}
	parsed, err := uuid.Parse(*raw)
	if err != nil {
		return nil, false, err
	}
	return &parsed, false, nil
}

// parseListFilter reads q, state, active, published, limit and offset
func parseListFilter(c *gin.Context) (db.ListFilter, error) {
	filter := db.ListFilter{Query: c.Query("q")}

	if raw := c.Query("state"); raw != "" {
		state, err := models.ParsePublishState(raw)
		if err != nil {
			return filter, err
		}
		filter.State = &state
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, err
		}
		filter.Active = &active
	}
	if raw := c.Query("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, err
		}
		if published {
			now := time.Now().UTC()
			filter.PublishedAt = &now
		}
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, errors.New("offset must be a non-negative integer")
		}
		filter.Offset = offset
	}
	return filter, nil
}

// parsePlaylistFilter adds the hierarchy parameters to parseListFilter
func parsePlaylistFilter(c *gin.Context) (db.PlaylistFilter, error) {
	listFilter, err := parseListFilter(c)
	filter := db.PlaylistFilter{ListFilter: listFilter}
	if err != nil {
		return filter, err
	}

	switch c.Query("level") {
	case "":
	case "shows":
		filter.Level = db.LevelShows
	case "seasons":
		filter.Level = db.LevelSeasons
	default:
		return filter, errors.New("level must be shows or seasons")
	}

	if raw := c.Query("parent_id"); raw != "" {
		parentID, err := uuid.Parse(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid parent_id: %w", err)
		}
		filter.ParentID = &parentID
	}
	return filter, nil
}

// parseState validates an optional state field from a request body
func parseState(raw *string) (*models.PublishState, error) {
	if raw == nil {
		return nil, nil
	}
	state, err := models.ParsePublishState(*raw)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// respondServiceError maps catalog errors to HTTP responses
func respondServiceError(c *gin.Context, err error, action string) {
	switch {
	case catalog.IsVideoNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "video_not_found", Message: "Video not found"})
	case catalog.IsPlaylistItemNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "item_not_found", Message: "One or more playlist items not found"})
	case catalog.IsPlaylistNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "playlist_not_found", Message: "Playlist not found"})
	case catalog.IsInvalidParent(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_parent", Message: err.Error()})
	case errors.Is(err, catalog.ErrInvalidState):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_state", Message: catalog.ErrInvalidState.Error()})
	case catalog.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "timeout", Message: "Request timed out"})
	default:
		logger.Log.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Msg("Failed to " + action)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to " + action,
		})
	}
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   code,
		Message: err.Error(),
	})
}
