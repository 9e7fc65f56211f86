package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/marquee/internal/db"
)

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status   string                 `json:"status"`
	Database string                 `json:"database"`
	Time     string                 `json:"time"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db             *db.DB
	migrationsPath string
}

// NewHealthHandler creates a new health check handler. When migrationsPath
// is set the current schema version is reported as well.
func NewHealthHandler(database *db.DB, migrationsPath string) *HealthHandler {
	return &HealthHandler{db: database, migrationsPath: migrationsPath}
}

// Check handles the health check endpoint
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:  "ok",
		Time:    time.Now().UTC().Format(time.RFC3339),
		Details: make(map[string]interface{}),
	}

	// Check database connectivity
	if err := h.db.Health(ctx); err != nil {
		response.Status = "degraded"
		response.Database = "unhealthy"
		response.Details["database_error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	response.Database = "healthy"

	if h.migrationsPath != "" {
		if sqlDB, err := h.db.GetSQLDB(); err == nil {
			if version, dirty, err := db.MigrationVersion(sqlDB, h.migrationsPath); err == nil {
				response.Details["schema_version"] = version
				response.Details["schema_dirty"] = dirty
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// SetupHealthRoutes registers health check routes
func SetupHealthRoutes(apiGroup *gin.RouterGroup, database *db.DB, migrationsPath string) {
	handler := NewHealthHandler(database, migrationsPath)
	apiGroup.GET("/health", handler.Check)
}
