// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/marquee/internal/api"
	"github.com/stwalsh4118/marquee/internal/catalog"
	"github.com/stwalsh4118/marquee/internal/config"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/logger"
	"github.com/stwalsh4118/marquee/internal/middleware"
	"github.com/stwalsh4118/marquee/internal/slug"
)

// Server represents the HTTP server
type Server struct {
	config    *config.Config
	db        *db.DB
	repos     *db.Repositories
	videos    *catalog.VideoService
	playlists *catalog.PlaylistService
	router    *gin.Engine
	server    *http.Server
}

// NewRepositories builds repositories whose write path runs the slug and
// publish hooks configured by cfg
func NewRepositories(cfg *config.Config, database *db.DB) *db.Repositories {
	gen := slug.NewGenerator(
		cfg.Catalog.SlugMaxLength,
		cfg.Catalog.SlugMaxAttempts,
		cfg.Catalog.SlugSuffixLength,
	)
	return db.NewRepositoriesWithHooks(database, db.DefaultHooks(gen, time.Now))
}

// CatalogOptions converts the catalog config section into service options
func CatalogOptions(cfg *config.Config) catalog.Options {
	return catalog.Options{
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
	}
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	repos := NewRepositories(cfg, database)
	opts := CatalogOptions(cfg)

	return &Server{
		config:    cfg,
		db:        database,
		repos:     repos,
		videos:    catalog.NewVideoService(repos, opts),
		playlists: catalog.NewPlaylistService(repos, opts),
	}
}

// Handler returns the router, building it on first use
func (s *Server) Handler() http.Handler {
	if s.router == nil {
		s.setupRouter()
	}
	return s.router
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default()) // allows all origins

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db, s.config.Database.MigrationsPath)
	api.SetupVideoRoutes(apiGroup, s.videos)
	api.SetupPlaylistRoutes(apiGroup, s.playlists)
	api.SetupHierarchyRoutes(apiGroup, s.playlists)
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
