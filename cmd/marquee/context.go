package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/stwalsh4118/marquee/internal/catalog"
	"github.com/stwalsh4118/marquee/internal/config"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/logger"
	"github.com/stwalsh4118/marquee/internal/server"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	dbOnce sync.Once
	db     *db.DB
	dbErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads configuration once and initializes the global logger.
// Logs go to stderr so command output stays clean.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		logger.InitWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Pretty)
		c.config = cfg
	})
	return c.config, c.configErr
}

// database opens the configured database once, creating its directory
func (c *commandContext) database(cmd *cobra.Command) (*db.DB, error) {
	cfg, err := c.ensureConfig(cmd)
	if err != nil {
		return nil, err
	}
	c.dbOnce.Do(func() {
		if dir := filepath.Dir(cfg.Database.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				c.dbErr = fmt.Errorf("create database directory: %w", err)
				return
			}
		}
		database, err := db.Open(cfg.Database.Path, db.Options{
			ConnectTimeout: cfg.Database.ConnectionTimeout,
			EnableWAL:      cfg.Database.EnableWAL,
		})
		if err != nil {
			c.dbErr = fmt.Errorf("open database: %w", err)
			return
		}
		c.db = database
	})
	return c.db, c.dbErr
}

// migrate applies pending schema migrations
func (c *commandContext) migrate(cmd *cobra.Command) error {
	database, err := c.database(cmd)
	if err != nil {
		return err
	}
	sqlDB, err := database.GetSQLDB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	if err := db.RunMigrations(sqlDB, c.config.Database.MigrationsPath); err != nil {
		return err
	}
	return nil
}

type services struct {
	videos    *catalog.VideoService
	playlists *catalog.PlaylistService
}

// withCatalog migrates the database and hands the catalog services to fn
func (c *commandContext) withCatalog(cmd *cobra.Command, fn func(services) error) error {
	if err := c.migrate(cmd); err != nil {
		return err
	}
	repos := server.NewRepositories(c.config, c.db)
	opts := server.CatalogOptions(c.config)
	return fn(services{
		videos:    catalog.NewVideoService(repos, opts),
		playlists: catalog.NewPlaylistService(repos, opts),
	})
}

func (c *commandContext) close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
