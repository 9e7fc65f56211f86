//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/marquee/internal/config"
	"github.com/stwalsh4118/marquee/internal/db"
	"github.com/stwalsh4118/marquee/internal/server"
)

// migrationsPath resolves the migrations directory relative to this file so
// tests work regardless of working directory
func migrationsPath(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)              // test/integration
	rootDir := filepath.Dir(filepath.Dir(testDir)) // module root
	return "file://" + filepath.Join(rootDir, "migrations")
}

// startServer runs the full server stack against a fresh database file
func startServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{
			Path:              filepath.Join(t.TempDir(), "integration.db"),
			ConnectionTimeout: time.Second,
			EnableWAL:         true,
			MigrationsPath:    migrationsPath(t),
		},
		Logging: config.LoggingConfig{Level: "error"},
		Catalog: config.CatalogConfig{
			SlugMaxLength:    50,
			SlugMaxAttempts:  5,
			SlugSuffixLength: 4,
			DefaultPageSize:  20,
			MaxPageSize:      100,
		},
	}
	require.NoError(t, cfg.Validate())

	database, err := db.Open(cfg.Database.Path, db.Options{
		ConnectTimeout: cfg.Database.ConnectionTimeout,
		EnableWAL:      cfg.Database.EnableWAL,
	})
	require.NoError(t, err, "Failed to open database")

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")
	require.NoError(t, db.RunMigrations(sqlDB, cfg.Database.MigrationsPath), "Failed to run migrations")

	ts := httptest.NewServer(server.New(cfg, database).Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = database.Close()
	})
	return ts
}

// call sends a JSON request and decodes the JSON response into out when set
func call(t *testing.T, ts *httptest.Server, method, path string, body, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}
