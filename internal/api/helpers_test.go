package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/marquee/internal/catalog"
	"github.com/stwalsh4118/marquee/internal/db"
)

const testMigrationsPath = "file://../../migrations"

type testEnv struct {
	db        *db.DB
	repos     *db.Repositories
	videos    *catalog.VideoService
	playlists *catalog.PlaylistService
	router    *gin.Engine
}

// setupTestEnv creates a migrated database and a router with every catalog route
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, testMigrationsPath))

	repos := db.NewRepositories(database)
	opts := catalog.Options{DefaultPageSize: 10, MaxPageSize: 50}
	env := &testEnv{
		db:        database,
		repos:     repos,
		videos:    catalog.NewVideoService(repos, opts),
		playlists: catalog.NewPlaylistService(repos, opts),
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")
	SetupHealthRoutes(apiGroup, database, testMigrationsPath)
	SetupVideoRoutes(apiGroup, env.videos)
	SetupPlaylistRoutes(apiGroup, env.playlists)
	SetupHierarchyRoutes(apiGroup, env.playlists)
	env.router = router

	return env
}

// do performs a request against the router, encoding body as JSON when set
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
