package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[HealthResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "healthy", resp.Database)
	assert.NotEmpty(t, resp.Time)
	assert.Equal(t, float64(1), resp.Details["schema_version"])
	assert.Equal(t, false, resp.Details["schema_dirty"])
}

func TestHealthCheckClosedDatabase(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.db.Close())

	w := env.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	resp := decode[HealthResponse](t, w)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unhealthy", resp.Database)
}
