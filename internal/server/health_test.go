package server

import (
	"context"
	"net/http"
	"testing"

	"innovalley/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func readinessOf(t *testing.T, app *fiber.App, path string) (int, readiness) {
	t.Helper()
	env := &testEnv{app: app}
	resp := env.get(t, path, nil)
	var body readiness
	decodeJSON(t, resp, &body)
	return resp.StatusCode, body
}

func TestLivenessCheck(t *testing.T) {
	env := newTestEnv(t, stubNews{html: newsPage})
	resp := env.get(t, "/health/live", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "up", body["status"])
}

func TestReadinessCheck(t *testing.T) {
	t.Run("Without redis", func(t *testing.T) {
		env := newTestEnv(t, stubNews{html: newsPage})
		status, body := readinessOf(t, env.app, "/health/ready")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "healthy", body.Checks["database"])
		assert.Equal(t, "unavailable", body.Checks["redis"])
	})

	t.Run("With redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		db, err := database.OpenSQLite("")
		require.NoError(t, err)

		srv, err := NewServerWithDeps(testConfig(), db, redis.NewClient(&redis.Options{Addr: mr.Addr()}), stubNews{})
		require.NoError(t, err)
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
		srv.SetupMiddleware(app)
		srv.SetupRoutes(app)

		status, body := readinessOf(t, app, "/health")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "healthy", body.Checks["redis"])

		mr.Close()
		status, body = readinessOf(t, app, "/health/ready")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "unhealthy", body.Checks["redis"])

		require.NoError(t, srv.Shutdown(context.Background()))
	})

	t.Run("Database closed", func(t *testing.T) {
		env := newTestEnv(t, stubNews{html: newsPage})
		require.NoError(t, env.srv.Shutdown(context.Background()))

		status, body := readinessOf(t, env.app, "/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "unhealthy", body.Checks["database"])
	})
}
