package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"innovalley/internal/models"
	"innovalley/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLoader(t *testing.T) {
	store := session.NewStore("test-secret-key-12345678901234567890123456789012", time.Hour, false)
	app := fiber.New()
	app.Use(SessionLoader(store))

	app.Get("/whoami", func(c *fiber.Ctx) error {
		id := CurrentIdentity(c)
		if id == nil {
			return c.JSON(fiber.Map{"user": nil})
		}
		return c.JSON(fiber.Map{"user": id.Username})
	})
	app.Get("/private", LoginRequired, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	valid, err := store.Encode(&models.Identity{Username: "alice", Email: "a@x.com", Role: "farmer"})
	require.NoError(t, err)

	tests := []struct {
		name         string
		cookie       string
		path         string
		expectStatus int
		expectUser   interface{}
		expectTarget string
	}{
		{name: "Anonymous whoami", path: "/whoami", expectStatus: http.StatusOK, expectUser: nil},
		{name: "Valid session", cookie: valid, path: "/whoami", expectStatus: http.StatusOK, expectUser: "alice"},
		{name: "Tampered session", cookie: valid + "x", path: "/whoami", expectStatus: http.StatusOK, expectUser: nil},
		{name: "Private anonymous", path: "/private", expectStatus: http.StatusSeeOther, expectTarget: "/login"},
		{name: "Private with session", cookie: valid, path: "/private", expectStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.cookie})
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectStatus, resp.StatusCode)

			if tt.expectTarget != "" {
				assert.Equal(t, tt.expectTarget, resp.Header.Get("Location"))
			}
			if tt.path == "/whoami" {
				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.expectUser, body["user"])
			}
		})
	}
}
