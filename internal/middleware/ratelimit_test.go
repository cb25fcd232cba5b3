package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestLimiter_Allow(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewLimiter(rdb, "production")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := l.Allow(ctx, "login", "ip:1.2.3.4", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := l.Allow(ctx, "login", "ip:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = l.Allow(ctx, "login", "ip:5.6.7.8", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "other callers have their own window")

	assert.Equal(t, time.Minute, mr.TTL(RateLimitKey("login", "ip:1.2.3.4")))

	mr.FastForward(2 * time.Minute)
	allowed, err = l.Allow(ctx, "login", "ip:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "window resets after expiry")
}

func TestLimiter_Bypass(t *testing.T) {
	for _, env := range []string{"test", "development"} {
		t.Run(env, func(t *testing.T) {
			allowed, err := NewLimiter(nil, env).Allow(context.Background(), "login", "ip:1", 1, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestLimiter_NilStore(t *testing.T) {
	allowed, err := NewLimiter(nil, "production").Allow(context.Background(), "login", "ip:1", 1, time.Minute)
	assert.ErrorIs(t, err, errNoLimiterStore)
	assert.False(t, allowed)
}

func TestLimiter_Handler(t *testing.T) {
	tests := []struct {
		name           string
		store          bool
		policy         FailPolicy
		expectStatuses []int
	}{
		{
			name:           "Limit enforced",
			store:          true,
			policy:         FailOpen,
			expectStatuses: []int{http.StatusOK, http.StatusTooManyRequests},
		},
		{
			name:           "Fail open without store",
			policy:         FailOpen,
			expectStatuses: []int{http.StatusOK, http.StatusOK},
		},
		{
			name:           "Fail closed without store",
			policy:         FailClosed,
			expectStatuses: []int{http.StatusServiceUnavailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rdb *redis.Client
			if tt.store {
				_, rdb = newTestRedis(t)
			}
			l := NewLimiter(rdb, "production")

			app := fiber.New()
			app.Post("/login", l.Handler("login", 1, time.Minute, tt.policy), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			for _, want := range tt.expectStatuses {
				resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
				require.NoError(t, err)
				assert.Equal(t, want, resp.StatusCode)
			}
		})
	}
}
