package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innovalley/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

var errNoLimiterStore = errors.New("redis client is nil")

// Limiter counts requests per resource and caller in fixed Redis windows.
type Limiter struct {
	rdb      *redis.Client
	disabled bool
}

// NewLimiter returns a Limiter backed by rdb. Limits are not enforced when
// env is "test" or "development".
func NewLimiter(rdb *redis.Client, env string) *Limiter {
	return &Limiter{
		rdb:      rdb,
		disabled: env == "test" || env == "development",
	}
}

// RateLimitKey returns the Redis key counting hits for resource by id.
func RateLimitKey(resource, id string) string {
	return fmt.Sprintf("rl:%s:%s", resource, id)
}

// Allow reports whether another hit for resource by id fits within limit.
func (l *Limiter) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	if l.disabled {
		return true, nil
	}
	if l.rdb == nil {
		return false, errNoLimiterStore
	}

	key := RateLimitKey(resource, id)

	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := l.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// Handler returns a Fiber middleware enforcing limit requests per window on
// resource. Callers are keyed by username when logged in, otherwise by IP.
func (l *Limiter) Handler(resource string, limit int, window time.Duration, policy FailPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := "ip:" + c.IP()
		if who := CurrentIdentity(c); who != nil {
			id = "user:" + who.Username
		}

		allowed, err := l.Allow(c.UserContext(), resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable",
					"resource", resource,
					"path", c.Path(),
					"error", err,
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
					Error: "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
