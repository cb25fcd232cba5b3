// Package cache bootstraps the Redis client shared by the rate limiter and
// the readiness probe.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"innovalley/internal/middleware"
	"innovalley/internal/observability"

	"github.com/redis/go-redis/v9"
)

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// ParseOptions accepts either a redis:// URL or a bare host:port address.
func ParseOptions(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL %q: %w", addr, err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: addr}, nil
}

// NewClient builds a client for addr with the error-metrics hook installed.
func NewClient(addr string) (*redis.Client, error) {
	opts, err := ParseOptions(addr)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})
	return client, nil
}

// InitRedis connects to addr and returns the client, or nil when Redis is
// unreachable. The application keeps serving without Redis; rate limits fail
// open and readiness reports the outage.
func InitRedis(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		middleware.Logger.WarnContext(ctx, "Redis not configured (continuing without rate limit store)")
		return nil
	}

	client, err := NewClient(addr)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "Redis connection warning (continuing without rate limit store)",
			slog.String("error", err.Error()))
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "Redis connection warning (continuing without rate limit store)",
			slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}

	middleware.Logger.InfoContext(ctx, "Redis connected successfully")
	return client
}
