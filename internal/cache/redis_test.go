package cache

import (
	"context"
	"testing"

	"innovalley/internal/observability"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	opts, err = ParseOptions("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	_, err = ParseOptions("redis://cache:6379/notanumber")
	assert.Error(t, err)
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client := InitRedis(context.Background(), mr.Addr())
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestInitRedis_Unavailable(t *testing.T) {
	assert.Nil(t, InitRedis(context.Background(), ""))

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	assert.Nil(t, InitRedis(context.Background(), addr))
}

func TestMetricsHook_CountsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	before := testutil.ToFloat64(observability.RedisErrorRate.WithLabelValues("incr"))

	require.NoError(t, client.Set(context.Background(), "word", "not-a-number", 0).Err())
	assert.Error(t, client.Incr(context.Background(), "word").Err())

	assert.Equal(t, before+1, testutil.ToFloat64(observability.RedisErrorRate.WithLabelValues("incr")))

	// Missing keys are not errors.
	_, err = client.Get(context.Background(), "missing").Result()
	require.Error(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(observability.RedisErrorRate.WithLabelValues("get")))
}
