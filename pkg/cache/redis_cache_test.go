package cache

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceopag/eloquence-base/pkg/logger"
)

// REDIS_TEST_ADDR=127.0.0.1:6379 ayarlı değilse atlanır.
func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	cfg := DefaultRedisConfig()
	host, port, _ := strings.Cut(addr, ":")
	cfg.Host = host
	if p, err := strconv.Atoi(port); err == nil {
		cfg.Port = p
	}
	log := logger.New(logger.WithOutput(io.Discard))

	client, err := NewRedisClient(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	rc := NewRedisCache(client, log, "eloquence-test:")
	t.Cleanup(func() { _ = rc.Flush() })
	return rc
}

func TestRedisCache_RoundTrip(t *testing.T) {
	rc := newTestRedisCache(t)

	_, ok, err := rc.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, rc.Set("plan", []byte("payload"), time.Minute))
	got, ok, err := rc.Get("plan")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", string(got))

	has, err := rc.Has("plan")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, rc.Flush())
	has, err = rc.Has("plan")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:6379", DefaultRedisConfig().Addr())
}
