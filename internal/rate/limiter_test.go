package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, "test:", 2, time.Minute)
	l.now = func() time.Time { return time.Date(2026, 1, 1, 10, 0, 30, 0, time.UTC) }
	ctx := context.Background()

	r, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, r.Allowed)
	assert.Equal(t, int64(1), r.Remaining)

	r, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, r.Allowed)
	assert.Equal(t, int64(0), r.Remaining)

	r, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, r.Allowed)
	assert.Equal(t, int64(3), r.CurrentHits)
	assert.Greater(t, r.RetryAfter, time.Duration(0))

	// otra clave no comparte ventana
	r, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, r.Allowed)

	keys := mr.Keys()
	require.Len(t, keys, 2)
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))
}

func TestRedisLimiter_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := NewRedisLimiter(client, "", 1, time.Minute).Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 10, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		r, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, r.Allowed)
	}
	r, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, r.Allowed)
	assert.Equal(t, 50*time.Second, r.RetryAfter)

	// nueva ventana
	now = now.Add(time.Minute)
	r, err = l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, r.Allowed)
	assert.Equal(t, int64(1), r.CurrentHits)
}

func TestNew(t *testing.T) {
	l, err := New(Config{Kind: "memory", Max: 5, Window: time.Minute}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryLimiter{}, l)

	_, err = New(Config{Kind: "redis", Max: 5, Window: time.Minute}, nil)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	l, err = New(Config{Kind: "redis", Max: 5, Window: time.Minute}, rdb.NewClient(&rdb.Options{Addr: mr.Addr()}))
	require.NoError(t, err)
	assert.IsType(t, &RedisLimiter{}, l)

	_, err = New(Config{Kind: "memcached", Max: 5, Window: time.Minute}, nil)
	assert.Error(t, err)
	_, err = New(Config{Max: 0, Window: time.Minute}, nil)
	assert.Error(t, err)
}
