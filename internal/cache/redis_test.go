package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"score-enricher/internal/config"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore(mr.Addr(), "", 0, ttl)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStore_SetGet(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	payload := []byte(`{"enriched_score":70}`)
	require.NoError(t, store.Set(ctx, "https://example.com", payload))

	got, hit, err := store.Get(ctx, "https://example.com")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload, got)
}

func TestRedisStore_Miss(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)

	_, hit, err := store.Get(context.Background(), "https://never-seen.example")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "https://example.com", []byte("payload")))

	mr.FastForward(2 * time.Hour)

	_, hit, err := store.Get(ctx, "https://example.com")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisStore_Reset(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "https://a.example", []byte("a")))
	require.NoError(t, store.Set(ctx, "https://b.example", []byte("b")))

	require.NoError(t, store.Reset(ctx))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Entries)
}

func TestRedisStore_Stats(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "https://a.example", []byte("a")))
	require.NoError(t, store.Set(ctx, "https://b.example", []byte("b")))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Entries)
}

func TestRedisStore_Sweep(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)

	removed, err := store.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}

func TestRedisStore_Health(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)
	assert.NoError(t, store.Health())
}

func TestNewStore_RedisFactory(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Load()
	cfg.CacheBackend = config.CacheBackendRedis
	cfg.RedisAddress = mr.Addr()

	store, err := NewStore(cfg)
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*RedisStore)
	assert.True(t, ok)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	_, err := NewRedisStore("127.0.0.1:1", "", 0, time.Hour)
	assert.Error(t, err)
}
