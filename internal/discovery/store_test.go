package discovery

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "discovery.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndFind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	discoveredAt := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	candidates := []Candidate{
		{Domain: "shop.com", Niche: "ecommerce", Region: "us", RelevanceScore: 70, RobotsAllowed: true, DiscoveredAt: discoveredAt},
		{Domain: "myshop.com", Niche: "ecommerce", Region: "us", RelevanceScore: 25, RobotsAllowed: true, DiscoveredAt: discoveredAt},
		{Domain: "storehub.com", Niche: "ecommerce", Region: "us", RelevanceScore: 60, RobotsAllowed: false, DiscoveredAt: discoveredAt},
		{Domain: "getfit.io", Niche: "fitness", Region: "global", RelevanceScore: 70, RobotsAllowed: true, DiscoveredAt: discoveredAt},
	}
	require.NoError(t, store.Save(ctx, candidates))

	found, err := store.Find(ctx, "ecommerce", "us")
	require.NoError(t, err)
	require.Len(t, found, 3)

	// Ordered by relevance, best first.
	assert.Equal(t, "shop.com", found[0].Domain)
	assert.Equal(t, "storehub.com", found[1].Domain)
	assert.Equal(t, "myshop.com", found[2].Domain)

	assert.False(t, found[1].RobotsAllowed)
	assert.True(t, found[0].DiscoveredAt.Equal(discoveredAt))
}

func TestStore_FindMiss(t *testing.T) {
	store := newTestStore(t)

	found, err := store.Find(context.Background(), "saas", "eu")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestStore_SaveUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := Candidate{Domain: "pay.com", Niche: "fintech", Region: "global", RelevanceScore: 25, RobotsAllowed: true}
	require.NoError(t, store.Save(ctx, []Candidate{first}))

	first.RelevanceScore = 70
	require.NoError(t, store.Save(ctx, []Candidate{first}))

	found, err := store.Find(ctx, "fintech", "global")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 70.0, found[0].RelevanceScore)
}

func TestStore_SaveFillsDiscoveredAt(t *testing.T) {
	store := newTestStore(t)
	fixed := time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, []Candidate{
		{Domain: "learn.com", Niche: "edtech", Region: "global", RelevanceScore: 70, RobotsAllowed: true},
	}))

	found, err := store.Find(ctx, "edtech", "global")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[0].DiscoveredAt.Equal(fixed))
}
