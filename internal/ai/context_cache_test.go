package ai

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchantry/commerce-ai-platform/internal/catalog"
)

func newTestCache(t *testing.T) (*ContextCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewContextCache(client, time.Minute), mr
}

func TestContextCache_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	tctx := TenantContext{
		TenantID:   "tenant-a",
		TenantName: "Acme Supply",
		Products:   []*catalog.Product{{ID: "p-1", Name: "Drill"}},
	}
	require.NoError(t, cache.Set(ctx, tctx))

	got, ok := cache.Get(ctx, "tenant-a")
	require.True(t, ok, "expected cache hit")
	assert.Equal(t, "Acme Supply", got.TenantName)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "p-1", got.Products[0].ID)
}

func TestContextCache_MissOnUnknownTenant(t *testing.T) {
	cache, _ := newTestCache(t)

	_, ok := cache.Get(context.Background(), "nope")
	assert.False(t, ok, "expected cache miss")
}

func TestContextCache_Invalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, TenantContext{TenantID: "tenant-a"}))
	require.NoError(t, cache.Invalidate(ctx, "tenant-a"))

	_, ok := cache.Get(ctx, "tenant-a")
	assert.False(t, ok, "expected miss after invalidation")
}

func TestContextCache_Expires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, TenantContext{TenantID: "tenant-a"}))
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, "tenant-a")
	assert.False(t, ok, "expected miss after TTL expiry")
}
