package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultContextTTL = 5 * time.Minute

// ContextCache keeps assembled tenant contexts in Redis so repeated chat
// requests for the same tenant skip the catalog and knowledge queries.
type ContextCache struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewContextCache creates a tenant context cache. A non-positive ttl uses
// the default.
func NewContextCache(client *redis.Client, ttl time.Duration) *ContextCache {
	if client == nil {
		panic("ai: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultContextTTL
	}
	return &ContextCache{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("commerce.internal.ai.context_cache"),
	}
}

// Get loads a cached context. Returns false on miss or decode failure.
func (c *ContextCache) Get(ctx context.Context, tenantID string) (TenantContext, bool) {
	ctx, span := c.tracer.Start(ctx, "ai.context_cache.get")
	defer span.End()

	data, err := c.redis.Get(ctx, contextKey(tenantID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			span.RecordError(err)
		}
		return TenantContext{}, false
	}

	var tctx TenantContext
	if err := json.Unmarshal(data, &tctx); err != nil {
		span.RecordError(err)
		return TenantContext{}, false
	}
	return tctx, true
}

// Set stores a context for the cache TTL.
func (c *ContextCache) Set(ctx context.Context, tctx TenantContext) error {
	ctx, span := c.tracer.Start(ctx, "ai.context_cache.set")
	defer span.End()

	data, err := json.Marshal(tctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("ai: failed to marshal tenant context: %w", err)
	}
	if err := c.redis.Set(ctx, contextKey(tctx.TenantID), data, c.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("ai: failed to cache tenant context: %w", err)
	}
	return nil
}

// Invalidate drops the cached context after catalog or knowledge writes.
func (c *ContextCache) Invalidate(ctx context.Context, tenantID string) error {
	ctx, span := c.tracer.Start(ctx, "ai.context_cache.invalidate")
	defer span.End()

	if err := c.redis.Del(ctx, contextKey(tenantID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("ai: failed to invalidate tenant context: %w", err)
	}
	return nil
}

func contextKey(tenantID string) string {
	return fmt.Sprintf("tenant_context:%s", tenantID)
}
