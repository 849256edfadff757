package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const headerCacheKey = "catalog:headers"

// HeaderCache fronts the header catalog with Redis. The header list is read
// on every quotation assembly, so a short TTL saves one query per request
// without risking stale pricing labels for long.
type HeaderCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHeaderCache builds the cache wrapper.
func NewHeaderCache(client *redis.Client, ttl time.Duration) *HeaderCache {
	return &HeaderCache{client: client, ttl: ttl}
}

// Get returns the cached header list, or false on miss or decode failure.
func (c *HeaderCache) Get(ctx context.Context) ([]Header, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, headerCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var headers []Header
	if err := json.Unmarshal(payload, &headers); err != nil {
		return nil, false
	}
	return headers, true
}

// Set stores the header list. Failures are swallowed; the cache is advisory.
func (c *HeaderCache) Set(ctx context.Context, headers []Header) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(headers)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, headerCacheKey, payload, c.ttl).Err()
}

// Invalidate drops the cached list after a header write.
func (c *HeaderCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, headerCacheKey).Err()
}
