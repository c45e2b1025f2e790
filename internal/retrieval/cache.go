package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airdesk-ai/airdesk/internal/cache"
)

const cacheKeyPrefix = "retrieval:"

// ResponseCache stores whole search results so repeated policy
// questions skip the vector store. Failed searches are never cached.
type ResponseCache struct {
	client cache.Client
	ttl    time.Duration
}

// NewResponseCache wraps a cache client with a fixed TTL.
func NewResponseCache(client cache.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get returns a cached result for the query, if present.
func (c *ResponseCache) Get(ctx context.Context, query string, k int) (Result, bool) {
	data, err := c.client.Get(ctx, cacheKey(query, k))
	if err != nil {
		return Result{}, false
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, false
	}
	return result, true
}

// Set stores a successful result. Cache write failures are silent; the
// result was already computed and the next query simply misses.
func (c *ResponseCache) Set(ctx context.Context, query string, k int, result Result) {
	if !result.Success {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(query, k), data, c.ttl)
}

// Invalidate drops every cached search result, typically after a
// reindex.
func (c *ResponseCache) Invalidate(ctx context.Context) error {
	return c.client.DeleteByPrefix(ctx, cacheKeyPrefix)
}

func cacheKey(query string, k int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", query, k)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
