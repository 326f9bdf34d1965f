package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "recommend:"

// RecommendationCache keeps the matcher's parsed id lists in Redis for a
// short TTL, keyed by normalized search term. Cached ids are always
// re-filtered against a fresh corpus snapshot by the caller, so staleness
// here only ever shrinks a result, never corrupts it. Every Redis failure
// degrades to a cache miss.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecommendationCache creates a cache on an existing Redis client.
func NewRecommendationCache(client *redis.Client, ttl time.Duration) *RecommendationCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RecommendationCache{
		client: client,
		ttl:    ttl,
	}
}

// GetIDs returns the cached id list for the term, if any.
func (c *RecommendationCache) GetIDs(ctx context.Context, searchTerm string) ([]string, bool) {
	raw, err := c.client.Get(ctx, key(searchTerm)).Result()
	if err != nil {
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, false
	}
	return ids, true
}

// SetIDs stores the id list for the term; errors are dropped.
func (c *RecommendationCache) SetIDs(ctx context.Context, searchTerm string, ids []string) {
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	c.client.Set(ctx, key(searchTerm), raw, c.ttl)
}

func key(searchTerm string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(searchTerm))
}
