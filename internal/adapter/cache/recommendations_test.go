package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RecommendationCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRecommendationCache(client, ttl), mr
}

func TestRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.SetIDs(ctx, "frisbee", []string{"a", "b"})

	ids, ok := c.GetIDs(ctx, "frisbee")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("got %v", ids)
	}
}

func TestKeyNormalization(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.SetIDs(ctx, "  Frisbee  ", []string{"a"})

	if _, ok := c.GetIDs(ctx, "frisbee"); !ok {
		t.Error("case and whitespace variants should share an entry")
	}
}

func TestMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	if _, ok := c.GetIDs(context.Background(), "never stored"); ok {
		t.Error("expected a miss")
	}
}

func TestEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t, time.Second)
	ctx := context.Background()

	c.SetIDs(ctx, "frisbee", []string{"a"})
	mr.FastForward(2 * time.Second)

	if _, ok := c.GetIDs(ctx, "frisbee"); ok {
		t.Error("entry should have expired")
	}
}

func TestMalformedValueIsMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)

	mr.Set("recommend:frisbee", "not json")

	if _, ok := c.GetIDs(context.Background(), "frisbee"); ok {
		t.Error("unreadable entry should degrade to a miss")
	}
}

func TestEmptyListIsCacheable(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.SetIDs(ctx, "frisbee", []string{})

	ids, ok := c.GetIDs(ctx, "frisbee")
	if !ok {
		t.Fatal("empty answers are worth caching too")
	}
	if len(ids) != 0 {
		t.Errorf("got %v", ids)
	}
}
