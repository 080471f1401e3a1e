// Package cache stores finished heir-search envelopes so identical searches
// inside the TTL do not spend provider quota twice.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"heirfinder/internal/enrichment/models"
	"heirfinder/pkg/platform/sentinel"
)

// RedisCache keeps envelopes as JSON strings with a native expiry.
type RedisCache struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (models.BulkSearchResult, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.BulkSearchResult{}, sentinel.ErrNotFound
		}
		return models.BulkSearchResult{}, fmt.Errorf("get cached search: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	var res models.BulkSearchResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return models.BulkSearchResult{}, fmt.Errorf("decode cached search: %w", err)
	}
	return res, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, res models.BulkSearchResult, ttl time.Duration) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode cached search: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set cached search: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

type entry struct {
	result    models.BulkSearchResult
	expiresAt time.Time
}

// sweepInterval is how often Set drops expired entries.
const sweepInterval = time.Minute

// MemoryCache is a process-local cache for single-instance deployments and
// tests. Expired entries are removed on read and swept by Set, so the map
// only holds searches from the last TTL window.
type MemoryCache struct {
	mu        sync.Mutex
	entries   map[string]entry
	now       func() time.Time
	lastSweep time.Time
}

func NewMemory() *MemoryCache {
	return &MemoryCache{entries: make(map[string]entry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (models.BulkSearchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return models.BulkSearchResult{}, sentinel.ErrNotFound
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return models.BulkSearchResult{}, sentinel.ErrNotFound
	}
	return e.result, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, res models.BulkSearchResult, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.Sub(c.lastSweep) >= sweepInterval {
		for k, e := range c.entries {
			if !now.Before(e.expiresAt) {
				delete(c.entries, k)
			}
		}
		c.lastSweep = now
	}
	c.entries[key] = entry{result: res, expiresAt: now.Add(ttl)}
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
