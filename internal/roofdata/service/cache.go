package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"solar21_precheck/internal/roofdata/transport"

	"github.com/redis/go-redis/v9"
)

// Cache stores lookup results keyed by normalized address.
type Cache interface {
	Get(ctx context.Context, key string) (*transport.RoofData, bool, error)
	Set(ctx context.Context, key string, data *transport.RoofData, ttl time.Duration) error
}

type cacheEntry struct {
	data      transport.RoofData
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache used when Redis is not configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*transport.RoofData, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	data := entry.data
	return &data, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, data *transport.RoofData, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{data: *data, expiresAt: c.now().Add(ttl)}
	return nil
}

// RedisCache shares lookup results between API replicas and the worker.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache creates a cache on an existing Redis client.
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: "roofdata:"}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*transport.RoofData, bool, error) {
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var data transport.RoofData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false, fmt.Errorf("decode cached roof data: %w", err)
	}
	return &data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data *transport.RoofData, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode roof data: %w", err)
	}
	if err := c.rdb.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
