package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/util"

	"github.com/go-redis/redis/v8"
)

// Client caches product listings. Only the browsing surface reads it;
// checkout resolution always goes to the backing sources directly.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetJSON loads a cached value into out. Returns false on a miss or any
// cache error; the cache is best-effort.
func (c *Client) GetJSON(ctx context.Context, key string, out interface{}) bool {
	data, err := c.rdb.Get(ctx, "cache:"+key).Bytes()
	if err != nil {
		util.ProductCacheHitsTotal.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		util.ProductCacheHitsTotal.WithLabelValues("miss").Inc()
		return false
	}
	util.ProductCacheHitsTotal.WithLabelValues("hit").Inc()
	return true
}

// SetJSON stores a value under the configured TTL. Errors are swallowed;
// a failed cache write must not fail the request.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, "cache:"+key, data, c.ttl).Err()
}

// Invalidate drops cached entries by key.
func (c *Client) Invalidate(ctx context.Context, keys ...string) {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = "cache:" + k
	}
	_ = c.rdb.Del(ctx, prefixed...).Err()
}
