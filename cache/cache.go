// Package cache provides the Redis-backed job cache. The cache is best-effort:
// when Redis is unreachable at startup the client degrades to a no-op and the
// rest of the service keeps running without it.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/services"
)

// Client wraps the Redis connection used for job caching
type Client struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewClient connects to Redis at the given URL. Connection failures are
// logged and produce a degraded no-op client rather than an error.
func NewClient(url string, logger *zap.Logger) *Client {
	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn("redis cache unavailable, caching disabled", zap.Error(err))
		return &Client{logger: logger}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis cache unavailable, caching disabled", zap.Error(err))
		_ = rdb.Close()
		return &Client{logger: logger}
	}

	logger.Info("redis cache connected", zap.String("addr", opts.Addr))
	return &Client{rdb: rdb, logger: logger}
}

// Available reports whether a live Redis connection exists
func (c *Client) Available() bool {
	return c.rdb != nil
}

// Ping checks connection health for readiness probes
func (c *Client) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return services.ErrCacheUnavailable
	}
	return c.rdb.Ping(ctx).Err()
}

// Get returns the cached value and whether it was present. Misses and
// transport errors both read as a miss.
func (c *Client) Get(ctx context.Context, key string) (string, bool) {
	if c.rdb == nil {
		return "", false
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return val, true
}

// Set stores a value with a TTL, best-effort
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// ScanKeys returns every key matching the pattern. Unlike Get/Set this is not
// best-effort: callers that need to enumerate the cache must know when it is
// down.
func (c *Client) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	if c.rdb == nil {
		return nil, services.ErrCacheUnavailable
	}

	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, services.NewDomainError(services.ErrorTypeUnavailable, "cache unavailable", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

// Close releases the connection
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
