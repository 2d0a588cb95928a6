package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"pwned/internal/config"
)

// New creates a Redis client from config.
func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

const rangeKeyPrefix = "pwned:range:"

// RangeCache keeps Pwned Passwords range bodies keyed by hash prefix.
type RangeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRangeCache(rdb *redis.Client, ttl time.Duration) *RangeCache {
	return &RangeCache{rdb: rdb, ttl: ttl}
}

func (c *RangeCache) Get(ctx context.Context, prefix string) (string, bool, error) {
	body, err := c.rdb.Get(ctx, rangeKeyPrefix+prefix).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return body, true, nil
}

func (c *RangeCache) Set(ctx context.Context, prefix, body string) error {
	return c.rdb.Set(ctx, rangeKeyPrefix+prefix, body, c.ttl).Err()
}

// Ping is a readiness probe.
func Ping(rdb *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
