// Package cache stores JSON values in Redis for the API's read-mostly endpoints.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache is best effort: a miss, a decode failure and a Redis outage all
// read as "not cached". A nil *RedisCache is a valid cache that stores nothing.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// Options for NewRedisCache
type Options struct {
	// URL is either redis://[:password@]host:port/db or a bare host:port
	URL      string
	Password string
	TTL      time.Duration
}

// NewRedisCache connects and pings. It returns nil, nil when no URL is
// configured so callers can pass the result straight through.
func NewRedisCache(ctx context.Context, opts Options, logger *zap.Logger) (*RedisCache, error) {
	if opts.URL == "" {
		return nil, nil
	}

	redisOpts, err := clientOptions(opts)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: opts.TTL, logger: logger}, nil
}

func clientOptions(opts Options) (*redis.Options, error) {
	var redisOpts *redis.Options
	if strings.Contains(opts.URL, "://") {
		parsed, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		redisOpts = parsed
	} else {
		redisOpts = &redis.Options{Addr: opts.URL}
	}
	if opts.Password != "" {
		redisOpts.Password = opts.Password
	}
	redisOpts.DialTimeout = 5 * time.Second
	redisOpts.ReadTimeout = 3 * time.Second
	redisOpts.WriteTimeout = 3 * time.Second
	return redisOpts, nil
}

func (c *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("cache entry undecodable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value unencodable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Ping reports whether Redis answers; a nil cache is always healthy
func (c *RedisCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
