// Package cache keeps backend responses in Redis between CLI runs.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "gig-matcher:"

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// Options selects the Redis server and database.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Cache stores JSON encoded values in Redis.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

// New connects to Redis and pings it before returning.
func New(ctx context.Context, opts Options, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", opts.Addr, err)
	}

	logger.Debug("connected to redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))

	return &Cache{client: client, logger: logger}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// Set saves value as JSON with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	if err := c.client.Set(ctx, Key(key), data, ttl).Err(); err != nil {
		c.logger.Error("failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("set cache: %w", err)
	}

	return nil
}

// Get decodes the value stored under key into dest.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		c.logger.Error("failed to get cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("get cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal value: %w", err)
	}

	return nil
}

// Delete removes key. A missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, Key(key)).Err(); err != nil {
		return fmt.Errorf("delete cache: %w", err)
	}
	return nil
}

// Key namespaces key so the cache can share a Redis database.
func Key(key string) string {
	return keyPrefix + key
}
