package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RedisCache stores entries in Redis with native key expiry. Transport
// failures are retried with [RetryWithBackoff].
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	c := &RedisCache{client: client}
	if err := c.do(ctx, func() error { return client.Ping(ctx).Err() }); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", opts.Addr, err)
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client without pinging it.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the value for key; redis.Nil is a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.do(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, key).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores data with ttl; zero keeps the key forever.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.do(ctx, func() error {
		return c.client.Set(ctx, key, data, max(0, ttl)).Err()
	})
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.do(ctx, func() error { return c.client.Del(ctx, key).Err() })
}

// Close closes the client connection pool.
func (c *RedisCache) Close() error { return c.client.Close() }

// do runs fn with retries on transport errors. Redis replies (including
// redis.Nil) and context errors are returned as-is.
func (c *RedisCache) do(ctx context.Context, fn func() error) error {
	err := RetryWithBackoff(ctx, func() error {
		err := fn()
		if err == nil || errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return err
		}
		var reply redis.Error
		if errors.As(err, &reply) {
			return err
		}
		return Retryable(fmt.Errorf("%w: %w", ErrNetwork, err))
	})
	var re *RetryableError
	if errors.As(err, &re) {
		return re.Err
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
