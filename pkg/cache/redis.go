package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// RedisCache stores msgpack envelopes in Redis, letting several serve
// instances share rendered diagrams. Expiry is delegated to Redis.
type RedisCache struct {
	client *redis.Client
}

type redisEntry struct {
	Data     []byte    `msgpack:"d"`
	StoredAt time.Time `msgpack:"t"`
}

// NewRedisCache connects to the server at url (redis://host:port/db) and
// checks that it answers.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := NewRedisCacheFromClient(redis.NewClient(opts))
	if err := c.client.Ping(ctx).Err(); err != nil {
		_ = c.client.Close()
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get reads key. Undecodable entries are reported as misses.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var raw []byte
	err := RetryWithBackoff(ctx, func() error {
		var err error
		raw, err = c.client.Get(ctx, key).Bytes()
		return classify(err)
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry redisEntry
	if err := msgpack.Unmarshal(raw, &entry); err != nil {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set writes key with the given expiry. A ttl of zero never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	raw, err := msgpack.Marshal(redisEntry{Data: data, StoredAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return RetryWithBackoff(ctx, func() error {
		return classify(c.client.Set(ctx, key, raw, ttl).Err())
	})
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return classify(c.client.Del(ctx, key).Err())
}

// Close closes the client.
func (c *RedisCache) Close() error { return c.client.Close() }

// classify marks network failures as retryable.
func classify(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return Retryable(fmt.Errorf("%w: %v", ErrBackend, err))
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
