// Package cache stores serialized list responses so repeated page loads
// skip the database. Each resource has a version counter that writes bump;
// list keys embed the version, so a bump orphans every older entry.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Tomlord1122/tracker-backend/internal/config"
)

// keyNamespace prefixes every key this service writes.
const keyNamespace = "tracker:"

// versionPrefix holds the per-resource version counters.
const versionPrefix = keyNamespace + "ver:"

type Cache interface {
	// Get returns the cached bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Version returns the current version of a resource, 0 if never bumped.
	Version(ctx context.Context, resource string) (int64, error)
	// Bump advances the version of a resource.
	Bump(ctx context.Context, resource string) error
	Close() error
}

// New returns a Redis cache when configured, otherwise a no-op cache.
func New(cfg config.RedisConfig) Cache {
	if !cfg.Enabled() {
		return Noop{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedis(client, cfg.TTL)
}

// Redis implements Cache on a go-redis client.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, keyNamespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return b, true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, keyNamespace+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *Redis) Version(ctx context.Context, resource string) (int64, error) {
	v, err := c.client.Get(ctx, versionPrefix+resource).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache version %s: %w", resource, err)
	}
	return v, nil
}

func (c *Redis) Bump(ctx context.Context, resource string) error {
	if err := c.client.Incr(ctx, versionPrefix+resource).Err(); err != nil {
		return fmt.Errorf("cache bump %s: %w", resource, err)
	}
	return nil
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Redis) Close() error {
	return c.client.Close()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte) error         { return nil }
func (Noop) Version(context.Context, string) (int64, error)    { return 0, nil }
func (Noop) Bump(context.Context, string) error                { return nil }
func (Noop) Close() error                                      { return nil }
