// Package sessioncache keeps resolved session identities close to the
// request path so that a page view does not always hit the database.
package sessioncache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yigit/vitrine/internal/app/models"
	"github.com/yigit/vitrine/internal/pkg/auth"
)

// KeyPrefix namespaces cache entries
const KeyPrefix = "vitrine:session:"

// Cache maps session tokens to identities. A miss returns (nil, nil).
type Cache interface {
	Get(ctx context.Context, token string) (*models.SessionUser, error)
	Set(ctx context.Context, token string, user *models.SessionUser) error
	Delete(ctx context.Context, token string) error
}

// Key returns the cache key of token; the raw token is never stored.
func Key(token string) string {
	return KeyPrefix + auth.TokenFingerprint(token)
}

// RedisCache stores identities as JSON with a fixed TTL
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache creates a RedisCache; ttl should match the cookie lifetime.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// NewRedisClient connects and pings redis
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (c *RedisCache) Get(ctx context.Context, token string) (*models.SessionUser, error) {
	data, err := c.rdb.Get(ctx, Key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var user models.SessionUser
	if err := json.Unmarshal(data, &user); err != nil {
		// drop entries we cannot read
		c.rdb.Del(ctx, Key(token))
		return nil, nil
	}
	return &user, nil
}

func (c *RedisCache) Set(ctx context.Context, token string, user *models.SessionUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	if err := c.rdb.Set(ctx, Key(token), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, token string) error {
	if err := c.rdb.Del(ctx, Key(token)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// NopCache is used when redis is disabled
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*models.SessionUser, error) { return nil, nil }

func (NopCache) Set(context.Context, string, *models.SessionUser) error { return nil }

func (NopCache) Delete(context.Context, string) error { return nil }
