package rediscache

// Package rediscache provides the Redis-backed identity cache used by the
// proxycache strategy. Entries are TTL-bounded so a role change at the proxy
// propagates within the cache window.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/seclens/dashgate/internal/domain/auth"
)

// IdentityCache stores resolved identities keyed by username.
// It implements ports.IdentityCache.
type IdentityCache struct {
	client redis.UniversalClient
	prefix string
}

// NewIdentityCache creates a Redis-backed identity cache.
func NewIdentityCache(client redis.UniversalClient) *IdentityCache {
	return &IdentityCache{
		client: client,
		prefix: "authinfo:",
	}
}

// NewIdentityCacheWithPrefix creates an identity cache with a custom key prefix.
func NewIdentityCacheWithPrefix(client redis.UniversalClient, prefix string) *IdentityCache {
	return &IdentityCache{
		client: client,
		prefix: prefix,
	}
}

// Get returns the cached identity for key, with ok=false on a miss.
func (c *IdentityCache) Get(ctx context.Context, key string) (domainauth.Identity, bool, error) {
	if key == "" {
		return domainauth.Identity{}, false, nil
	}

	data, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Identity{}, false, nil
		}
		return domainauth.Identity{}, false, fmt.Errorf("redis get: %w", err)
	}

	var id domainauth.Identity
	if err := json.Unmarshal([]byte(data), &id); err != nil {
		return domainauth.Identity{}, false, fmt.Errorf("unmarshal cached identity: %w", err)
	}
	return id, true, nil
}

// Set stores an identity under key for the given TTL.
func (c *IdentityCache) Set(ctx context.Context, key string, id domainauth.Identity, ttl time.Duration) error {
	if key == "" {
		return errors.New("cache key cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("cache ttl must be positive")
	}

	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}
