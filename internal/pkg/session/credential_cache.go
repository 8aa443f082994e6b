// internal/pkg/session/credential_cache.go
package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CredentialCache keeps a token -> user id mapping in Redis so the auth
// middleware does not hit Postgres on every request. The database row
// stays the source of truth; a cache miss just falls through to it.
type CredentialCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCredentialCache(client *redis.Client, ttl time.Duration) *CredentialCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CredentialCache{client: client, ttl: ttl}
}

func (c *CredentialCache) key(token string) string {
	return "cred:" + token
}

// Put caches a credential lookup.
func (c *CredentialCache) Put(ctx context.Context, token string, userID int64) error {
	return c.client.Set(ctx, c.key(token), userID, c.ttl).Err()
}

// GetUserID resolves a cached credential. Returns (0, false, nil) on a
// clean miss.
func (c *CredentialCache) GetUserID(ctx context.Context, token string) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.key(token)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("credential cache get: %w", err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("credential cache holds non-numeric value: %w", err)
	}
	return id, true, nil
}

// Invalidate drops a cached credential.
func (c *CredentialCache) Invalidate(ctx context.Context, token string) error {
	return c.client.Del(ctx, c.key(token)).Err()
}
