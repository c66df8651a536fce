package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const publishedCacheKey = "sessions:published"

// PublishedCache is a redis read-through cache for the public listing, the
// one hot shared read in the system. It stores the full capped listing as a
// single JSON value.
type PublishedCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewPublishedCache creates a cache with the given TTL; non-positive TTLs
// fall back to one minute.
func NewPublishedCache(client redis.UniversalClient, ttl time.Duration) *PublishedCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &PublishedCache{client: client, ttl: ttl}
}

// Get returns the cached listing, or (nil, nil) on a miss.
func (c *PublishedCache) Get(ctx context.Context) ([]Session, error) {
	raw, err := c.client.Get(ctx, publishedCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read published cache: %w", err)
	}

	var sessions []Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode published cache: %w", err)
	}
	return sessions, nil
}

// Set stores the listing for the configured TTL.
func (c *PublishedCache) Set(ctx context.Context, sessions []Session) error {
	raw, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to encode published cache: %w", err)
	}
	if err := c.client.Set(ctx, publishedCacheKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write published cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing. Called whenever the published set
// may have changed.
func (c *PublishedCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, publishedCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate published cache: %w", err)
	}
	return nil
}
