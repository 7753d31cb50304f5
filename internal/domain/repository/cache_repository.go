package repository

import (
	"context"
	"time"
)

// CacheRepository stores query results keyed by operation and parameters.
type CacheRepository interface {
	// Get retrieves a cached value and whether it was found.
	Get(ctx context.Context, key string) (any, bool, error)

	// Set stores a value under key for ttl. A non-positive ttl uses the configured freshness window.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete evicts key.
	Delete(ctx context.Context, key string) error
}
