package memory

import (
	"context"
	"time"

	"swapbridge/internal/config"
	domainRepo "swapbridge/internal/domain/repository"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.CacheRepository = (*CacheRepository)(nil)

// CacheRepository implements domainRepo.CacheRepository using the go-cache in-memory library.
type CacheRepository struct {
	cache     *cache.Cache
	freshness time.Duration
	logger    *zap.Logger
}

// NewCacheRepository creates a new in-memory cache repository instance.
func NewCacheRepository(cfg config.CacheConfig, logger *zap.Logger) *CacheRepository {
	freshness := cfg.GetFreshness()
	cleanupInterval := cfg.GetCleanupInterval()

	c := cache.New(freshness, cleanupInterval)
	logger.Info(
		"Initialized go-cache for query storage",
		zap.Duration("freshness", freshness),
		zap.Duration("cleanupInterval", cleanupInterval),
	)

	return &CacheRepository{
		cache:     c,
		freshness: freshness,
		logger:    logger.Named("MemoryCacheStorage"),
	}
}

// Get retrieves a cached value, returning found status.
func (r *CacheRepository) Get(_ context.Context, key string) (any, bool, error) {
	if x, found := r.cache.Get(key); found {
		r.logger.Debug("Memory cache hit", zap.String("key", key))
		return x, true, nil
	}
	r.logger.Debug("Memory cache miss", zap.String("key", key))
	return nil, false, nil
}

// Set caches value under key. A non-positive ttl uses the freshness window.
func (r *CacheRepository) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.freshness
	}
	r.cache.Set(key, value, ttl)
	r.logger.Debug("Memory cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// Delete evicts key.
func (r *CacheRepository) Delete(_ context.Context, key string) error {
	r.cache.Delete(key)
	r.logger.Debug("Memory cache delete", zap.String("key", key))
	return nil
}
