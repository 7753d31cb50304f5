package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"swapbridge/internal/config"
	domainRepo "swapbridge/internal/domain/repository"
	"swapbridge/internal/metrics"
	"swapbridge/internal/pkg/apperrors"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QueryLoader deduplicates concurrent identical loads, caches successful
// results for the freshness window and retries failures with backoff.
type QueryLoader struct {
	cache  domainRepo.CacheRepository
	group  singleflight.Group
	retry  config.RetryConfig
	logger *zap.Logger
}

// NewQueryLoader creates a loader over cache.
func NewQueryLoader(cache domainRepo.CacheRepository, retry config.RetryConfig, logger *zap.Logger) *QueryLoader {
	return &QueryLoader{
		cache:  cache,
		retry:  retry,
		logger: logger.Named("QueryLoader"),
	}
}

// QueryKey builds the cache key for an operation and its parameters.
func QueryKey(operation string, params ...string) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, operation)
	for _, p := range params {
		parts = append(parts, strings.ToLower(strings.TrimSpace(p)))
	}
	return strings.Join(parts, ":")
}

type loadResult[T any] struct {
	value T
	err   error
}

// Load returns the cached value for key or runs fetch. When fetch keeps failing,
// the value from its last attempt is returned with the error and nothing is
// cached. A caller whose ctx ends stops waiting; the shared load continues for
// other callers.
func Load[T any](
	ctx context.Context,
	q *QueryLoader,
	operation, key string,
	fetch func(ctx context.Context) (T, error),
) (T, error) {
	if cached, found, err := q.cache.Get(ctx, key); err != nil {
		q.logger.Warn("Cache error on query lookup", zap.String("key", key), zap.Error(err))
	} else if found {
		if v, ok := cached.(T); ok {
			metrics.QueryCacheTotal.WithLabelValues(operation, "hit").Inc()
			return v, nil
		}
		q.logger.Warn("Cached query value has unexpected type",
			zap.String("key", key), zap.String("type", fmt.Sprintf("%T", cached)),
		)
	}

	ch := q.group.DoChan(key, func() (any, error) {
		metrics.QueryCacheTotal.WithLabelValues(operation, "miss").Inc()
		loadCtx := context.WithoutCancel(ctx)
		value, err := q.fetchWithRetry(loadCtx, operation, key, func(c context.Context) (any, error) {
			return fetch(c)
		})
		if err == nil {
			if cacheErr := q.cache.Set(loadCtx, key, value, 0); cacheErr != nil {
				q.logger.Error("Failed to cache query result", zap.String("key", key), zap.Error(cacheErr))
			}
		}
		v, _ := value.(T)
		return loadResult[T]{value: v, err: err}, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.QueryCacheTotal.WithLabelValues(operation, "shared").Inc()
		}
		r := res.Val.(loadResult[T])
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %s: %v", apperrors.ErrTimeout, operation, ctx.Err())
	}
}

func (q *QueryLoader) fetchWithRetry(
	ctx context.Context,
	operation, key string,
	fetch func(ctx context.Context) (any, error),
) (any, error) {
	var last any
	op := func() error {
		value, err := fetch(ctx)
		last = value
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		metrics.QueryRetriesTotal.WithLabelValues(operation).Inc()
		q.logger.Warn("Retrying failed query",
			zap.String("key", key), zap.Duration("wait", wait), zap.Error(err),
		)
	}

	err := backoff.RetryNotify(op, q.backOff(ctx), notify)
	return last, err
}

func (q *QueryLoader) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if q.retry.InitialInterval > 0 {
		b.InitialInterval = q.retry.InitialInterval
	}
	if q.retry.MaxInterval > 0 {
		b.MaxInterval = q.retry.MaxInterval
	}
	b.MaxElapsedTime = 0
	attempts := max(q.retry.MaxAttempts, 0)
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts)), ctx)
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	return !errors.Is(err, apperrors.ErrInvalidInput) && !errors.Is(err, apperrors.ErrNotFound)
}
