package memory

import (
	"context"
	"testing"
	"time"

	"swapbridge/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(freshness time.Duration) *CacheRepository {
	return NewCacheRepository(config.CacheConfig{
		Freshness:       freshness,
		CleanupInterval: time.Minute,
	}, zap.NewNop())
}

func TestCacheRepository_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestCache(time.Minute)

	_, found, err := repo.Get(ctx, "bridge:time:ethereum:polygon")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(ctx, "bridge:time:ethereum:polygon", 42, 0))
	v, found, err := repo.Get(ctx, "bridge:time:ethereum:polygon")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, v)

	require.NoError(t, repo.Delete(ctx, "bridge:time:ethereum:polygon"))
	_, found, _ = repo.Get(ctx, "bridge:time:ethereum:polygon")
	assert.False(t, found)
}

func TestCacheRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	repo := newTestCache(time.Minute)

	require.NoError(t, repo.Set(ctx, "short", "v", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	_, found, err := repo.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheRepository_DefaultTTLUsesFreshness(t *testing.T) {
	ctx := context.Background()
	repo := newTestCache(20 * time.Millisecond)

	require.NoError(t, repo.Set(ctx, "k", "v", 0))
	_, found, _ := repo.Get(ctx, "k")
	assert.True(t, found)

	time.Sleep(40 * time.Millisecond)
	_, found, _ = repo.Get(ctx, "k")
	assert.False(t, found)
}
