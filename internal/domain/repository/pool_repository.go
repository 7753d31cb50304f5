package repository

import (
	"context"

	"swapbridge/internal/domain/entity"
)

// PoolRepository reads liquidity pool data from an indexing service.
type PoolRepository interface {
	// FetchPool returns the pool at address with the reference ETH price. The
	// returned Pool is zero when the pool is not indexed.
	FetchPool(ctx context.Context, network, address string) (entity.PoolSnapshot, bool, error)

	// FetchEthPrice returns only the reference ETH price in USD.
	FetchEthPrice(ctx context.Context, network string) (string, error)
}
