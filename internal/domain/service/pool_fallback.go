package service

import "swapbridge/internal/domain/entity"

// Placeholder pool ids and the reference price used when the subgraph is unreachable.
const (
	UnknownPoolID       = "unknown"
	ErrorPoolID         = "error"
	FallbackEthPriceUSD = "1904.22"
)

// PlaceholderPool is the static USDC/WETH pool shape returned when no live pool data exists.
func PlaceholderPool(id string) entity.Pool {
	return entity.Pool{
		ID: id,
		Token0: entity.PoolToken{
			ID:       "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
			Symbol:   "USDC",
			Name:     "USD Coin",
			Decimals: "6",
		},
		Token1: entity.PoolToken{
			ID:       "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
			Symbol:   "WETH",
			Name:     "Wrapped Ether",
			Decimals: "18",
		},
		FeeTier:      "3000",
		Liquidity:    "0",
		SqrtPrice:    "0",
		Tick:         "0",
		VolumeUSD:    "0",
		VolumeToken0: "0",
		VolumeToken1: "0",
		TxCount:      "0",
	}
}

// FallbackPoolSnapshot is returned when the pool query fails.
func FallbackPoolSnapshot() entity.PoolSnapshot {
	return entity.PoolSnapshot{
		Pool:         PlaceholderPool(ErrorPoolID),
		EthPriceUSD:  FallbackEthPriceUSD,
		Availability: entity.AvailabilityFallback,
	}
}
