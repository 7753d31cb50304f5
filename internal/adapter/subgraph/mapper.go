package subgraph

import (
	dto "swapbridge/internal/adapter/subgraph/dto"
	"swapbridge/internal/domain/entity"
)

func toDomainToken(raw dto.TokenRaw) entity.PoolToken {
	return entity.PoolToken{
		ID:       raw.ID,
		Symbol:   raw.Symbol,
		Name:     raw.Name,
		Decimals: raw.Decimals,
	}
}

func toDomainPool(raw dto.PoolRaw) entity.Pool {
	return entity.Pool{
		ID:           raw.ID,
		Token0:       toDomainToken(raw.Token0),
		Token1:       toDomainToken(raw.Token1),
		FeeTier:      raw.FeeTier,
		Liquidity:    raw.Liquidity,
		SqrtPrice:    raw.SqrtPrice,
		Tick:         raw.Tick,
		VolumeUSD:    raw.VolumeUSD,
		VolumeToken0: raw.VolumeToken0,
		VolumeToken1: raw.VolumeToken1,
		TxCount:      raw.TxCount,
	}
}

// ethPrice returns the first bundle's price, "0" when the subgraph has no bundle.
func ethPrice(bundles []dto.BundleRaw) string {
	if len(bundles) == 0 || bundles[0].EthPriceUSD == "" {
		return "0"
	}
	return bundles[0].EthPriceUSD
}
