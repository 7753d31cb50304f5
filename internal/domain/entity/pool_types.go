package entity

// PoolToken is one side of a liquidity pool.
type PoolToken struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals string `json:"decimals"`
}

// Pool holds Uniswap v3 pool statistics as reported by the subgraph.
type Pool struct {
	ID           string    `json:"id"`
	Token0       PoolToken `json:"token0"`
	Token1       PoolToken `json:"token1"`
	FeeTier      string    `json:"feeTier"`
	Liquidity    string    `json:"liquidity"`
	SqrtPrice    string    `json:"sqrtPrice"`
	Tick         string    `json:"tick"`
	VolumeUSD    string    `json:"volumeUSD"`
	VolumeToken0 string    `json:"volumeToken0"`
	VolumeToken1 string    `json:"volumeToken1"`
	TxCount      string    `json:"txCount"`
}

// PoolSnapshot is a pool together with the reference ETH price.
type PoolSnapshot struct {
	Pool         Pool         `json:"pool"`
	EthPriceUSD  string       `json:"ethPriceUSD"`
	Availability Availability `json:"availability"`
}
