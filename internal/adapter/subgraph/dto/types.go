package subgraph_dto

import "encoding/json"

// GraphQLRequestRaw is a GraphQL-over-HTTP request body.
type GraphQLRequestRaw struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLResponseRaw is a GraphQL-over-HTTP response envelope.
type GraphQLResponseRaw struct {
	Data   json.RawMessage   `json:"data"`
	Errors []GraphQLErrorRaw `json:"errors,omitempty"`
}

// GraphQLErrorRaw is a single GraphQL error.
type GraphQLErrorRaw struct {
	Message string `json:"message"`
}

// BundleRaw carries the subgraph's reference ETH price.
type BundleRaw struct {
	ID          string `json:"id"`
	EthPriceUSD string `json:"ethPriceUSD"`
}

// TokenRaw is a pool token as indexed by the subgraph.
type TokenRaw struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals string `json:"decimals"`
}

// PoolRaw is a Uniswap v3 pool as indexed by the subgraph.
type PoolRaw struct {
	ID           string   `json:"id"`
	Token0       TokenRaw `json:"token0"`
	Token1       TokenRaw `json:"token1"`
	FeeTier      string   `json:"feeTier"`
	Liquidity    string   `json:"liquidity"`
	SqrtPrice    string   `json:"sqrtPrice"`
	Tick         string   `json:"tick"`
	VolumeUSD    string   `json:"volumeUSD"`
	VolumeToken0 string   `json:"volumeToken0"`
	VolumeToken1 string   `json:"volumeToken1"`
	TxCount      string   `json:"txCount"`
}

// CombinedDataRaw is the data payload of the combined price and pool query.
type CombinedDataRaw struct {
	Bundles []BundleRaw `json:"bundles"`
	Pool    *PoolRaw    `json:"pool"`
}
