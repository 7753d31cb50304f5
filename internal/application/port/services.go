package port

import (
	"context"

	"swapbridge/internal/domain/entity"
)

// BridgeRequest names a bridge route and the asset moved along it.
type BridgeRequest struct {
	Source      string `json:"sourceChain"`
	Destination string `json:"destinationChain"`
	Token       string `json:"token"`
	Amount      string `json:"amount"`
}

// SwapRequest describes a swap on a single network. Zero Slippage and
// DeadlineMinutes take their defaults.
type SwapRequest struct {
	Network         string  `json:"network"`
	TokenIn         string  `json:"tokenIn"`
	TokenOut        string  `json:"tokenOut"`
	Amount          float64 `json:"amount"`
	Slippage        float64 `json:"slippage"`
	DeadlineMinutes int     `json:"deadlineMinutes"`
}

// ChainService exposes the chain and token catalog and endpoint health.
type ChainService interface {
	// ListChains returns the chains enabled for quoting.
	ListChains(ctx context.Context) []entity.Chain

	// ListAllChains includes chains that are known but disabled.
	ListAllChains(ctx context.Context) []entity.Chain

	// ListTokens returns the supported tokens.
	ListTokens(ctx context.Context) []entity.Token

	// CheckChainRPC probes the configured RPC endpoint of a chain.
	CheckChainRPC(ctx context.Context, chainID int64) (entity.RPCHealth, error)
}

// BridgeService quotes cross-chain transfers.
type BridgeService interface {
	EstimateTime(ctx context.Context, source, destination string) (entity.TimeEstimate, error)

	// Fee returns a live quote, or a fallback quote together with an error.
	Fee(ctx context.Context, req BridgeRequest) (entity.FeeQuote, error)

	Quote(ctx context.Context, req BridgeRequest) (entity.BridgeQuote, error)

	BuildMessage(source, destination string) string
}

// SwapService quotes swaps against pool data.
type SwapService interface {
	Quote(ctx context.Context, req SwapRequest) (entity.SwapQuote, error)
	BuildMessage(amount float64, tokenIn, tokenOut string) string
}

// PoolService reads pool statistics.
type PoolService interface {
	// FetchPool returns a placeholder pool carrying the live price when address
	// is empty, and the fallback snapshot together with an error on failure.
	FetchPool(ctx context.Context, network, address string) (entity.PoolSnapshot, error)
}

// HistoryService pages through cross-chain transfer history.
type HistoryService interface {
	Page(ctx context.Context, req entity.PageRequest) (entity.TransactionPage, error)
}

// WalletService drives a connected wallet.
type WalletService interface {
	Connect(ctx context.Context) (entity.WalletState, error)
	Disconnect() error
	State() entity.WalletState
	SwitchNetwork(ctx context.Context, chainID int64) error
	SignMessage(ctx context.Context, message string) (string, error)
	OnAccountsChanged(fn func(accounts []string)) (unsubscribe func())

	// Close detaches from the provider and closes it.
	Close() error
}
