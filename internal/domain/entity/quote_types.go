package entity

import "time"

// Availability tags whether a result came from the upstream service or is a placeholder.
type Availability string

const (
	AvailabilityLive     Availability = "live"
	AvailabilityFallback Availability = "fallback"
)

// TimeEstimate is a bridging duration range in whole minutes.
type TimeEstimate struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// NativeFee is a fee expressed in the source chain's native token.
type NativeFee struct {
	Fee   string `json:"fee"`
	Token string `json:"token"`
}

// FeeBreakdown is the detailed split of a structured gas estimate.
type FeeBreakdown struct {
	BaseFee       string  `json:"baseFee"`
	ExecutionFee  string  `json:"executionFee"`
	L1FeeIncluded bool    `json:"l1FeeIncluded,omitempty"`
	GasMultiplier float64 `json:"gasMultiplier"`
}

// TransferFee is the network transfer fee reported for the bridged asset.
type TransferFee struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// GasFeeEstimate is a structured gas estimate in the source chain's smallest unit.
type GasFeeEstimate struct {
	BaseFee                      string
	ExecutionFee                 string
	ExecutionFeeWithMultiplier   string
	L1ExecutionFeeWithMultiplier string
	GasMultiplier                float64
}

// FeeQuote is a bridge fee in USD-equivalent USDC units plus the native-token amount.
type FeeQuote struct {
	Fee          string        `json:"fee"`
	Token        string        `json:"token"`
	USD          float64       `json:"usd"`
	NativeToken  *NativeFee    `json:"nativeToken,omitempty"`
	Details      *FeeBreakdown `json:"details,omitempty"`
	TransferFee  *TransferFee  `json:"transferFee,omitempty"`
	Availability Availability  `json:"availability"`
}

// Live reports whether the quote came from the fee service.
func (q FeeQuote) Live() bool {
	return q.Availability == AvailabilityLive
}

// BridgeQuote combines the fee and time estimate for a bridge route.
type BridgeQuote struct {
	Source      string       `json:"sourceChain"`
	Destination string       `json:"destinationChain"`
	Token       string       `json:"token"`
	Amount      string       `json:"amount"`
	Time        TimeEstimate `json:"time"`
	Fee         FeeQuote     `json:"fee"`
}

// SwapQuote is a priced swap within a single network's pool.
type SwapQuote struct {
	Network         string       `json:"network"`
	TokenIn         string       `json:"tokenIn"`
	TokenOut        string       `json:"tokenOut"`
	AmountIn        string       `json:"amountIn"`
	AmountOut       string       `json:"amountOut"`
	Rate            string       `json:"rate"`
	MinimumReceived string       `json:"minimumReceived"`
	Slippage        float64      `json:"slippage"`
	DeadlineMinutes int          `json:"deadlineMinutes"`
	ExpiresAt       time.Time    `json:"expiresAt"`
	PoolID          string       `json:"poolId"`
	EthPriceUSD     string       `json:"ethPriceUSD"`
	Availability    Availability `json:"availability"`
}
