package repository

import (
	"context"

	"swapbridge/internal/domain/entity"
)

// GasFeeRequest describes a gas estimate for relaying a call between two Axelar chains.
type GasFeeRequest struct {
	SourceChain                string
	DestinationChain           string
	GasLimit                   uint64
	GasMultiplier              string
	MinGasPrice                string
	TokenSymbol                string
	ShowDetailedFees           bool
	SourceContractAddress      string
	DestinationContractAddress string
}

// GasFeeResult is either a plain total (Total) or a structured breakdown (Detailed).
type GasFeeResult struct {
	Total    string
	Detailed *entity.GasFeeEstimate
}

// FeeRepository queries the cross-chain network for denominations and fees.
type FeeRepository interface {
	// DenomFromSymbol resolves a token symbol to the network's denomination on a chain.
	DenomFromSymbol(ctx context.Context, symbol, chain string) (string, error)

	// TransferFee returns the transfer fee for amount units of denom between two chains.
	TransferFee(ctx context.Context, source, destination, denom string, amount int64) (entity.TransferFee, error)

	// EstimateGasFee returns the gas fee in the source chain's smallest unit.
	EstimateGasFee(ctx context.Context, req GasFeeRequest) (GasFeeResult, error)
}
