package application

import (
	"context"
	"fmt"

	"swapbridge/internal/domain/entity"
	domainRepo "swapbridge/internal/domain/repository"
	domainService "swapbridge/internal/domain/service"
	"swapbridge/internal/metrics"
	"swapbridge/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// USDC contract addresses passed to the gas estimate as the bridge endpoints.
const (
	sourceContractAddress      = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	destinationContractAddress = "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
)

// FeeResolver turns Axelar fee estimates into display quotes.
type FeeResolver struct {
	fees     domainRepo.FeeRepository
	tables   RouteTables
	gasLimit uint64
	logger   *zap.Logger
}

// NewFeeResolver creates a fee resolver.
func NewFeeResolver(fees domainRepo.FeeRepository, tables RouteTables, gasLimit uint64, logger *zap.Logger) *FeeResolver {
	if gasLimit == 0 {
		gasLimit = 300000
	}
	return &FeeResolver{
		fees:     fees,
		tables:   tables,
		gasLimit: gasLimit,
		logger:   logger.Named("FeeResolver"),
	}
}

// Resolve returns a live fee quote for moving token from source to destination.
// On any upstream failure it returns the fallback quote and an error wrapping
// apperrors.ErrExternalServiceFailure.
func (r *FeeResolver) Resolve(ctx context.Context, source, destination, token string) (entity.FeeQuote, error) {
	quote, err := r.resolve(ctx, source, destination, token)
	if err != nil {
		metrics.FallbacksTotal.WithLabelValues("bridge_fee").Inc()
		r.logger.Error("Bridge fee unavailable, returning fallback",
			zap.String("source", source),
			zap.String("destination", destination),
			zap.String("token", token),
			zap.Error(err),
		)
		return domainService.FallbackFeeQuote(source, r.tables), fmt.Errorf("%w: bridge fee %s->%s: %w",
			apperrors.ErrExternalServiceFailure, source, destination, err,
		)
	}
	return quote, nil
}

func (r *FeeResolver) resolve(ctx context.Context, source, destination, token string) (entity.FeeQuote, error) {
	axSource := r.tables.AxelarName(source)
	axDestination := r.tables.AxelarName(destination)

	denom, err := r.fees.DenomFromSymbol(ctx, token, axSource)
	if err != nil {
		denom = r.tables.Denom(token)
		r.logger.Warn("Denom lookup failed, using static mapping",
			zap.String("token", token), zap.String("chain", axSource),
			zap.String("denom", denom), zap.Error(err),
		)
	}

	transferFee, err := r.fees.TransferFee(ctx, axSource, axDestination, denom, 1)
	if err != nil {
		return entity.FeeQuote{}, fmt.Errorf("transfer fee: %w", err)
	}

	gas, err := r.fees.EstimateGasFee(ctx, domainRepo.GasFeeRequest{
		SourceChain:                axSource,
		DestinationChain:           axDestination,
		GasLimit:                   r.gasLimit,
		GasMultiplier:              "auto",
		MinGasPrice:                "0",
		TokenSymbol:                token,
		ShowDetailedFees:           true,
		SourceContractAddress:      sourceContractAddress,
		DestinationContractAddress: destinationContractAddress,
	})
	if err != nil {
		return entity.FeeQuote{}, fmt.Errorf("gas estimate: %w", err)
	}

	var quote entity.FeeQuote
	if gas.Detailed != nil {
		quote, err = domainService.BuildDetailedFeeQuote(*gas.Detailed, source, axDestination, r.tables)
		if err != nil {
			return entity.FeeQuote{}, fmt.Errorf("gas breakdown: %w", err)
		}
	} else {
		total, err := domainService.ParseWei(gas.Total)
		if err != nil {
			return entity.FeeQuote{}, fmt.Errorf("gas total: %w", err)
		}
		quote = domainService.BuildFeeQuote(total, source, r.tables)
	}

	quote.TransferFee = &transferFee
	r.logger.Debug("Resolved bridge fee",
		zap.String("source", axSource),
		zap.String("destination", axDestination),
		zap.String("fee", quote.Fee),
		zap.String("denom", denom),
	)
	return quote, nil
}
