package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"swapbridge/internal/application/port"
	"swapbridge/internal/domain"
	"swapbridge/internal/domain/entity"
	domainRepo "swapbridge/internal/domain/repository"
	"swapbridge/internal/pkg/apperrors"
	"swapbridge/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBridgeService(t *testing.T, fees *fakeFeeRepo) port.BridgeService {
	t.Helper()
	reg := registry.Default()
	resolver := NewFeeResolver(fees, reg, 300000, zap.NewNop())
	return NewBridgeService(reg, resolver, newTestLoader(t), zap.NewNop())
}

func TestFeeResolver_SimpleTotal(t *testing.T) {
	fees := &fakeFeeRepo{
		denom:    "uusdc",
		transfer: entity.TransferFee{Denom: "uusdc", Amount: "150000"},
		gas:      domainRepo.GasFeeResult{Total: "5000000000000000"},
	}
	resolver := NewFeeResolver(fees, registry.Default(), 0, zap.NewNop())

	q, err := resolver.Resolve(context.Background(), "ethereum", "polygon", "USDC")
	require.NoError(t, err)
	assert.Equal(t, "9.50", q.Fee)
	assert.Equal(t, "USDC", q.Token)
	assert.InDelta(t, 9.5, q.USD, 1e-9)
	require.NotNil(t, q.NativeToken)
	assert.Equal(t, "0.005000", q.NativeToken.Fee)
	assert.Equal(t, "ETH", q.NativeToken.Token)
	assert.Nil(t, q.Details)
	require.NotNil(t, q.TransferFee)
	assert.Equal(t, "150000", q.TransferFee.Amount)
	assert.True(t, q.Live())

	require.Len(t, fees.gasRequests, 1)
	req := fees.gasRequests[0]
	assert.Equal(t, uint64(300000), req.GasLimit)
	assert.Equal(t, "auto", req.GasMultiplier)
	assert.Equal(t, "0", req.MinGasPrice)
	assert.True(t, req.ShowDetailedFees)
	assert.Equal(t, sourceContractAddress, req.SourceContractAddress)
	assert.Equal(t, destinationContractAddress, req.DestinationContractAddress)
}

func TestFeeResolver_DetailedAddsL1OnlyForFeeL2(t *testing.T) {
	detailed := &entity.GasFeeEstimate{
		BaseFee:                      "1000000000000000",
		ExecutionFee:                 "900000000000000",
		ExecutionFeeWithMultiplier:   "1000000000000000",
		L1ExecutionFeeWithMultiplier: "1000000000000000",
		GasMultiplier:                1.1,
	}
	fees := &fakeFeeRepo{denom: "uusdc", gas: domainRepo.GasFeeResult{Detailed: detailed}}
	resolver := NewFeeResolver(fees, registry.Default(), 0, zap.NewNop())

	q, err := resolver.Resolve(context.Background(), "ethereum", "polygon", "USDC")
	require.NoError(t, err)
	assert.Equal(t, "5.70", q.Fee)
	require.NotNil(t, q.Details)
	assert.Equal(t, "0.001000", q.Details.BaseFee)
	assert.Equal(t, 1.1, q.Details.GasMultiplier)
	assert.True(t, q.Details.L1FeeIncluded)

	q, err = resolver.Resolve(context.Background(), "polygon", "ethereum", "USDC")
	require.NoError(t, err)
	assert.Equal(t, "MATIC", q.NativeToken.Token)
	assert.Equal(t, "0.002000", q.NativeToken.Fee)
	assert.False(t, q.Details.L1FeeIncluded)
}

func TestFeeResolver_DenomFallback(t *testing.T) {
	fees := &fakeFeeRepo{
		denomErr: apperrors.ErrNotFound,
		gas:      domainRepo.GasFeeResult{Total: "1"},
	}
	resolver := NewFeeResolver(fees, registry.Default(), 0, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), "ethereum", "polygon", "WETH")
	require.NoError(t, err)
	assert.Equal(t, []string{"weth-wei"}, fees.denomsUsed)
}

func TestFeeResolver_FailureReturnsTaggedFallback(t *testing.T) {
	tests := []struct {
		name string
		fees *fakeFeeRepo
	}{
		{"transfer fee", &fakeFeeRepo{transferErr: fmt.Errorf("%w: 503", apperrors.ErrExternalServiceFailure)}},
		{"gas estimate", &fakeFeeRepo{gasErr: apperrors.ErrTimeout}},
		{"malformed total", &fakeFeeRepo{gas: domainRepo.GasFeeResult{Total: "abc"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewFeeResolver(tt.fees, registry.Default(), 0, zap.NewNop())
			q, err := resolver.Resolve(context.Background(), "polygon", "ethereum", "USDC")
			assert.True(t, errors.Is(err, apperrors.ErrExternalServiceFailure), "got %v", err)
			assert.Equal(t, entity.AvailabilityFallback, q.Availability)
			assert.Equal(t, "1.50", q.Fee)
			assert.Equal(t, 1.5, q.USD)
			assert.Equal(t, "0.005", q.NativeToken.Fee)
			assert.Equal(t, "MATIC", q.NativeToken.Token)
		})
	}
}

func TestBridgeService_Validation(t *testing.T) {
	svc := newTestBridgeService(t, &fakeFeeRepo{})
	ctx := context.Background()

	_, err := svc.EstimateTime(ctx, "ethereum", "Ethereum")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.True(t, errors.Is(err, domain.ErrSameChain))

	_, err = svc.Quote(ctx, port.BridgeRequest{Source: "", Destination: "polygon"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = svc.Fee(ctx, port.BridgeRequest{Source: "ethereum", Destination: "polygon", Amount: "-1"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestBridgeService_EstimateTime(t *testing.T) {
	svc := newTestBridgeService(t, &fakeFeeRepo{})

	est, err := svc.EstimateTime(context.Background(), "Ethereum", "polygon")
	require.NoError(t, err)
	assert.Equal(t, entity.TimeEstimate{Min: 13, Max: 25}, est)

	est, err = svc.EstimateTime(context.Background(), "moonriver", "solana")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, est.Min, 1)
	assert.LessOrEqual(t, est.Min, est.Max)
}

func TestBridgeService_QuoteCombinesTimeAndFee(t *testing.T) {
	fees := &fakeFeeRepo{gas: domainRepo.GasFeeResult{Total: "5000000000000000"}}
	svc := newTestBridgeService(t, fees)

	q, err := svc.Quote(context.Background(), port.BridgeRequest{
		Source: "ethereum", Destination: "polygon", Token: "usdc", Amount: "100",
	})
	require.NoError(t, err)
	assert.Equal(t, "USDC", q.Token)
	assert.Equal(t, entity.TimeEstimate{Min: 13, Max: 25}, q.Time)
	assert.Equal(t, "9.50", q.Fee.Fee)

	_, err = svc.Fee(context.Background(), port.BridgeRequest{Source: "ETHEREUM", Destination: "polygon", Token: "USDC"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), fees.calls.Load(), "second fee lookup is served from cache")
}

func TestBridgeService_QuoteWithFallbackFee(t *testing.T) {
	fees := &fakeFeeRepo{gasErr: fmt.Errorf("%w: 500", apperrors.ErrExternalServiceFailure)}
	svc := newTestBridgeService(t, fees)

	q, err := svc.Quote(context.Background(), port.BridgeRequest{Source: "ethereum", Destination: "polygon"})
	assert.True(t, errors.Is(err, apperrors.ErrExternalServiceFailure))
	assert.Equal(t, entity.AvailabilityFallback, q.Fee.Availability)
	assert.Equal(t, entity.TimeEstimate{Min: 13, Max: 25}, q.Time)
}

func TestBridgeService_BuildMessage(t *testing.T) {
	svc := newTestBridgeService(t, &fakeFeeRepo{})
	assert.Equal(t, "Mock Bridge Transaction\n\nBridge USDC from ethereum to polygon", svc.BuildMessage("ethereum", "polygon"))
}
