package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"swapbridge/internal/adapter/storage/memory"
	"swapbridge/internal/config"
	"swapbridge/internal/domain/entity"
	domainRepo "swapbridge/internal/domain/repository"

	"go.uber.org/zap"
)

func newTestLoader(t *testing.T) *QueryLoader {
	t.Helper()
	cache := memory.NewCacheRepository(config.CacheConfig{
		Freshness:       time.Minute,
		CleanupInterval: time.Minute,
	}, zap.NewNop())
	return NewQueryLoader(cache, config.RetryConfig{
		MaxAttempts:     2,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}, zap.NewNop())
}

type fakeFeeRepo struct {
	mu          sync.Mutex
	denom       string
	denomErr    error
	transfer    entity.TransferFee
	transferErr error
	gas         domainRepo.GasFeeResult
	gasErr      error
	gasRequests []domainRepo.GasFeeRequest
	denomsUsed  []string
	calls       atomic.Int32
}

func (f *fakeFeeRepo) DenomFromSymbol(_ context.Context, _, _ string) (string, error) {
	return f.denom, f.denomErr
}

func (f *fakeFeeRepo) TransferFee(_ context.Context, _, _, denom string, _ int64) (entity.TransferFee, error) {
	f.mu.Lock()
	f.denomsUsed = append(f.denomsUsed, denom)
	f.mu.Unlock()
	return f.transfer, f.transferErr
}

func (f *fakeFeeRepo) EstimateGasFee(_ context.Context, req domainRepo.GasFeeRequest) (domainRepo.GasFeeResult, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.gasRequests = append(f.gasRequests, req)
	f.mu.Unlock()
	return f.gas, f.gasErr
}

type fakePoolRepo struct {
	snapshot entity.PoolSnapshot
	found    bool
	price    string
	err      error
	calls    atomic.Int32
	lastAddr string
}

func (f *fakePoolRepo) FetchPool(_ context.Context, _, address string) (entity.PoolSnapshot, bool, error) {
	f.calls.Add(1)
	f.lastAddr = address
	return f.snapshot, f.found, f.err
}

func (f *fakePoolRepo) FetchEthPrice(_ context.Context, _ string) (string, error) {
	f.calls.Add(1)
	return f.price, f.err
}

type fakeTxRepo struct {
	mu       sync.Mutex
	total    int
	err      error
	requests []entity.PageRequest
}

func (f *fakeTxRepo) SearchTransfers(_ context.Context, req entity.PageRequest) ([]entity.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	var out []entity.Transaction
	for i := req.Offset; i < f.total && len(out) < req.Limit; i++ {
		out = append(out, entity.Transaction{ID: string(rune('a' + i%26)), Status: "executed"})
	}
	return out, nil
}

type fakeChecker struct {
	chainID int64
	err     error
	calls   atomic.Int32
}

func (f *fakeChecker) CheckRPC(_ context.Context, _ entity.RPCURL) (int64, time.Duration, error) {
	f.calls.Add(1)
	return f.chainID, 12 * time.Millisecond, f.err
}
