package application

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"swapbridge/internal/application/port"
	"swapbridge/internal/config"
	"swapbridge/internal/domain"
	"swapbridge/internal/domain/entity"
	domainRepo "swapbridge/internal/domain/repository"
	domainService "swapbridge/internal/domain/service"
	"swapbridge/internal/pkg/apperrors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Compile-time check
var _ port.ChainService = (*chainService)(nil)

const rpcHealthKeyPrefix = "rpc_health:"

// chainService implements the port.ChainService interface over the static registry.
type chainService struct {
	registry   domainRepo.ChainRegistry
	cacheRepo  domainRepo.CacheRepository
	rpcChecker domainService.RPCChecker
	logger     *zap.Logger
	cfg        config.CheckerConfig
	rootCtx    context.Context
	isChecking *atomic.Bool
}

// NewChainService creates a new instance of the chain service and starts the
// periodic RPC health checker.
func NewChainService(
	rootCtx context.Context,
	registry domainRepo.ChainRegistry,
	cacheRepo domainRepo.CacheRepository,
	rpcChecker domainService.RPCChecker,
	logger *zap.Logger,
	cfg config.CheckerConfig,
) port.ChainService {
	uc := &chainService{
		registry:   registry,
		cacheRepo:  cacheRepo,
		rpcChecker: rpcChecker,
		logger:     logger.Named("ChainService"),
		cfg:        cfg,
		rootCtx:    rootCtx,
		isChecking: new(atomic.Bool),
	}

	go uc.startBackgroundChecker()

	return uc
}

func (uc *chainService) ListChains(_ context.Context) []entity.Chain {
	return uc.registry.Chains()
}

func (uc *chainService) ListAllChains(_ context.Context) []entity.Chain {
	return uc.registry.AllChains()
}

func (uc *chainService) ListTokens(_ context.Context) []entity.Token {
	return uc.registry.Tokens()
}

// CheckChainRPC returns the cached health of a chain's RPC endpoint, probing it on a miss.
func (uc *chainService) CheckChainRPC(ctx context.Context, chainID int64) (entity.RPCHealth, error) {
	chain, ok := uc.registry.ChainByID(chainID)
	if !ok {
		uc.logger.Warn("Chain not found in registry", zap.Int64("chainId", chainID))
		return entity.RPCHealth{}, fmt.Errorf("%w: %w: chain id %d", apperrors.ErrNotFound, domain.ErrUnknownChain, chainID)
	}

	key := rpcHealthKey(chainID)
	cached, found, err := uc.cacheRepo.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("Cache error when getting RPC health", zap.Int64("chainId", chainID), zap.Error(err))
	}
	if found {
		if health, ok := cached.(entity.RPCHealth); ok {
			uc.logger.Debug("Cache hit for RPC health", zap.Int64("chainId", chainID))
			return health, nil
		}
	}

	health := uc.checkChain(ctx, chain)
	uc.storeHealth(ctx, chainID, health)
	return health, nil
}

// checkChain probes a chain's RPC with the checker timeout and compares the reported chain id.
func (uc *chainService) checkChain(ctx context.Context, chain entity.Chain) entity.RPCHealth {
	health := entity.RPCHealth{
		Chain:    chain.Key,
		URL:      chain.RPC,
		Protocol: chain.RPC.Protocol(),
	}

	timeout := uc.cfg.GetTimeout()
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reported, latency, err := uc.rpcChecker.CheckRPC(checkCtx, chain.RPC)
	if err != nil {
		uc.logger.Debug("RPC check failed", zap.String("chain", chain.Key), zap.Error(err))
		health.Error = err.Error()
		return health
	}

	latencyMs := latency.Milliseconds()
	health.IsWorking = true
	health.ReportedChainID = reported
	health.ChainIDMatches = reported == chain.ChainID
	health.LatencyMs = &latencyMs
	if !health.ChainIDMatches {
		uc.logger.Warn("RPC reports a different chain id",
			zap.String("chain", chain.Key),
			zap.Int64("expected", chain.ChainID),
			zap.Int64("reported", reported),
		)
	}
	return health
}

func (uc *chainService) storeHealth(ctx context.Context, chainID int64, health entity.RPCHealth) {
	if err := uc.cacheRepo.Set(ctx, rpcHealthKey(chainID), health, uc.cfg.GetCacheTTL()); err != nil {
		uc.logger.Error("Failed to cache RPC health", zap.Int64("chainId", chainID), zap.Error(err))
	}
}

// performRpcChecks probes every known chain with a bounded number of workers and refreshes the cache.
func (uc *chainService) performRpcChecks(ctx context.Context) {
	chains := uc.registry.AllChains()
	uc.logger.Info("Starting background RPC checks", zap.Int("chainCount", len(chains)))

	workers := uc.cfg.MaxWorkers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	var working atomic.Int64
	for _, chain := range chains {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			health := uc.checkChain(gctx, chain)
			if health.IsWorking {
				working.Add(1)
			}
			uc.storeHealth(gctx, chain.ChainID, health)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uc.logger.Warn("Background RPC checks interrupted", zap.Error(err))
		return
	}
	uc.logger.Info("Background RPC checks finished",
		zap.Int("chainCount", len(chains)), zap.Int64("working", working.Load()),
	)
}

// startBackgroundChecker periodically refreshes the RPC health of every chain.
func (uc *chainService) startBackgroundChecker() {
	interval := uc.cfg.GetCheckInterval()
	if interval <= 0 {
		uc.logger.Info("Background checker disabled (interval <= 0)")
		return
	}

	uc.logger.Info("Starting background checker", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if uc.isChecking.CompareAndSwap(false, true) {
				uc.performRpcChecks(uc.rootCtx)
				uc.isChecking.Store(false)
			} else {
				uc.logger.Debug("Background check already in progress, skipping tick")
			}
		case <-uc.rootCtx.Done():
			uc.logger.Info("Stopping background checker due to context cancellation")
			return
		}
	}
}

func rpcHealthKey(chainID int64) string {
	return rpcHealthKeyPrefix + strconv.FormatInt(chainID, 10)
}
