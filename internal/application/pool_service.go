package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"swapbridge/internal/application/port"
	"swapbridge/internal/domain"
	"swapbridge/internal/domain/entity"
	domainRepo "swapbridge/internal/domain/repository"
	domainService "swapbridge/internal/domain/service"
	"swapbridge/internal/metrics"
	"swapbridge/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// Compile-time check
var _ port.PoolService = (*poolService)(nil)

type poolService struct {
	pools    domainRepo.PoolRepository
	registry domainRepo.ChainRegistry
	queries  *QueryLoader
	logger   *zap.Logger
}

// NewPoolService creates the pool statistics service.
func NewPoolService(
	pools domainRepo.PoolRepository,
	registry domainRepo.ChainRegistry,
	queries *QueryLoader,
	logger *zap.Logger,
) port.PoolService {
	return &poolService{
		pools:    pools,
		registry: registry,
		queries:  queries,
		logger:   logger.Named("PoolService"),
	}
}

func (s *poolService) FetchPool(ctx context.Context, network, address string) (entity.PoolSnapshot, error) {
	network = entity.NormalizeKey(network)
	if network == "" {
		return entity.PoolSnapshot{}, fmt.Errorf("%w: network is required", apperrors.ErrInvalidInput)
	}
	if _, ok := s.registry.Chain(network); !ok {
		return entity.PoolSnapshot{}, fmt.Errorf("%w: %w: %s", apperrors.ErrNotFound, domain.ErrUnknownChain, network)
	}
	address = strings.ToLower(strings.TrimSpace(address))

	key := QueryKey("pool", network, address)
	snapshot, err := Load(ctx, s.queries, "pool", key, func(ctx context.Context) (entity.PoolSnapshot, error) {
		return s.load(ctx, network, address)
	})
	if errors.Is(err, domain.ErrUnknownChain) {
		// known chain without an indexed subgraph
		return entity.PoolSnapshot{}, err
	}
	if err != nil {
		metrics.FallbacksTotal.WithLabelValues("pool").Inc()
		s.logger.Error("Pool data unavailable, returning fallback",
			zap.String("network", network), zap.String("pool", address), zap.Error(err),
		)
		return domainService.FallbackPoolSnapshot(), wrapUpstream(err, "pool data")
	}
	return snapshot, nil
}

func (s *poolService) load(ctx context.Context, network, address string) (entity.PoolSnapshot, error) {
	if address == "" {
		price, err := s.pools.FetchEthPrice(ctx, network)
		if err != nil {
			return entity.PoolSnapshot{}, wrapUpstream(err, "eth price on "+network)
		}
		return entity.PoolSnapshot{
			Pool:         domainService.PlaceholderPool(domainService.UnknownPoolID),
			EthPriceUSD:  price,
			Availability: entity.AvailabilityLive,
		}, nil
	}

	snapshot, found, err := s.pools.FetchPool(ctx, network, address)
	if err != nil {
		return entity.PoolSnapshot{}, wrapUpstream(err, "pool "+address)
	}
	if !found {
		return entity.PoolSnapshot{}, fmt.Errorf("%w: pool %s is not indexed on %s",
			apperrors.ErrExternalServiceFailure, address, network,
		)
	}
	return snapshot, nil
}

// wrapUpstream makes sure an upstream failure matches ErrExternalServiceFailure
// while keeping its original classification.
func wrapUpstream(err error, what string) error {
	if errors.Is(err, apperrors.ErrExternalServiceFailure) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrExternalServiceFailure, what, err)
}
