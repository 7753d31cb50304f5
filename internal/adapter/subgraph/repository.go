package subgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	dto "swapbridge/internal/adapter/subgraph/dto"
	"swapbridge/internal/adapter/upstream"
	"swapbridge/internal/config"
	"swapbridge/internal/domain"
	"swapbridge/internal/domain/entity"
	domainRepo "swapbridge/internal/domain/repository"
	"swapbridge/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.PoolRepository = (*Repository)(nil)

const combinedQuery = `query getCombinedData($poolAddress: String!) {
  bundles(first: 1) { id ethPriceUSD }
  pool(id: $poolAddress) {
    id
    token0 { id symbol name decimals }
    token1 { id symbol name decimals }
    feeTier
    liquidity
    sqrtPrice
    tick
    volumeUSD
    volumeToken0
    volumeToken1
    txCount
  }
}`

const ethPriceQuery = `query getEthPrice {
  bundles(first: 1) { id ethPriceUSD }
}`

// Repository implements PoolRepository against Uniswap v3 subgraphs.
type Repository struct {
	client *upstream.Client
	cfg    config.SubgraphConfig
	logger *zap.Logger
}

// NewRepository creates a new subgraph pool repository.
func NewRepository(cfg config.SubgraphConfig, logger *zap.Logger) *Repository {
	return &Repository{
		client: upstream.NewClient("subgraph", cfg.Timeout, nil, logger),
		cfg:    cfg,
		logger: logger.Named("SubgraphStorage"),
	}
}

// FetchPool runs the combined price and pool query. found is false when the
// subgraph does not index a pool at address.
func (r *Repository) FetchPool(
	ctx context.Context,
	network, address string,
) (entity.PoolSnapshot, bool, error) {
	var data dto.CombinedDataRaw
	vars := map[string]any{"poolAddress": strings.ToLower(address)}
	if err := r.query(ctx, network, combinedQuery, vars, &data); err != nil {
		return entity.PoolSnapshot{}, false, err
	}

	snapshot := entity.PoolSnapshot{
		EthPriceUSD:  ethPrice(data.Bundles),
		Availability: entity.AvailabilityLive,
	}
	if data.Pool == nil {
		r.logger.Warn("Pool not indexed by subgraph", zap.String("network", network), zap.String("pool", address))
		return snapshot, false, nil
	}

	snapshot.Pool = toDomainPool(*data.Pool)
	r.logger.Debug("Fetched pool from subgraph",
		zap.String("network", network),
		zap.String("pool", snapshot.Pool.ID),
		zap.String("ethPriceUSD", snapshot.EthPriceUSD),
	)
	return snapshot, true, nil
}

// FetchEthPrice runs the price-only query.
func (r *Repository) FetchEthPrice(ctx context.Context, network string) (string, error) {
	var data dto.CombinedDataRaw
	if err := r.query(ctx, network, ethPriceQuery, nil, &data); err != nil {
		return "", err
	}
	return ethPrice(data.Bundles), nil
}

func (r *Repository) query(ctx context.Context, network, query string, vars map[string]any, out any) error {
	endpoint, ok := r.cfg.Endpoint(network)
	if !ok {
		return fmt.Errorf("%w: %w: no subgraph indexes %s", apperrors.ErrNotFound, domain.ErrUnknownChain, network)
	}

	var resp dto.GraphQLResponseRaw
	req := dto.GraphQLRequestRaw{Query: query, Variables: vars}
	if err := r.client.PostJSON(ctx, endpoint, req, &resp); err != nil {
		return err
	}

	if len(resp.Errors) > 0 {
		messages := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}
		r.logger.Error("Subgraph returned GraphQL errors",
			zap.String("network", network), zap.Strings("errors", messages),
		)
		return fmt.Errorf("%w: subgraph query failed: %s",
			apperrors.ErrExternalServiceFailure, strings.Join(messages, "; "),
		)
	}

	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return fmt.Errorf("%w: subgraph returned no data", apperrors.ErrExternalServiceFailure)
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("%w: failed to parse subgraph data: %v", apperrors.ErrExternalServiceFailure, err)
	}
	return nil
}
