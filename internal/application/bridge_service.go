package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"swapbridge/internal/application/port"
	"swapbridge/internal/domain"
	"swapbridge/internal/domain/entity"
	domainService "swapbridge/internal/domain/service"
	"swapbridge/internal/pkg/apperrors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Compile-time check
var _ port.BridgeService = (*bridgeService)(nil)

const defaultBridgeToken = "USDC"

type bridgeService struct {
	tables   RouteTables
	resolver *FeeResolver
	queries  *QueryLoader
	logger   *zap.Logger
}

// NewBridgeService creates the bridge quoting service.
func NewBridgeService(
	tables RouteTables,
	resolver *FeeResolver,
	queries *QueryLoader,
	logger *zap.Logger,
) port.BridgeService {
	return &bridgeService{
		tables:   tables,
		resolver: resolver,
		queries:  queries,
		logger:   logger.Named("BridgeService"),
	}
}

// EstimateTime returns the bridging time range for a route.
func (s *bridgeService) EstimateTime(_ context.Context, source, destination string) (entity.TimeEstimate, error) {
	if err := validateRoute(source, destination); err != nil {
		return entity.TimeEstimate{}, err
	}
	return domainService.EstimateBridgingTime(s.tables, source, destination), nil
}

// Fee returns the bridge fee, served from the query cache when fresh.
func (s *bridgeService) Fee(ctx context.Context, req port.BridgeRequest) (entity.FeeQuote, error) {
	req, err := normalizeBridgeRequest(req)
	if err != nil {
		return entity.FeeQuote{}, err
	}

	key := QueryKey("bridge_fee", req.Source, req.Destination, req.Token)
	quote, err := Load(ctx, s.queries, "bridge_fee", key, func(ctx context.Context) (entity.FeeQuote, error) {
		return s.resolver.Resolve(ctx, req.Source, req.Destination, req.Token)
	})
	if err != nil && quote.Availability != entity.AvailabilityFallback {
		// the caller stopped waiting before the shared load finished
		return domainService.FallbackFeeQuote(req.Source, s.tables), wrapUpstream(err, "bridge fee")
	}
	return quote, err
}

// Quote fetches the time estimate and the fee concurrently. A fallback fee
// still yields a quote, returned together with the fee error.
func (s *bridgeService) Quote(ctx context.Context, req port.BridgeRequest) (entity.BridgeQuote, error) {
	req, err := normalizeBridgeRequest(req)
	if err != nil {
		return entity.BridgeQuote{}, err
	}

	quote := entity.BridgeQuote{
		Source:      req.Source,
		Destination: req.Destination,
		Token:       req.Token,
		Amount:      req.Amount,
	}

	var feeErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		est, err := s.EstimateTime(gctx, req.Source, req.Destination)
		quote.Time = est
		return err
	})
	g.Go(func() error {
		quote.Fee, feeErr = s.Fee(gctx, req)
		return nil
	})
	if err := g.Wait(); err != nil {
		return entity.BridgeQuote{}, err
	}

	s.logger.Debug("Built bridge quote",
		zap.String("source", req.Source),
		zap.String("destination", req.Destination),
		zap.Int("minMinutes", quote.Time.Min),
		zap.Int("maxMinutes", quote.Time.Max),
		zap.String("availability", string(quote.Fee.Availability)),
	)
	return quote, feeErr
}

// BuildMessage returns the text a wallet signs to confirm a mock bridge.
func (s *bridgeService) BuildMessage(source, destination string) string {
	return fmt.Sprintf("Mock Bridge Transaction\n\nBridge USDC from %s to %s", source, destination)
}

func validateRoute(source, destination string) error {
	src := entity.NormalizeKey(source)
	dst := entity.NormalizeKey(destination)
	if src == "" || dst == "" {
		return fmt.Errorf("%w: source and destination chains are required", apperrors.ErrInvalidInput)
	}
	if src == dst {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, domain.ErrSameChain)
	}
	return nil
}

func normalizeBridgeRequest(req port.BridgeRequest) (port.BridgeRequest, error) {
	if err := validateRoute(req.Source, req.Destination); err != nil {
		return req, err
	}
	req.Source = entity.NormalizeKey(req.Source)
	req.Destination = entity.NormalizeKey(req.Destination)

	req.Token = strings.ToUpper(strings.TrimSpace(req.Token))
	if req.Token == "" {
		req.Token = defaultBridgeToken
	}

	req.Amount = strings.TrimSpace(req.Amount)
	if req.Amount != "" {
		v, err := strconv.ParseFloat(req.Amount, 64)
		if err != nil || v <= 0 {
			return req, fmt.Errorf("%w: amount must be a positive number", apperrors.ErrInvalidInput)
		}
	}
	return req, nil
}
