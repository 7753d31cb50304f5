package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"swapbridge/internal/application/port"
	"swapbridge/internal/domain"
	"swapbridge/internal/domain/entity"
	domainService "swapbridge/internal/domain/service"
	"swapbridge/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// Compile-time check
var _ port.SwapService = (*swapService)(nil)

// Swap settings bounds.
const (
	DefaultSlippage        = 0.5
	MinSlippage            = 0.1
	MaxSlippage            = 20.0
	DefaultDeadlineMinutes = 30
	MinDeadlineMinutes     = 1
	MaxDeadlineMinutes     = 60
	defaultSwapNetwork     = "ethereum"
)

type swapService struct {
	tables RouteTables
	pools  port.PoolService
	now    func() time.Time
	logger *zap.Logger
}

// NewSwapService creates the swap quoting service.
func NewSwapService(tables RouteTables, pools port.PoolService, logger *zap.Logger) port.SwapService {
	return &swapService{
		tables: tables,
		pools:  pools,
		now:    time.Now,
		logger: logger.Named("SwapService"),
	}
}

// Quote prices a swap from the network's reference pool. When pool data is
// unavailable the quote is priced from the fallback pool and returned together
// with the error.
func (s *swapService) Quote(ctx context.Context, req port.SwapRequest) (entity.SwapQuote, error) {
	req, err := s.normalize(req)
	if err != nil {
		return entity.SwapQuote{}, err
	}

	address := ""
	if domainService.IsReferencePair(req.TokenIn, req.TokenOut) {
		address, _ = s.tables.PoolAddress(req.Network + "-eth-usdc")
	}

	snapshot, poolErr := s.pools.FetchPool(ctx, req.Network, address)
	if poolErr != nil && snapshot.Availability != entity.AvailabilityFallback {
		return entity.SwapQuote{}, poolErr
	}

	rate := domainService.SwapRate(snapshot.EthPriceUSD, req.TokenIn, req.TokenOut)
	amountOut := domainService.OutputAmount(req.Amount, rate, req.TokenOut)

	quote := entity.SwapQuote{
		Network:         req.Network,
		TokenIn:         req.TokenIn,
		TokenOut:        req.TokenOut,
		AmountIn:        strconv.FormatFloat(req.Amount, 'f', -1, 64),
		AmountOut:       amountOut,
		Rate:            rate,
		MinimumReceived: domainService.MinimumReceived(amountOut, req.Slippage, req.TokenOut),
		Slippage:        req.Slippage,
		DeadlineMinutes: req.DeadlineMinutes,
		ExpiresAt:       s.now().Add(time.Duration(req.DeadlineMinutes) * time.Minute).UTC(),
		PoolID:          snapshot.Pool.ID,
		EthPriceUSD:     snapshot.EthPriceUSD,
		Availability:    snapshot.Availability,
	}

	s.logger.Debug("Built swap quote",
		zap.String("network", quote.Network),
		zap.String("pair", quote.TokenIn+"/"+quote.TokenOut),
		zap.String("rate", quote.Rate),
		zap.String("availability", string(quote.Availability)),
	)
	return quote, poolErr
}

// BuildMessage returns the text a wallet signs to confirm a mock swap.
func (s *swapService) BuildMessage(amount float64, tokenIn, tokenOut string) string {
	return fmt.Sprintf("Mock Swap Transaction\n\nSwap %s %s for %s",
		strconv.FormatFloat(amount, 'f', -1, 64), tokenIn, tokenOut,
	)
}

func (s *swapService) normalize(req port.SwapRequest) (port.SwapRequest, error) {
	req.TokenIn = strings.ToUpper(strings.TrimSpace(req.TokenIn))
	req.TokenOut = strings.ToUpper(strings.TrimSpace(req.TokenOut))
	if req.TokenIn == "" || req.TokenOut == "" {
		return req, fmt.Errorf("%w: input and output tokens are required", apperrors.ErrInvalidInput)
	}
	if req.TokenIn == req.TokenOut {
		return req, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, domain.ErrSameToken)
	}
	for _, sym := range []string{req.TokenIn, req.TokenOut} {
		if _, ok := s.tables.Token(sym); !ok {
			return req, fmt.Errorf("%w: %w: %s", apperrors.ErrInvalidInput, domain.ErrUnknownToken, sym)
		}
	}

	if req.Amount <= 0 {
		return req, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrInvalidInput)
	}

	if req.Slippage == 0 {
		req.Slippage = DefaultSlippage
	}
	if req.Slippage < MinSlippage || req.Slippage > MaxSlippage {
		return req, fmt.Errorf("%w: slippage must be between %.1f%% and %.0f%%",
			apperrors.ErrInvalidInput, MinSlippage, MaxSlippage,
		)
	}

	if req.DeadlineMinutes == 0 {
		req.DeadlineMinutes = DefaultDeadlineMinutes
	}
	if req.DeadlineMinutes < MinDeadlineMinutes || req.DeadlineMinutes > MaxDeadlineMinutes {
		return req, fmt.Errorf("%w: deadline must be between %d and %d minutes",
			apperrors.ErrInvalidInput, MinDeadlineMinutes, MaxDeadlineMinutes,
		)
	}

	req.Network = entity.NormalizeKey(req.Network)
	if req.Network == "" {
		req.Network = defaultSwapNetwork
	}
	if _, ok := s.tables.Chain(req.Network); !ok {
		return req, fmt.Errorf("%w: %w: %s", apperrors.ErrNotFound, domain.ErrUnknownChain, req.Network)
	}
	return req, nil
}
