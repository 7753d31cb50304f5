package http

import (
	"time"

	"swapbridge/internal/application/port"
	"swapbridge/internal/domain/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// QuoteHandler serves bridge and swap quotes and pool statistics.
type QuoteHandler struct {
	bridge  port.BridgeService
	swap    port.SwapService
	pools   port.PoolService
	timeout time.Duration
	logger  *zap.Logger
}

func NewQuoteHandler(
	bridge port.BridgeService,
	swap port.SwapService,
	pools port.PoolService,
	timeout time.Duration,
	logger *zap.Logger,
) *QuoteHandler {
	return &QuoteHandler{
		bridge:  bridge,
		swap:    swap,
		pools:   pools,
		timeout: timeout,
		logger:  logger.Named("QuoteHandler"),
	}
}

func bridgeRequest(ctx *fasthttp.RequestCtx) port.BridgeRequest {
	return port.BridgeRequest{
		Source:      queryString(ctx, "source"),
		Destination: queryString(ctx, "destination"),
		Token:       queryString(ctx, "token"),
		Amount:      queryString(ctx, "amount"),
	}
}

// GetBridgeTime handles /bridge/time?source=&destination=.
func (h *QuoteHandler) GetBridgeTime(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := requestContext(h.timeout)
	defer cancel()

	req := bridgeRequest(ctx)
	est, err := h.bridge.EstimateTime(reqCtx, req.Source, req.Destination)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	writeJSON(ctx, h.logger, fasthttp.StatusOK, est)
}

// GetBridgeFee handles /bridge/fee?source=&destination=&token=.
func (h *QuoteHandler) GetBridgeFee(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := requestContext(h.timeout)
	defer cancel()

	quote, err := h.bridge.Fee(reqCtx, bridgeRequest(ctx))
	writeResult(ctx, h.logger, quote, quote.Availability == entity.AvailabilityFallback, err)
}

// GetBridgeQuote handles /bridge/quote, combining the fee and the time estimate.
func (h *QuoteHandler) GetBridgeQuote(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := requestContext(h.timeout)
	defer cancel()

	quote, err := h.bridge.Quote(reqCtx, bridgeRequest(ctx))
	writeResult(ctx, h.logger, quote, quote.Fee.Availability == entity.AvailabilityFallback, err)
}

// GetSwapQuote handles /swap/quote?tokenIn=&tokenOut=&amount=&slippage=&deadline=&network=.
func (h *QuoteHandler) GetSwapQuote(ctx *fasthttp.RequestCtx) {
	amount, err := queryFloat(ctx, "amount")
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	slippage, err := queryFloat(ctx, "slippage")
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	deadline, err := queryInt(ctx, "deadline")
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	reqCtx, cancel := requestContext(h.timeout)
	defer cancel()

	quote, err := h.swap.Quote(reqCtx, port.SwapRequest{
		Network:         queryString(ctx, "network"),
		TokenIn:         queryString(ctx, "tokenIn"),
		TokenOut:        queryString(ctx, "tokenOut"),
		Amount:          amount,
		Slippage:        slippage,
		DeadlineMinutes: deadline,
	})
	writeResult(ctx, h.logger, quote, quote.Availability == entity.AvailabilityFallback, err)
}

// GetPool handles /pools/{network}?address=. Without an address only the ETH
// price is live.
func (h *QuoteHandler) GetPool(ctx *fasthttp.RequestCtx) {
	network, err := pathString(ctx, "network")
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	reqCtx, cancel := requestContext(h.timeout)
	defer cancel()

	snapshot, err := h.pools.FetchPool(reqCtx, network, queryString(ctx, "address"))
	writeResult(ctx, h.logger, snapshot, snapshot.Availability == entity.AvailabilityFallback, err)
}
