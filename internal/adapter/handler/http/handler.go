package http

import (
	"fmt"
	"strconv"
	"time"

	"swapbridge/internal/application/port"
	"swapbridge/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// ChainHandler serves the chain and token catalog.
type ChainHandler struct {
	service port.ChainService
	timeout time.Duration
	logger  *zap.Logger
}

func NewChainHandler(service port.ChainService, timeout time.Duration, logger *zap.Logger) *ChainHandler {
	return &ChainHandler{
		service: service,
		timeout: timeout,
		logger:  logger.Named("ChainHandler"),
	}
}

// GetChains lists the enabled chains, or every known chain with ?all=true.
func (h *ChainHandler) GetChains(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := requestContext(h.timeout)
	defer cancel()

	chains := h.service.ListChains(reqCtx)
	if ctx.QueryArgs().GetBool("all") {
		chains = h.service.ListAllChains(reqCtx)
	}
	writeJSON(ctx, h.logger, fasthttp.StatusOK, chains)
}

// GetChainRPC probes the configured RPC endpoint of one chain.
func (h *ChainHandler) GetChainRPC(ctx *fasthttp.RequestCtx) {
	chainIDStr, err := pathString(ctx, "chainId")
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	chainID, err := strconv.ParseInt(chainIDStr, 10, 64)
	if err != nil {
		h.logger.Debug("Failed to parse chainId", zap.String("chainIdStr", chainIDStr), zap.Error(err))
		writeError(ctx, h.logger, fmt.Errorf("%w: invalid chainId %q", apperrors.ErrInvalidInput, chainIDStr))
		return
	}

	reqCtx, cancel := requestContext(h.timeout)
	defer cancel()

	health, err := h.service.CheckChainRPC(reqCtx, chainID)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	writeJSON(ctx, h.logger, fasthttp.StatusOK, health)
}

// GetTokens lists the supported tokens.
func (h *ChainHandler) GetTokens(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := requestContext(h.timeout)
	defer cancel()

	writeJSON(ctx, h.logger, fasthttp.StatusOK, h.service.ListTokens(reqCtx))
}
