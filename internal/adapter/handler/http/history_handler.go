package http

import (
	"encoding/json"
	"fmt"
	"time"

	"swapbridge/internal/application/port"
	"swapbridge/internal/domain"
	"swapbridge/internal/domain/entity"
	domainService "swapbridge/internal/domain/service"
	"swapbridge/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// HistoryHandler serves transfer history and signature verification.
type HistoryHandler struct {
	history port.HistoryService
	timeout time.Duration
	logger  *zap.Logger
}

func NewHistoryHandler(history port.HistoryService, timeout time.Duration, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		timeout: timeout,
		logger:  logger.Named("HistoryHandler"),
	}
}

// GetTransactions handles /transactions?limit=&offset=&address=.
func (h *HistoryHandler) GetTransactions(ctx *fasthttp.RequestCtx) {
	limit, err := queryInt(ctx, "limit")
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	offset, err := queryInt(ctx, "offset")
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	reqCtx, cancel := requestContext(h.timeout)
	defer cancel()

	page, err := h.history.Page(reqCtx, entity.PageRequest{
		Limit:   limit,
		Offset:  offset,
		Address: queryString(ctx, "address"),
	})
	writeResult(ctx, h.logger, page, page.Availability == entity.AvailabilityFallback, err)
}

type verifySignatureRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
	Address   string `json:"address"`
}

type verifySignatureResponse struct {
	Valid  bool   `json:"valid"`
	Signer string `json:"signer"`
}

// VerifySignature checks that an EIP-191 personal_sign signature was made by address.
func (h *HistoryHandler) VerifySignature(ctx *fasthttp.RequestCtx) {
	var req verifySignatureRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, h.logger, fmt.Errorf("%w: body must be a JSON object: %v", apperrors.ErrInvalidInput, err))
		return
	}
	if req.Message == "" || req.Signature == "" || req.Address == "" {
		writeError(ctx, h.logger, fmt.Errorf("%w: message, signature and address are required", apperrors.ErrInvalidInput))
		return
	}

	valid, err := domainService.VerifyPersonalSignature(req.Message, req.Signature, req.Address)
	if err != nil {
		writeError(ctx, h.logger, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err))
		return
	}
	signer, err := domainService.RecoverPersonalSigner(req.Message, req.Signature)
	if err != nil {
		writeError(ctx, h.logger, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, domain.ErrInvalidSignature))
		return
	}

	h.logger.Debug("Verified signature", zap.String("signer", signer.Hex()), zap.Bool("valid", valid))
	writeJSON(ctx, h.logger, fasthttp.StatusOK, verifySignatureResponse{Valid: valid, Signer: signer.Hex()})
}
