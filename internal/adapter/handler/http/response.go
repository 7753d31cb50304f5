package http

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"swapbridge/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 20 * time.Second

type errorResponse struct {
	Error string `json:"error"`
}

// resultResponse wraps results that may be placeholders. Available is false
// when Data is a fallback served because an upstream failed.
type resultResponse struct {
	Data      any    `json:"data"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

// requestContext detaches service calls from the fasthttp.RequestCtx, which
// is recycled once the handler returns while shared loads may still run.
func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func writeJSON(ctx *fasthttp.RequestCtx, logger *zap.Logger, status int, v any) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func writeError(ctx *fasthttp.RequestCtx, logger *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status == fasthttp.StatusInternalServerError {
		message = fasthttp.StatusMessage(status)
	}

	if status >= fasthttp.StatusInternalServerError {
		logger.Error("Request failed", zap.ByteString("uri", ctx.RequestURI()), zap.Int("status", status), zap.Error(err))
	} else {
		logger.Debug("Request rejected", zap.ByteString("uri", ctx.RequestURI()), zap.Int("status", status), zap.Error(err))
	}
	writeJSON(ctx, logger, status, errorResponse{Error: message})
}

// writeResult answers 200 for live results and for fallbacks, and maps any
// other error to its status code.
func writeResult(ctx *fasthttp.RequestCtx, logger *zap.Logger, data any, fallback bool, err error) {
	if err != nil && !fallback {
		writeError(ctx, logger, err)
		return
	}

	resp := resultResponse{Data: data, Available: err == nil}
	if err != nil {
		resp.Error = err.Error()
		logger.Warn("Serving fallback result", zap.ByteString("uri", ctx.RequestURI()), zap.Error(err))
	}
	writeJSON(ctx, logger, fasthttp.StatusOK, resp)
}

func queryString(ctx *fasthttp.RequestCtx, name string) string {
	return strings.TrimSpace(string(ctx.QueryArgs().Peek(name)))
}

func queryFloat(ctx *fasthttp.RequestCtx, name string) (float64, error) {
	raw := queryString(ctx, name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", apperrors.ErrInvalidInput, name)
	}
	return v, nil
}

func queryInt(ctx *fasthttp.RequestCtx, name string) (int, error) {
	raw := queryString(ctx, name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", apperrors.ErrInvalidInput, name)
	}
	return v, nil
}

func pathString(ctx *fasthttp.RequestCtx, name string) (string, error) {
	v, ok := ctx.UserValue(name).(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: missing %s", apperrors.ErrInvalidInput, name)
	}
	return v, nil
}
