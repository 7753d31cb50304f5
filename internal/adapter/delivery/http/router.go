package http

import (
	"strconv"
	"time"

	handler "swapbridge/internal/adapter/handler/http"
	"swapbridge/internal/metrics"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// Handlers groups the API handlers mounted by RegisterRoutes.
type Handlers struct {
	Chains  *handler.ChainHandler
	Quotes  *handler.QuoteHandler
	History *handler.HistoryHandler
}

// RegisterRoutes sets up the API routes together with health and metrics endpoints.
func RegisterRoutes(r *router.Router, h Handlers, logger *zap.Logger) {
	logger.Info("Setting up application-specific routes...")

	r.GET("/chains", h.Chains.GetChains)
	r.GET("/chains/{chainId}/rpc", h.Chains.GetChainRPC)
	r.GET("/tokens", h.Chains.GetTokens)

	r.GET("/bridge/time", h.Quotes.GetBridgeTime)
	r.GET("/bridge/fee", h.Quotes.GetBridgeFee)
	r.GET("/bridge/quote", h.Quotes.GetBridgeQuote)
	r.GET("/swap/quote", h.Quotes.GetSwapQuote)
	r.GET("/pools/{network}", h.Quotes.GetPool)

	r.GET("/transactions", h.History.GetTransactions)
	r.POST("/signatures/verify", h.History.VerifySignature)

	logger.Info("Setting up health check and metrics routes...")
	r.GET("/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("OK")
	})
	r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))

	logger.Info("All routes registered.")
}

// Middleware tags each request with an X-Request-ID, logs it and counts it
// by method and status.
func Middleware(next fasthttp.RequestHandler, logger *zap.Logger) fasthttp.RequestHandler {
	logger = logger.Named("HTTP")
	return func(ctx *fasthttp.RequestCtx) {
		requestID := string(ctx.Request.Header.Peek(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Response.Header.Set(requestIDHeader, requestID)

		start := time.Now()
		next(ctx)

		status := ctx.Response.StatusCode()
		metrics.APIRequestsTotal.WithLabelValues(string(ctx.Method()), strconv.Itoa(status)).Inc()
		logger.Info("Request handled",
			zap.String("requestId", requestID),
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("uri", ctx.RequestURI()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
