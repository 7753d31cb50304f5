package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"swapbridge/internal/adapter/axelar"
	"swapbridge/internal/adapter/axelarscan"
	delivery "swapbridge/internal/adapter/delivery/http"
	handler "swapbridge/internal/adapter/handler/http"
	"swapbridge/internal/adapter/rpc"
	"swapbridge/internal/adapter/storage/memory"
	"swapbridge/internal/adapter/subgraph"
	"swapbridge/internal/application"
	"swapbridge/internal/config"
	"swapbridge/internal/logger"
	"swapbridge/internal/registry"
)

func main() {
	// --- Configuration ---
	cfgPath := "configs"
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}

	// --- Logger ---
	appLogger, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer appLogger.Sync()
	appLogger.Info("Logger initialized", zap.Any("config", cfg.Logger))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Dependency Injection (Manual) ---
	appLogger.Info("Initializing dependencies...")

	reg := registry.Default()

	// Repositories & Checker
	feeRepo := axelar.NewRepository(cfg.Axelar, appLogger)
	txRepo := axelarscan.NewRepository(cfg.Axelarscan, appLogger)
	poolRepo := subgraph.NewRepository(cfg.Subgraph, appLogger)
	cacheRepo := memory.NewCacheRepository(cfg.Cache, appLogger)
	rpcChecker := rpc.NewChecker(cfg.Checker.GetTimeout(), appLogger)

	// Services
	queries := application.NewQueryLoader(cacheRepo, cfg.Retry, appLogger)
	feeResolver := application.NewFeeResolver(feeRepo, reg, cfg.Axelar.GasLimit, appLogger)

	chainService := application.NewChainService(rootCtx, reg, cacheRepo, rpcChecker, appLogger, cfg.Checker)
	bridgeService := application.NewBridgeService(reg, feeResolver, queries, appLogger)
	poolService := application.NewPoolService(poolRepo, reg, queries, appLogger)
	swapService := application.NewSwapService(reg, poolService, appLogger)
	historyService := application.NewHistoryService(txRepo, queries, appLogger)

	// Handlers
	timeout := cfg.Server.RequestTimeout
	handlers := delivery.Handlers{
		Chains:  handler.NewChainHandler(chainService, timeout, appLogger),
		Quotes:  handler.NewQuoteHandler(bridgeService, swapService, poolService, timeout, appLogger),
		History: handler.NewHistoryHandler(historyService, timeout, appLogger),
	}

	// --- HTTP Router & Server ---
	appLogger.Info("Setting up HTTP router...")
	r := router.New()
	delivery.RegisterRoutes(r, handlers, appLogger)

	server := &fasthttp.Server{
		Handler: delivery.Middleware(r.Handler, appLogger),
		Name:    cfg.App.Name,
	}

	serverAddr := ":" + cfg.Server.Port
	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", serverAddr))
		errCh <- server.ListenAndServe(serverAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	case <-rootCtx.Done():
		appLogger.Info("Shutting down HTTP server", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
	appLogger.Info("Server stopped")
}
