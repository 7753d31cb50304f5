package axelarscan

import (
	"context"
	"strings"
	"time"

	dto "swapbridge/internal/adapter/axelarscan/dto"
	"swapbridge/internal/adapter/upstream"
	"swapbridge/internal/config"
	"swapbridge/internal/domain/entity"
	domainRepo "swapbridge/internal/domain/repository"
	"swapbridge/internal/pkg/ratelimit"

	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.TransactionRepository = (*Repository)(nil)

const serviceName = "axelarscan"

// Repository implements TransactionRepository against the axelarscan token transfer API.
type Repository struct {
	client      *upstream.Client
	searchURL   string
	explorerURL string
	window      time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// NewRepository creates a new axelarscan transaction repository.
func NewRepository(cfg config.AxelarscanConfig, logger *zap.Logger) *Repository {
	window := cfg.Window
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	limiter := ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateBurst, serviceName)
	return &Repository{
		client:      upstream.NewClient(serviceName, cfg.Timeout, limiter, logger),
		searchURL:   strings.TrimRight(cfg.APIURL, "/") + "/token/searchTransfers",
		explorerURL: cfg.ExplorerURL,
		window:      window,
		now:         time.Now,
		logger:      logger.Named("AxelarscanStorage"),
	}
}

// SearchTransfers fetches one page of transfers from the configured look-back window.
func (r *Repository) SearchTransfers(ctx context.Context, req entity.PageRequest) ([]entity.Transaction, error) {
	now := r.now()
	body := dto.SearchTransfersRequestRaw{
		FromTime: now.Add(-r.window).Unix(),
		ToTime:   now.Unix(),
		Size:     req.Limit,
		From:     req.Offset,
		Address:  req.Address,
	}

	var resp dto.SearchTransfersResponseRaw
	if err := r.client.PostJSON(ctx, r.searchURL, body, &resp); err != nil {
		return nil, err
	}

	txs := make([]entity.Transaction, 0, len(resp.Data))
	for _, raw := range resp.Data {
		txs = append(txs, toDomainTransaction(raw, r.explorerURL, now))
	}

	r.logger.Debug("Fetched transfers",
		zap.Int("offset", req.Offset),
		zap.Int("limit", req.Limit),
		zap.Int("count", len(txs)),
		zap.Int("total", resp.Total),
	)
	return txs, nil
}
