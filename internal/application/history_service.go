package application

import (
	"context"
	"fmt"
	"strings"

	"swapbridge/internal/application/port"
	"swapbridge/internal/domain/entity"
	domainRepo "swapbridge/internal/domain/repository"
	"swapbridge/internal/metrics"
	"swapbridge/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// Compile-time check
var _ port.HistoryService = (*historyService)(nil)

// Page size bounds.
const (
	DefaultPageLimit = 5
	MaxPageLimit     = 100
)

type historyService struct {
	txs     domainRepo.TransactionRepository
	queries *QueryLoader
	logger  *zap.Logger
}

// NewHistoryService creates the transfer history service.
func NewHistoryService(txs domainRepo.TransactionRepository, queries *QueryLoader, logger *zap.Logger) port.HistoryService {
	return &historyService{
		txs:     txs,
		queries: queries,
		logger:  logger.Named("HistoryService"),
	}
}

// Page fetches one page of transfers. On failure it returns an empty page
// tagged fallback together with the error.
func (s *historyService) Page(ctx context.Context, req entity.PageRequest) (entity.TransactionPage, error) {
	req, err := normalizePageRequest(req)
	if err != nil {
		return entity.TransactionPage{}, err
	}

	key := QueryKey("transactions", fmt.Sprint(req.Limit), fmt.Sprint(req.Offset), req.Address)
	txs, err := Load(ctx, s.queries, "transactions", key, func(ctx context.Context) ([]entity.Transaction, error) {
		return s.txs.SearchTransfers(ctx, req)
	})
	if err != nil {
		metrics.FallbacksTotal.WithLabelValues("transactions").Inc()
		s.logger.Error("Transfer history unavailable",
			zap.Int("limit", req.Limit), zap.Int("offset", req.Offset), zap.Error(err),
		)
		return entity.TransactionPage{
			Transactions: []entity.Transaction{},
			Limit:        req.Limit,
			Offset:       req.Offset,
			NextOffset:   req.Offset,
			Availability: entity.AvailabilityFallback,
		}, wrapUpstream(err, "transfer history")
	}

	if txs == nil {
		txs = []entity.Transaction{}
	}
	return entity.TransactionPage{
		Transactions: txs,
		Limit:        req.Limit,
		Offset:       req.Offset,
		HasMore:      len(txs) == req.Limit,
		NextOffset:   req.Offset + len(txs),
		Availability: entity.AvailabilityLive,
	}, nil
}

func normalizePageRequest(req entity.PageRequest) (entity.PageRequest, error) {
	if req.Limit < 0 || req.Offset < 0 {
		return req, fmt.Errorf("%w: limit and offset must not be negative", apperrors.ErrInvalidInput)
	}
	if req.Limit == 0 {
		req.Limit = DefaultPageLimit
	}
	req.Limit = min(req.Limit, MaxPageLimit)
	req.Address = strings.TrimSpace(req.Address)
	return req, nil
}

// Pager accumulates history pages for "load more" style browsing. It is not
// safe for concurrent use; pages load one after another.
type Pager struct {
	history port.HistoryService
	limit   int
	address string
	offset  int
	done    bool
	loaded  []entity.Transaction
}

// NewPager starts a pager at offset 0.
func NewPager(history port.HistoryService, limit int, address string) *Pager {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	return &Pager{history: history, limit: min(limit, MaxPageLimit), address: address}
}

// Next loads the following page and appends it. It returns false once a short
// page has been seen. A failed load leaves the pager where it was.
func (p *Pager) Next(ctx context.Context) (entity.TransactionPage, bool, error) {
	if p.done {
		return entity.TransactionPage{}, false, nil
	}
	page, err := p.history.Page(ctx, entity.PageRequest{Limit: p.limit, Offset: p.offset, Address: p.address})
	if err != nil {
		return page, true, err
	}
	p.loaded = append(p.loaded, page.Transactions...)
	p.offset += page.Limit
	p.done = !page.HasMore
	return page, !p.done, nil
}

// Transactions returns everything loaded so far.
func (p *Pager) Transactions() []entity.Transaction {
	return p.loaded
}

// HasMore reports whether another page may exist.
func (p *Pager) HasMore() bool {
	return !p.done
}

var statusLabels = map[string]string{
	"completed":  "Completed",
	"pending":    "Pending",
	"failed":     "Failed",
	"confirming": "Confirming",
	"confirmed":  "Confirmed",
	"executing":  "Executing",
}

// FormatTransactionStatus renders known statuses in title case and passes others through.
func FormatTransactionStatus(status string) string {
	if label, ok := statusLabels[strings.ToLower(status)]; ok {
		return label
	}
	return status
}
