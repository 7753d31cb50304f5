package repository

import (
	"context"

	"swapbridge/internal/domain/entity"
)

// TransactionRepository reads cross-chain transfer history.
type TransactionRepository interface {
	// SearchTransfers returns up to req.Limit transfers starting at req.Offset.
	SearchTransfers(ctx context.Context, req entity.PageRequest) ([]entity.Transaction, error)
}
