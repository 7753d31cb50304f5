package service

import (
	"context"
	"time"

	"swapbridge/internal/domain/entity"
)

// RPCChecker probes a chain RPC endpoint and reports the chain id it serves.
type RPCChecker interface {
	CheckRPC(ctx context.Context, rpcURL entity.RPCURL) (chainID int64, latency time.Duration, err error)
}
