package service

import (
	"context"
	"encoding/json"
	"fmt"
)

// EIP-1193 provider error codes.
const (
	CodeUserRejected       = 4001
	CodeUnauthorized       = 4100
	CodeUnsupportedMethod  = 4200
	CodeDisconnected       = 4900
	CodeChainNotAdded      = 4902
	CodeInternalRPCFailure = -32603
)

// Provider events.
const (
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
	EventDisconnect      = "disconnect"
)

// WalletProvider is an EIP-1193 style wallet: JSON-RPC requests plus event subscriptions.
type WalletProvider interface {
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
	Subscribe(event string, fn func(payload json.RawMessage)) (unsubscribe func())
	Close() error
}

// ProviderError is an error returned by a wallet provider, carrying its EIP-1193 code.
type ProviderError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("wallet error %d: %s", e.Code, e.Message)
}
