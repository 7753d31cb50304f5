package wallet

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	domainService "swapbridge/internal/domain/service"
	"swapbridge/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.WalletProvider = (*KeyProvider)(nil)

// AddChainParams is the wallet_addEthereumChain parameter object.
type AddChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls,omitempty"`
}

// NativeCurrency describes a chain's gas token for wallet_addEthereumChain.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// SwitchChainParams is the wallet_switchEthereumChain parameter object.
type SwitchChainParams struct {
	ChainID string `json:"chainId"`
}

// KeyProvider is an in-process wallet backed by a single secp256k1 key. It
// knows mainnet up front; other chains must be added before switching.
type KeyProvider struct {
	key     *ecdsa.PrivateKey
	address common.Address

	mu      sync.Mutex
	chainID uint64
	known   map[uint64]struct{}
	closed  bool

	subs   *subscribers
	logger *zap.Logger
}

// NewKeyProvider loads a hex private key (with or without 0x).
func NewKeyProvider(hexKey string, logger *zap.Logger) (*KeyProvider, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid wallet private key: %v", apperrors.ErrInvalidInput, err)
	}
	return newKeyProvider(key, logger), nil
}

// GenerateKeyProvider creates a provider with a fresh random key.
func GenerateKeyProvider(logger *zap.Logger) (*KeyProvider, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate wallet key: %v", apperrors.ErrInternal, err)
	}
	return newKeyProvider(key, logger), nil
}

func newKeyProvider(key *ecdsa.PrivateKey, logger *zap.Logger) *KeyProvider {
	return &KeyProvider{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainID: 1,
		known:   map[uint64]struct{}{1: {}},
		subs:    newSubscribers(),
		logger:  logger.Named("KeyWalletProvider"),
	}
}

// Address returns the account the provider signs for.
func (p *KeyProvider) Address() common.Address {
	return p.address
}

// Request handles the subset of EIP-1193 methods the wallet service uses.
func (p *KeyProvider) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: wallet request %s: %v", apperrors.ErrTimeout, method, err)
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, &domainService.ProviderError{Code: domainService.CodeDisconnected, Message: errProviderClosed.Error()}
	}

	p.logger.Debug("Handling wallet request", zap.String("method", method))

	switch method {
	case "eth_requestAccounts", "eth_accounts":
		return json.Marshal([]string{p.address.Hex()})
	case "eth_chainId":
		p.mu.Lock()
		id := p.chainID
		p.mu.Unlock()
		return json.Marshal(hexutil.EncodeUint64(id))
	case "wallet_switchEthereumChain":
		return p.switchChain(params)
	case "wallet_addEthereumChain":
		return p.addChain(params)
	case "personal_sign":
		return p.personalSign(params)
	default:
		return nil, &domainService.ProviderError{
			Code:    domainService.CodeUnsupportedMethod,
			Message: "unsupported method " + method,
		}
	}
}

// Subscribe registers fn for a provider event.
func (p *KeyProvider) Subscribe(event string, fn func(json.RawMessage)) func() {
	return p.subs.add(event, fn)
}

// Close disconnects the provider and notifies subscribers.
func (p *KeyProvider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.subs.emit(domainService.EventDisconnect, json.RawMessage(`null`))
	return nil
}

func (p *KeyProvider) switchChain(params []any) (json.RawMessage, error) {
	var req SwitchChainParams
	if err := decodeFirstParam(params, &req); err != nil {
		return nil, err
	}
	id, err := hexutil.DecodeUint64(req.ChainID)
	if err != nil {
		return nil, invalidParams(err)
	}

	p.mu.Lock()
	if _, ok := p.known[id]; !ok {
		p.mu.Unlock()
		return nil, &domainService.ProviderError{
			Code:    domainService.CodeChainNotAdded,
			Message: fmt.Sprintf("Unrecognized chain ID %q", req.ChainID),
		}
	}
	changed := p.chainID != id
	p.chainID = id
	p.mu.Unlock()

	if changed {
		payload, _ := json.Marshal(hexutil.EncodeUint64(id))
		p.subs.emit(domainService.EventChainChanged, payload)
	}
	return json.RawMessage(`null`), nil
}

func (p *KeyProvider) addChain(params []any) (json.RawMessage, error) {
	var req AddChainParams
	if err := decodeFirstParam(params, &req); err != nil {
		return nil, err
	}
	id, err := hexutil.DecodeUint64(req.ChainID)
	if err != nil {
		return nil, invalidParams(err)
	}
	if len(req.RPCURLs) == 0 {
		return nil, invalidParams(fmt.Errorf("rpcUrls is required"))
	}

	p.mu.Lock()
	p.known[id] = struct{}{}
	p.mu.Unlock()

	p.logger.Info("Added chain to wallet", zap.Uint64("chainId", id), zap.String("name", req.ChainName))
	return json.RawMessage(`null`), nil
}

func (p *KeyProvider) personalSign(params []any) (json.RawMessage, error) {
	if len(params) < 1 {
		return nil, invalidParams(fmt.Errorf("personal_sign needs a message"))
	}
	message, ok := params[0].(string)
	if !ok {
		return nil, invalidParams(fmt.Errorf("message must be a string"))
	}
	if len(params) > 1 {
		if from, ok := params[1].(string); ok && !strings.EqualFold(from, p.address.Hex()) {
			return nil, &domainService.ProviderError{
				Code:    domainService.CodeUnauthorized,
				Message: "unknown account " + from,
			}
		}
	}

	payload, err := domainService.PersonalSignPayload(message)
	if err != nil {
		return nil, invalidParams(err)
	}
	sig, err := crypto.Sign(accounts.TextHash(payload), p.key)
	if err != nil {
		return nil, &domainService.ProviderError{Code: domainService.CodeInternalRPCFailure, Message: err.Error()}
	}
	sig[crypto.RecoveryIDOffset] += 27
	return json.Marshal(hexutil.Encode(sig))
}

// decodeFirstParam round-trips params[0] through JSON into out so that both
// typed structs and map literals are accepted.
func decodeFirstParam(params []any, out any) error {
	if len(params) == 0 {
		return invalidParams(fmt.Errorf("missing parameter object"))
	}
	raw, err := json.Marshal(params[0])
	if err != nil {
		return invalidParams(err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return invalidParams(err)
	}
	return nil
}

func invalidParams(err error) error {
	return &domainService.ProviderError{Code: -32602, Message: err.Error()}
}
