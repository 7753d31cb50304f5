package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"swapbridge/internal/application/port"
	"swapbridge/internal/domain"
	"swapbridge/internal/domain/entity"
	domainRepo "swapbridge/internal/domain/repository"
	domainService "swapbridge/internal/domain/service"
	"swapbridge/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Compile-time check
var _ port.WalletService = (*walletService)(nil)

type walletService struct {
	provider     domainService.WalletProvider
	registry     domainRepo.ChainRegistry
	defaultChain int64
	logger       *zap.Logger

	mu        sync.RWMutex
	state     entity.WalletState
	listeners map[int]func([]string)
	nextID    int
	unsubs    []func()
}

// NewWalletService wraps provider. A nil provider yields a service whose
// operations fail with domain.ErrWalletNotInstalled.
func NewWalletService(
	provider domainService.WalletProvider,
	registry domainRepo.ChainRegistry,
	defaultChain int64,
	logger *zap.Logger,
) port.WalletService {
	if defaultChain == 0 {
		defaultChain = 1
	}
	s := &walletService{
		provider:     provider,
		registry:     registry,
		defaultChain: defaultChain,
		logger:       logger.Named("WalletService"),
		listeners:    make(map[int]func([]string)),
	}
	if provider != nil {
		s.unsubs = []func(){
			provider.Subscribe(domainService.EventAccountsChanged, s.handleAccountsChanged),
			provider.Subscribe(domainService.EventChainChanged, s.handleChainChanged),
			provider.Subscribe(domainService.EventDisconnect, s.handleDisconnect),
		}
	}
	return s
}

// Connect requests account access and moves the wallet to the default chain when it is elsewhere.
func (s *walletService) Connect(ctx context.Context) (entity.WalletState, error) {
	if s.provider == nil {
		return s.fail(domain.ErrWalletNotInstalled)
	}

	raw, err := s.provider.Request(ctx, "eth_requestAccounts")
	if err != nil {
		return s.fail(mapProviderError(err))
	}
	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil || len(accounts) == 0 {
		return s.fail(fmt.Errorf("%w: wallet returned no accounts", apperrors.ErrExternalServiceFailure))
	}

	chainID, err := s.chainID(ctx)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.state = entity.WalletState{Account: accounts[0], ChainID: chainID, Connected: true}
	s.mu.Unlock()
	s.logger.Info("Wallet connected", zap.String("account", accounts[0]), zap.Int64("chainId", chainID))

	if chainID != s.defaultChain {
		if err := s.SwitchNetwork(ctx, s.defaultChain); err != nil {
			return s.State(), err
		}
	}
	return s.State(), nil
}

// Disconnect clears the local session. The provider stays open for a later Connect.
func (s *walletService) Disconnect() error {
	s.reset()
	s.logger.Info("Wallet disconnected")
	return nil
}

func (s *walletService) State() entity.WalletState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SwitchNetwork asks the wallet to change chain, adding it from the registry
// when the wallet does not know it yet.
func (s *walletService) SwitchNetwork(ctx context.Context, chainID int64) error {
	if s.provider == nil {
		_, err := s.fail(domain.ErrWalletNotInstalled)
		return err
	}

	hexID := hexutil.EncodeUint64(uint64(chainID))
	_, err := s.provider.Request(ctx, "wallet_switchEthereumChain", map[string]string{"chainId": hexID})
	if err != nil {
		var perr *domainService.ProviderError
		if !errors.As(err, &perr) || perr.Code != domainService.CodeChainNotAdded {
			_, ferr := s.fail(mapProviderError(err))
			return ferr
		}

		chain, ok := s.registry.ChainByID(chainID)
		if !ok {
			_, ferr := s.fail(fmt.Errorf("%w: chain id %d", domain.ErrChainNotAdded, chainID))
			return ferr
		}
		s.logger.Info("Adding chain to wallet", zap.String("chain", chain.Key), zap.Int64("chainId", chainID))
		if _, err := s.provider.Request(ctx, "wallet_addEthereumChain", addChainParams(chain)); err != nil {
			_, ferr := s.fail(mapProviderError(err))
			return ferr
		}
		if _, err := s.provider.Request(ctx, "wallet_switchEthereumChain", map[string]string{"chainId": hexID}); err != nil {
			_, ferr := s.fail(mapProviderError(err))
			return ferr
		}
	}

	s.mu.Lock()
	s.state.ChainID = chainID
	s.state.LastError = ""
	s.mu.Unlock()
	return nil
}

// SignMessage asks the connected account to personal_sign message.
func (s *walletService) SignMessage(ctx context.Context, message string) (string, error) {
	if s.provider == nil {
		_, err := s.fail(domain.ErrWalletNotInstalled)
		return "", err
	}
	account := s.State().Account
	if account == "" {
		return "", domain.ErrWalletNotConnected
	}

	raw, err := s.provider.Request(ctx, "personal_sign", hexutil.Encode([]byte(message)), account)
	if err != nil {
		_, ferr := s.fail(mapProviderError(err))
		return "", ferr
	}
	var signature string
	if err := json.Unmarshal(raw, &signature); err != nil {
		return "", fmt.Errorf("%w: wallet returned a malformed signature", apperrors.ErrExternalServiceFailure)
	}
	s.logger.Debug("Message signed", zap.String("account", account))
	return signature, nil
}

// OnAccountsChanged registers fn for account changes reported by the wallet.
func (s *walletService) OnAccountsChanged(fn func(accounts []string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Close detaches from the provider and closes it.
func (s *walletService) Close() error {
	for _, unsub := range s.unsubs {
		unsub()
	}
	if s.provider == nil {
		return nil
	}
	return s.provider.Close()
}

func (s *walletService) chainID(ctx context.Context) (int64, error) {
	raw, err := s.provider.Request(ctx, "eth_chainId")
	if err != nil {
		return 0, mapProviderError(err)
	}
	var hexID string
	if err := json.Unmarshal(raw, &hexID); err != nil {
		return 0, fmt.Errorf("%w: wallet returned a malformed chain id", apperrors.ErrExternalServiceFailure)
	}
	id, err := hexutil.DecodeUint64(hexID)
	if err != nil {
		return 0, fmt.Errorf("%w: wallet returned a malformed chain id %q", apperrors.ErrExternalServiceFailure, hexID)
	}
	return int64(id), nil
}

func (s *walletService) handleAccountsChanged(payload json.RawMessage) {
	var accounts []string
	if err := json.Unmarshal(payload, &accounts); err != nil {
		s.logger.Warn("Malformed accountsChanged payload", zap.Error(err))
		return
	}

	s.mu.Lock()
	if len(accounts) == 0 {
		s.state = entity.WalletState{}
	} else {
		s.state.Account = accounts[0]
		s.state.Connected = true
	}
	listeners := make([]func([]string), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	s.logger.Info("Wallet accounts changed", zap.Int("count", len(accounts)))
	for _, fn := range listeners {
		fn(accounts)
	}
}

func (s *walletService) handleChainChanged(payload json.RawMessage) {
	var hexID string
	if err := json.Unmarshal(payload, &hexID); err != nil {
		s.logger.Warn("Malformed chainChanged payload", zap.Error(err))
		return
	}
	id, err := hexutil.DecodeUint64(strings.TrimSpace(hexID))
	if err != nil {
		s.logger.Warn("Malformed chain id in chainChanged", zap.String("chainId", hexID))
		return
	}
	s.mu.Lock()
	s.state.ChainID = int64(id)
	s.mu.Unlock()
}

func (s *walletService) handleDisconnect(json.RawMessage) {
	s.reset()
	s.logger.Info("Wallet provider disconnected")
}

func (s *walletService) reset() {
	s.mu.Lock()
	s.state = entity.WalletState{}
	s.mu.Unlock()
}

// fail records err as the last error and returns it.
func (s *walletService) fail(err error) (entity.WalletState, error) {
	s.mu.Lock()
	s.state.LastError = err.Error()
	state := s.state
	s.mu.Unlock()
	s.logger.Warn("Wallet operation failed", zap.Error(err))
	return state, err
}

// mapProviderError translates EIP-1193 codes into domain errors.
func mapProviderError(err error) error {
	var perr *domainService.ProviderError
	if !errors.As(err, &perr) {
		return err
	}
	switch perr.Code {
	case domainService.CodeUserRejected:
		return fmt.Errorf("%w: %s", domain.ErrUserRejected, perr.Message)
	case domainService.CodeChainNotAdded:
		return fmt.Errorf("%w: %s", domain.ErrChainNotAdded, perr.Message)
	case domainService.CodeDisconnected, domainService.CodeUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrWalletNotConnected, perr.Message)
	default:
		return fmt.Errorf("%w: %w", apperrors.ErrExternalServiceFailure, err)
	}
}

func addChainParams(chain entity.Chain) map[string]any {
	params := map[string]any{
		"chainId":   hexutil.EncodeUint64(uint64(chain.ChainID)),
		"chainName": chain.Name,
		"nativeCurrency": map[string]any{
			"name":     chain.NativeCurrency.Name,
			"symbol":   chain.NativeCurrency.Symbol,
			"decimals": chain.NativeCurrency.Decimals,
		},
		"rpcUrls": []string{chain.RPC.String()},
	}
	if chain.Explorer != "" {
		params["blockExplorerUrls"] = []string{chain.Explorer}
	}
	return params
}
