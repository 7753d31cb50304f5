package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"swapbridge/internal/adapter/wallet"
	"swapbridge/internal/application"
	"swapbridge/internal/application/port"
	"swapbridge/internal/domain"
	"swapbridge/internal/domain/entity"
	domainService "swapbridge/internal/domain/service"
	"swapbridge/internal/pkg/apperrors"
	"swapbridge/internal/registry"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type stubChains struct{}

func (stubChains) ListChains(context.Context) []entity.Chain {
	return []entity.Chain{{Key: "ethereum", ChainID: 1, Name: "Ethereum", Enabled: true}}
}

func (stubChains) ListAllChains(ctx context.Context) []entity.Chain {
	return append(stubChains{}.ListChains(ctx), entity.Chain{Key: "fantom", ChainID: 250, Name: "Fantom"})
}

func (stubChains) ListTokens(context.Context) []entity.Token {
	return []entity.Token{{Symbol: "USDC", Name: "USD Coin", Decimals: 6}}
}

func (stubChains) CheckChainRPC(context.Context, int64) (entity.RPCHealth, error) {
	return entity.RPCHealth{}, nil
}

type stubBridge struct {
	feeErr error
}

func (s stubBridge) EstimateTime(_ context.Context, source, destination string) (entity.TimeEstimate, error) {
	if source == destination {
		return entity.TimeEstimate{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, domain.ErrSameChain)
	}
	return entity.TimeEstimate{Min: 15, Max: 17}, nil
}

func (s stubBridge) Fee(context.Context, port.BridgeRequest) (entity.FeeQuote, error) {
	if s.feeErr != nil {
		return entity.FeeQuote{Fee: "9.50", Token: "USDC", USD: 9.5, Availability: entity.AvailabilityFallback}, s.feeErr
	}
	return entity.FeeQuote{Fee: "0.45", Token: "USDC", USD: 0.45, Availability: entity.AvailabilityLive}, nil
}

func (s stubBridge) Quote(ctx context.Context, req port.BridgeRequest) (entity.BridgeQuote, error) {
	est, err := s.EstimateTime(ctx, req.Source, req.Destination)
	if err != nil {
		return entity.BridgeQuote{}, err
	}
	fee, err := s.Fee(ctx, req)
	return entity.BridgeQuote{Source: req.Source, Destination: req.Destination, Token: "USDC", Time: est, Fee: fee}, err
}

func (s stubBridge) BuildMessage(source, destination string) string {
	return "Mock Bridge Transaction\n\nBridge USDC from " + source + " to " + destination
}

type stubSwap struct{}

func (stubSwap) Quote(_ context.Context, req port.SwapRequest) (entity.SwapQuote, error) {
	return entity.SwapQuote{
		Network:      req.Network,
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
		AmountIn:     "1",
		AmountOut:    "1900.00",
		Rate:         "1900.00",
		ExpiresAt:    time.Now().Add(30 * time.Minute),
		Availability: entity.AvailabilityLive,
	}, nil
}

func (stubSwap) BuildMessage(amount float64, tokenIn, tokenOut string) string {
	return fmt.Sprintf("Mock Swap Transaction\n\nSwap %g %s for %s", amount, tokenIn, tokenOut)
}

type stubHistory struct {
	total   int
	offsets []int
}

func (s *stubHistory) Page(_ context.Context, req entity.PageRequest) (entity.TransactionPage, error) {
	s.offsets = append(s.offsets, req.Offset)
	n := min(req.Limit, max(s.total-req.Offset, 0))
	txs := make([]entity.Transaction, n)
	for i := range txs {
		txs[i] = entity.Transaction{ID: fmt.Sprint(req.Offset + i), TxHash: "0xabc", Status: "completed"}
	}
	return entity.TransactionPage{
		Transactions: txs,
		Limit:        req.Limit,
		Offset:       req.Offset,
		HasMore:      n == req.Limit,
		NextOffset:   req.Offset + n,
		Availability: entity.AvailabilityLive,
	}, nil
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	key, err := wallet.GenerateKeyProvider(zap.NewNop())
	require.NoError(t, err)

	return &App{
		Chains:  stubChains{},
		Bridge:  stubBridge{},
		Swap:    stubSwap{},
		History: &stubHistory{},
		OpenWallet: func(context.Context, string) (port.WalletService, error) {
			return application.NewWalletService(key, registry.Default(), 1, zap.NewNop()), nil
		},
	}
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(app)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestChainsCommand(t *testing.T) {
	out, err := run(t, newTestApp(t), "chains", "--json")
	require.NoError(t, err)
	var chains []entity.Chain
	require.NoError(t, json.Unmarshal([]byte(out), &chains))
	assert.Len(t, chains, 1)

	out, err = run(t, newTestApp(t), "chains", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Fantom")
	assert.Contains(t, out, "(disabled)")
}

func TestBridgeQuoteCommand(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		out, err := run(t, newTestApp(t), "bridge", "quote", "ethereum", "polygon")
		require.NoError(t, err)
		assert.Contains(t, out, "Estimated time: 16 mins")
		assert.Contains(t, out, "0.45 USDC")
		assert.NotContains(t, out, "placeholder")
	})

	t.Run("fallback", func(t *testing.T) {
		app := newTestApp(t)
		app.Bridge = stubBridge{feeErr: fmt.Errorf("%w: axelar down", apperrors.ErrExternalServiceFailure)}

		out, err := run(t, app, "bridge", "quote", "ethereum", "polygon")
		require.NoError(t, err)
		assert.Contains(t, out, "9.50 USDC")
		assert.Contains(t, out, "Fee estimate unavailable, showing placeholder")
	})

	t.Run("same chain", func(t *testing.T) {
		_, err := run(t, newTestApp(t), "bridge", "quote", "ethereum", "ethereum")
		assert.True(t, errors.Is(err, domain.ErrSameChain))
	})
}

func TestHistoryCommand_LoadMore(t *testing.T) {
	app := newTestApp(t)
	history := &stubHistory{total: 5}
	app.History = history

	out, err := run(t, app, "history", "--limit", "2", "--pages", "5")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4}, history.offsets)
	assert.Contains(t, out, "Showing 5 transfers")
	assert.NotContains(t, out, "More transfers available")

	history = &stubHistory{total: 10}
	app.History = history
	out, err = run(t, app, "history", "--limit", "2", "--pages", "2")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, history.offsets)
	assert.Contains(t, out, "rerun with --pages 3")
}

func TestSwapCommand_Sign(t *testing.T) {
	out, err := run(t, newTestApp(t), "swap", "1", "ETH", "USDC", "--sign", "--json")
	require.NoError(t, err)

	// the quote and the signature are printed as two JSON documents
	dec := json.NewDecoder(bytes.NewReader([]byte(out)))
	var quote entity.SwapQuote
	require.NoError(t, dec.Decode(&quote))
	assert.Equal(t, "1900.00", quote.AmountOut)

	var res signResult
	require.NoError(t, dec.Decode(&res))
	assert.Equal(t, int64(1), res.ChainID)
	assert.Equal(t, "Mock Swap Transaction\n\nSwap 1 ETH for USDC", res.Message)

	valid, err := domainService.VerifyPersonalSignature(res.Message, res.Signature, res.Account)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestSignCommand_NoWallet(t *testing.T) {
	app := newTestApp(t)
	app.OpenWallet = func(context.Context, string) (port.WalletService, error) {
		return application.NewWalletService(nil, registry.Default(), 1, zap.NewNop()), nil
	}

	_, err := run(t, app, "sign", "hello")
	assert.True(t, errors.Is(err, domain.ErrWalletNotInstalled), "got %v", err)
}

func TestVerifyCommand(t *testing.T) {
	out, err := run(t, newTestApp(t), "sign", "hello", "--json")
	require.NoError(t, err)
	var res signResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))

	out, err = run(t, newTestApp(t), "verify", "hello", res.Signature, res.Account)
	require.NoError(t, err)
	assert.Contains(t, out, "Signature is valid")

	_, err = run(t, newTestApp(t), "verify", "hello", "0x12", res.Account)
	assert.True(t, errors.Is(err, domain.ErrInvalidSignature))
}
