package http

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"swapbridge/internal/adapter/storage/memory"
	"swapbridge/internal/application"
	"swapbridge/internal/application/port"
	"swapbridge/internal/config"
	"swapbridge/internal/domain"
	"swapbridge/internal/domain/entity"
	"swapbridge/internal/pkg/apperrors"
	"swapbridge/internal/registry"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type fakeChainService struct {
	enabled []entity.Chain
	all     []entity.Chain
	health  entity.RPCHealth
	err     error
}

func (f *fakeChainService) ListChains(context.Context) []entity.Chain { return f.enabled }
func (f *fakeChainService) ListAllChains(context.Context) []entity.Chain { return f.all }
func (f *fakeChainService) ListTokens(context.Context) []entity.Token {
	return []entity.Token{{Symbol: "USDC", Name: "USD Coin", Decimals: 6}}
}
func (f *fakeChainService) CheckChainRPC(_ context.Context, chainID int64) (entity.RPCHealth, error) {
	if f.err != nil {
		return entity.RPCHealth{}, f.err
	}
	return f.health, nil
}

type fakeBridgeService struct {
	lastReq port.BridgeRequest
	fee     entity.FeeQuote
	err     error
}

func (f *fakeBridgeService) EstimateTime(_ context.Context, source, destination string) (entity.TimeEstimate, error) {
	if source == destination {
		return entity.TimeEstimate{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, domain.ErrSameChain)
	}
	return entity.TimeEstimate{Min: 15, Max: 17}, nil
}

func (f *fakeBridgeService) Fee(_ context.Context, req port.BridgeRequest) (entity.FeeQuote, error) {
	f.lastReq = req
	return f.fee, f.err
}

func (f *fakeBridgeService) Quote(_ context.Context, req port.BridgeRequest) (entity.BridgeQuote, error) {
	f.lastReq = req
	return entity.BridgeQuote{Source: req.Source, Destination: req.Destination, Fee: f.fee}, f.err
}

func (f *fakeBridgeService) BuildMessage(source, destination string) string { return "" }

type fakeSwapService struct {
	lastReq port.SwapRequest
}

func (f *fakeSwapService) Quote(_ context.Context, req port.SwapRequest) (entity.SwapQuote, error) {
	f.lastReq = req
	return entity.SwapQuote{TokenIn: req.TokenIn, TokenOut: req.TokenOut, Availability: entity.AvailabilityLive}, nil
}

func (f *fakeSwapService) BuildMessage(float64, string, string) string { return "" }

type fakePoolService struct {
	network, address string
}

func (f *fakePoolService) FetchPool(_ context.Context, network, address string) (entity.PoolSnapshot, error) {
	f.network, f.address = network, address
	return entity.PoolSnapshot{EthPriceUSD: "1900", Availability: entity.AvailabilityLive}, nil
}

type fakeHistoryService struct {
	lastReq entity.PageRequest
	err     error
}

func (f *fakeHistoryService) Page(_ context.Context, req entity.PageRequest) (entity.TransactionPage, error) {
	f.lastReq = req
	if f.err != nil {
		return entity.TransactionPage{Transactions: []entity.Transaction{}, Availability: entity.AvailabilityFallback}, f.err
	}
	return entity.TransactionPage{Limit: req.Limit, Availability: entity.AvailabilityLive}, nil
}

func newRequest(method, uri string, body []byte) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func decodeResult(t *testing.T, ctx *fasthttp.RequestCtx) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &out))
	return out
}

func TestChainHandler_GetChains(t *testing.T) {
	svc := &fakeChainService{
		enabled: []entity.Chain{{Key: "ethereum", ChainID: 1}},
		all:     []entity.Chain{{Key: "ethereum", ChainID: 1}, {Key: "fantom", ChainID: 250}},
	}
	h := NewChainHandler(svc, 0, zap.NewNop())

	ctx := newRequest(fasthttp.MethodGet, "/chains", nil)
	h.GetChains(ctx)
	var chains []entity.Chain
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &chains))
	assert.Len(t, chains, 1)

	ctx = newRequest(fasthttp.MethodGet, "/chains?all=true", nil)
	h.GetChains(ctx)
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &chains))
	assert.Len(t, chains, 2)
}

func TestChainHandler_GetChainRPC(t *testing.T) {
	tests := []struct {
		name       string
		chainID    string
		err        error
		wantStatus int
	}{
		{"ok", "1", nil, fasthttp.StatusOK},
		{"not a number", "abc", nil, fasthttp.StatusBadRequest},
		{"unknown chain", "999", fmt.Errorf("%w: %w", apperrors.ErrNotFound, domain.ErrUnknownChain), fasthttp.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeChainService{health: entity.RPCHealth{Chain: "ethereum", IsWorking: true}, err: tt.err}
			h := NewChainHandler(svc, 0, zap.NewNop())

			ctx := newRequest(fasthttp.MethodGet, "/chains/"+tt.chainID+"/rpc", nil)
			ctx.SetUserValue("chainId", tt.chainID)
			h.GetChainRPC(ctx)

			assert.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
			if tt.wantStatus != fasthttp.StatusOK {
				assert.NotEmpty(t, decodeResult(t, ctx)["error"])
			}
		})
	}
}

func TestQuoteHandler_BridgeFee(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		bridge := &fakeBridgeService{fee: entity.FeeQuote{Fee: "0.45", Availability: entity.AvailabilityLive}}
		h := NewQuoteHandler(bridge, &fakeSwapService{}, &fakePoolService{}, 0, zap.NewNop())

		ctx := newRequest(fasthttp.MethodGet, "/bridge/fee?source=ethereum&destination=polygon&token=usdc", nil)
		h.GetBridgeFee(ctx)

		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		body := decodeResult(t, ctx)
		assert.Equal(t, true, body["available"])
		assert.Equal(t, "0.45", body["data"].(map[string]any)["fee"])
		assert.Equal(t, port.BridgeRequest{Source: "ethereum", Destination: "polygon", Token: "usdc"}, bridge.lastReq)
	})

	t.Run("fallback", func(t *testing.T) {
		bridge := &fakeBridgeService{
			fee: entity.FeeQuote{Fee: "9.50", Availability: entity.AvailabilityFallback},
			err: fmt.Errorf("%w: axelar down", apperrors.ErrExternalServiceFailure),
		}
		h := NewQuoteHandler(bridge, &fakeSwapService{}, &fakePoolService{}, 0, zap.NewNop())

		ctx := newRequest(fasthttp.MethodGet, "/bridge/fee?source=ethereum&destination=polygon", nil)
		h.GetBridgeFee(ctx)

		assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
		body := decodeResult(t, ctx)
		assert.Equal(t, false, body["available"])
		assert.Contains(t, body["error"], "axelar down")
	})

	t.Run("invalid route", func(t *testing.T) {
		bridge := &fakeBridgeService{err: fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, domain.ErrSameChain)}
		h := NewQuoteHandler(bridge, &fakeSwapService{}, &fakePoolService{}, 0, zap.NewNop())

		ctx := newRequest(fasthttp.MethodGet, "/bridge/quote?source=ethereum&destination=ethereum", nil)
		h.GetBridgeQuote(ctx)

		assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
		assert.Contains(t, decodeResult(t, ctx)["error"], "must be different")
	})
}

func TestQuoteHandler_BridgeTime(t *testing.T) {
	h := NewQuoteHandler(&fakeBridgeService{}, &fakeSwapService{}, &fakePoolService{}, 0, zap.NewNop())

	ctx := newRequest(fasthttp.MethodGet, "/bridge/time?source=ethereum&destination=polygon", nil)
	h.GetBridgeTime(ctx)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"min":15,"max":17}`, string(ctx.Response.Body()))

	ctx = newRequest(fasthttp.MethodGet, "/bridge/time?source=ethereum&destination=ethereum", nil)
	h.GetBridgeTime(ctx)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestQuoteHandler_SwapQuote(t *testing.T) {
	swap := &fakeSwapService{}
	h := NewQuoteHandler(&fakeBridgeService{}, swap, &fakePoolService{}, 0, zap.NewNop())

	ctx := newRequest(fasthttp.MethodGet, "/swap/quote?tokenIn=ETH&tokenOut=USDC&amount=1.5&slippage=1&deadline=20&network=polygon", nil)
	h.GetSwapQuote(ctx)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, port.SwapRequest{
		Network:         "polygon",
		TokenIn:         "ETH",
		TokenOut:        "USDC",
		Amount:          1.5,
		Slippage:        1,
		DeadlineMinutes: 20,
	}, swap.lastReq)

	ctx = newRequest(fasthttp.MethodGet, "/swap/quote?tokenIn=ETH&tokenOut=USDC&amount=lots", nil)
	h.GetSwapQuote(ctx)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestQuoteHandler_GetPool(t *testing.T) {
	pools := &fakePoolService{}
	h := NewQuoteHandler(&fakeBridgeService{}, &fakeSwapService{}, pools, 0, zap.NewNop())

	ctx := newRequest(fasthttp.MethodGet, "/pools/ethereum?address=0xabc", nil)
	ctx.SetUserValue("network", "ethereum")
	h.GetPool(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "ethereum", pools.network)
	assert.Equal(t, "0xabc", pools.address)
	assert.Equal(t, true, decodeResult(t, ctx)["available"])
}

type countingPoolRepo struct {
	calls int
}

func (r *countingPoolRepo) FetchPool(context.Context, string, string) (entity.PoolSnapshot, bool, error) {
	r.calls++
	return entity.PoolSnapshot{EthPriceUSD: "2000", Availability: entity.AvailabilityLive}, true, nil
}

func (r *countingPoolRepo) FetchEthPrice(context.Context, string) (string, error) {
	r.calls++
	return "2000", nil
}

func TestQuoteHandler_GetPool_UnknownNetwork(t *testing.T) {
	repo := &countingPoolRepo{}
	loader := application.NewQueryLoader(
		memory.NewCacheRepository(config.CacheConfig{Freshness: time.Minute, CleanupInterval: time.Minute}, zap.NewNop()),
		config.RetryConfig{MaxAttempts: 0, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond},
		zap.NewNop(),
	)
	pools := application.NewPoolService(repo, registry.Default(), loader, zap.NewNop())
	h := NewQuoteHandler(&fakeBridgeService{}, &fakeSwapService{}, pools, 0, zap.NewNop())

	ctx := newRequest(fasthttp.MethodGet, "/pools/bogus", nil)
	ctx.SetUserValue("network", "bogus")
	h.GetPool(ctx)

	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
	assert.Contains(t, decodeResult(t, ctx)["error"], "unknown chain")
	assert.Zero(t, repo.calls)
}

func TestHistoryHandler_GetTransactions(t *testing.T) {
	history := &fakeHistoryService{}
	h := NewHistoryHandler(history, 0, zap.NewNop())

	ctx := newRequest(fasthttp.MethodGet, "/transactions?limit=10&offset=20&address=0xabc", nil)
	h.GetTransactions(ctx)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, entity.PageRequest{Limit: 10, Offset: 20, Address: "0xabc"}, history.lastReq)

	history.err = fmt.Errorf("%w: axelarscan down", apperrors.ErrExternalServiceFailure)
	ctx = newRequest(fasthttp.MethodGet, "/transactions", nil)
	h.GetTransactions(ctx)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	body := decodeResult(t, ctx)
	assert.Equal(t, false, body["available"])
	assert.Empty(t, body["data"].(map[string]any)["transactions"])

	ctx = newRequest(fasthttp.MethodGet, "/transactions?limit=five", nil)
	h.GetTransactions(ctx)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestHistoryHandler_VerifySignature(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()

	message := "Mock Swap Transaction\n\nSwap 1 ETH for USDC"
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27
	signature := hexutil.Encode(sig)

	other, err := crypto.GenerateKey()
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantValid  bool
	}{
		{
			name:       "valid",
			body:       fmt.Sprintf(`{"message":%q,"signature":%q,"address":%q}`, message, signature, address),
			wantStatus: fasthttp.StatusOK,
			wantValid:  true,
		},
		{
			name:       "other signer",
			body:       fmt.Sprintf(`{"message":%q,"signature":%q,"address":%q}`, message, signature, crypto.PubkeyToAddress(other.PublicKey).Hex()),
			wantStatus: fasthttp.StatusOK,
		},
		{
			name:       "malformed signature",
			body:       fmt.Sprintf(`{"message":%q,"signature":"0x1234","address":%q}`, message, address),
			wantStatus: fasthttp.StatusBadRequest,
		},
		{name: "missing fields", body: `{"message":"hi"}`, wantStatus: fasthttp.StatusBadRequest},
		{name: "not json", body: `nope`, wantStatus: fasthttp.StatusBadRequest},
	}

	h := NewHistoryHandler(&fakeHistoryService{}, 0, zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newRequest(fasthttp.MethodPost, "/signatures/verify", []byte(tt.body))
			h.VerifySignature(ctx)

			assert.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
			if tt.wantStatus == fasthttp.StatusOK {
				body := decodeResult(t, ctx)
				assert.Equal(t, tt.wantValid, body["valid"])
				assert.Equal(t, address, body["signer"])
			}
		})
	}
}
