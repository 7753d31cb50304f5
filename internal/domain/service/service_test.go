package service_test

import (
	"math"
	"math/big"
	"testing"

	"swapbridge/internal/domain/entity"
	"swapbridge/internal/domain/service"
	"swapbridge/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateBridgingTime_EthereumToPolygon(t *testing.T) {
	got := service.EstimateBridgingTime(registry.Default(), "ethereum", "polygon")
	assert.Equal(t, entity.TimeEstimate{Min: 13, Max: 25}, got)
}

func TestEstimateBridgingTime_CaseInsensitive(t *testing.T) {
	r := registry.Default()
	assert.Equal(t,
		service.EstimateBridgingTime(r, "ethereum", "polygon"),
		service.EstimateBridgingTime(r, " Ethereum", "POLYGON"),
	)
}

func TestEstimateBridgingTime_AllPairsBounded(t *testing.T) {
	r := registry.Default()
	chains := append(r.FinalityChains(), "unknown-chain")

	for _, src := range chains {
		for _, dst := range chains {
			est := service.EstimateBridgingTime(r, src, dst)
			assert.GreaterOrEqual(t, est.Min, 1, "%s->%s", src, dst)
			assert.LessOrEqual(t, est.Min, est.Max, "%s->%s", src, dst)
		}
	}
}

func TestEstimateBridgingTime_RollupSettlement(t *testing.T) {
	r := registry.Default()
	rollups := []string{"optimism", "arbitrum", "base", "linea"}

	for _, l2 := range rollups {
		for _, other := range r.FinalityChains() {
			for _, pair := range [][2]string{{l2, other}, {other, l2}} {
				est := service.EstimateBridgingTime(r, pair[0], pair[1])
				finality := r.FinalityMinutes(pair[0])
				assert.GreaterOrEqual(t, float64(est.Max), finality+25, "%v", pair)
				assert.GreaterOrEqual(t, est.Min, 10, "%v", pair)
			}
		}
	}

	// 19.1 + 25 settlement rounds up to whole minutes
	assert.Equal(t, entity.TimeEstimate{Min: 15, Max: 45}, service.EstimateBridgingTime(r, "arbitrum", "polygon"))
}

func TestEstimateBridgingTime_UnknownChainsUseDefaults(t *testing.T) {
	// finality 15 -> processing 2.4, execution 0.5, total 17.9, variance 0.3
	got := service.EstimateBridgingTime(registry.Default(), "foo", "bar")
	assert.Equal(t, entity.TimeEstimate{Min: int(math.Floor(17.9 * 0.7)), Max: int(math.Ceil(17.9 * 1.3))}, got)
}

func TestEstimateBridgingTime_EmptyChain(t *testing.T) {
	assert.Equal(t, service.DefaultTimeEstimate, service.EstimateBridgingTime(registry.Default(), "", "polygon"))
}

func TestFormatWei(t *testing.T) {
	tests := []struct {
		wei  string
		want string
	}{
		{"0", "0.000000"},
		{"1000000000000000000", "1.000000"},
		{"4500000000000000", "0.004500"},
		{"123456789000000000000", "123.456789"},
	}
	for _, tt := range tests {
		t.Run(tt.wei, func(t *testing.T) {
			v, err := service.ParseWei(tt.wei)
			require.NoError(t, err)
			assert.Equal(t, tt.want, service.FormatWei(v))
		})
	}

	_, err := service.ParseWei("12abc")
	assert.Error(t, err)
}

func TestBuildFeeQuote(t *testing.T) {
	r := registry.Default()
	wei, _ := new(big.Int).SetString("1000000000000000", 10) // 0.001 ETH

	q := service.BuildFeeQuote(wei, "ethereum", r)

	assert.Equal(t, "1.90", q.Fee)
	assert.Equal(t, "USDC", q.Token)
	assert.InDelta(t, 1.9, q.USD, 1e-9)
	require.NotNil(t, q.NativeToken)
	assert.Equal(t, "0.001000", q.NativeToken.Fee)
	assert.Equal(t, "ETH", q.NativeToken.Token)
	assert.True(t, q.Live())
}

func TestBuildDetailedFeeQuote_L1ComponentOnlyForFeeL2(t *testing.T) {
	r := registry.Default()
	est := entity.GasFeeEstimate{
		BaseFee:                      "1000000000000000",
		ExecutionFeeWithMultiplier:   "2000000000000000",
		L1ExecutionFeeWithMultiplier: "500000000000000",
		GasMultiplier:                1.1,
	}

	toArbitrum, err := service.BuildDetailedFeeQuote(est, "ethereum", "arbitrum", r)
	require.NoError(t, err)
	assert.Equal(t, "0.003500", toArbitrum.NativeToken.Fee)
	require.NotNil(t, toArbitrum.Details)
	assert.True(t, toArbitrum.Details.L1FeeIncluded)
	assert.Equal(t, "0.001000", toArbitrum.Details.BaseFee)
	assert.Equal(t, "0.002000", toArbitrum.Details.ExecutionFee)
	assert.Equal(t, 1.1, toArbitrum.Details.GasMultiplier)

	toBase, err := service.BuildDetailedFeeQuote(est, "ethereum", "base", r)
	require.NoError(t, err)
	assert.Equal(t, "0.003000", toBase.NativeToken.Fee)
	assert.False(t, toBase.Details.L1FeeIncluded)

	_, err = service.BuildDetailedFeeQuote(entity.GasFeeEstimate{BaseFee: "x"}, "ethereum", "base", r)
	assert.Error(t, err)
}

func TestFallbackFeeQuote(t *testing.T) {
	q := service.FallbackFeeQuote("polygon", registry.Default())

	assert.Equal(t, "1.50", q.Fee)
	assert.Equal(t, "USDC", q.Token)
	assert.Equal(t, 1.5, q.USD)
	assert.Equal(t, &entity.NativeFee{Fee: "0.005", Token: "MATIC"}, q.NativeToken)
	assert.Equal(t, entity.AvailabilityFallback, q.Availability)
	assert.False(t, q.Live())
}

func TestSwapRate(t *testing.T) {
	tests := []struct {
		name  string
		price string
		in    string
		out   string
		want  string
	}{
		{"eth to usdc uses price unmodified", "1904.22", "ETH", "USDC", "1904.22"},
		{"weth to usdc", "2500.5", "WETH", "USDC", "2500.5"},
		{"usdc to eth reciprocal", "2000", "USDC", "ETH", "0.000500"},
		{"usdc to weth reciprocal", "1904.22", "USDC", "WETH", "0.000525"},
		{"unsupported pair", "2000", "BTC", "USDC", "0"},
		{"zero price inverse", "0", "USDC", "ETH", "0"},
		{"missing price", "", "ETH", "USDC", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.SwapRate(tt.price, tt.in, tt.out))
		})
	}
}

func TestOutputAndMinimumReceived(t *testing.T) {
	assert.Equal(t, "3808.44", service.OutputAmount(2, "1904.22", "USDC"))
	assert.Equal(t, "0.500000", service.OutputAmount(1000, "0.000500", "ETH"))
	assert.Equal(t, "0", service.OutputAmount(0, "1904.22", "USDC"))
	assert.Equal(t, "0", service.OutputAmount(1, "nan?", "USDC"))

	assert.Equal(t, "99.50", service.MinimumReceived("100.00", 0.5, "USDC"))
	assert.Equal(t, "0.990000", service.MinimumReceived("1.000000", 1, "ETH"))
	assert.Equal(t, "0", service.MinimumReceived("0", 0.5, "ETH"))
}

func TestTokenPrice(t *testing.T) {
	snap := entity.PoolSnapshot{
		Pool: entity.Pool{
			Token0:       entity.PoolToken{Symbol: "USDC"},
			Token1:       entity.PoolToken{Symbol: "WETH"},
			VolumeToken0: "2000",
			VolumeToken1: "1",
		},
		EthPriceUSD: "2000",
	}

	assert.Equal(t, "2000.000000", service.TokenPrice(snap, "weth"))
	assert.Equal(t, "0", service.TokenPrice(snap, "BTC"))

	snap.Pool.Token0 = entity.PoolToken{Symbol: "LINK"}
	snap.Pool.VolumeToken0 = "100"
	snap.Pool.VolumeToken1 = "0.5"
	assert.Equal(t, "10.000000", service.TokenPrice(snap, "LINK"))
}
