package service

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"swapbridge/internal/domain/entity"

	"github.com/ethereum/go-ethereum/params"
)

// FeeTable provides static pricing and chain classification for fee normalization.
type FeeTable interface {
	NativeToken(chain string) string
	USDPrice(symbol string) float64
	IsFeeL2(chain string) bool
}

// Fallback fee figures reported when the fee service cannot be reached.
const (
	FallbackFee       = "1.50"
	FallbackFeeUSD    = 1.5
	FallbackNativeFee = "0.005"
	FeeDisplayToken   = "USDC"
)

var weiPerEther = new(big.Float).SetFloat64(params.Ether)

// ParseWei parses a decimal amount in the smallest unit.
func ParseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer amount %q", s)
	}
	return v, nil
}

// FormatWei renders a smallest-unit amount as a whole-token amount with 6 decimals.
func FormatWei(wei *big.Int) string {
	f := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerEther)
	return f.Text('f', 6)
}

// WeiToUSD converts a smallest-unit native amount to USD at the given price.
func WeiToUSD(wei *big.Int, price float64) float64 {
	f := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerEther)
	tokens, _ := f.Float64()
	return tokens * price
}

// TotalGasFee sums a structured estimate. The L1 component is added only when
// the destination is an L2 in the fee table and the estimate carries one.
func TotalGasFee(est entity.GasFeeEstimate, destination string, table FeeTable) (*big.Int, error) {
	base, err := ParseWei(est.BaseFee)
	if err != nil {
		return nil, fmt.Errorf("base fee: %w", err)
	}
	exec, err := ParseWei(est.ExecutionFeeWithMultiplier)
	if err != nil {
		return nil, fmt.Errorf("execution fee: %w", err)
	}

	total := new(big.Int).Add(base, exec)
	if table.IsFeeL2(destination) && est.L1ExecutionFeeWithMultiplier != "" {
		l1, err := ParseWei(est.L1ExecutionFeeWithMultiplier)
		if err != nil {
			return nil, fmt.Errorf("l1 execution fee: %w", err)
		}
		total.Add(total, l1)
	}
	return total, nil
}

// BuildFeeQuote turns a total fee in the source chain's smallest unit into a display quote.
func BuildFeeQuote(total *big.Int, source string, table FeeTable) entity.FeeQuote {
	native := table.NativeToken(source)
	usd := WeiToUSD(total, table.USDPrice(native))
	return entity.FeeQuote{
		Fee:   strconv.FormatFloat(usd, 'f', 2, 64),
		Token: FeeDisplayToken,
		USD:   usd,
		NativeToken: &entity.NativeFee{
			Fee:   FormatWei(total),
			Token: native,
		},
		Availability: entity.AvailabilityLive,
	}
}

// BuildDetailedFeeQuote is BuildFeeQuote for structured estimates, with the fee breakdown attached.
func BuildDetailedFeeQuote(est entity.GasFeeEstimate, source, destination string, table FeeTable) (entity.FeeQuote, error) {
	total, err := TotalGasFee(est, destination, table)
	if err != nil {
		return entity.FeeQuote{}, err
	}
	base, _ := ParseWei(est.BaseFee)
	exec, _ := ParseWei(est.ExecutionFeeWithMultiplier)

	q := BuildFeeQuote(total, source, table)
	q.Details = &entity.FeeBreakdown{
		BaseFee:       FormatWei(base),
		ExecutionFee:  FormatWei(exec),
		L1FeeIncluded: table.IsFeeL2(destination) && est.L1ExecutionFeeWithMultiplier != "",
		GasMultiplier: est.GasMultiplier,
	}
	return q, nil
}

// FallbackFeeQuote is the placeholder quote shown when the fee service is unavailable.
func FallbackFeeQuote(source string, table FeeTable) entity.FeeQuote {
	return entity.FeeQuote{
		Fee:   FallbackFee,
		Token: FeeDisplayToken,
		USD:   FallbackFeeUSD,
		NativeToken: &entity.NativeFee{
			Fee:   FallbackNativeFee,
			Token: table.NativeToken(source),
		},
		Availability: entity.AvailabilityFallback,
	}
}
