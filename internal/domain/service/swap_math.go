package service

import (
	"strconv"
	"strings"

	"swapbridge/internal/domain/entity"
)

const zeroAmount = "0"

func isEthLike(symbol string) bool {
	s := strings.ToUpper(symbol)
	return s == "ETH" || s == "WETH"
}

func isUSDC(symbol string) bool {
	return strings.ToUpper(symbol) == "USDC"
}

// IsReferencePair reports whether the pair is ETH/WETH against USDC in either direction.
func IsReferencePair(in, out string) bool {
	return (isEthLike(in) && isUSDC(out)) || (isUSDC(in) && isEthLike(out))
}

// SwapRate derives how many units of out one unit of in buys. Only the
// ETH/USDC reference pair is priced; other pairs yield "0".
func SwapRate(ethPriceUSD, in, out string) string {
	switch {
	case isEthLike(in) && isUSDC(out):
		if ethPriceUSD == "" {
			return zeroAmount
		}
		return ethPriceUSD
	case isUSDC(in) && isEthLike(out):
		price, err := strconv.ParseFloat(ethPriceUSD, 64)
		if err != nil || price <= 0 {
			return zeroAmount
		}
		return strconv.FormatFloat(1/price, 'f', 6, 64)
	default:
		return zeroAmount
	}
}

// OutputAmount multiplies amount by rate, rendered with 2 decimals for USDC and 6 otherwise.
func OutputAmount(amount float64, rate, out string) string {
	if amount <= 0 {
		return zeroAmount
	}
	r, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return zeroAmount
	}
	return formatForToken(amount*r, out)
}

// MinimumReceived applies a slippage percentage to an output amount.
func MinimumReceived(output string, slippagePercent float64, out string) string {
	v, err := strconv.ParseFloat(output, 64)
	if err != nil || v <= 0 {
		return zeroAmount
	}
	return formatForToken(v*(1-slippagePercent/100), out)
}

func formatForToken(v float64, symbol string) string {
	if isUSDC(symbol) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// TokenPrice estimates a token's USD price from the pool's traded volume ratio.
// The counter token must be USDC, or ETH when the reference price is known.
func TokenPrice(snapshot entity.PoolSnapshot, symbol string) string {
	p := snapshot.Pool
	t0 := strings.ToUpper(p.Token0.Symbol)
	t1 := strings.ToUpper(p.Token1.Symbol)
	sym := strings.ToUpper(symbol)

	isToken0 := t0 == sym
	isToken1 := t1 == sym
	if !isToken0 && !isToken1 {
		return zeroAmount
	}

	v0, err0 := strconv.ParseFloat(p.VolumeToken0, 64)
	v1, err1 := strconv.ParseFloat(p.VolumeToken1, 64)
	if err0 != nil || err1 != nil || v0 == 0 || v1 == 0 {
		return zeroAmount
	}

	ratio := v1 / v0
	counter := t1
	if isToken1 {
		ratio = v0 / v1
		counter = t0
	}

	switch counter {
	case "USDC":
		return strconv.FormatFloat(ratio, 'f', 6, 64)
	case "ETH", "WETH":
		ethPrice, err := strconv.ParseFloat(snapshot.EthPriceUSD, 64)
		if err != nil || ethPrice <= 0 {
			return zeroAmount
		}
		return strconv.FormatFloat(ratio*ethPrice, 'f', 6, 64)
	default:
		return zeroAmount
	}
}
