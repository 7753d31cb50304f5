package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"swapbridge/internal/application/port"
	"swapbridge/internal/domain/entity"
	domainService "swapbridge/internal/domain/service"
	"swapbridge/internal/pkg/format"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type swapFlags struct {
	network  string
	slippage float64
	deadline int
	sign     bool
}

func newSwapCmd(app *App) *cobra.Command {
	var flags swapFlags
	cmd := &cobra.Command{
		Use:   "swap <amount> <token-in> <token-out>",
		Short: "Quote a token swap",
		Long: `Quote a swap priced from the network's Uniswap v3 reference pool.

Examples:
  swapbridge swap 1 ETH USDC
  swapbridge swap 2500 USDC WETH --network polygon --slippage 1
  swapbridge swap 0.5 ETH USDC --deadline 10 --sign`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			req := port.SwapRequest{
				Network:         flags.network,
				TokenIn:         args[1],
				TokenOut:        args[2],
				Amount:          amount,
				Slippage:        flags.slippage,
				DeadlineMinutes: flags.deadline,
			}
			quote, err := fetch(cmd, "Fetching swap quote...", func(ctx context.Context) (entity.SwapQuote, error) {
				return app.Swap.Quote(ctx, req)
			})
			if err != nil && quote.Availability != entity.AvailabilityFallback {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				if err := printJSON(w, quote); err != nil {
					return err
				}
			} else {
				displaySwapQuote(w, quote)
				if err != nil {
					printFallback(w, "Pool data", err)
				}
			}

			if flags.sign {
				return signAndReport(cmd, app, app.Swap.BuildMessage(amount, quote.TokenIn, quote.TokenOut))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.network, "network", "ethereum", "Network to swap on")
	cmd.Flags().Float64Var(&flags.slippage, "slippage", 0.5, "Slippage tolerance in percent (0.1-20)")
	cmd.Flags().IntVar(&flags.deadline, "deadline", 30, "Transaction deadline in minutes (1-60)")
	cmd.Flags().BoolVar(&flags.sign, "sign", false, "Sign a mock swap transaction with the wallet")
	return cmd
}

func displaySwapQuote(w io.Writer, q entity.SwapQuote) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 60))
	color.New(color.FgGreen).Fprintln(w, "                       SWAP QUOTE")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "  Network:          %s\n", color.CyanString(q.Network))
	fmt.Fprintf(w, "  You pay:          %s %s\n", q.AmountIn, q.TokenIn)
	fmt.Fprintf(w, "  You receive:      %s %s\n", color.YellowString(q.AmountOut), q.TokenOut)
	fmt.Fprintf(w, "  Rate:             1 %s = %s %s\n", q.TokenIn, q.Rate, q.TokenOut)
	fmt.Fprintf(w, "  Minimum received: %s %s (%.1f%% slippage)\n", q.MinimumReceived, q.TokenOut, q.Slippage)
	fmt.Fprintf(w, "  Expires:          %s (%d min)\n", q.ExpiresAt.Local().Format("15:04:05"), q.DeadlineMinutes)
	if q.PoolID != "" {
		fmt.Fprintf(w, "  Pool:             %s\n", format.ShortenAddress(q.PoolID))
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func newPoolCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pool <network> [address]",
		Short: "Show Uniswap v3 pool statistics",
		Long: `Show statistics of a Uniswap v3 pool together with the ETH price. Without an
address only the ETH price is fetched.

Examples:
  swapbridge pool ethereum 0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640
  swapbridge pool polygon`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := ""
			if len(args) == 2 {
				address = args[1]
			}

			snapshot, err := fetch(cmd, "Fetching pool...", func(ctx context.Context) (entity.PoolSnapshot, error) {
				return app.Pools.FetchPool(ctx, args[0], address)
			})
			if err != nil && snapshot.Availability != entity.AvailabilityFallback {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return printJSON(w, snapshot)
			}

			p := snapshot.Pool
			fmt.Fprintf(w, "\n  Pool:      %s\n", color.CyanString(format.ShortenAddress(p.ID)))
			fmt.Fprintf(w, "  Pair:      %s / %s (fee tier %s)\n", p.Token0.Symbol, p.Token1.Symbol, p.FeeTier)
			fmt.Fprintf(w, "  ETH price: %s\n", snapshot.EthPriceUSD)
			fmt.Fprintf(w, "  %s price: %s\n", p.Token0.Symbol, domainService.TokenPrice(snapshot, p.Token0.Symbol))
			fmt.Fprintf(w, "  Volume:    %s USD across %s txs\n", p.VolumeUSD, p.TxCount)
			if err != nil {
				printFallback(w, "Pool data", err)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}
