package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"swapbridge/internal/application/port"
	"swapbridge/internal/domain/entity"
	"swapbridge/internal/pkg/format"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type bridgeFlags struct {
	token  string
	amount string
	sign   bool
}

func newBridgeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Estimate bridge time and fees between two chains",
		Long: `Estimate how long an Axelar transfer takes and what it costs.

Examples:
  swapbridge bridge quote ethereum polygon
  swapbridge bridge quote arbitrum base --amount 250 --sign
  swapbridge bridge time ethereum avalanche
  swapbridge bridge fee ethereum optimism --json`,
	}
	cmd.AddCommand(newBridgeQuoteCmd(app), newBridgeTimeCmd(app), newBridgeFeeCmd(app))
	return cmd
}

func newBridgeQuoteCmd(app *App) *cobra.Command {
	var flags bridgeFlags
	cmd := &cobra.Command{
		Use:   "quote <source-chain> <destination-chain>",
		Short: "Show the time estimate and fee for a route",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := port.BridgeRequest{Source: args[0], Destination: args[1], Token: flags.token, Amount: flags.amount}
			quote, err := fetch(cmd, "Fetching bridge quote...", func(ctx context.Context) (entity.BridgeQuote, error) {
				return app.Bridge.Quote(ctx, req)
			})
			if err != nil && quote.Fee.Availability != entity.AvailabilityFallback {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				if err := printJSON(w, quote); err != nil {
					return err
				}
			} else {
				displayBridgeQuote(w, quote)
				if err != nil {
					printFallback(w, "Fee estimate", err)
				}
			}

			if flags.sign {
				return signAndReport(cmd, app, app.Bridge.BuildMessage(quote.Source, quote.Destination))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.token, "token", "USDC", "Token to bridge")
	cmd.Flags().StringVar(&flags.amount, "amount", "", "Amount to bridge")
	cmd.Flags().BoolVar(&flags.sign, "sign", false, "Sign a mock bridge transaction with the wallet")
	return cmd
}

func newBridgeTimeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "time <source-chain> <destination-chain>",
		Short: "Estimate bridging time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			est, err := app.Bridge.EstimateTime(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), est)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nEstimated time: %s\n\n",
				color.CyanString(format.TimeRange(float64(est.Min), float64(est.Max))),
			)
			return nil
		},
	}
}

func newBridgeFeeCmd(app *App) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "fee <source-chain> <destination-chain>",
		Short: "Estimate the bridge fee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := port.BridgeRequest{Source: args[0], Destination: args[1], Token: token}
			quote, err := fetch(cmd, "Fetching bridge fee...", func(ctx context.Context) (entity.FeeQuote, error) {
				return app.Bridge.Fee(ctx, req)
			})
			if err != nil && quote.Availability != entity.AvailabilityFallback {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return printJSON(w, quote)
			}
			fmt.Fprintln(w)
			displayFee(w, quote)
			if err != nil {
				printFallback(w, "Fee estimate", err)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "USDC", "Token to bridge")
	return cmd
}

func displayBridgeQuote(w io.Writer, q entity.BridgeQuote) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 60))
	color.New(color.FgGreen).Fprintln(w, "                      BRIDGE QUOTE")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "  Route:          %s -> %s\n", color.CyanString(q.Source), color.CyanString(q.Destination))
	fmt.Fprintf(w, "  Token:          %s\n", q.Token)
	if q.Amount != "" {
		fmt.Fprintf(w, "  Amount:         %s %s\n", q.Amount, q.Token)
	}
	fmt.Fprintf(w, "  Estimated time: %s\n", format.TimeRange(float64(q.Time.Min), float64(q.Time.Max)))
	displayFee(w, q.Fee)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func displayFee(w io.Writer, fee entity.FeeQuote) {
	fmt.Fprintf(w, "  Fee:            %s %s (%s)\n", fee.Fee, fee.Token, format.Currency(fee.USD))
	if fee.NativeToken != nil {
		fmt.Fprintf(w, "  Gas:            %s %s\n", fee.NativeToken.Fee, fee.NativeToken.Token)
	}
	if fee.Details != nil {
		fmt.Fprintf(w, "  Base fee:       %s\n", fee.Details.BaseFee)
		fmt.Fprintf(w, "  Execution fee:  %s (x%.2f)\n", fee.Details.ExecutionFee, fee.Details.GasMultiplier)
	}
	if fee.TransferFee != nil {
		fmt.Fprintf(w, "  Transfer fee:   %s %s\n", fee.TransferFee.Amount, fee.TransferFee.Denom)
	}
}
