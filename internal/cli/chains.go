package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"swapbridge/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newChainsCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "chains",
		Short: "List supported chains",
		Long: `List the chains available for bridging and swapping.

Examples:
  swapbridge chains
  swapbridge chains --all
  swapbridge chains check 137`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chains := app.Chains.ListChains(cmd.Context())
			if all {
				chains = app.Chains.ListAllChains(cmd.Context())
			}
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), chains)
			}
			displayChains(cmd, chains)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include chains that are disabled for quoting")
	cmd.AddCommand(newChainCheckCmd(app))
	return cmd
}

func displayChains(cmd *cobra.Command, chains []entity.Chain) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 72))
	color.New(color.FgGreen).Fprintln(w, "                         SUPPORTED CHAINS")
	fmt.Fprintln(w, strings.Repeat("=", 72))

	for _, c := range chains {
		layer := "L1"
		if c.Layer2 {
			layer = "L2"
		}
		status := ""
		if !c.Enabled {
			status = color.HiBlackString(" (disabled)")
		}
		fmt.Fprintf(w, "  %-22s %-12s %8d  %-4s %s%s\n",
			color.YellowString(c.Name), c.Key, c.ChainID, c.NativeCurrency.Symbol, layer, status,
		)
	}
	fmt.Fprintf(w, "\nTotal: %d chains\n\n", len(chains))
}

func newChainCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check <chain-id>",
		Short: "Probe a chain's RPC endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chain id %q", args[0])
			}

			health, err := fetch(cmd, "Checking RPC endpoint...", func(ctx context.Context) (entity.RPCHealth, error) {
				return app.Chains.CheckChainRPC(ctx, chainID)
			})
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), health)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\n%s  %s\n", color.CyanString(health.Chain), health.URL)
			switch {
			case health.IsWorking && health.ChainIDMatches:
				color.New(color.FgGreen).Fprintf(w, "  working, %d ms\n\n", *health.LatencyMs)
			case health.IsWorking:
				color.New(color.FgYellow).Fprintf(w, "  responding, but reports chain id %d\n\n", health.ReportedChainID)
			default:
				color.New(color.FgRed).Fprintf(w, "  not working: %s\n\n", health.Error)
			}
			return nil
		},
	}
}

func newTokensCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "tokens",
		Aliases: []string{"list-tokens"},
		Short:   "List supported tokens",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokens := app.Chains.ListTokens(cmd.Context())
			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), tokens)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w)
			for _, t := range tokens {
				fmt.Fprintf(w, "  %-8s %-24s %2d decimals\n", color.YellowString(t.Symbol), t.Name, t.Decimals)
			}
			fmt.Fprintf(w, "\nTotal: %d tokens\n\n", len(tokens))
			return nil
		},
	}
}
