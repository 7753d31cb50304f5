package cli

import (
	"context"
	"fmt"

	"swapbridge/internal/application/port"
	domainService "swapbridge/internal/domain/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type signResult struct {
	Account   string `json:"account"`
	ChainID   int64  `json:"chainId"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

func newSignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sign <message>",
		Short: "Sign a message with the connected wallet",
		Long: `Connect the wallet and sign a message with personal_sign.

The wallet is reached over --wallet (a websocket speaking EIP-1193 JSON-RPC)
or, for development, through a local key in SWAPBRIDGE_WALLET_KEY.

Examples:
  swapbridge sign "hello" --wallet ws://127.0.0.1:1248
  SWAPBRIDGE_WALLET_KEY=0x... swapbridge sign "hello"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return signAndReport(cmd, app, args[0])
		},
	}
}

// signAndReport connects the wallet, signs message and prints the signature.
func signAndReport(cmd *cobra.Command, app *App, message string) error {
	walletURL, _ := cmd.Flags().GetString("wallet")

	res, err := fetch(cmd, "Waiting for wallet...", func(ctx context.Context) (signResult, error) {
		svc, err := app.OpenWallet(ctx, walletURL)
		if err != nil {
			return signResult{}, err
		}
		defer svc.Close()
		return sign(ctx, svc, message)
	})
	if err != nil {
		return fmt.Errorf("signing failed: %w", err)
	}

	w := cmd.OutOrStdout()
	if jsonOutput(cmd) {
		return printJSON(w, res)
	}
	color.New(color.FgGreen).Fprintf(w, "\nSigned by %s on chain %d\n", res.Account, res.ChainID)
	fmt.Fprintf(w, "  Signature: %s\n\n", res.Signature)
	return nil
}

func sign(ctx context.Context, svc port.WalletService, message string) (signResult, error) {
	state, err := svc.Connect(ctx)
	if err != nil {
		return signResult{}, err
	}
	signature, err := svc.SignMessage(ctx, message)
	if err != nil {
		return signResult{}, err
	}
	return signResult{
		Account:   state.Account,
		ChainID:   svc.State().ChainID,
		Message:   message,
		Signature: signature,
	}, nil
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <message> <signature> <address>",
		Short: "Check that a personal_sign signature was made by address",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			valid, err := domainService.VerifyPersonalSignature(args[0], args[1], args[2])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return printJSON(w, map[string]bool{"valid": valid})
			}
			if valid {
				color.New(color.FgGreen).Fprintln(w, "\nSignature is valid")
			} else {
				color.New(color.FgRed).Fprintln(w, "\nSignature does not match the address")
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}
