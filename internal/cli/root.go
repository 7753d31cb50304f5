// Package cli is the swapbridge terminal client. It drives the application
// services in process and renders their results.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"swapbridge/internal/adapter/axelar"
	"swapbridge/internal/adapter/axelarscan"
	"swapbridge/internal/adapter/rpc"
	"swapbridge/internal/adapter/storage/memory"
	"swapbridge/internal/adapter/subgraph"
	"swapbridge/internal/adapter/wallet"
	"swapbridge/internal/application"
	"swapbridge/internal/application/port"
	"swapbridge/internal/config"
	"swapbridge/internal/logger"
	"swapbridge/internal/registry"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.1.0"

// App holds the services the commands run against. Unset services are built
// from configuration before the first command runs.
type App struct {
	Chains  port.ChainService
	Bridge  port.BridgeService
	Swap    port.SwapService
	Pools   port.PoolService
	History port.HistoryService

	// OpenWallet connects to the wallet named by url, or the configured one when url is empty.
	OpenWallet func(ctx context.Context, url string) (port.WalletService, error)

	Logger *zap.Logger
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand(&App{}).Execute()
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "swapbridge",
		Short: "Quote token swaps and cross-chain bridges",
		Long: `swapbridge quotes Axelar bridge transfers and Uniswap v3 swaps, browses
cross-chain transfer history and signs mock transactions with a wallet.

Examples:
  swapbridge chains
  swapbridge bridge quote ethereum polygon
  swapbridge swap 1 ETH USDC --network polygon
  swapbridge history --limit 5 --pages 2
  swapbridge sign "hello" --wallet ws://127.0.0.1:1248`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd)
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	root.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	root.PersistentFlags().String("wallet", "", "Wallet websocket URL (ws://...)")
	root.PersistentFlags().String("config", "configs", "Directory containing config.yaml")

	root.AddCommand(
		newChainsCmd(app),
		newTokensCmd(app),
		newBridgeCmd(app),
		newSwapCmd(app),
		newPoolCmd(app),
		newHistoryCmd(app),
		newSignCmd(app),
		newVerifyCmd(),
	)
	return root
}

func (a *App) init(cmd *cobra.Command) error {
	if a.Logger == nil {
		a.Logger = zap.NewNop()
	}
	if a.Bridge != nil {
		return nil
	}

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	cfg.Logger.Output = "stderr"
	cfg.Logger.Encoding = "console"
	cfg.Logger.Level = "warn"
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logger.Level = "debug"
	}
	appLogger, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	a.Logger = appLogger

	// one-shot commands probe on demand
	cfg.Checker.CheckInterval = 0

	reg := registry.Default()
	cacheRepo := memory.NewCacheRepository(cfg.Cache, appLogger)
	queries := application.NewQueryLoader(cacheRepo, cfg.Retry, appLogger)
	feeResolver := application.NewFeeResolver(axelar.NewRepository(cfg.Axelar, appLogger), reg, cfg.Axelar.GasLimit, appLogger)

	a.Chains = application.NewChainService(
		cmd.Context(), reg, cacheRepo, rpc.NewChecker(cfg.Checker.GetTimeout(), appLogger), appLogger, cfg.Checker,
	)
	a.Bridge = application.NewBridgeService(reg, feeResolver, queries, appLogger)
	a.Pools = application.NewPoolService(subgraph.NewRepository(cfg.Subgraph, appLogger), reg, queries, appLogger)
	a.Swap = application.NewSwapService(reg, a.Pools, appLogger)
	a.History = application.NewHistoryService(axelarscan.NewRepository(cfg.Axelarscan, appLogger), queries, appLogger)

	a.OpenWallet = func(ctx context.Context, url string) (port.WalletService, error) {
		if url == "" {
			url = cfg.Wallet.URL
		}
		switch {
		case url != "":
			provider, err := wallet.DialWS(ctx, url, appLogger)
			if err != nil {
				return nil, err
			}
			return application.NewWalletService(provider, reg, cfg.Wallet.DefaultChain, appLogger), nil
		case cfg.Wallet.PrivateKey != "":
			provider, err := wallet.NewKeyProvider(cfg.Wallet.PrivateKey, appLogger)
			if err != nil {
				return nil, err
			}
			return application.NewWalletService(provider, reg, cfg.Wallet.DefaultChain, appLogger), nil
		default:
			return application.NewWalletService(nil, reg, cfg.Wallet.DefaultChain, appLogger), nil
		}
	}
	return nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// fetch runs load behind a spinner unless the output is JSON.
func fetch[T any](cmd *cobra.Command, message string, load func(ctx context.Context) (T, error)) (T, error) {
	if !jsonOutput(cmd) {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = " " + message
		s.Start()
		defer s.Stop()
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return load(ctx)
}

func printFallback(w io.Writer, what string, err error) {
	color.New(color.FgYellow).Fprintf(w, "\n%s unavailable, showing placeholder: %v\n", what, err)
}

// PrintError reports err on stderr in the CLI's style.
func PrintError(err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "\nError: %v\n\n", err)
}
