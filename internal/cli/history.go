package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"swapbridge/internal/application"
	"swapbridge/internal/domain/entity"
	"swapbridge/internal/pkg/format"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var (
		limit   int
		pages   int
		address string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recent cross-chain transfers",
		Long: `Browse cross-chain transfers from the last 30 days. Each extra page loads
the next --limit transfers, like pressing "load more".

Examples:
  swapbridge history
  swapbridge history --limit 10 --pages 3
  swapbridge history --address 0x1234...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}

			pager := application.NewPager(app.History, limit, address)
			var lastErr error
			for i := 0; i < pages; i++ {
				s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
				if !jsonOutput(cmd) {
					s.Suffix = fmt.Sprintf(" Loading page %d...", i+1)
					s.Start()
				}
				page, more, err := pager.Next(cmd.Context())
				s.Stop()

				if err != nil {
					if page.Availability != entity.AvailabilityFallback {
						return err
					}
					lastErr = err
					break
				}
				if !more {
					break
				}
			}

			w := cmd.OutOrStdout()
			txs := pager.Transactions()
			if jsonOutput(cmd) {
				return printJSON(w, struct {
					Transactions []entity.Transaction `json:"transactions"`
					HasMore      bool                 `json:"hasMore"`
					Available    bool                 `json:"available"`
				}{txs, pager.HasMore(), lastErr == nil})
			}

			displayTransactions(w, txs, time.Now())
			if lastErr != nil {
				color.New(color.FgYellow).Fprintf(w, "\nTransaction history unavailable: %v\n", lastErr)
			}
			if pager.HasMore() && lastErr == nil {
				fmt.Fprintf(w, "\nMore transfers available, rerun with --pages %d\n", pages+1)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", application.DefaultPageLimit, "Transfers per page")
	cmd.Flags().IntVar(&pages, "pages", 1, "Number of pages to load")
	cmd.Flags().StringVar(&address, "address", "", "Only show transfers involving this address")
	return cmd
}

func displayTransactions(w io.Writer, txs []entity.Transaction, now time.Time) {
	if len(txs) == 0 {
		fmt.Fprintln(w, "\nNo transfers found.")
		return
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 90))
	color.New(color.FgGreen).Fprintln(w, "                              RECENT TRANSFERS")
	fmt.Fprintln(w, strings.Repeat("=", 90))

	for _, tx := range txs {
		fmt.Fprintf(w, "  %-21s %s -> %s  %s %s  %s  %s\n",
			color.CyanString(format.ShortenTxHash(tx.TxHash)),
			tx.SourceChain,
			tx.DestinationChain,
			color.YellowString("%g", tx.Amount),
			tx.Denom,
			statusColor(tx.Status).Sprint(application.FormatTransactionStatus(tx.Status)),
			color.HiBlackString(format.TimeAgo(tx.CreatedAt, now)),
		)
		fmt.Fprintf(w, "      %s -> %s  %s\n",
			format.ShortenAddress(tx.Sender), format.ShortenAddress(tx.Recipient), color.HiBlackString(tx.Link),
		)
	}
	fmt.Fprintf(w, "\nShowing %d transfers\n", len(txs))
}

func statusColor(status string) *color.Color {
	switch strings.ToLower(status) {
	case "completed", "executed", "confirmed":
		return color.New(color.FgGreen)
	case "failed":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}
