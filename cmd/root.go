package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang-p2p-risk/pkg/common"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "p2p-risk",
	Short: "Backtest, optimise and risk-analyse P2P arbitrage strategies",
	Long: `p2p-risk replays venue price snapshots through a configurable arbitrage
strategy and analyses the resulting trades.

It provides tools for:
  - Backtesting a strategy over a snapshot series
  - Sweeping profit thresholds and position sizes, and volatility regime presets
  - Risk reports: VaR, CVaR, drawdowns, risk-adjusted ratios and position sizing
  - Monte Carlo projections and stress scenarios
  - Capital allocation across concurrent opportunities`,
	SilenceUsage: true,
}

// Execute runs the root command with a context that is cancelled on
// interrupt signals.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", common.OUTPUT_JSON, "output format: json or yaml")
}
