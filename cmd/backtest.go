package cmd

import (
	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/logger"

	"github.com/spf13/cobra"
)

var backtestFlags struct {
	snapshots    string
	opportunity  string
	threshold    float64
	positionSize float64
	maxTrade     float64
	minTrade     float64
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a snapshot series under a strategy configuration",
	Long: `Replay market snapshots chronologically, accept every opportunity whose
net profit clears the threshold and report trades, equity curve and analysis.

Example:
  p2p-risk backtest --snapshots snapshots.csv --threshold 150 --position-size 0.08`,
	RunE: runBacktest,
}

func init() {
	rootCmd.AddCommand(backtestCmd)

	f := backtestCmd.Flags()
	f.StringVarP(&backtestFlags.snapshots, "snapshots", "s", "", "snapshot CSV: timestamp, one column per venue price, optional volume")
	f.StringVar(&backtestFlags.opportunity, "opportunity", "", "opportunity to model (default from config)")
	f.Float64Var(&backtestFlags.threshold, "threshold", 0, "minimum net profit per trade")
	f.Float64Var(&backtestFlags.positionSize, "position-size", 0, "fraction of capital per trade")
	f.Float64Var(&backtestFlags.maxTrade, "max-trade", 0, "maximum trade value")
	f.Float64Var(&backtestFlags.minTrade, "min-trade", 0, "minimum trade value")
	backtestCmd.MarkFlagRequired("snapshots")
}

// strategyOverrides copies the strategy flags the user set into the
// configuration defaults.
func strategyOverrides(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		f := cmd.Flags()
		if f.Changed("opportunity") {
			cfg.Backtest.Opportunity = backtestFlags.opportunity
		}
		if f.Changed("threshold") {
			cfg.Backtest.Strategy.MinProfitThreshold = backtestFlags.threshold
		}
		if f.Changed("position-size") {
			cfg.Backtest.Strategy.PositionSizePct = backtestFlags.positionSize
		}
		if f.Changed("max-trade") {
			cfg.Backtest.Strategy.MaxTradeAmount = backtestFlags.maxTrade
		}
		if f.Changed("min-trade") {
			cfg.Backtest.Strategy.MinTradeAmount = backtestFlags.minTrade
		}
	}
}

func runBacktest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	appDep, err := NewAppDependency(strategyOverrides(cmd))
	if err != nil {
		return err
	}
	defer appDep.Close()

	req, err := appDep.backtestRequest(cmd, backtestFlags.snapshots)
	if err != nil {
		return err
	}

	result, err := appDep.services.BacktestService.RunBacktest(ctx, req)
	if err != nil {
		return err
	}
	if result.NoTrades {
		appDep.log.Warn("Backtest produced no trades", logger.StringField("reason", result.Reason))
	}
	return appDep.printer.Print(result)
}

func (d *AppDependency) backtestRequest(cmd *cobra.Command, path string) (dto.BacktestRequest, error) {
	snapshots, err := d.repo.SnapshotRepo.Load(cmd.Context(), path)
	if err != nil {
		return dto.BacktestRequest{}, err
	}
	return dto.BacktestRequest{
		Snapshots:   snapshots,
		Strategy:    dto.NewStrategyConfig(d.cfg.Backtest.Strategy),
		Opportunity: d.cfg.Backtest.Opportunity,
	}, nil
}
