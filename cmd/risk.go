package cmd

import (
	"golang-p2p-risk/config"
	"golang-p2p-risk/internal/dto"
	"golang-p2p-risk/pkg/logger"

	"github.com/spf13/cobra"
)

// seriesFlags selects the return series of the risk commands. Only the risk
// command accepts snapshots, which it backtests first.
type seriesFlags struct {
	trades    string
	returns   string
	snapshots string
}

func (s *seriesFlags) register(cmd *cobra.Command, sources ...string) {
	cmd.Flags().StringVar(&s.trades, "trades", "", "trade CSV: timestamp, profit, optional investment and side")
	cmd.Flags().StringVar(&s.returns, "returns", "", "return series CSV: one return per row")
	sources = append([]string{"trades", "returns"}, sources...)
	cmd.MarkFlagsMutuallyExclusive(sources...)
	cmd.MarkFlagsOneRequired(sources...)
}

func (d *AppDependency) riskRequest(cmd *cobra.Command, s seriesFlags) (dto.RiskReportRequest, error) {
	ctx := cmd.Context()
	if s.returns != "" {
		returns, err := d.repo.ReturnsRepo.LoadSeries(ctx, s.returns)
		if err != nil {
			return dto.RiskReportRequest{}, err
		}
		return dto.RiskReportRequest{Returns: returns}, nil
	}

	trades, err := d.repo.TradeRepo.Load(ctx, s.trades)
	if err != nil {
		return dto.RiskReportRequest{}, err
	}
	return dto.RiskReportRequest{Trades: trades}, nil
}

var (
	riskSeries  seriesFlags
	riskCapital float64
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Generate a risk report for a trade history or return series",
	Long: `Compute VaR, CVaR, drawdown statistics, risk-adjusted ratios, position
sizing, a Monte Carlo projection and stress scenarios, with recommendations.

With --snapshots the series is first backtested under the configured
strategy and the report covers the resulting trades.

Examples:
  p2p-risk risk --trades trades.csv
  p2p-risk risk --returns returns.csv -o yaml
  p2p-risk risk --snapshots snapshots.csv --threshold 150`,
	RunE: runRisk,
}

func init() {
	rootCmd.AddCommand(riskCmd)
	riskCmd.Flags().StringVarP(&riskSeries.snapshots, "snapshots", "s", "", "snapshot CSV to backtest before reporting")
	riskSeries.register(riskCmd, "snapshots")
	riskCmd.Flags().Float64Var(&backtestFlags.threshold, "threshold", 0, "minimum net profit per trade when backtesting snapshots")
	riskCmd.Flags().Float64Var(&riskCapital, "capital", 0, "initial capital the trade returns are measured against (default from config)")
}

func runRisk(cmd *cobra.Command, args []string) error {
	appDep, err := NewAppDependency(strategyOverrides(cmd), func(cfg *config.Config) {
		if cmd.Flags().Changed("capital") {
			cfg.Backtest.InitialCapital = riskCapital
		}
	})
	if err != nil {
		return err
	}
	defer appDep.Close()

	if riskSeries.snapshots != "" {
		return appDep.backtestRisk(cmd, riskSeries.snapshots)
	}

	req, err := appDep.riskRequest(cmd, riskSeries)
	if err != nil {
		return err
	}

	report, err := appDep.services.RiskService.GenerateReport(cmd.Context(), req)
	if err != nil {
		return err
	}
	return appDep.printer.Print(report)
}

func (d *AppDependency) backtestRisk(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	req, err := d.backtestRequest(cmd, path)
	if err != nil {
		return err
	}

	result, err := d.services.BacktestService.RunBacktest(ctx, req)
	if err != nil {
		return err
	}
	d.log.Info("Backtest completed for risk report",
		logger.StringField("run_id", result.RunID),
		logger.IntField("trades", len(result.Trades)),
	)

	report, err := d.services.RiskService.ReportFromBacktest(ctx, result)
	if err != nil {
		return err
	}
	return d.printer.Print(report)
}
