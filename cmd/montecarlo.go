package cmd

import (
	"golang-p2p-risk/config"

	"github.com/spf13/cobra"
)

var (
	monteCarloSeries seriesFlags
	monteCarloFlags  struct {
		paths   int
		horizon int
		seed    int64
	}
)

var monteCarloCmd = &cobra.Command{
	Use:   "montecarlo",
	Short: "Project cumulative returns with normal draws fitted to the return series",
	Long: `Simulate many compounded paths of i.i.d. normal returns with the mean and
volatility of the series and report the distribution of the cumulative return at
the horizon. Runs are reproducible for a given seed.

Example:
  p2p-risk montecarlo --returns returns.csv --paths 5000 --horizon 90 --seed 7`,
	RunE: runMonteCarlo,
}

func init() {
	rootCmd.AddCommand(monteCarloCmd)
	monteCarloSeries.register(monteCarloCmd)

	f := monteCarloCmd.Flags()
	f.IntVar(&monteCarloFlags.paths, "paths", 0, "number of simulated paths (default from config)")
	f.IntVar(&monteCarloFlags.horizon, "horizon", 0, "periods per path (default from config)")
	f.Int64Var(&monteCarloFlags.seed, "seed", 0, "random seed (default from config)")
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	appDep, err := NewAppDependency(func(cfg *config.Config) {
		f := cmd.Flags()
		if f.Changed("paths") {
			cfg.MonteCarlo.Simulations = monteCarloFlags.paths
		}
		if f.Changed("horizon") {
			cfg.MonteCarlo.Horizon = monteCarloFlags.horizon
		}
		if f.Changed("seed") {
			cfg.MonteCarlo.Seed = monteCarloFlags.seed
		}
	})
	if err != nil {
		return err
	}
	defer appDep.Close()

	req, err := appDep.riskRequest(cmd, monteCarloSeries)
	if err != nil {
		return err
	}

	summary, err := appDep.services.RiskService.Project(cmd.Context(), req)
	if err != nil {
		return err
	}
	return appDep.printer.Print(summary)
}
