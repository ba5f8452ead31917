package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	sectionAll       = "all"
	sectionThreshold = "threshold"
	sectionPosition  = "position-size"
	sectionRegimes   = "regimes"
)

var optimizeFlags struct {
	snapshots   string
	opportunity string
	section     string
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Sweep strategy parameters and volatility regime presets",
	Long: `Backtest every profit threshold and position size on the configured grids,
pick the best scoring value of each, evaluate the volatility regime presets and
compare the current configuration with the optimised one.

Examples:
  p2p-risk optimize --snapshots snapshots.csv
  p2p-risk optimize --snapshots snapshots.csv --only threshold -o yaml`,
	RunE: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	f := optimizeCmd.Flags()
	f.StringVarP(&optimizeFlags.snapshots, "snapshots", "s", "", "snapshot CSV: timestamp, one column per venue price, optional volume")
	f.StringVar(&optimizeFlags.opportunity, "opportunity", "", "opportunity to model (default from config)")
	f.StringVar(&optimizeFlags.section, "only", sectionAll, "run a single part: threshold, position-size or regimes")
	optimizeCmd.MarkFlagRequired("snapshots")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	appDep, err := NewAppDependency()
	if err != nil {
		return err
	}
	defer appDep.Close()

	req, err := appDep.backtestRequest(cmd, optimizeFlags.snapshots)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("opportunity") {
		req.Opportunity = optimizeFlags.opportunity
	}

	optimizer := appDep.services.OptimizerService
	var out interface{}
	switch optimizeFlags.section {
	case sectionAll:
		out, err = optimizer.Optimize(ctx, req)
	case sectionThreshold:
		out, err = optimizer.OptimizeThreshold(ctx, req)
	case sectionPosition:
		out, err = optimizer.OptimizePositionSize(ctx, req)
	case sectionRegimes:
		out, err = optimizer.AdaptiveStrategies(ctx, req)
	default:
		return fmt.Errorf("unknown section %q", optimizeFlags.section)
	}
	if err != nil {
		return err
	}
	return appDep.printer.Print(out)
}
