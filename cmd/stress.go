package cmd

import (
	"github.com/spf13/cobra"
)

var stressSeries seriesFlags

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Apply the configured stress scenarios",
	Long: `Evaluate the market crash, volatility spike, liquidity crisis and
regulatory shock scenarios from the configuration against a return series.

Example:
  p2p-risk stress --returns returns.csv`,
	RunE: runStress,
}

func init() {
	rootCmd.AddCommand(stressCmd)
	stressSeries.register(stressCmd)
}

func runStress(cmd *cobra.Command, args []string) error {
	appDep, err := NewAppDependency()
	if err != nil {
		return err
	}
	defer appDep.Close()

	req, err := appDep.riskRequest(cmd, stressSeries)
	if err != nil {
		return err
	}

	results, err := appDep.services.RiskService.StressTest(cmd.Context(), req)
	if err != nil {
		return err
	}
	return appDep.printer.Print(results)
}
