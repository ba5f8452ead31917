package cmd

import (
	"golang-p2p-risk/internal/dto"

	"github.com/spf13/cobra"
)

var allocateFlags struct {
	matrix    string
	target    float64
	maxWeight float64
}

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Split capital across opportunities by minimum variance",
	Long: `Find long-only weights that sum to one, respect the per-asset cap and reach
the target mean return with the lowest portfolio variance.

The matrix CSV has one column per opportunity and one row per period; an
optional header names the opportunities.

Example:
  p2p-risk allocate --matrix returns.csv --target 0.002 --max-weight 0.5`,
	RunE: runAllocate,
}

func init() {
	rootCmd.AddCommand(allocateCmd)

	f := allocateCmd.Flags()
	f.StringVarP(&allocateFlags.matrix, "matrix", "m", "", "periods x assets return CSV")
	f.Float64Var(&allocateFlags.target, "target", 0, "target mean return per period (default from config)")
	f.Float64Var(&allocateFlags.maxWeight, "max-weight", 0, "maximum weight per asset (default from config)")
	allocateCmd.MarkFlagRequired("matrix")
}

func runAllocate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	appDep, err := NewAppDependency()
	if err != nil {
		return err
	}
	defer appDep.Close()

	rows, assets, err := appDep.repo.ReturnsRepo.LoadMatrix(ctx, allocateFlags.matrix)
	if err != nil {
		return err
	}

	req := dto.AllocationRequest{
		Returns:      rows,
		Assets:       assets,
		TargetReturn: appDep.cfg.Allocation.TargetReturn,
		MaxWeight:    allocateFlags.maxWeight,
	}
	if cmd.Flags().Changed("target") {
		req.TargetReturn = allocateFlags.target
	}

	result, err := appDep.services.AllocationService.Allocate(ctx, req)
	if err != nil {
		return err
	}
	return appDep.printer.Print(result)
}
