package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X golang-p2p-risk/cmd.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "p2p-risk version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
