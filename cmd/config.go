package cmd

import (
	"fmt"
	"os"

	"golang-p2p-risk/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or inspect configuration files",
	Long: `Manage the configuration file.

Subcommands:
  init - Write the default configuration
  show - Print the effective configuration after file and environment overrides

Examples:
  p2p-risk config init --file config.yaml
  p2p-risk config show --config config.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration as YAML",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

var (
	configInitFile  string
	configInitForce bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().StringVarP(&configInitFile, "file", "f", "config.yaml", "path of the file to write")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configInitFile); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists, use --force to overwrite", configInitFile)
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(configInitFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created default configuration: %s\n", configInitFile)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	appDep, err := NewAppDependency()
	if err != nil {
		return err
	}
	defer appDep.Close()

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(appDep.cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
