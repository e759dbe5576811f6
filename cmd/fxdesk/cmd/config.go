package cmd

import (
	"fmt"

	"github.com/rustyeddy/fxdesk/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage desk configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  fxdesk config init -o fxdesk.yaml
  fxdesk config validate -f fxdesk.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings, including the
default spot and option strategy line-ups.

Example:
  fxdesk config init -o fxdesk.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check if a configuration file is valid and can be loaded.

Example:
  fxdesk config validate -f fxdesk.yaml`,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "fxdesk.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  fxdesk serve --config %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Tick interval: %s (seed %d)\n", cfg.Simulation.Interval, cfg.Simulation.Seed)
	fmt.Printf("  Strategies: %d spot, %d option\n", len(cfg.Strategies.Spot), len(cfg.Strategies.Option))
	fmt.Printf("  Caps: %d positions, %d logs, %d curve points\n",
		cfg.Simulation.MaxPositions, cfg.Simulation.MaxLogs, cfg.Simulation.MaxCurvePoints)
	fmt.Printf("  Server: %s\n", cfg.Server.Addr)
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	return nil
}
