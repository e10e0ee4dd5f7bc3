package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/optrader/config"
)

var configInitOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if err := cfg.SaveToFile(configInitOutput); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Printf("Created default configuration: %s\n", configInitOutput)
		fmt.Println("\nEdit the file and run with:")
		fmt.Printf("  optrader backtest -c %s\n", configInitOutput)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate PATH",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFromFile(args[0])
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Printf("Configuration valid: %s\n", args[0])
		fmt.Printf("  Strategy: %s\n", cfg.Strategy.Name)
		fmt.Printf("  Symbols:  %v\n", cfg.Backtest.Symbols)
		fmt.Printf("  Period:   %s to %s\n", cfg.Backtest.Start, cfg.Backtest.End)
		fmt.Printf("  Journal:  %s\n", cfg.Journal.Type)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "backtest.yaml", "output config file path")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
}
