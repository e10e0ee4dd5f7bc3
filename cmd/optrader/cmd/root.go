package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "optrader",
	Short: "Options backtesting utilities",
	Long: `optrader replays historical option-chain snapshots against a
strategy and records the simulated trades and performance metrics.

Typical workflow:
  optrader config init -o backtest.yaml
  optrader backtest -c backtest.yaml
  optrader journal runs --db ./backtests.sqlite`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
