package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/optrader/backtest"
	"github.com/rustyeddy/optrader/config"
	"github.com/rustyeddy/optrader/journal"
	"github.com/rustyeddy/optrader/market/data"
	"github.com/rustyeddy/optrader/strategies"
)

var backtestConfigPath string

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest from a config file",
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringVarP(&backtestConfigPath, "config", "c", "", "path to config file (YAML or JSON)")
	backtestCmd.MarkFlagRequired("config")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(backtestConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	start, err := cfg.Backtest.StartDate()
	if err != nil {
		return err
	}
	end, err := cfg.Backtest.EndDate()
	if err != nil {
		return err
	}
	fetchTimeout, err := cfg.Backtest.ParseFetchTimeout()
	if err != nil {
		return err
	}

	strat, err := strategies.ByName(cfg.Strategy.Name, strategies.MomentumConfig{
		MinVolume:        cfg.Strategy.MinVolume,
		MinOpenInterest:  cfg.Strategy.MinOpenInterest,
		MinIV:            cfg.Strategy.MinIV,
		ProfitTargetPct:  cfg.Strategy.ProfitTargetPct,
		StopLossPct:      cfg.Strategy.StopLossPct,
		MaxHoldDays:      cfg.Strategy.MaxHoldDays,
		MaxSignalsPerDay: cfg.Strategy.MaxSignalsPerDay,
	})
	if err != nil {
		return err
	}

	var j journal.Journal
	switch cfg.Journal.Type {
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	if j != nil {
		defer j.Close()
	}

	engine := &backtest.Engine{
		Provider: data.NewStore(cfg.Data.Dir),
		Strategy: strat,
		Journal:  j,

		Symbols: cfg.Backtest.Symbols,
		Start:   start,
		End:     end,

		InitialCapital:        cfg.Backtest.InitialCapital,
		MaxPositions:          cfg.Backtest.MaxPositions,
		PositionSizePct:       cfg.Backtest.PositionSizePct,
		CommissionPerContract: cfg.Backtest.CommissionPerContract,
		SlippagePct:           cfg.Backtest.SlippagePct,
		FetchTimeout:          fetchTimeout,
	}

	fmt.Printf("Running backtest: %s\n", backtestConfigPath)
	fmt.Printf("  Strategy: %s\n", strat.Name())
	fmt.Printf("  Symbols:  %v\n", cfg.Backtest.Symbols)
	fmt.Printf("  Period:   %s to %s\n", cfg.Backtest.Start, cfg.Backtest.End)
	fmt.Printf("  Capital:  $%.2f\n", cfg.Backtest.InitialCapital)
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run, err := engine.Run(ctx)
	if run != nil {
		backtest.PrintRun(os.Stdout, run)
	}
	if err != nil {
		return err
	}

	switch cfg.Journal.Type {
	case "sqlite":
		fmt.Printf("Results saved to: %s\n", cfg.Journal.DBPath)
	case "csv":
		fmt.Printf("Results saved to:\n  - %s\n  - %s\n", cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	}
	return nil
}
