package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/optrader/journal"
)

var (
	journalDBPath string
	journalLimit  int
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded backtest results",
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent backtest runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := journal.NewSQLite(journalDBPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer j.Close()

		runs, err := j.ListRuns(journalLimit)
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}

		for _, r := range runs {
			fmt.Printf("%s  %-10s %s..%s  return %7.2f%%  trades %3d  win %5.1f%%\n",
				r.RunID, r.Strategy,
				r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly),
				r.TotalReturnPct, r.TotalTrades, r.WinRate)
		}
		return nil
	},
}

var journalRunCmd = &cobra.Command{
	Use:   "run RUN_ID",
	Short: "Show one run's summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := journal.NewSQLite(journalDBPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer j.Close()

		r, err := j.GetRun(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Run:           %s\n", r.RunID)
		fmt.Printf("Strategy:      %s\n", r.Strategy)
		fmt.Printf("Period:        %s to %s\n", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
		fmt.Printf("Capital:       %.2f -> %.2f\n", r.InitialCapital, r.FinalCapital)
		fmt.Printf("Total Return:  %.2f%%\n", r.TotalReturnPct)
		fmt.Printf("Annualized:    %.2f%%\n", r.AnnualizedReturnPct)
		fmt.Printf("Sharpe:        %.2f\n", r.SharpeRatio)
		fmt.Printf("Sortino:       %.2f\n", r.SortinoRatio)
		fmt.Printf("Max Drawdown:  %.2f%%\n", r.MaxDrawdownPct)
		fmt.Printf("Trades:        %d (%d wins / %d losses)\n", r.TotalTrades, r.WinningTrades, r.LosingTrades)
		fmt.Printf("Win Rate:      %.2f%%\n", r.WinRate)
		fmt.Printf("Profit Factor: %.2f\n", r.ProfitFactor)
		return nil
	},
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades RUN_ID",
	Short: "List a run's closed trades",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := journal.NewSQLite(journalDBPath)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer j.Close()

		trades, err := j.ListTradesByRun(args[0])
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}
		if len(trades) == 0 {
			fmt.Println("no trades recorded for run")
			return nil
		}

		for _, t := range trades {
			fmt.Printf("%s  %-5s %-4s %8.2f exp %s  x%-3d  %s@%.2f -> %s@%.2f  P/L %9.2f (%6.2f%%)  %s\n",
				t.PositionID, t.Symbol, t.OptionType, t.Strike,
				t.Expiration.Format(time.DateOnly), t.Contracts,
				t.EntryDate.Format(time.DateOnly), t.EntryPrice,
				t.ExitDate.Format(time.DateOnly), t.ExitPrice,
				t.ProfitLoss, t.ProfitLossPct, t.Reason)
		}
		return nil
	},
}

func init() {
	journalCmd.PersistentFlags().StringVar(&journalDBPath, "db", "./backtests.sqlite", "path to SQLite results DB")
	journalRunsCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "max runs to list")
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalRunCmd)
	journalCmd.AddCommand(journalTradesCmd)
}
