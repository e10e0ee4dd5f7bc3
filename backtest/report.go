package backtest

import (
	"fmt"
	"io"
	"time"
)

// PrintRun writes a human-readable results summary to w.
func PrintRun(w io.Writer, r *Run) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Strategy:      %s\n", r.Strategy)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.DateOnly))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.DateOnly))
	fmt.Fprintf(w, "Trading Days:  %d\n", len(r.EquityCurve))

	m := r.Metrics

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Capital: %.2f\n", r.InitialCapital)
	fmt.Fprintf(w, "End Capital:   %.2f\n", r.FinalCapital)
	fmt.Fprintf(w, "Total Return:  %.2f%%\n", m.TotalReturnPct)
	fmt.Fprintf(w, "Annualized:    %.2f%%\n", m.AnnualizedReturnPct)
	fmt.Fprintf(w, "Sharpe:        %.2f\n", m.SharpeRatio)
	fmt.Fprintf(w, "Sortino:       %.2f\n", m.SortinoRatio)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%% (%d days)\n", m.MaxDrawdownPct, m.MaxDrawdownDays)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", m.TotalTrades)
	fmt.Fprintf(w, "Wins:          %d\n", m.WinningTrades)
	fmt.Fprintf(w, "Losses:        %d\n", m.LosingTrades)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", m.WinRate)

	if m.TotalTrades > 0 {
		fmt.Fprintf(w, "Avg P/L:       %.2f (%.2f%%)\n", m.AvgProfitAmount, m.AvgProfitPct)
		fmt.Fprintf(w, "Profit Factor: %.2f\n", m.ProfitFactor)
		fmt.Fprintf(w, "Best Trade:    %.2f%%\n", m.MaxProfitPct)
		fmt.Fprintf(w, "Worst Trade:   %.2f%%\n", m.MaxLossPct)
		fmt.Fprintf(w, "Consecutive:   %d wins / %d losses\n", m.MaxConsecutiveWins, m.MaxConsecutiveLosses)
		fmt.Fprintf(w, "Avg Duration:  %.1f days\n", m.AvgTradeDurationDays)
	}

	fmt.Fprintln(w)
}
