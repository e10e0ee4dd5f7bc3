package journal

import (
	"database/sql"
	"fmt"
)

const runColumns = `run_id, strategy, start_date, end_date, initial_capital, final_capital,
	total_trades, winning_trades, losing_trades,
	total_return_pct, annualized_return_pct, win_rate, avg_profit_pct,
	max_profit_pct, max_loss_pct, sharpe_ratio, sortino_ratio,
	max_drawdown_pct, profit_factor, created`

func scanRun(row interface{ Scan(...any) error }) (RunRecord, error) {
	var rec RunRecord
	err := row.Scan(
		&rec.RunID, &rec.Strategy, &rec.Start, &rec.End,
		&rec.InitialCapital, &rec.FinalCapital,
		&rec.TotalTrades, &rec.WinningTrades, &rec.LosingTrades,
		&rec.TotalReturnPct, &rec.AnnualizedReturnPct, &rec.WinRate, &rec.AvgProfitPct,
		&rec.MaxProfitPct, &rec.MaxLossPct, &rec.SharpeRatio, &rec.SortinoRatio,
		&rec.MaxDrawdownPct, &rec.ProfitFactor, &rec.Created,
	)
	return rec, err
}

// GetRun returns a single run summary by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	row := j.db.QueryRow(`SELECT `+runColumns+` FROM backtest_runs WHERE run_id = ?`, runID)

	rec, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns the most recent run summaries, newest first.
func (j *SQLite) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.Query(`SELECT `+runColumns+` FROM backtest_runs ORDER BY created DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListTradesByRun returns a run's closed trades in exit order.
func (j *SQLite) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT position_id, symbol, option_type, strike, expiration, contracts,
		       entry_date, entry_price, exit_date, exit_price,
		       profit_loss, profit_loss_pct, reason
		FROM backtest_trades
		WHERE run_id = ?
		ORDER BY exit_date ASC, position_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.PositionID, &rec.Symbol, &rec.OptionType, &rec.Strike,
			&rec.Expiration, &rec.Contracts,
			&rec.EntryDate, &rec.EntryPrice, &rec.ExitDate, &rec.ExitPrice,
			&rec.ProfitLoss, &rec.ProfitLossPct, &rec.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListEquityByRun returns a run's equity curve in date order.
func (j *SQLite) ListEquityByRun(runID string) ([]EquityRecord, error) {
	rows, err := j.db.Query(`
		SELECT date, cash, positions_value, total_equity
		FROM equity
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var rec EquityRecord
		if err := rows.Scan(&rec.Date, &rec.Cash, &rec.PositionsValue, &rec.TotalEquity); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
