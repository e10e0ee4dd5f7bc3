package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/optrader/internal/id"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) SaveRun(rec RunRecord) (string, error) {
	if rec.RunID == "" {
		rec.RunID = id.New()
	}

	_, err := j.db.Exec(`
		INSERT INTO backtest_runs
		(run_id, strategy, start_date, end_date, initial_capital, final_capital,
		 total_trades, winning_trades, losing_trades,
		 total_return_pct, annualized_return_pct, win_rate, avg_profit_pct,
		 max_profit_pct, max_loss_pct, sharpe_ratio, sortino_ratio,
		 max_drawdown_pct, profit_factor, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Strategy, rec.Start, rec.End, rec.InitialCapital, rec.FinalCapital,
		rec.TotalTrades, rec.WinningTrades, rec.LosingTrades,
		rec.TotalReturnPct, rec.AnnualizedReturnPct, rec.WinRate, rec.AvgProfitPct,
		rec.MaxProfitPct, rec.MaxLossPct, rec.SharpeRatio, rec.SortinoRatio,
		rec.MaxDrawdownPct, rec.ProfitFactor, rec.Created,
	)
	if err != nil {
		return "", err
	}
	return rec.RunID, nil
}

func (j *SQLite) SaveTrade(runID string, rec TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO backtest_trades
		(position_id, run_id, symbol, option_type, strike, expiration, contracts,
		 entry_date, entry_price, exit_date, exit_price,
		 profit_loss, profit_loss_pct, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.PositionID, runID, rec.Symbol, rec.OptionType, rec.Strike, rec.Expiration,
		rec.Contracts, rec.EntryDate, rec.EntryPrice, rec.ExitDate, rec.ExitPrice,
		rec.ProfitLoss, rec.ProfitLossPct, rec.Reason,
	)
	return err
}

func (j *SQLite) SaveEquity(runID string, rec EquityRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, date, cash, positions_value, total_equity)
		VALUES (?, ?, ?, ?, ?)`,
		runID, rec.Date, rec.Cash, rec.PositionsValue, rec.TotalEquity,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
