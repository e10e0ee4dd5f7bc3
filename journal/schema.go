package journal

const Schema = `
CREATE TABLE IF NOT EXISTS backtest_runs (
	run_id TEXT PRIMARY KEY,
	strategy TEXT NOT NULL,
	start_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	initial_capital REAL NOT NULL,
	final_capital REAL NOT NULL,
	total_trades INTEGER NOT NULL,
	winning_trades INTEGER NOT NULL,
	losing_trades INTEGER NOT NULL,
	total_return_pct REAL NOT NULL,
	annualized_return_pct REAL NOT NULL,
	win_rate REAL NOT NULL,
	avg_profit_pct REAL NOT NULL,
	max_profit_pct REAL NOT NULL,
	max_loss_pct REAL NOT NULL,
	sharpe_ratio REAL NOT NULL,
	sortino_ratio REAL NOT NULL,
	max_drawdown_pct REAL NOT NULL,
	profit_factor REAL NOT NULL,
	created DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS backtest_trades (
	position_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	option_type TEXT NOT NULL,
	strike REAL NOT NULL,
	expiration DATETIME NOT NULL,
	contracts INTEGER NOT NULL,
	entry_date DATETIME NOT NULL,
	entry_price REAL NOT NULL,
	exit_date DATETIME NOT NULL,
	exit_price REAL NOT NULL,
	profit_loss REAL NOT NULL,
	profit_loss_pct REAL NOT NULL,
	reason TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES backtest_runs (run_id)
);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	cash REAL NOT NULL,
	positions_value REAL NOT NULL,
	total_equity REAL NOT NULL,
	FOREIGN KEY (run_id) REFERENCES backtest_runs (run_id)
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON backtest_trades(run_id);
CREATE INDEX IF NOT EXISTS idx_equity_run_date ON equity(run_id, date);
`
