package journal

import "time"

// RunRecord mirrors the backtest_runs table: one row per finished (or
// aborted) backtest with its headline metrics.
type RunRecord struct {
	RunID    string
	Strategy string
	Start    time.Time
	End      time.Time

	InitialCapital float64
	FinalCapital   float64

	TotalTrades   int
	WinningTrades int
	LosingTrades  int

	TotalReturnPct      float64
	AnnualizedReturnPct float64
	WinRate             float64
	AvgProfitPct        float64
	MaxProfitPct        float64
	MaxLossPct          float64
	SharpeRatio         float64
	SortinoRatio        float64
	MaxDrawdownPct      float64
	ProfitFactor        float64

	Created time.Time
}

// TradeRecord mirrors the backtest_trades table: one closed trade.
type TradeRecord struct {
	PositionID string
	Symbol     string
	OptionType string
	Strike     float64
	Expiration time.Time
	Contracts  int

	EntryDate  time.Time
	EntryPrice float64
	ExitDate   time.Time
	ExitPrice  float64

	ProfitLoss    float64
	ProfitLossPct float64
	Reason        string
}

// EquityRecord is one end-of-day equity point of a run.
type EquityRecord struct {
	Date           time.Time
	Cash           float64
	PositionsValue float64
	TotalEquity    float64
}

// Journal persists finished backtest runs. The engine writes once, at the
// end of a run; retry or locking policy is the implementation's concern,
// never the simulation's.
type Journal interface {
	// SaveRun stores the run summary and returns its run ID, assigning a
	// fresh one when rec.RunID is empty.
	SaveRun(rec RunRecord) (string, error)
	SaveTrade(runID string, rec TradeRecord) error
	SaveEquity(runID string, rec EquityRecord) error
	Close() error
}
