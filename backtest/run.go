package backtest

import (
	"time"

	"github.com/rustyeddy/optrader/sim"
)

// EquityPoint is one end-of-day account mark: cash plus the mark-to-market
// value of open positions. Points are appended in date order, one per
// trading day.
type EquityPoint struct {
	Date           time.Time
	Cash           float64
	PositionsValue float64
	TotalEquity    float64
}

// Run is a backtest result. It is finalized once every position is closed
// and metrics are computed; a fatal orchestration error returns it
// partially filled (curve and trades accumulated so far) for diagnostics.
type Run struct {
	RunID    string
	Strategy string
	Start    time.Time
	End      time.Time

	InitialCapital float64
	FinalCapital   float64

	EquityCurve []EquityPoint
	Trades      []sim.Position

	Metrics Metrics
}
