package sim

import (
	"time"

	"github.com/rustyeddy/optrader/market"
)

// Close reasons stamped by the ledger itself. Strategies supply their own
// reasons (profit_target, stop_loss, ...) through the engine.
const (
	ReasonExpiration    = "expiration"
	ReasonEndOfBacktest = "end_of_backtest"
)

// Order is a request to open a long option position at a quoted price.
type Order struct {
	market.Contract
	Price float64
}

// Position is a single long option holding. The ledger owns it while open;
// once closed it is an immutable trade record.
type Position struct {
	ID string
	market.Contract

	EntryDate  time.Time
	EntryPrice float64 // slippage-adjusted fill
	Contracts  int
	CostBasis  float64 // fill*100*contracts + commission*contracts

	// CurrentPrice is the latest end-of-day mark, carried forward on days
	// with no quote for the contract.
	CurrentPrice float64

	ExitDate      time.Time
	ExitPrice     float64
	ExitReason    string
	ProfitLoss    float64
	ProfitLossPct float64

	Open bool
}

// Expired reports whether the contract's expiration has been reached.
func (p *Position) Expired(date time.Time) bool {
	return !p.Expiration.After(date)
}

// MarketValue is the position's mark-to-market dollar value.
func (p *Position) MarketValue() float64 {
	return p.CurrentPrice * 100 * float64(p.Contracts)
}

// HoldingDays is the whole number of days between entry and exit.
func (p *Position) HoldingDays() int {
	if p.ExitDate.IsZero() || p.EntryDate.IsZero() {
		return 0
	}
	return int(p.ExitDate.Sub(p.EntryDate).Hours() / 24)
}
