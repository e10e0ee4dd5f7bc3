package sim

import (
	"fmt"
	"time"

	"github.com/rustyeddy/optrader/internal/id"
	"github.com/rustyeddy/optrader/market"
)

// Ledger owns the open position set and the cash balance for one backtest
// run. It is the only component allowed to mutate either. All methods are
// called from the single-threaded day loop; the ledger itself does no
// locking.
type Ledger struct {
	initial    float64
	capital    float64
	sizePct    float64 // budget per entry as a fraction of current capital
	commission float64 // per contract, charged on entry and exit
	slippage   float64 // fractional, always adverse

	open   []*Position
	closed []Position
}

func NewLedger(initialCapital, positionSizePct, commissionPerContract, slippagePct float64) *Ledger {
	return &Ledger{
		initial:    initialCapital,
		capital:    initialCapital,
		sizePct:    positionSizePct,
		commission: commissionPerContract,
		slippage:   slippagePct,
	}
}

func (l *Ledger) Capital() float64 { return l.capital }

func (l *Ledger) OpenCount() int { return len(l.open) }

// OpenPositions returns the live position set. Callers must not close or
// mutate positions directly; use ClosePosition.
func (l *Ledger) OpenPositions() []*Position { return l.open }

// ClosedTrades returns the trades closed so far, in close order.
func (l *Ledger) ClosedTrades() []Position { return l.closed }

// RealizedPL is the sum of profit/loss over all closed trades.
func (l *Ledger) RealizedPL() float64 {
	var pl float64
	for _, p := range l.closed {
		pl += p.ProfitLoss
	}
	return pl
}

// PositionsValue is the mark-to-market value of all open positions.
func (l *Ledger) PositionsValue() float64 {
	var v float64
	for _, p := range l.open {
		v += p.MarketValue()
	}
	return v
}

// OpenPosition sizes and opens a long position for ord on date.
//
// Budget is capital * sizePct at the quoted price; the fill then pays
// adverse slippage and commission. If the full cost exceeds available
// capital the contract count is walked down to the largest affordable
// size. Fewer than one affordable contract rejects the entry with
// ErrInsufficientCapital and leaves the ledger untouched.
func (l *Ledger) OpenPosition(ord Order, date time.Time) (*Position, error) {
	if ord.Symbol == "" || !ord.Type.Valid() || ord.Strike <= 0 || ord.Expiration.IsZero() {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidOrder, ord)
	}
	if ord.Price <= 0 {
		return nil, fmt.Errorf("%w: price %.4f", ErrInvalidOrder, ord.Price)
	}

	budget := l.capital * l.sizePct
	contracts := ContractsFor(budget, ord.Price)
	if contracts < 1 {
		return nil, fmt.Errorf("%w: %s at %.2f", ErrInsufficientCapital, ord.Contract, ord.Price)
	}

	fill := EntryFill(ord.Type, ord.Price, l.slippage)
	cost := fill*100*float64(contracts) + l.commission*float64(contracts)

	// Slippage and commission can push the cost past available capital;
	// walk down to the largest affordable size.
	for cost > l.capital {
		contracts--
		if contracts < 1 {
			return nil, fmt.Errorf("%w: %s at %.2f", ErrInsufficientCapital, ord.Contract, ord.Price)
		}
		cost = fill*100*float64(contracts) + l.commission*float64(contracts)
	}

	pos := &Position{
		ID:           id.New(),
		Contract:     ord.Contract,
		EntryDate:    date,
		EntryPrice:   fill,
		Contracts:    contracts,
		CostBasis:    cost,
		CurrentPrice: fill,
		Open:         true,
	}

	l.capital -= cost
	l.open = append(l.open, pos)
	return pos, nil
}

// MarkToMarket refreshes each open position's end-of-day mark from the
// day's snapshot. Contracts with no quote keep their previous mark.
func (l *Ledger) MarkToMarket(snap *market.Snapshot) {
	if snap == nil {
		return
	}
	for _, p := range l.open {
		if q, ok := snap.Quote(p.Contract); ok {
			if m := q.Mark(); m > 0 {
				p.CurrentPrice = m
			}
		}
	}
}

// ClosePosition closes pos at the day's quote for its contract, falling
// back to the last known mark when the snapshot has no quote (stale-price
// policy, not an error). Proceeds are credited to capital and the position
// moves to the closed list. CLOSED is terminal.
func (l *Ledger) ClosePosition(pos *Position, snap *market.Snapshot, date time.Time, reason string) (Position, error) {
	if !pos.Open {
		return Position{}, fmt.Errorf("%w: %s", ErrPositionClosed, pos.ID)
	}

	price := pos.CurrentPrice
	if snap != nil {
		if q, ok := snap.Quote(pos.Contract); ok {
			if m := q.Mark(); m > 0 {
				price = m
			}
		}
	}

	fill := ExitFill(pos.Type, price, l.slippage)
	proceeds := fill*100*float64(pos.Contracts) - l.commission*float64(pos.Contracts)

	pos.ExitDate = date
	pos.ExitPrice = fill
	pos.ExitReason = reason
	pos.ProfitLoss = proceeds - pos.CostBasis
	if pos.CostBasis > 0 {
		pos.ProfitLossPct = pos.ProfitLoss / pos.CostBasis * 100
	} else {
		pos.ProfitLossPct = 0
	}
	pos.CurrentPrice = fill
	pos.Open = false

	for i, p := range l.open {
		if p == pos {
			l.open = append(l.open[:i], l.open[i+1:]...)
			break
		}
	}
	l.closed = append(l.closed, *pos)
	l.capital += proceeds

	return *pos, nil
}

// CloseAll closes every remaining open position at date, in open order.
// Used for the forced end-of-run liquidation.
func (l *Ledger) CloseAll(snap *market.Snapshot, date time.Time, reason string) []Position {
	var closed []Position
	for len(l.open) > 0 {
		trade, err := l.ClosePosition(l.open[0], snap, date, reason)
		if err != nil {
			// Only possible for an already closed position, which the
			// open set cannot contain.
			continue
		}
		closed = append(closed, trade)
	}
	return closed
}

// conservationError is the drift of the capital-conservation invariant:
// capital + open cost basis - realized P/L must equal initial capital.
func (l *Ledger) conservationError() float64 {
	sum := l.capital
	for _, p := range l.open {
		sum += p.CostBasis
	}
	return sum - l.RealizedPL() - l.initial
}
