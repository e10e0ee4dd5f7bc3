package sim

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/optrader/market"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func testOrder(price float64) Order {
	return Order{
		Contract: market.Contract{
			Symbol:     "SPY",
			Type:       market.Call,
			Strike:     500,
			Expiration: date(2024, 4, 19),
		},
		Price: price,
	}
}

func snapWith(c market.Contract, last float64) *market.Snapshot {
	snap := market.NewSnapshot(date(2024, 3, 18))
	snap.Add(c.Symbol, market.Chain{{Contract: c, Last: last}})
	return snap
}

// 100k capital, 2% sizing, $2.00 call, 1% slippage, $0.65 commission:
// budget 2000 buys 10 contracts, fill 2.02, cost 2026.50.
func TestOpenPositionSizingAndCost(t *testing.T) {
	l := NewLedger(100_000, 0.02, 0.65, 0.01)

	pos, err := l.OpenPosition(testOrder(2.00), date(2024, 3, 15))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if pos.Contracts != 10 {
		t.Errorf("contracts = %d, want 10", pos.Contracts)
	}
	if !approx(pos.EntryPrice, 2.02) {
		t.Errorf("entry fill = %v, want 2.02", pos.EntryPrice)
	}
	if !approx(pos.CostBasis, 2026.50) {
		t.Errorf("cost basis = %v, want 2026.50", pos.CostBasis)
	}
	if !approx(l.Capital(), 100_000-2026.50) {
		t.Errorf("capital = %v, want %v", l.Capital(), 100_000-2026.50)
	}
	if !pos.Open {
		t.Errorf("position should be open")
	}
	if pos.ID == "" {
		t.Errorf("position should have an ID")
	}
	if !approx(l.conservationError(), 0) {
		t.Errorf("conservation drift %v after open", l.conservationError())
	}
}

// Exit the scenario above at $3.00: fill 2.97, proceeds 2963.50,
// P/L 937.00 = 46.23%.
func TestClosePositionProfitAndLoss(t *testing.T) {
	l := NewLedger(100_000, 0.02, 0.65, 0.01)

	pos, err := l.OpenPosition(testOrder(2.00), date(2024, 3, 15))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	snap := snapWith(pos.Contract, 3.00)
	trade, err := l.ClosePosition(pos, snap, date(2024, 3, 18), "profit_target")
	if err != nil {
		t.Fatalf("close: %v", err)
	}

	if !approx(trade.ExitPrice, 2.97) {
		t.Errorf("exit fill = %v, want 2.97", trade.ExitPrice)
	}
	if !approx(trade.ProfitLoss, 937.00) {
		t.Errorf("P/L = %v, want 937.00", trade.ProfitLoss)
	}
	if math.Abs(trade.ProfitLossPct-46.2373) > 0.001 {
		t.Errorf("P/L%% = %v, want ~46.2373", trade.ProfitLossPct)
	}
	if trade.ExitReason != "profit_target" {
		t.Errorf("reason = %q", trade.ExitReason)
	}
	if trade.Open {
		t.Errorf("closed trade still marked open")
	}

	if !approx(l.Capital(), 100_000+937.00) {
		t.Errorf("capital = %v, want %v", l.Capital(), 100_000+937.00)
	}
	if l.OpenCount() != 0 {
		t.Errorf("open count = %d, want 0", l.OpenCount())
	}
	if len(l.ClosedTrades()) != 1 {
		t.Errorf("closed trades = %d, want 1", len(l.ClosedTrades()))
	}
	if !approx(l.RealizedPL(), 937.00) {
		t.Errorf("realized P/L = %v", l.RealizedPL())
	}
	if !approx(l.conservationError(), 0) {
		t.Errorf("conservation drift %v after close", l.conservationError())
	}
}

func TestOpenPositionInsufficientCapital(t *testing.T) {
	// 2% of 5000 is a 100 dollar budget; a 2.00 option costs 200.
	l := NewLedger(5000, 0.02, 0.65, 0.01)

	_, err := l.OpenPosition(testOrder(2.00), date(2024, 3, 15))
	if !errors.Is(err, ErrInsufficientCapital) {
		t.Fatalf("err = %v, want ErrInsufficientCapital", err)
	}
	if l.Capital() != 5000 {
		t.Errorf("rejected entry changed capital: %v", l.Capital())
	}
	if l.OpenCount() != 0 {
		t.Errorf("rejected entry left an open position")
	}
}

func TestOpenPositionWalksDownWhenCostExceedsCapital(t *testing.T) {
	// Full sizing against the entire balance: 10 contracts at the raw
	// quote fit exactly, but slippage and commission push the cost past
	// capital, so the ledger steps down to 9.
	l := NewLedger(2000, 1.0, 0.65, 0.01)

	pos, err := l.OpenPosition(testOrder(2.00), date(2024, 3, 15))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if pos.Contracts != 9 {
		t.Errorf("contracts = %d, want 9 after walk-down", pos.Contracts)
	}
	if l.Capital() < 0 {
		t.Errorf("capital went negative: %v", l.Capital())
	}
}

func TestOpenPositionRejectsBadOrders(t *testing.T) {
	l := NewLedger(100_000, 0.02, 0.65, 0.01)

	bad := testOrder(0)
	if _, err := l.OpenPosition(bad, date(2024, 3, 15)); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("zero price: err = %v, want ErrInvalidOrder", err)
	}

	bad = testOrder(2.00)
	bad.Symbol = ""
	if _, err := l.OpenPosition(bad, date(2024, 3, 15)); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("empty symbol: err = %v, want ErrInvalidOrder", err)
	}

	bad = testOrder(2.00)
	bad.Type = "spread"
	if _, err := l.OpenPosition(bad, date(2024, 3, 15)); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("bad type: err = %v, want ErrInvalidOrder", err)
	}
}

func TestClosePositionTwiceFails(t *testing.T) {
	l := NewLedger(100_000, 0.02, 0.65, 0.01)

	pos, err := l.OpenPosition(testOrder(2.00), date(2024, 3, 15))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	snap := snapWith(pos.Contract, 3.00)
	if _, err := l.ClosePosition(pos, snap, date(2024, 3, 18), "x"); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if _, err := l.ClosePosition(pos, snap, date(2024, 3, 19), "y"); !errors.Is(err, ErrPositionClosed) {
		t.Fatalf("second close err = %v, want ErrPositionClosed", err)
	}
	if len(l.ClosedTrades()) != 1 {
		t.Errorf("double close duplicated the trade")
	}
}

func TestCloseFallsBackToLastMark(t *testing.T) {
	l := NewLedger(100_000, 0.02, 0.65, 0)

	pos, err := l.OpenPosition(testOrder(2.00), date(2024, 3, 15))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	// Mark at 2.50, then close against a snapshot with no quote for the
	// contract. The close must use the carried mark.
	l.MarkToMarket(snapWith(pos.Contract, 2.50))
	empty := market.NewSnapshot(date(2024, 3, 18))

	trade, err := l.ClosePosition(pos, empty, date(2024, 3, 18), ReasonEndOfBacktest)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !approx(trade.ExitPrice, 2.50) {
		t.Errorf("exit price = %v, want carried mark 2.50", trade.ExitPrice)
	}
}

func TestMarkToMarketIgnoresMissingQuotes(t *testing.T) {
	l := NewLedger(100_000, 0.02, 0.65, 0.01)

	pos, err := l.OpenPosition(testOrder(2.00), date(2024, 3, 15))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	before := pos.CurrentPrice

	l.MarkToMarket(market.NewSnapshot(date(2024, 3, 18)))
	if pos.CurrentPrice != before {
		t.Errorf("missing quote changed the mark: %v -> %v", before, pos.CurrentPrice)
	}

	l.MarkToMarket(nil)
	if pos.CurrentPrice != before {
		t.Errorf("nil snapshot changed the mark")
	}
}

func TestCloseAll(t *testing.T) {
	l := NewLedger(100_000, 0.02, 0.65, 0.01)

	p1, err := l.OpenPosition(testOrder(2.00), date(2024, 3, 15))
	if err != nil {
		t.Fatalf("open 1: %v", err)
	}
	ord := testOrder(1.50)
	ord.Strike = 505
	if _, err := l.OpenPosition(ord, date(2024, 3, 15)); err != nil {
		t.Fatalf("open 2: %v", err)
	}

	closed := l.CloseAll(snapWith(p1.Contract, 2.10), date(2024, 3, 22), ReasonEndOfBacktest)
	if len(closed) != 2 {
		t.Fatalf("closed %d positions, want 2", len(closed))
	}
	if l.OpenCount() != 0 {
		t.Errorf("open count = %d after CloseAll", l.OpenCount())
	}
	for _, tr := range closed {
		if tr.ExitReason != ReasonEndOfBacktest {
			t.Errorf("reason = %q, want %q", tr.ExitReason, ReasonEndOfBacktest)
		}
	}
	if !approx(l.conservationError(), 0) {
		t.Errorf("conservation drift %v after CloseAll", l.conservationError())
	}
}
