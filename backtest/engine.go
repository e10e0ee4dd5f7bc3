package backtest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rustyeddy/optrader/internal/id"
	"github.com/rustyeddy/optrader/journal"
	"github.com/rustyeddy/optrader/market"
	"github.com/rustyeddy/optrader/sim"
	"github.com/rustyeddy/optrader/strategies"
)

const defaultFetchTimeout = 30 * time.Second

// ErrorReporter receives the run's non-fatal errors: skipped symbols,
// rejected entries, missing quotes. Injected explicitly so runs share no
// ambient error state.
type ErrorReporter interface {
	Report(date time.Time, symbol string, err error)
}

// LogReporter writes non-fatal errors to the standard logger.
type LogReporter struct{}

func (LogReporter) Report(date time.Time, symbol string, err error) {
	log.Printf("backtest %s %s: %v", date.Format(time.DateOnly), symbol, err)
}

// Engine replays historical option-chain snapshots day by day against a
// strategy, simulating capital-constrained position lifecycles.
//
// One trading day is fully processed (exits, then entries, then the
// equity snapshot) before the next begins. Only the per-symbol snapshot
// fetches within a day run concurrently.
type Engine struct {
	Provider market.ChainProvider
	Strategy strategies.Strategy
	Journal  journal.Journal // optional; nil skips persistence
	Reporter ErrorReporter   // optional; defaults to LogReporter

	Symbols []string
	Start   time.Time
	End     time.Time

	InitialCapital        float64
	MaxPositions          int
	PositionSizePct       float64
	CommissionPerContract float64
	SlippagePct           float64

	// FetchTimeout bounds each per-symbol snapshot fetch. A timeout means
	// "no data for that symbol today", never a run failure.
	FetchTimeout time.Duration
}

func (e *Engine) validate() error {
	if e.Provider == nil {
		return fmt.Errorf("backtest: Provider is required")
	}
	if e.Strategy == nil {
		return fmt.Errorf("backtest: Strategy is required")
	}
	if len(e.Symbols) == 0 {
		return fmt.Errorf("backtest: at least one symbol is required")
	}
	if e.End.Before(e.Start) {
		return fmt.Errorf("backtest: end date %s before start date %s",
			e.End.Format(time.DateOnly), e.Start.Format(time.DateOnly))
	}
	if e.InitialCapital <= 0 {
		return fmt.Errorf("backtest: initial capital must be positive")
	}
	if e.MaxPositions < 1 {
		return fmt.Errorf("backtest: max positions must be at least 1")
	}
	if e.PositionSizePct <= 0 || e.PositionSizePct > 1 {
		return fmt.Errorf("backtest: position size pct must be in (0, 1]")
	}
	return nil
}

func (e *Engine) report(date time.Time, symbol string, err error) {
	r := e.Reporter
	if r == nil {
		r = LogReporter{}
	}
	r.Report(date, symbol, err)
}

// Run executes the backtest and returns the finalized run.
//
// Non-fatal conditions (a symbol with no data, an unaffordable entry, a
// contract with no quote) are reported and skipped. A fatal error aborts
// the loop but still returns the partially accumulated run alongside the
// error so callers can inspect how far the simulation got.
func (e *Engine) Run(ctx context.Context) (*Run, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	ledger := sim.NewLedger(e.InitialCapital, e.PositionSizePct, e.CommissionPerContract, e.SlippagePct)

	run := &Run{
		RunID:          id.New(),
		Strategy:       e.Strategy.Name(),
		Start:          market.Day(e.Start),
		End:            market.Day(e.End),
		InitialCapital: e.InitialCapital,
	}

	finalize := func(last *market.Snapshot, date time.Time) {
		ledger.CloseAll(last, date, sim.ReasonEndOfBacktest)
		run.Trades = ledger.ClosedTrades()
		run.FinalCapital = ledger.Capital()
		run.Metrics = Compute(run.InitialCapital, run.FinalCapital, run.EquityCurve, run.Trades)
	}

	var lastSnap *market.Snapshot
	for _, day := range market.TradingDays(e.Start, e.End) {
		if err := ctx.Err(); err != nil {
			run.Trades = ledger.ClosedTrades()
			run.FinalCapital = ledger.Capital()
			return run, fmt.Errorf("backtest aborted on %s: %w", day.Format(time.DateOnly), err)
		}

		snap := e.fetchSnapshot(ctx, day)
		lastSnap = snap

		e.manageExits(ctx, ledger, snap, day)
		e.openEntries(ctx, ledger, snap, day)

		value := ledger.PositionsValue()
		run.EquityCurve = append(run.EquityCurve, EquityPoint{
			Date:           day,
			Cash:           ledger.Capital(),
			PositionsValue: value,
			TotalEquity:    ledger.Capital() + value,
		})
	}

	finalize(lastSnap, run.End)

	if e.Journal != nil {
		if err := e.persist(run); err != nil {
			return run, fmt.Errorf("persist run: %w", err)
		}
	}
	return run, nil
}

// fetchSnapshot gathers the day's chains for every symbol. Fetches run
// concurrently, each under its own timeout; failures are reported and the
// symbol is simply absent from the snapshot.
func (e *Engine) fetchSnapshot(ctx context.Context, day time.Time) *market.Snapshot {
	timeout := e.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	snap := market.NewSnapshot(day)

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, sym := range e.Symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()

			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			chain, err := e.Provider.OptionChain(fctx, sym, day)
			if err != nil {
				e.report(day, sym, err)
				return
			}

			mu.Lock()
			snap.Add(sym, chain)
			mu.Unlock()
		}(sym)
	}
	wg.Wait()

	return snap
}

// manageExits evaluates every open position against the day's snapshot,
// before any new entry may use freed capital. Strategy exits take
// precedence over hard expiration. A position whose contract has no quote
// today is carried forward unchanged.
func (e *Engine) manageExits(ctx context.Context, ledger *sim.Ledger, snap *market.Snapshot, day time.Time) {
	ledger.MarkToMarket(snap)

	type exit struct {
		pos    *sim.Position
		reason string
	}
	var toClose []exit

	for _, pos := range ledger.OpenPositions() {
		chain, ok := snap.Chain(pos.Symbol)
		if !ok {
			continue
		}

		q, ok := chain.Find(pos.Contract)
		if !ok {
			e.report(day, pos.Symbol, fmt.Errorf("%w: %s", market.ErrQuoteNotFound, pos.Contract))
			continue
		}

		if reason, fire := e.Strategy.CheckExit(ctx, pos, q, day); fire {
			toClose = append(toClose, exit{pos, reason})
			continue
		}
		if pos.Expired(day) {
			toClose = append(toClose, exit{pos, sim.ReasonExpiration})
		}
	}

	for _, x := range toClose {
		if _, err := ledger.ClosePosition(x.pos, snap, day, x.reason); err != nil {
			e.report(day, x.pos.Symbol, err)
		}
	}
}

// openEntries asks the strategy for signals and opens positions until
// capacity is reached or signals run out.
func (e *Engine) openEntries(ctx context.Context, ledger *sim.Ledger, snap *market.Snapshot, day time.Time) {
	if ledger.OpenCount() >= e.MaxPositions {
		return
	}

	signals, err := e.Strategy.GenerateSignals(ctx, snap, day)
	if err != nil {
		e.report(day, "", fmt.Errorf("generate signals: %w", err))
		return
	}

	for _, sig := range signals {
		if ledger.OpenCount() >= e.MaxPositions {
			break
		}
		if _, err := ledger.OpenPosition(sig.Order(), day); err != nil {
			e.report(day, sig.Symbol, err)
		}
	}
}
