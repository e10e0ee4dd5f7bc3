package strategies

import (
	"context"
	"sort"
	"time"

	"github.com/rustyeddy/optrader/market"
	"github.com/rustyeddy/optrader/sim"
)

// Exit reasons reported by CheckExit.
const (
	ReasonProfitTarget = "profit_target"
	ReasonStopLoss     = "stop_loss"
	ReasonMaxHold      = "max_hold"
)

// MomentumConfig tunes the momentum day-trading strategy.
type MomentumConfig struct {
	MinVolume       int64   // minimum daily contract volume
	MinOpenInterest int64   // liquidity floor
	MinIV           float64 // e.g. 0.70

	ProfitTargetPct float64 // exit when P/L% >= this, e.g. 20
	StopLossPct     float64 // exit when P/L% <= this, negative, e.g. -15
	MaxHoldDays     int     // exit after holding this many days

	MaxSignalsPerDay int
}

func DefaultMomentumConfig() MomentumConfig {
	return MomentumConfig{
		MinVolume:        100,
		MinOpenInterest:  500,
		MinIV:            0.70,
		ProfitTargetPct:  20,
		StopLossPct:      -15,
		MaxHoldDays:      5,
		MaxSignalsPerDay: 3,
	}
}

// Momentum buys liquid, high-IV options and exits on a profit target, a
// stop loss, or a maximum holding period.
type Momentum struct {
	cfg MomentumConfig
}

func NewMomentum(cfg MomentumConfig) *Momentum {
	if cfg.MaxSignalsPerDay <= 0 {
		cfg.MaxSignalsPerDay = DefaultMomentumConfig().MaxSignalsPerDay
	}
	return &Momentum{cfg: cfg}
}

func (m *Momentum) Name() string { return "momentum" }

// GenerateSignals filters the day's chains on volume, open interest and
// implied volatility, ranks survivors by notional value and returns the
// top candidates. Symbols are walked in sorted order so runs are
// deterministic.
func (m *Momentum) GenerateSignals(ctx context.Context, snap *market.Snapshot, date time.Time) ([]Signal, error) {
	if snap == nil {
		return nil, nil
	}

	symbols := make([]string, 0, len(snap.Chains))
	for sym := range snap.Chains {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var candidates []market.Quote
	for _, sym := range symbols {
		for _, q := range snap.Chains[sym] {
			if !m.meetsCriteria(q, date) {
				continue
			}
			candidates = append(candidates, q)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Notional() > candidates[j].Notional()
	})
	if len(candidates) > m.cfg.MaxSignalsPerDay {
		candidates = candidates[:m.cfg.MaxSignalsPerDay]
	}

	signals := make([]Signal, 0, len(candidates))
	for _, q := range candidates {
		signals = append(signals, Signal{Contract: q.Contract, Price: q.Mark()})
	}
	return signals, nil
}

func (m *Momentum) meetsCriteria(q market.Quote, date time.Time) bool {
	if q.Volume < m.cfg.MinVolume {
		return false
	}
	if q.OpenInterest < m.cfg.MinOpenInterest {
		return false
	}
	if q.IV < m.cfg.MinIV {
		return false
	}
	if q.Mark() <= 0 {
		return false
	}
	// Never buy a contract expiring today or already expired.
	return q.Expiration.After(date)
}

// CheckExit applies the profit target, stop loss and max-hold rules
// against the day's mark for the position's contract.
func (m *Momentum) CheckExit(ctx context.Context, pos *sim.Position, q market.Quote, date time.Time) (string, bool) {
	mark := q.Mark()
	if mark <= 0 || pos.EntryPrice <= 0 {
		return "", false
	}

	plPct := (mark - pos.EntryPrice) / pos.EntryPrice * 100

	if plPct >= m.cfg.ProfitTargetPct {
		return ReasonProfitTarget, true
	}
	if plPct <= m.cfg.StopLossPct {
		return ReasonStopLoss, true
	}
	if m.cfg.MaxHoldDays > 0 && int(date.Sub(pos.EntryDate).Hours()/24) >= m.cfg.MaxHoldDays {
		return ReasonMaxHold, true
	}
	return "", false
}
