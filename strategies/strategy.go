package strategies

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/optrader/market"
	"github.com/rustyeddy/optrader/sim"
)

// Signal is an entry candidate emitted by a strategy: a contract and the
// quoted premium the strategy saw.
type Signal struct {
	market.Contract
	Price float64
}

// Order converts the signal into a ledger order.
func (s Signal) Order() sim.Order {
	return sim.Order{Contract: s.Contract, Price: s.Price}
}

// Strategy is the policy surface the backtest engine drives. It emits
// entry signals from a day's snapshot and decides when open positions
// should exit.
type Strategy interface {
	Name() string

	GenerateSignals(ctx context.Context, snap *market.Snapshot, date time.Time) ([]Signal, error)

	// CheckExit reports whether pos should be closed given today's quote
	// for its contract. The returned reason is recorded on the trade.
	CheckExit(ctx context.Context, pos *sim.Position, q market.Quote, date time.Time) (reason string, exit bool)
}

type Registry map[string]Strategy

var registry = make(Registry)

func Register(name string, strat Strategy) {
	registry[name] = strat
}

func Get(name string) Strategy {
	return registry[name]
}

// ByName builds a strategy from its CLI/config name.
func ByName(name string, cfg MomentumConfig) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "momentum":
		return NewMomentum(cfg), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, momentum)", name)
	}
}
