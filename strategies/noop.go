package strategies

import (
	"context"
	"time"

	"github.com/rustyeddy/optrader/market"
	"github.com/rustyeddy/optrader/sim"
)

// Noop never enters and never exits. Baseline for engine tests.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) GenerateSignals(ctx context.Context, snap *market.Snapshot, date time.Time) ([]Signal, error) {
	return nil, nil
}

func (Noop) CheckExit(ctx context.Context, pos *sim.Position, q market.Quote, date time.Time) (string, bool) {
	return "", false
}
