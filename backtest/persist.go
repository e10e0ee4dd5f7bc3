package backtest

import (
	"time"

	"github.com/rustyeddy/optrader/journal"
)

// persist hands the finished run to the journal: one run row, then every
// closed trade and equity point under the returned run ID.
func (e *Engine) persist(run *Run) error {
	m := run.Metrics

	runID, err := e.Journal.SaveRun(journal.RunRecord{
		RunID:    run.RunID,
		Strategy: run.Strategy,
		Start:    run.Start,
		End:      run.End,

		InitialCapital: run.InitialCapital,
		FinalCapital:   run.FinalCapital,

		TotalTrades:   m.TotalTrades,
		WinningTrades: m.WinningTrades,
		LosingTrades:  m.LosingTrades,

		TotalReturnPct:      m.TotalReturnPct,
		AnnualizedReturnPct: m.AnnualizedReturnPct,
		WinRate:             m.WinRate,
		AvgProfitPct:        m.AvgProfitPct,
		MaxProfitPct:        m.MaxProfitPct,
		MaxLossPct:          m.MaxLossPct,
		SharpeRatio:         m.SharpeRatio,
		SortinoRatio:        m.SortinoRatio,
		MaxDrawdownPct:      m.MaxDrawdownPct,
		ProfitFactor:        m.ProfitFactor,

		Created: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	run.RunID = runID

	for _, t := range run.Trades {
		rec := journal.TradeRecord{
			PositionID: t.ID,
			Symbol:     t.Symbol,
			OptionType: string(t.Type),
			Strike:     t.Strike,
			Expiration: t.Expiration,
			Contracts:  t.Contracts,

			EntryDate:  t.EntryDate,
			EntryPrice: t.EntryPrice,
			ExitDate:   t.ExitDate,
			ExitPrice:  t.ExitPrice,

			ProfitLoss:    t.ProfitLoss,
			ProfitLossPct: t.ProfitLossPct,
			Reason:        t.ExitReason,
		}
		if err := e.Journal.SaveTrade(runID, rec); err != nil {
			return err
		}
	}

	for _, p := range run.EquityCurve {
		rec := journal.EquityRecord{
			Date:           p.Date,
			Cash:           p.Cash,
			PositionsValue: p.PositionsValue,
			TotalEquity:    p.TotalEquity,
		}
		if err := e.Journal.SaveEquity(runID, rec); err != nil {
			return err
		}
	}

	return nil
}
