package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/optrader/internal/id"
)

// CSVJournal writes trades and equity points to two flat CSV files. Run
// summaries are not persisted beyond assigning a run ID; use SQLite when
// the summary matters.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	if err := tw.Write([]string{"run_id", "position_id", "symbol", "option_type", "strike", "expiration", "contracts", "entry_date", "entry_price", "exit_date", "exit_price", "profit_loss", "profit_loss_pct", "reason"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"run_id", "date", "cash", "positions_value", "total_equity"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{tw, ew, tf, ef}, nil
}

func (j *CSVJournal) SaveRun(rec RunRecord) (string, error) {
	if rec.RunID == "" {
		rec.RunID = id.New()
	}
	return rec.RunID, nil
}

func (j *CSVJournal) SaveTrade(runID string, t TradeRecord) error {
	err := j.trades.Write([]string{
		runID,
		t.PositionID,
		t.Symbol,
		t.OptionType,
		f(t.Strike),
		t.Expiration.Format(time.DateOnly),
		strconv.Itoa(t.Contracts),
		t.EntryDate.Format(time.DateOnly),
		f(t.EntryPrice),
		t.ExitDate.Format(time.DateOnly),
		f(t.ExitPrice),
		f(t.ProfitLoss),
		f(t.ProfitLossPct),
		t.Reason,
	})
	if err != nil {
		return err
	}

	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) SaveEquity(runID string, e EquityRecord) error {
	err := j.equity.Write([]string{
		runID,
		e.Date.Format(time.DateOnly),
		f(e.Cash),
		f(e.PositionsValue),
		f(e.TotalEquity),
	})
	if err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
