package backtest

import (
	"math"
	"time"

	"github.com/rustyeddy/optrader/sim"
)

const tradingDaysPerYear = 252

// profitFactorCap stands in for an infinite profit factor when a run has
// gross profit but zero gross loss. Keeps the value finite for storage
// and reporting.
const profitFactorCap = 999

// Metrics is the full analytics set computed over a finished run.
type Metrics struct {
	TotalReturnPct      float64
	AnnualizedReturnPct float64
	SharpeRatio         float64
	SortinoRatio        float64
	MaxDrawdownPct      float64
	MaxDrawdownDays     int

	TotalTrades   int
	WinningTrades int
	LosingTrades  int

	WinRate         float64
	AvgProfitPct    float64
	AvgProfitAmount float64
	ProfitFactor    float64

	MaxConsecutiveWins   int
	MaxConsecutiveLosses int

	MaxProfitPct float64 // best trade by P/L%
	MaxLossPct   float64 // worst trade by P/L%

	AvgTradeDurationDays float64
}

// Compute derives the metric set from a run's equity curve and closed
// trades. It is a pure function: deterministic, no side effects, and it
// never returns NaN or Inf; degenerate inputs yield zeros.
func Compute(initialCapital, finalCapital float64, curve []EquityPoint, trades []sim.Position) Metrics {
	var m Metrics

	totalReturn := 0.0
	if initialCapital != 0 {
		totalReturn = (finalCapital - initialCapital) / initialCapital
	}
	m.TotalReturnPct = totalReturn * 100

	if len(curve) > 0 {
		first := curve[0].Date
		last := curve[len(curve)-1].Date
		durationYears := last.Sub(first).Hours() / 24 / 365

		if durationYears > 0 && 1+totalReturn > 0 {
			m.AnnualizedReturnPct = (math.Pow(1+totalReturn, 1/durationYears) - 1) * 100
		}

		returns := dailyReturns(curve)
		m.SharpeRatio = sharpe(returns)
		m.SortinoRatio = sortino(returns)
		m.MaxDrawdownPct, m.MaxDrawdownDays = drawdown(curve)
	}

	m.TotalTrades = len(trades)
	if m.TotalTrades == 0 {
		return m
	}

	var grossProfit, grossLoss float64
	var sumPct, sumAmt float64
	var durations, durationSum int
	wins := make([]bool, len(trades))

	m.MaxProfitPct = math.Inf(-1)
	m.MaxLossPct = math.Inf(1)

	for i, t := range trades {
		if t.ProfitLoss > 0 {
			m.WinningTrades++
			grossProfit += t.ProfitLoss
			wins[i] = true
		} else {
			m.LosingTrades++
			grossLoss += -t.ProfitLoss
		}

		sumPct += t.ProfitLossPct
		sumAmt += t.ProfitLoss

		if t.ProfitLossPct > m.MaxProfitPct {
			m.MaxProfitPct = t.ProfitLossPct
		}
		if t.ProfitLossPct < m.MaxLossPct {
			m.MaxLossPct = t.ProfitLossPct
		}

		if !t.EntryDate.IsZero() && !t.ExitDate.IsZero() {
			durations++
			durationSum += t.HoldingDays()
		}
	}

	n := float64(m.TotalTrades)
	m.WinRate = float64(m.WinningTrades) / n * 100
	m.AvgProfitPct = sumPct / n
	m.AvgProfitAmount = sumAmt / n

	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossProfit / grossLoss
		if m.ProfitFactor > profitFactorCap {
			m.ProfitFactor = profitFactorCap
		}
	case grossProfit > 0:
		m.ProfitFactor = profitFactorCap
	}

	m.MaxConsecutiveWins = maxRun(wins, true)
	m.MaxConsecutiveLosses = maxRun(wins, false)

	if durations > 0 {
		m.AvgTradeDurationDays = float64(durationSum) / float64(durations)
	}

	return m
}

// dailyReturns is the day-over-day percentage change of total equity.
// Pairs whose previous equity is zero are skipped rather than producing
// infinities.
func dailyReturns(curve []EquityPoint) []float64 {
	var out []float64
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].TotalEquity
		if prev == 0 {
			continue
		}
		out = append(out, (curve[i].TotalEquity-prev)/prev)
	}
	return out
}

// sharpe annualizes mean/stddev of daily returns, assuming a 0% risk-free
// rate. Returns 0 with fewer than two observations or zero variance.
func sharpe(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	sd := stddev(returns)
	if sd == 0 {
		return 0
	}
	return math.Sqrt(tradingDaysPerYear) * mean(returns) / sd
}

// sortino is sharpe computed against downside deviation only: the sample
// stddev of the negative daily returns. Returns 0 when fewer than two
// negative observations exist.
func sortino(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	var negative []float64
	for _, r := range returns {
		if r < 0 {
			negative = append(negative, r)
		}
	}
	if len(negative) < 2 {
		return 0
	}
	dd := stddev(negative)
	if dd == 0 {
		return 0
	}
	return math.Sqrt(tradingDaysPerYear) * mean(returns) / dd
}

// drawdown returns the deepest peak-to-trough decline as a percentage
// (always <= 0) and the longest drawdown duration in days. A drawdown
// still open at the end of the curve closes at the final date.
func drawdown(curve []EquityPoint) (maxDDPct float64, maxDays int) {
	if len(curve) == 0 {
		return 0, 0
	}

	runMax := curve[0].TotalEquity
	var ddStart time.Time
	inDD := false

	for _, p := range curve {
		if p.TotalEquity > runMax {
			runMax = p.TotalEquity
		}

		if runMax > 0 {
			dd := (p.TotalEquity - runMax) / runMax * 100
			if dd < maxDDPct {
				maxDDPct = dd
			}
		}

		below := p.TotalEquity < runMax
		switch {
		case below && !inDD:
			inDD = true
			ddStart = p.Date
		case !below && inDD:
			inDD = false
			if d := days(ddStart, p.Date); d > maxDays {
				maxDays = d
			}
		}
	}

	if inDD {
		if d := days(ddStart, curve[len(curve)-1].Date); d > maxDays {
			maxDays = d
		}
	}
	return maxDDPct, maxDays
}

func days(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation (n-1 denominator).
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mu := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - mu) * (x - mu)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// maxRun is the longest run of want values in order.
func maxRun(results []bool, want bool) int {
	best, cur := 0, 0
	for _, r := range results {
		if r == want {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	return best
}
