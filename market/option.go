package market

import (
	"fmt"
	"time"
)

type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// Valid reports whether t is one of the two known option types.
func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// Contract identifies a single option series: underlying symbol, right,
// strike and expiration. Two quotes with the same Contract describe the
// same tradable instrument on different days.
type Contract struct {
	Symbol     string
	Type       OptionType
	Strike     float64
	Expiration time.Time
}

func (c Contract) String() string {
	return fmt.Sprintf("%s %s $%.2f %s", c.Symbol, c.Type, c.Strike, c.Expiration.Format("2006-01-02"))
}

// Greeks as reported by the data feed. Zero values mean "not provided".
type Greeks struct {
	IV    float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
}

// Quote is one row of a day's option-chain snapshot.
type Quote struct {
	Contract

	Bid  float64
	Ask  float64
	Last float64

	Volume       int64
	OpenInterest int64

	UnderlyingPrice float64

	Greeks
}

func (q Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

// Mark returns the last traded price, falling back to the bid/ask mid when
// the contract did not trade.
func (q Quote) Mark() float64 {
	if q.Last > 0 {
		return q.Last
	}
	return q.Mid()
}

// Notional is the dollar-equivalent size of the day's activity in this
// contract (price x volume x 100 shares per contract).
func (q Quote) Notional() float64 {
	return q.Mark() * float64(q.Volume) * 100
}
