package market

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoData means no chain snapshot exists for a symbol/date. Callers
	// skip the symbol for the day; it is never fatal.
	ErrNoData = errors.New("market: no data for symbol/date")

	// ErrQuoteNotFound means a chain is present but does not carry the
	// requested contract. Open positions carry their last known price.
	ErrQuoteNotFound = errors.New("market: quote not found in chain")
)

// ChainProvider supplies one option-chain snapshot per symbol per day.
type ChainProvider interface {
	OptionChain(ctx context.Context, symbol string, date time.Time) (Chain, error)
}

// HistorySource is an optional extension for providers that can serve a
// series of daily chains, used by strategies that want lookback data.
type HistorySource interface {
	OptionChainRange(ctx context.Context, symbol string, start, end time.Time) ([]Chain, error)
}

// Chain is one symbol's option quotes for a single day.
type Chain []Quote

// Find returns the quote for a specific contract.
func (ch Chain) Find(c Contract) (Quote, bool) {
	for _, q := range ch {
		if q.Type == c.Type && q.Strike == c.Strike && q.Expiration.Equal(c.Expiration) {
			return q, true
		}
	}
	return Quote{}, false
}

// Underlying returns the underlying price carried by the chain, 0 if the
// chain is empty.
func (ch Chain) Underlying() float64 {
	if len(ch) == 0 {
		return 0
	}
	return ch[0].UnderlyingPrice
}

// Snapshot holds every chain fetched for one trading day. A symbol whose
// fetch failed or timed out is simply absent.
type Snapshot struct {
	Date   time.Time
	Chains map[string]Chain
}

func NewSnapshot(date time.Time) *Snapshot {
	return &Snapshot{Date: date, Chains: make(map[string]Chain)}
}

func (s *Snapshot) Add(symbol string, ch Chain) {
	s.Chains[symbol] = ch
}

func (s *Snapshot) Chain(symbol string) (Chain, bool) {
	ch, ok := s.Chains[symbol]
	return ch, ok
}

// Quote locates a contract in the day's data. The second return is false
// both when the symbol has no chain and when the chain lacks the contract.
func (s *Snapshot) Quote(c Contract) (Quote, bool) {
	ch, ok := s.Chains[c.Symbol]
	if !ok {
		return Quote{}, false
	}
	return ch.Find(c)
}

func (s *Snapshot) Underlying(symbol string) float64 {
	return s.Chains[symbol].Underlying()
}
