package market

import (
	"testing"
)

func TestOptionTypeValid(t *testing.T) {
	if !Call.Valid() || !Put.Valid() {
		t.Errorf("call and put must be valid")
	}
	if OptionType("straddle").Valid() {
		t.Errorf("unknown type must be invalid")
	}
}

func TestQuoteMarkPrefersLast(t *testing.T) {
	q := Quote{Bid: 1.00, Ask: 1.20, Last: 1.15}
	if got := q.Mark(); got != 1.15 {
		t.Errorf("Mark() = %v, want last traded 1.15", got)
	}
}

func TestQuoteMarkFallsBackToMid(t *testing.T) {
	q := Quote{Bid: 1.00, Ask: 1.20}
	if got := q.Mark(); got != 1.10 {
		t.Errorf("Mark() = %v, want mid 1.10", got)
	}
}

func TestQuoteNotional(t *testing.T) {
	q := Quote{Last: 2.00, Volume: 50}
	if got := q.Notional(); got != 10000 {
		t.Errorf("Notional() = %v, want 10000", got)
	}
}

func TestChainFind(t *testing.T) {
	exp := date(2024, 4, 19)
	c := Contract{Symbol: "SPY", Type: Call, Strike: 500, Expiration: exp}
	ch := Chain{
		{Contract: Contract{Symbol: "SPY", Type: Put, Strike: 500, Expiration: exp}, Last: 1.0},
		{Contract: c, Last: 2.5},
	}

	q, ok := ch.Find(c)
	if !ok {
		t.Fatalf("expected to find %s", c)
	}
	if q.Last != 2.5 {
		t.Errorf("found wrong quote: %+v", q)
	}

	_, ok = ch.Find(Contract{Symbol: "SPY", Type: Call, Strike: 505, Expiration: exp})
	if ok {
		t.Errorf("should not find a contract with a different strike")
	}
}

func TestSnapshotQuote(t *testing.T) {
	exp := date(2024, 4, 19)
	c := Contract{Symbol: "SPY", Type: Call, Strike: 500, Expiration: exp}

	snap := NewSnapshot(date(2024, 3, 15))
	snap.Add("SPY", Chain{{Contract: c, Last: 2.5}})

	if _, ok := snap.Quote(c); !ok {
		t.Errorf("expected quote for %s", c)
	}

	missing := Contract{Symbol: "QQQ", Type: Call, Strike: 400, Expiration: exp}
	if _, ok := snap.Quote(missing); ok {
		t.Errorf("should not find quote for absent symbol")
	}
}
