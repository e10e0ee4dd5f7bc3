// Package data serves historical option-chain snapshots from a directory
// of per-day CSV files, one file per symbol per trading day:
//
//	<root>/<SYMBOL>/<YYYY-MM-DD>.csv
//
// Files may be stored xz-compressed (.csv.xz). Whole datasets can be
// dropped in as zip bundles and unpacked with ExtractArchive.
package data

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"

	"github.com/rustyeddy/optrader/market"
)

// Store implements market.ChainProvider over a dataset directory.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// OptionChain loads the chain snapshot for symbol on date. A missing file
// means market.ErrNoData.
func (s *Store) OptionChain(ctx context.Context, symbol string, date time.Time) (market.Chain, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := filepath.Join(s.root, strings.ToUpper(symbol), date.Format(time.DateOnly))

	if f, err := os.Open(base + ".csv"); err == nil {
		defer f.Close()
		return parseChain(f, strings.ToUpper(symbol))
	}

	if f, err := os.Open(base + ".csv.xz"); err == nil {
		defer f.Close()
		r, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", base+".csv.xz", err)
		}
		return parseChain(r, strings.ToUpper(symbol))
	}

	return nil, fmt.Errorf("%w: %s on %s", market.ErrNoData, symbol, date.Format(time.DateOnly))
}

// OptionChainRange loads the daily chains for symbol over the trading days
// in [start, end]. Days with no data are skipped.
func (s *Store) OptionChainRange(ctx context.Context, symbol string, start, end time.Time) ([]market.Chain, error) {
	var out []market.Chain
	for _, day := range market.TradingDays(start, end) {
		ch, err := s.OptionChain(ctx, symbol, day)
		if err != nil {
			if errors.Is(err, market.ErrNoData) {
				continue
			}
			return nil, err
		}
		out = append(out, ch)
	}
	return out, nil
}

// ExtractArchive unpacks a zipped dataset bundle into the store root. The
// archive is expected to contain the <SYMBOL>/<date>.csv layout.
func (s *Store) ExtractArchive(zipPath string) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return err
	}
	return unzip.Extract(zipPath, s.root)
}

// chainHeader is the canonical column order written by the exporters.
const chainHeader = "option_type,strike,expiration,bid,ask,last,volume,open_interest,iv,delta,gamma,theta,vega,underlying_price"

func parseChain(r io.Reader, symbol string) (market.Chain, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var chain market.Chain
	first := true

	for {
		row, err := cr.Read()
		if err == io.EOF {
			return chain, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		// Tolerate files with or without a header row.
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "option_type") {
				continue
			}
		}

		q, err := parseQuote(row, symbol)
		if err != nil {
			return nil, err
		}
		chain = append(chain, q)
	}
}

func parseQuote(row []string, symbol string) (market.Quote, error) {
	if len(row) < 8 {
		return market.Quote{}, fmt.Errorf("bad chain row (need at least 8 cols of %q): %v", chainHeader, row)
	}

	typ := market.OptionType(strings.ToLower(strings.TrimSpace(row[0])))
	if !typ.Valid() {
		return market.Quote{}, fmt.Errorf("bad option type %q", row[0])
	}

	strike, err := parseF(row[1])
	if err != nil {
		return market.Quote{}, fmt.Errorf("bad strike %q: %w", row[1], err)
	}

	exp, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(row[2]), time.UTC)
	if err != nil {
		return market.Quote{}, fmt.Errorf("bad expiration %q: %w", row[2], err)
	}

	q := market.Quote{
		Contract: market.Contract{
			Symbol:     symbol,
			Type:       typ,
			Strike:     strike,
			Expiration: exp,
		},
	}

	if q.Bid, err = parseF(row[3]); err != nil {
		return market.Quote{}, fmt.Errorf("bad bid %q: %w", row[3], err)
	}
	if q.Ask, err = parseF(row[4]); err != nil {
		return market.Quote{}, fmt.Errorf("bad ask %q: %w", row[4], err)
	}
	// Contracts that did not trade carry an empty last column.
	if strings.TrimSpace(row[5]) != "" {
		if q.Last, err = parseF(row[5]); err != nil {
			return market.Quote{}, fmt.Errorf("bad last %q: %w", row[5], err)
		}
	}
	if q.Volume, err = parseI(row[6]); err != nil {
		return market.Quote{}, fmt.Errorf("bad volume %q: %w", row[6], err)
	}
	if q.OpenInterest, err = parseI(row[7]); err != nil {
		return market.Quote{}, fmt.Errorf("bad open interest %q: %w", row[7], err)
	}

	// Greeks and underlying are optional columns.
	opt := []*float64{&q.IV, &q.Delta, &q.Gamma, &q.Theta, &q.Vega, &q.UnderlyingPrice}
	for i, dst := range opt {
		col := 8 + i
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			continue
		}
		if *dst, err = parseF(row[col]); err != nil {
			return market.Quote{}, fmt.Errorf("bad value in col %d %q: %w", col, row[col], err)
		}
	}

	return q, nil
}

func parseF(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseI(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
