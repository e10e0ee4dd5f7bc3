package data

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/optrader/market"
)

const sampleChain = chainHeader + `
call,500,2024-04-19,1.95,2.05,2.00,250,1200,0.85,0.45,0.02,-0.05,0.11,498.50
put,500,2024-04-19,1.80,1.90,,100,800,0.80,-0.42,0.02,-0.04,0.10,498.50
`

func writeChainCSV(t *testing.T, root, symbol, date, content string) {
	t.Helper()
	dir := filepath.Join(root, symbol)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, date+".csv"), []byte(content), 0o644))
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestOptionChainParsesCSV(t *testing.T) {
	root := t.TempDir()
	writeChainCSV(t, root, "SPY", "2024-03-15", sampleChain)

	s := NewStore(root)
	chain, err := s.OptionChain(context.Background(), "spy", day(15))
	require.NoError(t, err)
	require.Len(t, chain, 2)

	call := chain[0]
	assert.Equal(t, "SPY", call.Symbol)
	assert.Equal(t, market.Call, call.Type)
	assert.Equal(t, 500.0, call.Strike)
	assert.True(t, call.Expiration.Equal(time.Date(2024, 4, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2.00, call.Last)
	assert.Equal(t, int64(250), call.Volume)
	assert.Equal(t, int64(1200), call.OpenInterest)
	assert.Equal(t, 0.85, call.IV)
	assert.Equal(t, 498.50, call.UnderlyingPrice)

	// Empty last column falls back to mid in Mark().
	put := chain[1]
	assert.Zero(t, put.Last)
	assert.InDelta(t, 1.85, put.Mark(), 1e-9)
}

func TestOptionChainHeaderless(t *testing.T) {
	root := t.TempDir()
	writeChainCSV(t, root, "SPY", "2024-03-15",
		"call,500,2024-04-19,1.95,2.05,2.00,250,1200\n")

	s := NewStore(root)
	chain, err := s.OptionChain(context.Background(), "SPY", day(15))
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Zero(t, chain[0].IV) // greeks columns optional
}

func TestOptionChainMissingIsErrNoData(t *testing.T) {
	s := NewStore(t.TempDir())

	_, err := s.OptionChain(context.Background(), "SPY", day(15))
	require.Error(t, err)
	assert.True(t, errors.Is(err, market.ErrNoData))
}

func TestOptionChainBadRow(t *testing.T) {
	root := t.TempDir()
	writeChainCSV(t, root, "SPY", "2024-03-15", "call,oops,2024-04-19,1,2,3,4,5\n")

	s := NewStore(root)
	_, err := s.OptionChain(context.Background(), "SPY", day(15))
	assert.Error(t, err)
}

func TestOptionChainReadsXZ(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "SPY")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	f, err := os.Create(filepath.Join(dir, "2024-03-15.csv.xz"))
	require.NoError(t, err)
	w, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = w.Write([]byte(sampleChain))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	s := NewStore(root)
	chain, err := s.OptionChain(context.Background(), "SPY", day(15))
	require.NoError(t, err)
	assert.Len(t, chain, 2)
}

func TestOptionChainRangeSkipsMissingDays(t *testing.T) {
	root := t.TempDir()
	writeChainCSV(t, root, "SPY", "2024-03-15", sampleChain)
	writeChainCSV(t, root, "SPY", "2024-03-19", sampleChain)
	// 18th (Monday) has no file.

	s := NewStore(root)
	chains, err := s.OptionChainRange(context.Background(), "SPY", day(15), day(19))
	require.NoError(t, err)
	assert.Len(t, chains, 2)
}

func TestExtractArchive(t *testing.T) {
	srcDir := t.TempDir()
	zipPath := filepath.Join(srcDir, "dataset.zip")

	zf, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(zf)
	entry, err := zw.Create("SPY/2024-03-15.csv")
	require.NoError(t, err)
	_, err = entry.Write([]byte(sampleChain))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, zf.Close())

	root := filepath.Join(t.TempDir(), "data")
	s := NewStore(root)
	require.NoError(t, s.ExtractArchive(zipPath))

	chain, err := s.OptionChain(context.Background(), "SPY", day(15))
	require.NoError(t, err)
	assert.Len(t, chain, 2)
}

func TestOptionChainHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewStore(t.TempDir())
	_, err := s.OptionChain(ctx, "SPY", day(15))
	assert.ErrorIs(t, err, context.Canceled)
}
