package watcher

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"volfee/internal/fee"
	"volfee/internal/feed"
	"volfee/internal/fixedpoint"
	"volfee/internal/model"
	"volfee/internal/registry"
)

type stubReader struct {
	readings map[common.Address]int64
}

func (s *stubReader) LatestReading(_ context.Context, feedAddr common.Address) (feed.Reading, error) {
	return feed.Reading{Value: s.readings[feedAddr]}, nil
}

type captureSink struct {
	quotes []model.FeeQuote
}

func (c *captureSink) PutQuoteBatch(quotes []model.FeeQuote) error {
	c.quotes = append(c.quotes, quotes...)
	return nil
}

func newWatchEngine(t *testing.T, reader feed.Reader) *fee.Engine {
	t.Helper()
	alpha, err := fixedpoint.Parse("1.0")
	if err != nil {
		t.Fatalf("parse alpha: %v", err)
	}
	beta, err := fixedpoint.Parse("5.0")
	if err != nil {
		t.Fatalf("parse beta: %v", err)
	}
	engine, err := fee.New(fee.Config{
		MinFeeBps:  3000,
		MaxFeeBps:  10000,
		BaseFeeBps: 5000,
		Alpha:      alpha,
		Beta:       beta,
	}, registry.New(), reader, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestRunnerSinglePass(t *testing.T) {
	pool := common.HexToAddress("0x1111111111111111111111111111111111111111")
	shortFeed := common.HexToAddress("0x2222222222222222222222222222222222222222")
	longFeed := common.HexToAddress("0x3333333333333333333333333333333333333333")

	reader := &stubReader{readings: map[common.Address]int64{
		shortFeed: 500000,
		longFeed:  500000,
	}}
	engine := newWatchEngine(t, reader)
	engine.ConfigureFeed(pool, shortFeed, longFeed, 5)

	sink := &captureSink{}
	statePath := filepath.Join(t.TempDir(), "state.json")
	runner := NewRunner(RunConfig{
		ChainID:      56,
		StatePath:    statePath,
		StateEnabled: true,
		Once:         true,
	}, engine, sink, nil)

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(sink.quotes) != 1 {
		t.Fatalf("quotes: got %d, want 1", len(sink.quotes))
	}
	quote := sink.quotes[0]
	if quote.Pool != pool.Hex() {
		t.Fatalf("pool: got %s", quote.Pool)
	}
	if quote.FeeBps != 6500 {
		t.Fatalf("fee: got %d, want 6500", quote.FeeBps)
	}
	if quote.ChainID != 56 {
		t.Fatalf("chain id: got %d", quote.ChainID)
	}

	fees, ok, err := NewStateStore(statePath, true).Load()
	if err != nil || !ok {
		t.Fatalf("state not written: ok=%v err=%v", ok, err)
	}
	if fees[pool.Hex()] != 6500 {
		t.Fatalf("state fee: got %d, want 6500", fees[pool.Hex()])
	}
}

func TestRunnerSkipsUnboundFilteredPools(t *testing.T) {
	bound := common.HexToAddress("0x1111111111111111111111111111111111111111")
	unbound := common.HexToAddress("0x4444444444444444444444444444444444444444")
	shortFeed := common.HexToAddress("0x2222222222222222222222222222222222222222")
	longFeed := common.HexToAddress("0x3333333333333333333333333333333333333333")

	reader := &stubReader{readings: map[common.Address]int64{}}
	engine := newWatchEngine(t, reader)
	engine.ConfigureFeed(bound, shortFeed, longFeed, 5)

	sink := &captureSink{}
	runner := NewRunner(RunConfig{
		Pools: []common.Address{bound, unbound},
		Once:  true,
	}, engine, sink, nil)

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	// The unbound pool quotes at the base fee but is not recorded.
	if len(sink.quotes) != 1 {
		t.Fatalf("quotes: got %d, want 1", len(sink.quotes))
	}
	if sink.quotes[0].Pool != bound.Hex() {
		t.Fatalf("pool: got %s", sink.quotes[0].Pool)
	}
}

func TestRunnerRequiresInterval(t *testing.T) {
	engine := newWatchEngine(t, &stubReader{})
	runner := NewRunner(RunConfig{}, engine, &captureSink{}, nil)
	if err := runner.Run(context.Background()); err == nil {
		t.Fatalf("expected error for missing interval")
	}
}
