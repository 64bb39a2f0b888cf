// Package fee computes volatility-responsive trading fees per pool.
package fee

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"volfee/internal/curve"
	"volfee/internal/feed"
	"volfee/internal/fixedpoint"
	"volfee/internal/model"
	"volfee/internal/registry"
)

// Config holds the construction-time curve parameters. Fees are in basis
// points; Alpha and Beta are in descaled volatility units.
type Config struct {
	MinFeeBps  uint32
	MaxFeeBps  uint32
	BaseFeeBps uint32
	Alpha      fixedpoint.Number
	Beta       fixedpoint.Number
}

// Engine is the per-pool fee orchestrator. It never mutates the registry
// during fee computation; configuration goes through ConfigureFeed and
// RemoveFeed.
type Engine struct {
	cfg    Config
	minFee fixedpoint.Number
	maxFee fixedpoint.Number
	feeds  *registry.Registry
	reader feed.Reader
	logger *zap.Logger
}

// New validates the curve configuration and builds an Engine.
func New(cfg Config, feeds *registry.Registry, reader feed.Reader, logger *zap.Logger) (*Engine, error) {
	if cfg.MinFeeBps >= cfg.MaxFeeBps {
		return nil, fmt.Errorf("fee: min fee %d must be below max fee %d", cfg.MinFeeBps, cfg.MaxFeeBps)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if feeds == nil {
		feeds = registry.New()
	}
	return &Engine{
		cfg:    cfg,
		minFee: fixedpoint.FromInt64(int64(cfg.MinFeeBps)),
		maxFee: fixedpoint.FromInt64(int64(cfg.MaxFeeBps)),
		feeds:  feeds,
		reader: reader,
		logger: logger,
	}, nil
}

// Registry exposes the engine's feed registry.
func (e *Engine) Registry() *registry.Registry {
	return e.feeds
}

// ConfigureFeed binds a pool to its short- and long-horizon volatility
// feeds, overwriting any existing binding.
func (e *Engine) ConfigureFeed(pool, shortFeed, longFeed common.Address, decimals uint8) {
	e.feeds.Set(pool, model.FeedBinding{
		ShortFeed: shortFeed,
		LongFeed:  longFeed,
		Decimals:  decimals,
	})
	e.logger.Info("feed configured",
		zap.String("pool", pool.Hex()),
		zap.String("short_feed", shortFeed.Hex()),
		zap.String("long_feed", longFeed.Hex()),
		zap.Uint8("decimals", decimals),
	)
}

// RemoveFeed unbinds a pool. It fails with ErrNotConfigured if the pool has
// no binding.
func (e *Engine) RemoveFeed(pool common.Address) error {
	if err := e.feeds.Delete(pool); err != nil {
		return ErrNotConfigured
	}
	e.logger.Info("feed removed", zap.String("pool", pool.Hex()))
	return nil
}

// Quote is a computed fee together with the samples that produced it. Bound
// reports whether the pool had a feed binding; without one the fee is the
// base fee and the samples are zero.
type Quote struct {
	FeeBps   uint32
	ShortVol int64
	LongVol  int64
	Decimals uint8
	Bound    bool
}

// GetFee computes the fee for a pool in basis points. An unconfigured pool
// is priced at the base fee; a configured pool reads both volatility feeds,
// biases the curve by the trend between them, and maps the short-horizon
// sample through the sigmoid.
func (e *Engine) GetFee(ctx context.Context, pool common.Address) (uint32, error) {
	quote, err := e.Quote(ctx, pool)
	if err != nil {
		return 0, err
	}
	return quote.FeeBps, nil
}

// Quote computes the fee for a pool along with the volatility samples read
// for it.
func (e *Engine) Quote(ctx context.Context, pool common.Address) (Quote, error) {
	binding, ok := e.feeds.Get(pool)
	if !ok {
		return Quote{FeeBps: e.cfg.BaseFeeBps}, nil
	}

	shortReading, err := e.reader.LatestReading(ctx, binding.ShortFeed)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: short feed %s: %v", ErrFeedRead, binding.ShortFeed.Hex(), err)
	}
	longReading, err := e.reader.LatestReading(ctx, binding.LongFeed)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: long feed %s: %v", ErrFeedRead, binding.LongFeed.Hex(), err)
	}

	bps, err := e.computeFee(pool, binding, shortReading.Value, longReading.Value)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		FeeBps:   bps,
		ShortVol: shortReading.Value,
		LongVol:  longReading.Value,
		Decimals: binding.Decimals,
		Bound:    true,
	}, nil
}

func (e *Engine) computeFee(pool common.Address, binding model.FeedBinding, shortVol, longVol int64) (uint32, error) {
	alpha, beta, err := curve.Adjust(longVol, shortVol, e.cfg.Alpha, e.cfg.Beta)
	if err != nil {
		return 0, fmt.Errorf("adjust curve: %w", err)
	}

	result, err := curve.Evaluate(shortVol, binding.Decimals, alpha, beta, e.minFee, e.maxFee)
	if err != nil {
		return 0, fmt.Errorf("evaluate curve: %w", err)
	}

	bps, err := result.Int64()
	if err != nil {
		return 0, fmt.Errorf("fee out of range: %w", err)
	}

	e.logger.Debug("fee computed",
		zap.String("pool", pool.Hex()),
		zap.Int64("short_vol", shortVol),
		zap.Int64("long_vol", longVol),
		zap.Int64("fee_bps", bps),
	)

	return uint32(bps), nil
}
