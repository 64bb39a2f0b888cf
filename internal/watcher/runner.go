// Package watcher periodically recomputes fees for all bound pools and
// records the results.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"volfee/internal/fee"
	"volfee/internal/model"
	"volfee/internal/storage"
)

// RunConfig holds runtime settings for the watch loop.
type RunConfig struct {
	ChainID      uint64
	Interval     time.Duration
	Pools        []common.Address
	StatePath    string
	StateEnabled bool
	MaxRetries   int
	RetryBackoff time.Duration
	Once         bool
}

// Runner drives the fee engine on a fixed interval and writes quotes to
// storage.
type Runner struct {
	cfg    RunConfig
	engine *fee.Engine
	sink   storage.QuoteSink
	logger *zap.Logger
	state  *StateStore
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, engine *fee.Engine, sink storage.QuoteSink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		engine: engine,
		sink:   sink,
		logger: logger,
		state:  NewStateStore(cfg.StatePath, cfg.StateEnabled),
	}
}

// Run executes the watch loop until the context is cancelled. With Once set
// it performs a single pass and returns.
func (r *Runner) Run(ctx context.Context) error {
	if r.engine == nil {
		return fmt.Errorf("fee engine is nil")
	}
	if r.sink == nil {
		return fmt.Errorf("quote sink is nil")
	}
	if !r.cfg.Once && r.cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	lastFees, _, err := r.state.Load()
	if err != nil {
		return err
	}
	if lastFees == nil {
		lastFees = make(map[string]uint32)
	}

	if err := r.pass(ctx, lastFees); err != nil {
		return err
	}
	if r.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.pass(ctx, lastFees); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) pass(ctx context.Context, lastFees map[string]uint32) error {
	pools := r.targetPools()
	if len(pools) == 0 {
		r.logger.Info("no bound pools to watch")
		return nil
	}

	computedAt := time.Now().UTC()
	quotes := make([]model.FeeQuote, 0, len(pools))

	for _, pool := range pools {
		quote, err := r.quoteWithRetry(ctx, pool)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			r.logger.Warn("fee computation failed", zap.String("pool", pool.Hex()), zap.Error(err))
			continue
		}
		if !quote.Bound {
			continue
		}

		key := pool.Hex()
		if prev, ok := lastFees[key]; ok && prev != quote.FeeBps {
			r.logger.Info("fee changed",
				zap.String("pool", key),
				zap.Uint32("from_bps", prev),
				zap.Uint32("to_bps", quote.FeeBps),
			)
		}
		lastFees[key] = quote.FeeBps

		quotes = append(quotes, model.FeeQuote{
			ChainID:    r.cfg.ChainID,
			Pool:       key,
			ShortVol:   quote.ShortVol,
			LongVol:    quote.LongVol,
			Decimals:   quote.Decimals,
			FeeBps:     quote.FeeBps,
			ComputedAt: computedAt,
		})
	}

	if err := r.sink.PutQuoteBatch(quotes); err != nil {
		return fmt.Errorf("store quotes: %w", err)
	}

	if err := r.state.Save(lastFees); err != nil {
		return err
	}

	r.logger.Info("pass complete", zap.Int("quotes", len(quotes)))
	return nil
}

func (r *Runner) targetPools() []common.Address {
	if len(r.cfg.Pools) > 0 {
		return r.cfg.Pools
	}
	snapshot := r.engine.Registry().Snapshot()
	pools := make([]common.Address, 0, len(snapshot))
	for pool := range snapshot {
		pools = append(pools, pool)
	}
	return pools
}

func (r *Runner) quoteWithRetry(ctx context.Context, pool common.Address) (fee.Quote, error) {
	var quote fee.Quote
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		quote, err = r.engine.Quote(ctx, pool)
		if err != nil {
			r.logger.Warn("fee fetch failed", zap.Error(err), zap.String("pool", pool.Hex()))
		}
		return err
	})
	return quote, err
}
