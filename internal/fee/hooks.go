package fee

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// FeeMode is the fee pricing mode a pool was created with.
type FeeMode uint8

const (
	FeeModeStatic FeeMode = iota
	FeeModeDynamic
)

// TradeFee is a fee applied to a single trade. Override marks it as a
// one-shot value rather than a standing fee update.
type TradeFee struct {
	FeeBps   uint32
	Override bool
}

// OnPoolInitialize is the pool setup hook. Pools not flagged for dynamic
// fee pricing are rejected with ErrFeeModeNotDynamic; accepted pools need
// no state here until a feed is bound.
func (e *Engine) OnPoolInitialize(pool common.Address, mode FeeMode) error {
	if mode != FeeModeDynamic {
		return fmt.Errorf("%w: pool %s", ErrFeeModeNotDynamic, pool.Hex())
	}
	e.logger.Info("pool initialized", zap.String("pool", pool.Hex()))
	return nil
}

// OnBeforeTrade is invoked before each trade is priced and returns the
// current fee tagged as an override for that trade only.
func (e *Engine) OnBeforeTrade(ctx context.Context, pool common.Address) (TradeFee, error) {
	bps, err := e.GetFee(ctx, pool)
	if err != nil {
		return TradeFee{}, err
	}
	return TradeFee{FeeBps: bps, Override: true}, nil
}
