// Package feed reads volatility samples from on-chain aggregators.
package feed

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ErrStaleReading is returned when a reading is older than the configured
// maximum age.
var ErrStaleReading = errors.New("feed: stale reading")

// Reading is one volatility sample from an aggregator. Value is signed and
// scaled by the feed's decimals.
type Reading struct {
	Value     int64
	UpdatedAt time.Time
	Round     uint64
}

// Reader produces the latest reading for a feed.
type Reader interface {
	LatestReading(ctx context.Context, feedAddr common.Address) (Reading, error)
}

// ContractCaller performs an eth_call. chain.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// AggregatorReader reads aggregators over an RPC client. When maxAge is
// positive, readings older than maxAge fail with ErrStaleReading.
type AggregatorReader struct {
	caller ContractCaller
	maxAge time.Duration
	now    func() time.Time
}

func NewAggregatorReader(caller ContractCaller, maxAge time.Duration) *AggregatorReader {
	return &AggregatorReader{caller: caller, maxAge: maxAge, now: time.Now}
}

// LatestReading calls latestRoundData on the aggregator.
func (r *AggregatorReader) LatestReading(ctx context.Context, feedAddr common.Address) (Reading, error) {
	if r.caller == nil {
		return Reading{}, fmt.Errorf("chain client is nil")
	}

	values, err := callAggregator(ctx, r.caller, feedAddr, "latestRoundData")
	if err != nil {
		return Reading{}, err
	}
	if len(values) < 5 {
		return Reading{}, fmt.Errorf("latestRoundData: want 5 values, got %d", len(values))
	}

	roundID, err := asBigInt(values[0])
	if err != nil {
		return Reading{}, fmt.Errorf("round id: %w", err)
	}
	answer, err := asBigInt(values[1])
	if err != nil {
		return Reading{}, fmt.Errorf("answer: %w", err)
	}
	if !answer.IsInt64() {
		return Reading{}, fmt.Errorf("answer does not fit in int64: %s", answer)
	}
	updatedAt, err := asBigInt(values[3])
	if err != nil {
		return Reading{}, fmt.Errorf("updated at: %w", err)
	}

	reading := Reading{
		Value:     answer.Int64(),
		UpdatedAt: time.Unix(updatedAt.Int64(), 0).UTC(),
		Round:     roundID.Uint64(),
	}

	if r.maxAge > 0 {
		age := r.now().Sub(reading.UpdatedAt)
		if age > r.maxAge {
			return Reading{}, fmt.Errorf("%w: feed %s updated %s ago", ErrStaleReading, feedAddr.Hex(), age.Round(time.Second))
		}
	}

	return reading, nil
}

// FetchDecimals returns the aggregator's declared decimal precision.
func FetchDecimals(ctx context.Context, caller ContractCaller, feedAddr common.Address) (uint8, error) {
	if caller == nil {
		return 0, fmt.Errorf("chain client is nil")
	}
	values, err := callAggregator(ctx, caller, feedAddr, "decimals")
	if err != nil {
		return 0, err
	}
	return asUint8(values[0])
}

func callAggregator(ctx context.Context, caller ContractCaller, feedAddr common.Address, method string) ([]interface{}, error) {
	parsed, err := AggregatorABI()
	if err != nil {
		return nil, fmt.Errorf("parse aggregator abi: %w", err)
	}
	data, err := parsed.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &feedAddr, Data: data}
	resp, err := caller.CallContract(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func asBigInt(value interface{}) (*big.Int, error) {
	out, ok := value.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected type %T, want *big.Int", value)
	}
	return out, nil
}

func asUint8(value interface{}) (uint8, error) {
	out, ok := value.(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected type %T, want uint8", value)
	}
	return out, nil
}
