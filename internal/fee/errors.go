package fee

import "errors"

var (
	// ErrFeeModeNotDynamic rejects pools that were not set up for dynamic
	// fee pricing.
	ErrFeeModeNotDynamic = errors.New("fee: pool fee mode is not dynamic")
	// ErrNotConfigured is returned when removing a feed binding for a pool
	// that has none.
	ErrNotConfigured = errors.New("fee: pool not configured")
	// ErrFeedRead wraps a failed volatility feed read. The invocation is
	// aborted; there is no cached fallback.
	ErrFeedRead = errors.New("fee: feed read failed")
)
