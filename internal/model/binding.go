package model

import "github.com/ethereum/go-ethereum/common"

// FeedBinding pairs a pool with its two volatility aggregators and their
// shared decimal precision. A pool with no binding is priced at the base fee.
type FeedBinding struct {
	ShortFeed common.Address `json:"short_feed"`
	LongFeed  common.Address `json:"long_feed"`
	Decimals  uint8          `json:"decimals"`
}

// BindingRecord is a feed binding keyed by pool for storage.
type BindingRecord struct {
	ChainID   uint64 `json:"chain_id"`
	Pool      string `json:"pool"`
	ShortFeed string `json:"short_feed"`
	LongFeed  string `json:"long_feed"`
	Decimals  uint8  `json:"decimals"`
}
