package model

import "time"

// FeeQuote records one computed fee for storage.
type FeeQuote struct {
	ChainID    uint64    `json:"chain_id"`
	Pool       string    `json:"pool"`
	ShortVol   int64     `json:"short_vol"`
	LongVol    int64     `json:"long_vol"`
	Decimals   uint8     `json:"decimals"`
	FeeBps     uint32    `json:"fee_bps"`
	ComputedAt time.Time `json:"computed_at"`
}
