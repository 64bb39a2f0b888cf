package config

import (
	"time"

	"github.com/spf13/pflag"
)

// WatchConfig holds configuration for the watch command.
type WatchConfig struct {
	RPCURL       string
	PGDSN        string
	Pools        []string
	MinFeeBps    uint32
	MaxFeeBps    uint32
	BaseFeeBps   uint32
	Alpha        string
	Beta         string
	FeedMaxAge   time.Duration
	Interval     time.Duration
	Out          string
	StoreQuotes  bool
	StateFile    string
	MaxRetries   int
	RetryBackoff time.Duration
	Once         bool
	LogLevel     string
}

// LoadWatch merges config file, environment variables, and flags into
// WatchConfig.
func LoadWatch(cfgFile string, flags *pflag.FlagSet) (WatchConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return WatchConfig{}, err
	}

	v.SetDefault("interval", 30*time.Second)
	v.SetDefault("out", "./data/quotes.jsonl")
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)

	cfg := WatchConfig{
		RPCURL:       v.GetString("rpc"),
		PGDSN:        v.GetString("pg-dsn"),
		Pools:        getStringSlice(v, "pool"),
		MinFeeBps:    v.GetUint32("min-fee"),
		MaxFeeBps:    v.GetUint32("max-fee"),
		BaseFeeBps:   v.GetUint32("base-fee"),
		Alpha:        v.GetString("alpha"),
		Beta:         v.GetString("beta"),
		FeedMaxAge:   v.GetDuration("feed-max-age"),
		Interval:     v.GetDuration("interval"),
		Out:          v.GetString("out"),
		StoreQuotes:  v.GetBool("store-quotes"),
		StateFile:    v.GetString("state-file"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		Once:         v.GetBool("once"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}
