package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration for the quote command and the fee engine.
type Config struct {
	RPCURL     string
	PGDSN      string
	Pool       string
	ShortFeed  string
	LongFeed   string
	Decimals   uint8
	MinFeeBps  uint32
	MaxFeeBps  uint32
	BaseFeeBps uint32
	Alpha      string
	Beta       string
	FeedMaxAge time.Duration
	LogLevel   string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RPCURL:     v.GetString("rpc"),
		PGDSN:      v.GetString("pg-dsn"),
		Pool:       v.GetString("pool"),
		ShortFeed:  v.GetString("short-feed"),
		LongFeed:   v.GetString("long-feed"),
		Decimals:   uint8(v.GetUint("decimals")),
		MinFeeBps:  v.GetUint32("min-fee"),
		MaxFeeBps:  v.GetUint32("max-fee"),
		BaseFeeBps: v.GetUint32("base-fee"),
		Alpha:      v.GetString("alpha"),
		Beta:       v.GetString("beta"),
		FeedMaxAge: v.GetDuration("feed-max-age"),
		LogLevel:   v.GetString("log-level"),
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("VOLFEE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("decimals", uint(5))
	v.SetDefault("min-fee", uint32(3000))
	v.SetDefault("max-fee", uint32(10000))
	v.SetDefault("base-fee", uint32(5000))
	v.SetDefault("alpha", "1.0")
	v.SetDefault("beta", "5.0")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
