package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"volfee/internal/chain"
	"volfee/internal/config"
	"volfee/internal/fee"
	"volfee/internal/feed"
	"volfee/internal/fixedpoint"
	"volfee/internal/model"
	"volfee/internal/registry"
	"volfee/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "volfee",
		Short:        "Volatility-responsive dynamic fee engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute the current fee for a pool",
		RunE:  runQuote,
	}
	addEngineFlags(quoteCmd)
	quoteCmd.Flags().String("pool", "", "pool address")
	quoteCmd.Flags().String("short-feed", "", "short-horizon volatility feed address (ad hoc, skips stored bindings)")
	quoteCmd.Flags().String("long-feed", "", "long-horizon volatility feed address (ad hoc, skips stored bindings)")
	quoteCmd.Flags().Uint("decimals", 5, "feed decimal precision")
	root.AddCommand(quoteCmd)

	bindCmd := &cobra.Command{
		Use:   "bind",
		Short: "Bind a pool to its volatility feeds",
		RunE:  runBind,
	}
	bindCmd.Flags().String("rpc", "", "RPC URL (optional, verifies feed decimals)")
	bindCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	bindCmd.Flags().String("pool", "", "pool address")
	bindCmd.Flags().String("short-feed", "", "short-horizon volatility feed address")
	bindCmd.Flags().String("long-feed", "", "long-horizon volatility feed address")
	bindCmd.Flags().Uint("decimals", 5, "feed decimal precision")
	bindCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(bindCmd)

	unbindCmd := &cobra.Command{
		Use:   "unbind",
		Short: "Remove a pool's feed binding",
		RunE:  runUnbind,
	}
	unbindCmd.Flags().String("rpc", "", "RPC URL")
	unbindCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	unbindCmd.Flags().String("pool", "", "pool address")
	unbindCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(unbindCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Periodically compute fees for bound pools",
		RunE:  runWatch,
	}
	addEngineFlags(watchCmd)
	watchCmd.Flags().StringSlice("pool", nil, "pool addresses to watch (default: all bound)")
	watchCmd.Flags().Duration("interval", 30*time.Second, "computation interval")
	watchCmd.Flags().String("out", "./data/quotes.jsonl", "output JSONL path")
	watchCmd.Flags().Bool("store-quotes", false, "also insert quotes into Postgres")
	watchCmd.Flags().String("state-file", "", "optional local state file for fee change tracking")
	watchCmd.Flags().Int("max-retries", 5, "maximum retry attempts per feed read")
	watchCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	watchCmd.Flags().Bool("once", false, "run a single pass and exit")
	root.AddCommand(watchCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "RPC URL")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN for stored bindings")
	cmd.Flags().Uint32("min-fee", 3000, "minimum fee in basis points")
	cmd.Flags().Uint32("max-fee", 10000, "maximum fee in basis points")
	cmd.Flags().Uint32("base-fee", 5000, "base fee for unbound pools in basis points")
	cmd.Flags().String("alpha", "1.0", "curve steepness in descaled volatility units")
	cmd.Flags().String("beta", "5.0", "curve midpoint in descaled volatility units")
	cmd.Flags().Duration("feed-max-age", 0, "reject feed readings older than this (0 disables)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if !common.IsHexAddress(cfg.Pool) {
		return fmt.Errorf("valid pool address is required")
	}
	pool := common.HexToAddress(cfg.Pool)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	feeds := registry.New()
	engine, err := buildEngine(cfg, feeds, chainClient, logger)
	if err != nil {
		return err
	}

	if cfg.ShortFeed != "" || cfg.LongFeed != "" {
		if !common.IsHexAddress(cfg.ShortFeed) || !common.IsHexAddress(cfg.LongFeed) {
			return fmt.Errorf("both short-feed and long-feed must be valid addresses")
		}
		engine.ConfigureFeed(pool, common.HexToAddress(cfg.ShortFeed), common.HexToAddress(cfg.LongFeed), cfg.Decimals)
	} else if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := hydrateBindings(ctx, chainClient, store, feeds); err != nil {
			return err
		}
	}

	quote, err := engine.Quote(ctx, pool)
	if err != nil {
		return err
	}

	logger.Info("fee quoted",
		zap.String("pool", pool.Hex()),
		zap.Uint32("fee_bps", quote.FeeBps),
		zap.Bool("bound", quote.Bound),
		zap.Int64("short_vol", quote.ShortVol),
		zap.Int64("long_vol", quote.LongVol),
	)
	fmt.Printf("%d\n", quote.FeeBps)

	return nil
}

func buildEngine(cfg config.Config, feeds *registry.Registry, chainClient *chain.Client, logger *zap.Logger) (*fee.Engine, error) {
	alpha, err := fixedpoint.Parse(cfg.Alpha)
	if err != nil {
		return nil, fmt.Errorf("parse alpha: %w", err)
	}
	beta, err := fixedpoint.Parse(cfg.Beta)
	if err != nil {
		return nil, fmt.Errorf("parse beta: %w", err)
	}

	reader := feed.NewAggregatorReader(chainClient, cfg.FeedMaxAge)
	return fee.New(fee.Config{
		MinFeeBps:  cfg.MinFeeBps,
		MaxFeeBps:  cfg.MaxFeeBps,
		BaseFeeBps: cfg.BaseFeeBps,
		Alpha:      alpha,
		Beta:       beta,
	}, feeds, reader, logger)
}

func hydrateBindings(ctx context.Context, chainClient *chain.Client, store *postgres.Store, feeds *registry.Registry) error {
	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}

	records, err := store.ListBindings(ctx, chainID.Uint64())
	if err != nil {
		return fmt.Errorf("list bindings: %w", err)
	}

	for _, rec := range records {
		if !common.IsHexAddress(rec.Pool) || !common.IsHexAddress(rec.ShortFeed) || !common.IsHexAddress(rec.LongFeed) {
			return fmt.Errorf("malformed binding record for pool %q", rec.Pool)
		}
		feeds.Set(common.HexToAddress(rec.Pool), model.FeedBinding{
			ShortFeed: common.HexToAddress(rec.ShortFeed),
			LongFeed:  common.HexToAddress(rec.LongFeed),
			Decimals:  rec.Decimals,
		})
	}

	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
