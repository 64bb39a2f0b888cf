package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"volfee/internal/chain"
	"volfee/internal/config"
	"volfee/internal/model"
	"volfee/internal/registry"
	"volfee/internal/storage"
	"volfee/internal/storage/postgres"
	"volfee/internal/watcher"
)

func runWatch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWatch(cfgFile, cmd.Flags())
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
	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}

	pools, err := watcher.ParseAddresses(cfg.Pools)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	feeds := registry.New()
	engine, err := buildEngine(config.Config{
		RPCURL:     cfg.RPCURL,
		MinFeeBps:  cfg.MinFeeBps,
		MaxFeeBps:  cfg.MaxFeeBps,
		BaseFeeBps: cfg.BaseFeeBps,
		Alpha:      cfg.Alpha,
		Beta:       cfg.Beta,
		FeedMaxAge: cfg.FeedMaxAge,
	}, feeds, chainClient, logger)
	if err != nil {
		return err
	}

	if err := hydrateBindings(ctx, chainClient, store, feeds); err != nil {
		return err
	}

	var sink storage.QuoteSink = storage.NewJsonlSink(cfg.Out)
	if cfg.StoreQuotes {
		sink = teeSink{jsonl: storage.NewJsonlSink(cfg.Out), store: store, ctx: ctx}
	}

	runner := watcher.NewRunner(watcher.RunConfig{
		ChainID:      chainID.Uint64(),
		Interval:     cfg.Interval,
		Pools:        pools,
		StatePath:    cfg.StateFile,
		StateEnabled: cfg.StateFile != "",
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Once:         cfg.Once,
	}, engine, sink, logger)

	logger.Info("watch start",
		zap.String("rpc", cfg.RPCURL),
		zap.Uint64("chain_id", chainID.Uint64()),
		zap.Duration("interval", cfg.Interval),
		zap.Int("pools", len(pools)),
		zap.String("out", cfg.Out),
		zap.Bool("store_quotes", cfg.StoreQuotes),
	)

	return runner.Run(ctx)
}

// teeSink writes quotes to the JSONL file and Postgres.
type teeSink struct {
	jsonl *storage.JsonlSink
	store *postgres.Store
	ctx   context.Context
}

func (t teeSink) PutQuoteBatch(quotes []model.FeeQuote) error {
	if err := t.jsonl.PutQuoteBatch(quotes); err != nil {
		return err
	}
	return t.store.InsertQuotes(t.ctx, quotes)
}
