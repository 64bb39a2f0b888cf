package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"volfee/internal/chain"
	"volfee/internal/config"
	"volfee/internal/feed"
	"volfee/internal/model"
	"volfee/internal/storage/postgres"
)

func runBind(cmd *cobra.Command, _ []string) error {
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

	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}
	if !common.IsHexAddress(cfg.Pool) {
		return fmt.Errorf("valid pool address is required")
	}
	if !common.IsHexAddress(cfg.ShortFeed) || !common.IsHexAddress(cfg.LongFeed) {
		return fmt.Errorf("valid short-feed and long-feed addresses are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	var chainID uint64
	if cfg.RPCURL != "" {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()

		id, err := chainClient.GetChainID(ctx)
		if err != nil {
			return fmt.Errorf("get chain id: %w", err)
		}
		chainID = id.Uint64()

		verifyFeedDecimals(ctx, chainClient, common.HexToAddress(cfg.ShortFeed), cfg.Decimals, logger)
		verifyFeedDecimals(ctx, chainClient, common.HexToAddress(cfg.LongFeed), cfg.Decimals, logger)
	}

	record := model.BindingRecord{
		ChainID:   chainID,
		Pool:      common.HexToAddress(cfg.Pool).Hex(),
		ShortFeed: common.HexToAddress(cfg.ShortFeed).Hex(),
		LongFeed:  common.HexToAddress(cfg.LongFeed).Hex(),
		Decimals:  cfg.Decimals,
	}
	if err := store.UpsertBinding(ctx, record); err != nil {
		return fmt.Errorf("upsert binding: %w", err)
	}

	logger.Info("binding stored",
		zap.Uint64("chain_id", chainID),
		zap.String("pool", record.Pool),
		zap.String("short_feed", record.ShortFeed),
		zap.String("long_feed", record.LongFeed),
		zap.Uint8("decimals", record.Decimals),
	)
	return nil
}

// verifyFeedDecimals cross-checks an aggregator's declared precision against
// the binding's. Both feeds of a binding share one decimals value, so a
// mismatch is an operator error worth surfacing early.
func verifyFeedDecimals(ctx context.Context, chainClient *chain.Client, feedAddr common.Address, want uint8, logger *zap.Logger) {
	got, err := feed.FetchDecimals(ctx, chainClient, feedAddr)
	if err != nil {
		logger.Warn("feed decimals check failed", zap.String("feed", feedAddr.Hex()), zap.Error(err))
		return
	}
	if got != want {
		logger.Warn("feed decimals mismatch",
			zap.String("feed", feedAddr.Hex()),
			zap.Uint8("declared", got),
			zap.Uint8("binding", want),
		)
	}
}

func runUnbind(cmd *cobra.Command, _ []string) error {
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

	if cfg.PGDSN == "" {
		return fmt.Errorf("pg dsn is required")
	}
	if !common.IsHexAddress(cfg.Pool) {
		return fmt.Errorf("valid pool address is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()

	var chainID uint64
	if cfg.RPCURL != "" {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()

		id, err := chainClient.GetChainID(ctx)
		if err != nil {
			return fmt.Errorf("get chain id: %w", err)
		}
		chainID = id.Uint64()
	}

	pool := common.HexToAddress(cfg.Pool).Hex()
	removed, err := store.DeleteBinding(ctx, chainID, pool)
	if err != nil {
		return fmt.Errorf("delete binding: %w", err)
	}
	if !removed {
		return fmt.Errorf("pool %s is not configured", pool)
	}

	logger.Info("binding removed", zap.Uint64("chain_id", chainID), zap.String("pool", pool))
	return nil
}
