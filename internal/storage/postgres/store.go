package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"volfee/internal/model"
)

// Store provides Postgres persistence for feed bindings and fee quotes.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertBinding inserts or replaces the feed binding for a pool.
func (s *Store) UpsertBinding(ctx context.Context, binding model.BindingRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO feed_bindings (
			chain_id, pool_address, short_feed, long_feed, decimals, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (chain_id, pool_address)
		DO UPDATE SET
			short_feed = EXCLUDED.short_feed,
			long_feed = EXCLUDED.long_feed,
			decimals = EXCLUDED.decimals,
			updated_at = now()
	`,
		int64(binding.ChainID),
		binding.Pool,
		binding.ShortFeed,
		binding.LongFeed,
		int16(binding.Decimals),
	)
	return err
}

// DeleteBinding removes the feed binding for a pool. It reports whether a
// binding existed.
func (s *Store) DeleteBinding(ctx context.Context, chainID uint64, pool string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM feed_bindings WHERE chain_id = $1 AND pool_address = $2
	`, int64(chainID), pool)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListBindings returns all feed bindings for a chain.
func (s *Store) ListBindings(ctx context.Context, chainID uint64) ([]model.BindingRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT chain_id, pool_address, short_feed, long_feed, decimals
		FROM feed_bindings WHERE chain_id = $1
		ORDER BY pool_address
	`, int64(chainID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []model.BindingRecord
	for rows.Next() {
		var rec model.BindingRecord
		var storedChainID int64
		var decimals int16
		if err := rows.Scan(&storedChainID, &rec.Pool, &rec.ShortFeed, &rec.LongFeed, &decimals); err != nil {
			return nil, err
		}
		rec.ChainID = uint64(storedChainID)
		rec.Decimals = uint8(decimals)
		bindings = append(bindings, rec)
	}
	return bindings, rows.Err()
}

// InsertQuotes appends fee quotes.
func (s *Store) InsertQuotes(ctx context.Context, quotes []model.FeeQuote) error {
	if len(quotes) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, q := range quotes {
		batch.Queue(`
			INSERT INTO fee_quotes (
				chain_id, pool_address, short_vol, long_vol, decimals, fee_bps, computed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			int64(q.ChainID),
			q.Pool,
			q.ShortVol,
			q.LongVol,
			int16(q.Decimals),
			int64(q.FeeBps),
			q.ComputedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range quotes {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
