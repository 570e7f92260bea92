// Package pgstore persists pool registrations, confirmed sandwiches and the
// scan checkpoint in PostgreSQL, restoring the original detector's
// SQLAlchemy pools_map table (original_source/db.py) and adding the
// sandwich/target_tx tables its distillation excluded.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solana-mev/sandwich-detect/internal/ixmodel"
	"github.com/solana-mev/sandwich-detect/internal/pipeline"
	"github.com/solana-mev/sandwich-detect/internal/registry"
)

// Store implements registry.PoolRegistry loading, pipeline.Sink and
// pipeline.Checkpoint over a single PostgreSQL database.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to dsn and returns a ready Store.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() { s.pool.Close() }

// Schema creates the tables this Store needs if they don't already exist.
// Migrations in a deployed system would own this instead; kept inline here
// to mirror db.py's init_db().
const Schema = `
CREATE TABLE IF NOT EXISTS pools_map (
	id text PRIMARY KEY,
	dex text NOT NULL,
	token_a text NOT NULL,
	token_b text NOT NULL,
	token_a_vault text NOT NULL,
	token_b_vault text NOT NULL
);

CREATE TABLE IF NOT EXISTS sandwiches (
	id text PRIMARY KEY,
	block bigint NOT NULL,
	block_time bigint NOT NULL,
	dex text NOT NULL,
	pool text NOT NULL,
	bot text NOT NULL,
	attacker text NOT NULL,
	profit_token text NOT NULL,
	targeted_token text NOT NULL,
	entry_signature text NOT NULL,
	entry_profit_amount bigint NOT NULL,
	entry_targeted_amount bigint NOT NULL,
	entry_jito_tip bigint NOT NULL,
	entry_priority_fee bigint NOT NULL,
	exit_signature text NOT NULL,
	exit_profit_amount bigint NOT NULL,
	exit_targeted_amount bigint NOT NULL,
	exit_jito_tip bigint NOT NULL,
	exit_priority_fee bigint NOT NULL
);

CREATE INDEX IF NOT EXISTS sandwiches_block_idx ON sandwiches (block);

CREATE TABLE IF NOT EXISTS target_txs (
	sandwich_id text NOT NULL REFERENCES sandwiches(id),
	signature text NOT NULL,
	signer text NOT NULL,
	profit_token_amount bigint NOT NULL,
	targeted_token_amount bigint NOT NULL,
	PRIMARY KEY (sandwich_id, signature)
);
`

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("pgstore: migrate: %w", err)
	}
	return nil
}

// LoadPools implements pipeline.PoolStore.
func (s *Store) LoadPools(ctx context.Context) (registry.PoolRegistry, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, token_a, token_b, token_a_vault, token_b_vault FROM pools_map`)
	if err != nil {
		return nil, fmt.Errorf("pgstore: load pools: %w", err)
	}
	defer rows.Close()

	out := registry.StaticPoolRegistry{}
	for rows.Next() {
		var idStr, tokenAStr, tokenBStr, vaultAStr, vaultBStr string
		if err := rows.Scan(&idStr, &tokenAStr, &tokenBStr, &vaultAStr, &vaultBStr); err != nil {
			return nil, fmt.Errorf("pgstore: scan pool row: %w", err)
		}
		info, err := parsePoolInfo(idStr, tokenAStr, tokenBStr, vaultAStr, vaultBStr)
		if err != nil {
			return nil, err
		}
		out[info.PoolID] = info
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: load pools: %w", err)
	}
	return out, nil
}

// LatestStoredBlock implements pipeline.Checkpoint.
func (s *Store) LatestStoredBlock(ctx context.Context) (uint64, error) {
	var latest int64
	err := s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(block), 0) FROM sandwiches`).Scan(&latest)
	if err != nil {
		return 0, fmt.Errorf("pgstore: latest stored block: %w", err)
	}
	return uint64(latest), nil
}

// StoreSandwich implements pipeline.Sink. A duplicate id is reported as
// pipeline.ErrDuplicateSandwich, matching the "ON CONFLICT DO NOTHING"
// semantics the driver treats as non-fatal.
func (s *Store) StoreSandwich(ctx context.Context, sw ixmodel.Sandwich) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgstore: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		INSERT INTO sandwiches (
			id, block, block_time, dex, pool, bot, attacker, profit_token, targeted_token,
			entry_signature, entry_profit_amount, entry_targeted_amount, entry_jito_tip, entry_priority_fee,
			exit_signature, exit_profit_amount, exit_targeted_amount, exit_jito_tip, exit_priority_fee
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (id) DO NOTHING
	`,
		sw.ID.String(), int64(sw.Block), sw.BlockTime, sw.Dex.String(), sw.Pool.String(), sw.Bot.String(), sw.Attacker.String(),
		sw.ProfitToken.String(), sw.TargetedToken.String(),
		sw.EntryTx.Signature.String(), int64(sw.EntryTx.ProfitTokenAmount), int64(sw.EntryTx.TargetedTokenAmount), int64(sw.EntryTx.JitoTip), int64(sw.EntryTx.PriorityFee),
		sw.ExitTx.Signature.String(), int64(sw.ExitTx.ProfitTokenAmount), int64(sw.ExitTx.TargetedTokenAmount), int64(sw.ExitTx.JitoTip), int64(sw.ExitTx.PriorityFee),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return pipeline.ErrDuplicateSandwich
		}
		return fmt.Errorf("pgstore: insert sandwich: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pipeline.ErrDuplicateSandwich
	}

	for _, target := range sw.TargetTxs {
		_, err := tx.Exec(ctx, `
			INSERT INTO target_txs (sandwich_id, signature, signer, profit_token_amount, targeted_token_amount)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT DO NOTHING
		`, sw.ID.String(), target.Signature.String(), target.Signer.String(), int64(target.ProfitTokenAmount), int64(target.TargetedTokenAmount))
		if err != nil {
			return fmt.Errorf("pgstore: insert target tx: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pgstore: commit: %w", err)
	}
	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
