package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poolExchange/internal/model"
	"poolExchange/internal/storage"
)

// Schema creates the pools table. The account column holds the encoded PoolState; the
// remaining columns duplicate its identity for lookups from SQL.
const Schema = `
CREATE TABLE IF NOT EXISTS exchange_pools (
	pool_address TEXT PRIMARY KEY,
	token_a_mint TEXT NOT NULL,
	token_b_mint TEXT NOT NULL,
	creator      TEXT NOT NULL,
	pool_mint    TEXT NOT NULL,
	account      BYTEA NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Store provides Postgres persistence for pools.
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
	if err := withRetry(ctx, connectRetries, connectBaseDelay, pool.Ping); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// EnsureSchema creates the pools table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Create inserts the pool. An existing row is left untouched and reported as ErrPoolExists.
func (s *Store) Create(ctx context.Context, addr solana.PublicKey, pool model.PoolState) error {
	data, err := model.EncodePool(pool)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO exchange_pools (
			pool_address, token_a_mint, token_b_mint, creator, pool_mint, account, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (pool_address) DO NOTHING
	`,
		addr.String(),
		pool.TokenAMint.String(),
		pool.TokenBMint.String(),
		pool.Creator.String(),
		pool.Mint.String(),
		data,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", storage.ErrPoolExists, addr)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, addr solana.PublicKey) (model.PoolState, error) {
	var data []byte
	row := s.pool.QueryRow(ctx, `SELECT account FROM exchange_pools WHERE pool_address=$1`, addr.String())
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PoolState{}, fmt.Errorf("%w: %s", storage.ErrPoolNotFound, addr)
		}
		return model.PoolState{}, err
	}
	return model.DecodePool(data)
}

func (s *Store) List(ctx context.Context) ([]storage.Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT pool_address, account FROM exchange_pools ORDER BY created_at, pool_address`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.Entry
	for rows.Next() {
		var (
			address string
			data    []byte
		)
		if err := rows.Scan(&address, &data); err != nil {
			return nil, err
		}
		addr, err := solana.PublicKeyFromBase58(address)
		if err != nil {
			return nil, fmt.Errorf("pool address %q: %w", address, err)
		}
		pool, err := model.DecodePool(data)
		if err != nil {
			return nil, fmt.Errorf("pool %s: %w", address, err)
		}
		out = append(out, storage.Entry{Address: addr, Pool: pool})
	}
	return out, rows.Err()
}
