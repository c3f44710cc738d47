package storage

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"

	"poolExchange/internal/model"
)

var (
	ErrPoolExists   = errors.New("pool already exists")
	ErrPoolNotFound = errors.New("pool not found")
)

// Entry is a stored pool with its address.
type Entry struct {
	Address solana.PublicKey `json:"address"`
	Pool    model.PoolState  `json:"pool"`
}

// PoolStore is an append-only keyed store of pool records. There is no update or delete:
// a pool is written once by Create and read forever after.
type PoolStore interface {
	// Create stores pool under addr, or returns ErrPoolExists when addr is taken.
	Create(ctx context.Context, addr solana.PublicKey, pool model.PoolState) error
	// Get returns the pool stored under addr, or ErrPoolNotFound.
	Get(ctx context.Context, addr solana.PublicKey) (model.PoolState, error)
	// List returns every stored pool.
	List(ctx context.Context) ([]Entry, error)
	Close() error
}
