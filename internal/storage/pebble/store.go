package pebble

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/gagliardetto/solana-go"

	"poolExchange/internal/model"
	"poolExchange/internal/storage"
)

var ErrDBClosed = errors.New("database is closed")

var (
	poolPrefix = []byte("pool/")
	poolEnd    = []byte("pool0")
)

// Store keeps encoded pool accounts in a pebble database keyed by pool address.
// Reads share mu with Close so a closed database is never touched.
type Store struct {
	mu sync.RWMutex
	db *pebble.DB
}

func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

func poolKey(addr solana.PublicKey) []byte {
	key := make([]byte, 0, len(poolPrefix)+solana.PublicKeyLength)
	key = append(key, poolPrefix...)
	return append(key, addr[:]...)
}

// Create writes the pool unless the key already exists. The check and the write share the
// store mutex so concurrent creates of the same address cannot both succeed.
func (s *Store) Create(ctx context.Context, addr solana.PublicKey, pool model.PoolState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrDBClosed
	}

	key := poolKey(addr)
	_, closer, err := s.db.Get(key)
	switch {
	case err == nil:
		closer.Close()
		return fmt.Errorf("%w: %s", storage.ErrPoolExists, addr)
	case !errors.Is(err, pebble.ErrNotFound):
		return err
	}

	data, err := model.EncodePool(pool)
	if err != nil {
		return err
	}
	return s.db.Set(key, data, pebble.Sync)
}

func (s *Store) Get(ctx context.Context, addr solana.PublicKey) (model.PoolState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return model.PoolState{}, ErrDBClosed
	}

	val, closer, err := s.db.Get(poolKey(addr))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return model.PoolState{}, fmt.Errorf("%w: %s", storage.ErrPoolNotFound, addr)
		}
		return model.PoolState{}, err
	}
	defer closer.Close()

	// DecodePool copies every field out of val
	return model.DecodePool(val)
}

func (s *Store) List(ctx context.Context) ([]storage.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrDBClosed
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: poolPrefix,
		UpperBound: poolEnd,
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []storage.Entry
	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		addr := solana.PublicKeyFromBytes(key[len(poolPrefix):])
		pool, err := model.DecodePool(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("pool %s: %w", addr, err)
		}
		out = append(out, storage.Entry{Address: addr, Pool: pool})
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
