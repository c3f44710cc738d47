package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"

	"poolExchange/internal/model"
)

// MemoryStore keeps pools in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	pools map[solana.PublicKey]model.PoolState
	order []solana.PublicKey
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pools: make(map[solana.PublicKey]model.PoolState)}
}

func (s *MemoryStore) Create(_ context.Context, addr solana.PublicKey, pool model.PoolState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pools[addr]; ok {
		return fmt.Errorf("%w: %s", ErrPoolExists, addr)
	}
	s.pools[addr] = pool
	s.order = append(s.order, addr)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, addr solana.PublicKey) (model.PoolState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pool, ok := s.pools[addr]
	if !ok {
		return model.PoolState{}, fmt.Errorf("%w: %s", ErrPoolNotFound, addr)
	}
	return pool, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.order))
	for _, addr := range s.order {
		out = append(out, Entry{Address: addr, Pool: s.pools[addr]})
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
