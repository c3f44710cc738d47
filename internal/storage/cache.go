package storage

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	rstore "github.com/eko/gocache/store/ristretto/v4"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"poolExchange/internal/model"
)

// CachedStore serves pool reads from an in-process cache. Pools never change after Create, so
// cached entries are never invalidated. Balances are not pool state and are never cached here.
type CachedStore struct {
	inner  PoolStore
	cache  *cache.Cache[[]byte]
	logger *zap.Logger
}

// newPoolCache builds the ristretto-backed cache of encoded pool accounts.
func newPoolCache() (*cache.Cache[[]byte], error) {
	rcache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100_000,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	ristrettoStore := rstore.NewRistretto(rcache)
	return cache.New[[]byte](ristrettoStore), nil
}

// NewCachedStore wraps inner with a ristretto-backed cache.
func NewCachedStore(inner PoolStore, logger *zap.Logger) (*CachedStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c, err := newPoolCache()
	if err != nil {
		return nil, fmt.Errorf("create pool cache: %w", err)
	}
	return &CachedStore{inner: inner, cache: c, logger: logger}, nil
}

func (s *CachedStore) Create(ctx context.Context, addr solana.PublicKey, pool model.PoolState) error {
	if err := s.inner.Create(ctx, addr, pool); err != nil {
		return err
	}
	s.put(ctx, addr, pool)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, addr solana.PublicKey) (model.PoolState, error) {
	if data, err := s.cache.Get(ctx, addr.String()); err == nil {
		pool, err := model.DecodePool(data)
		if err == nil {
			return pool, nil
		}
		s.logger.Warn("drop undecodable cached pool", zap.String("pool", addr.String()), zap.Error(err))
		_ = s.cache.Delete(ctx, addr.String())
	}

	pool, err := s.inner.Get(ctx, addr)
	if err != nil {
		return model.PoolState{}, err
	}
	s.put(ctx, addr, pool)
	return pool, nil
}

func (s *CachedStore) List(ctx context.Context) ([]Entry, error) {
	return s.inner.List(ctx)
}

func (s *CachedStore) Close() error {
	return s.inner.Close()
}

func (s *CachedStore) put(ctx context.Context, addr solana.PublicKey, pool model.PoolState) {
	data, err := model.EncodePool(pool)
	if err != nil {
		s.logger.Warn("encode pool for cache", zap.String("pool", addr.String()), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, addr.String(), data); err != nil {
		s.logger.Debug("cache pool", zap.String("pool", addr.String()), zap.Error(err))
	}
}
