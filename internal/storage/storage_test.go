package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"poolExchange/internal/storage"
	"poolExchange/internal/storage/storagetest"
)

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.PoolStore {
		return storage.NewMemoryStore()
	})
}

func TestJsonlStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.PoolStore {
		s, err := storage.OpenJsonlStore(filepath.Join(t.TempDir(), "pools.jsonl"))
		require.NoError(t, err)
		return s
	})
}

func TestJsonlStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "pools.jsonl")

	s, err := storage.OpenJsonlStore(path)
	require.NoError(t, err)
	addr := solana.NewWallet().PublicKey()
	pool := storagetest.SamplePool()
	require.NoError(t, s.Create(ctx, addr, pool))
	require.NoError(t, s.Close())

	reopened, err := storage.OpenJsonlStore(path)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, addr)
	require.NoError(t, err)
	require.Equal(t, pool, got)
	require.ErrorIs(t, reopened.Create(ctx, addr, pool), storage.ErrPoolExists)
}

func TestCachedStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.PoolStore {
		s, err := storage.NewCachedStore(storage.NewMemoryStore(), nil)
		require.NoError(t, err)
		return s
	})
}
