package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"poolExchange/internal/storage"
	"poolExchange/internal/storage/storagetest"
)

func TestStore(t *testing.T) {
	dsn := os.Getenv("EXCHANGE_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("EXCHANGE_TEST_PG_DSN not set")
	}

	storagetest.Run(t, func(t *testing.T) storage.PoolStore {
		ctx := context.Background()
		s, err := NewStore(ctx, dsn)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		require.NoError(t, s.EnsureSchema(ctx))
		_, err = s.pool.Exec(ctx, `TRUNCATE exchange_pools`)
		require.NoError(t, err)
		return s
	})
}

func TestNewStoreRequiresDSN(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	require.Error(t, err)
}
