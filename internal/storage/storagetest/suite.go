// Package storagetest holds the behaviour every PoolStore backend must share.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"poolExchange/internal/model"
	"poolExchange/internal/storage"
)

// SamplePool returns a pool with distinct random keys.
func SamplePool() model.PoolState {
	key := func() solana.PublicKey { return solana.NewWallet().PublicKey() }
	return model.PoolState{
		Bump:       254,
		TokenA:     key(),
		TokenB:     key(),
		TokenAMint: key(),
		TokenBMint: key(),
		Mint:       key(),
		Creator:    key(),
		FeeAccount: key(),
		Fees: model.FeeSchedule{
			TradeFeeNumerator:           25,
			TradeFeeDenominator:         10_000,
			OwnerTradeFeeNumerator:      5,
			OwnerTradeFeeDenominator:    10_000,
			OwnerWithdrawFeeNumerator:   1,
			OwnerWithdrawFeeDenominator: 100,
		},
	}
}

// Run exercises open against the append-only contract. open must return an empty store.
func Run(t *testing.T, open func(t *testing.T) storage.PoolStore) {
	t.Helper()

	t.Run("create and get", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		addr := solana.NewWallet().PublicKey()
		pool := SamplePool()

		require.NoError(t, s.Create(ctx, addr, pool))
		got, err := s.Get(ctx, addr)
		require.NoError(t, err)
		require.Equal(t, pool, got)
	})

	t.Run("missing pool", func(t *testing.T) {
		s := open(t)
		_, err := s.Get(context.Background(), solana.NewWallet().PublicKey())
		require.True(t, errors.Is(err, storage.ErrPoolNotFound), "got %v", err)
	})

	t.Run("second create is rejected", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		addr := solana.NewWallet().PublicKey()
		first := SamplePool()
		require.NoError(t, s.Create(ctx, addr, first))

		err := s.Create(ctx, addr, SamplePool())
		require.True(t, errors.Is(err, storage.ErrPoolExists), "got %v", err)

		got, err := s.Get(ctx, addr)
		require.NoError(t, err)
		require.Equal(t, first, got)
	})

	t.Run("list", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		want := map[solana.PublicKey]model.PoolState{}
		for i := 0; i < 3; i++ {
			addr := solana.NewWallet().PublicKey()
			pool := SamplePool()
			require.NoError(t, s.Create(ctx, addr, pool))
			want[addr] = pool
		}

		entries, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, len(want))
		for _, e := range entries {
			require.Equal(t, want[e.Address], e.Pool)
		}
	})
}
