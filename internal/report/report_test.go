package report

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"poolExchange/internal/ledger"
	"poolExchange/internal/model"
	"poolExchange/internal/storage"
)

func TestFormatTokenAmount(t *testing.T) {
	tests := []struct {
		value    int64
		decimals uint8
		want     string
	}{
		{value: 0, decimals: 0, want: "0"},
		{value: 1234, decimals: 0, want: "1234"},
		{value: 1_500_000_000, decimals: 9, want: "1.500000000"},
		{value: 1, decimals: 6, want: "0.000001"},
	}
	for _, tt := range tests {
		got := FormatTokenAmount(decimal.NewFromInt(tt.value), tt.decimals)
		if got != tt.want {
			t.Fatalf("FormatTokenAmount(%d, %d) = %s, want %s", tt.value, tt.decimals, got, tt.want)
		}
	}
}

func TestSpotPrice(t *testing.T) {
	price, ok := SpotPrice(1_000_000_000, 2_000_000, 9, 6)
	require.True(t, ok)
	require.Equal(t, "2.000000000000000000", price)

	_, ok = SpotPrice(0, 1, 9, 9)
	require.False(t, ok)
}

func TestReportActivities(t *testing.T) {
	ctx := context.Background()
	pools := storage.NewMemoryStore()
	mints := ledger.NewMemory()

	pool := solana.NewWallet().PublicKey()
	state := model.PoolState{
		TokenAMint: solana.NewWallet().PublicKey(),
		TokenBMint: solana.NewWallet().PublicKey(),
		Mint:       solana.NewWallet().PublicKey(),
	}
	require.NoError(t, pools.Create(ctx, pool, state))
	authority := solana.NewWallet().PublicKey()
	require.NoError(t, mints.InitializeMint(ctx, state.TokenAMint, authority, 9))
	require.NoError(t, mints.InitializeMint(ctx, state.TokenBMint, authority, 6))
	require.NoError(t, mints.InitializeMint(ctx, state.Mint, authority, 9))

	r := New(pools, mints, nil)
	events := []model.Event{
		{Kind: model.KindInitialize, Pool: pool, Data: model.InitializeResult{Pool: pool}},
		{Kind: model.KindDepositAll, Pool: pool, Data: model.DepositAllResult{PoolTokensOut: 100_000_000}},
		{Kind: model.KindSwap, Pool: pool, Data: model.SwapResult{
			Side: model.SideA, AmountIn: 20_000_000_000, AmountOut: 19_000_000,
			TradingFee: 1_000_000_000, OwnerFee: 400_000_000, OwnerFeePoolTokens: 200_899,
		}},
		{Kind: model.KindWithdrawSingle, Pool: pool, Data: model.WithdrawSingleResult{
			Side: model.SideB, AmountOut: 5_000_000, PoolTokensBurned: 25_290_737, WithdrawFee: 252_907,
		}},
	}
	for _, ev := range events {
		require.NoError(t, r.Add(ev))
	}

	activities, err := r.Activities(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	got := activities[0]
	require.Equal(t, pool.String(), got.Pool)
	require.Equal(t, uint64(1), got.Swaps)
	require.Equal(t, uint64(1), got.Deposits)
	require.Equal(t, uint64(1), got.Withdrawals)
	require.Equal(t, "20.000000000", got.VolumeA)
	require.Equal(t, "19.000000", got.VolumeB)
	require.Equal(t, "1.000000000", got.TradingFeeA)
	require.Equal(t, "0.000000", got.TradingFeeB)
	require.Equal(t, "0.400000000", got.OwnerFeeA)
	require.Equal(t, "0.100200899", got.PoolTokensMinted)
	require.Equal(t, "0.025290737", got.PoolTokensBurned)
	require.Equal(t, "0.000200899", got.OwnerFeePoolTokens)
	require.Equal(t, "0.000252907", got.WithdrawFees)

	swaps, deposits, withdrawals := r.Totals()
	require.Equal(t, [3]uint64{1, 1, 1}, [3]uint64{swaps, deposits, withdrawals})
}

func TestAccumulatorRejectsForeignPool(t *testing.T) {
	acc := NewAccumulator(solana.NewWallet().PublicKey())
	err := acc.AddEvent(model.Event{Kind: model.KindSwap, Pool: solana.NewWallet().PublicKey(), Data: model.SwapResult{}})
	require.Error(t, err)
}
