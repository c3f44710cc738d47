package ledger

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"poolExchange/internal/model"
)

type fixture struct {
	ledger    *Memory
	authority solana.PublicKey
	owner     solana.PublicKey
	mint      solana.PublicKey
	alice     solana.PublicKey
	bob       solana.PublicKey
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{
		ledger:    NewMemory(),
		authority: solana.NewWallet().PublicKey(),
		owner:     solana.NewWallet().PublicKey(),
		mint:      solana.NewWallet().PublicKey(),
		alice:     solana.NewWallet().PublicKey(),
		bob:       solana.NewWallet().PublicKey(),
	}
	require.NoError(t, f.ledger.InitializeMint(ctx, f.mint, f.authority, 6))
	require.NoError(t, f.ledger.InitializeAccount(ctx, f.alice, f.mint, f.owner))
	require.NoError(t, f.ledger.InitializeAccount(ctx, f.bob, f.mint, solana.NewWallet().PublicKey()))
	require.NoError(t, f.ledger.MintTo(ctx, KeySigner(f.authority), f.mint, f.alice, 1_000))
	return f
}

func balance(t *testing.T, l Reader, addr solana.PublicKey) uint64 {
	t.Helper()
	acc, err := l.GetAccount(context.Background(), addr)
	require.NoError(t, err)
	return acc.Amount
}

func TestMintTransferBurn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.ledger.Transfer(ctx, KeySigner(f.owner), f.alice, f.bob, 400))
	require.Equal(t, uint64(600), balance(t, f.ledger, f.alice))
	require.Equal(t, uint64(400), balance(t, f.ledger, f.bob))

	require.NoError(t, f.ledger.Burn(ctx, KeySigner(f.owner), f.mint, f.alice, 100))
	mint, err := f.ledger.GetMint(ctx, f.mint)
	require.NoError(t, err)
	require.Equal(t, uint64(900), mint.Supply)
	require.Equal(t, uint8(6), mint.Decimals)

	// Self transfer leaves the balance unchanged.
	require.NoError(t, f.ledger.Transfer(ctx, KeySigner(f.owner), f.alice, f.alice, 500))
	require.Equal(t, uint64(500), balance(t, f.ledger, f.alice))
}

func TestLedgerRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.ledger.Transfer(ctx, KeySigner(f.bob), f.alice, f.bob, 1)
	require.ErrorIs(t, err, model.ErrUnauthorizedSigner)

	err = f.ledger.Transfer(ctx, KeySigner(f.owner), f.alice, f.bob, 1_001)
	require.ErrorIs(t, err, model.ErrInsufficientBalance)

	err = f.ledger.MintTo(ctx, KeySigner(f.owner), f.mint, f.alice, 1)
	require.ErrorIs(t, err, model.ErrUnauthorizedSigner)

	err = f.ledger.MintTo(ctx, KeySigner(f.authority), f.mint, f.alice, math.MaxUint64)
	require.ErrorIs(t, err, model.ErrArithmeticOverflow)

	err = f.ledger.Transfer(ctx, KeySigner(f.owner), f.alice, solana.NewWallet().PublicKey(), 1)
	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, model.ErrAccountMismatch)

	other := solana.NewWallet().PublicKey()
	require.NoError(t, f.ledger.InitializeAccount(ctx, other, solana.NewWallet().PublicKey(), f.owner))
	err = f.ledger.Transfer(ctx, KeySigner(f.owner), f.alice, other, 1)
	require.ErrorIs(t, err, model.ErrAccountMismatch)

	require.ErrorIs(t, f.ledger.InitializeMint(ctx, f.mint, f.authority, 6), ErrExists)
	require.ErrorIs(t, f.ledger.InitializeAccount(ctx, f.alice, f.mint, f.owner), ErrExists)

	require.Equal(t, uint64(1_000), balance(t, f.ledger, f.alice))
}

type failingSigner struct{ key solana.PublicKey }

func (s failingSigner) Key() solana.PublicKey { return s.key }
func (s failingSigner) Verify() error         { return errors.New("bad seeds") }

func TestVerifyingSigner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.ledger.MintTo(ctx, failingSigner{key: f.authority}, f.mint, f.alice, 1)
	require.ErrorIs(t, err, model.ErrUnauthorizedSigner)
}

func TestUpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.ledger.Update(ctx, func(tx Ledger) error {
		if err := tx.Transfer(ctx, KeySigner(f.owner), f.alice, f.bob, 300); err != nil {
			return err
		}
		require.Equal(t, uint64(700), balance(t, tx, f.alice))
		return tx.Burn(ctx, KeySigner(f.owner), f.mint, f.alice, 10_000)
	})
	require.ErrorIs(t, err, model.ErrInsufficientBalance)
	require.Equal(t, uint64(1_000), balance(t, f.ledger, f.alice))
	require.Equal(t, uint64(0), balance(t, f.ledger, f.bob))

	err = f.ledger.Update(ctx, func(tx Ledger) error {
		if err := tx.Transfer(ctx, KeySigner(f.owner), f.alice, f.bob, 300); err != nil {
			return err
		}
		return tx.Burn(ctx, KeySigner(f.owner), f.mint, f.alice, 100)
	})
	require.NoError(t, err)
	require.Equal(t, uint64(600), balance(t, f.ledger, f.alice))
	require.Equal(t, uint64(300), balance(t, f.ledger, f.bob))

	mint, err := f.ledger.GetMint(ctx, f.mint)
	require.NoError(t, err)
	require.Equal(t, uint64(900), mint.Supply)
}

func TestSnapshotFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	file := &SnapshotFile{Path: filepath.Join(t.TempDir(), "state", "ledger.json")}

	empty, found, err := file.Load(ctx)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, empty.Snapshot().Accounts)

	require.NoError(t, file.Save(ctx, f.ledger))

	loaded, found, err := file.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, f.ledger.Snapshot(), loaded.Snapshot())
	require.Equal(t, uint64(1_000), balance(t, loaded, f.alice))
}
