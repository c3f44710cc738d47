package address

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestDeriveIsDeterministic(t *testing.T) {
	mintA := solana.NewWallet().PublicKey()
	mintB := solana.NewWallet().PublicKey()
	creator := solana.NewWallet().PublicKey()

	first, err := Derive(DefaultProgramID, mintA, mintB, creator)
	require.NoError(t, err)
	second, err := Derive(DefaultProgramID, mintA, mintB, creator)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.NotEqual(t, first.Pool, first.Authority)
	require.NotEqual(t, first.Pool, first.Mint)
}

func TestDeriveDependsOnEveryIdentityPart(t *testing.T) {
	mintA := solana.NewWallet().PublicKey()
	mintB := solana.NewWallet().PublicKey()
	creator := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()

	base, err := Derive(DefaultProgramID, mintA, mintB, creator)
	require.NoError(t, err)

	for name, keys := range map[string][3]solana.PublicKey{
		"swapped mints": {mintB, mintA, creator},
		"other creator": {mintA, mintB, other},
		"other mint":    {mintA, other, creator},
	} {
		derived, err := Derive(DefaultProgramID, keys[0], keys[1], keys[2])
		require.NoError(t, err, name)
		require.NotEqual(t, base.Pool, derived.Pool, name)
	}

	otherProgram, err := Derive(other, mintA, mintB, creator)
	require.NoError(t, err)
	require.NotEqual(t, base.Pool, otherProgram.Pool)
}

func TestCapabilityVerify(t *testing.T) {
	pool := solana.NewWallet().PublicKey()

	capability, err := NewCapability(DefaultProgramID, pool)
	require.NoError(t, err)
	require.NoError(t, capability.Verify())

	authority, _, err := AuthorityAddress(DefaultProgramID, pool)
	require.NoError(t, err)
	require.Equal(t, authority, capability.Key())
	require.Equal(t, pool, capability.Pool())

	forged := Capability{programID: DefaultProgramID, pool: pool, authority: solana.NewWallet().PublicKey(), bump: capability.bump}
	require.Error(t, forged.Verify())
}
