// Package address derives the program addresses that identify a pool and the keyless
// authority that controls its reserves.
package address

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Seed prefixes shared by every derived address.
var (
	PoolSeed      = []byte("pool")
	AuthoritySeed = []byte("authority")
	PoolMintSeed  = []byte("pool_mint")
)

// DefaultProgramID is the exchange program id used when none is configured.
var DefaultProgramID = solana.MustPublicKeyFromBase58("HndsTUfB2AZbQifHN9WdKMMQqXghGVwmak2gy3oyzwqV")

// PoolSeeds returns the seeds identifying the pool for (mintA, mintB, creator).
func PoolSeeds(mintA, mintB, creator solana.PublicKey) [][]byte {
	return [][]byte{PoolSeed, mintA.Bytes(), mintB.Bytes(), creator.Bytes()}
}

// AuthoritySeeds returns the seeds of the authority bound to pool.
func AuthoritySeeds(pool solana.PublicKey) [][]byte {
	return [][]byte{PoolSeed, pool.Bytes(), AuthoritySeed}
}

// PoolMintSeeds returns the seeds of the pool-token mint of pool.
func PoolMintSeeds(pool solana.PublicKey) [][]byte {
	return [][]byte{PoolSeed, pool.Bytes(), PoolMintSeed}
}

// PoolAddress derives the pool address for (mintA, mintB, creator).
func PoolAddress(programID, mintA, mintB, creator solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(PoolSeeds(mintA, mintB, creator), programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive pool: %w", err)
	}
	return addr, bump, nil
}

// AuthorityAddress derives the authority of pool.
func AuthorityAddress(programID, pool solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(AuthoritySeeds(pool), programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive authority: %w", err)
	}
	return addr, bump, nil
}

// PoolMintAddress derives the pool-token mint of pool.
func PoolMintAddress(programID, pool solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(PoolMintSeeds(pool), programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive pool mint: %w", err)
	}
	return addr, bump, nil
}

// PoolKeys bundles every address derived for one pool identity.
type PoolKeys struct {
	Pool          solana.PublicKey `json:"pool"`
	PoolBump      uint8            `json:"pool_bump"`
	Authority     solana.PublicKey `json:"authority"`
	AuthorityBump uint8            `json:"authority_bump"`
	Mint          solana.PublicKey `json:"mint"`
}

// Derive computes the pool, authority and pool-mint addresses for an identity.
func Derive(programID, mintA, mintB, creator solana.PublicKey) (PoolKeys, error) {
	pool, poolBump, err := PoolAddress(programID, mintA, mintB, creator)
	if err != nil {
		return PoolKeys{}, err
	}
	authority, authorityBump, err := AuthorityAddress(programID, pool)
	if err != nil {
		return PoolKeys{}, err
	}
	mint, _, err := PoolMintAddress(programID, pool)
	if err != nil {
		return PoolKeys{}, err
	}
	return PoolKeys{
		Pool:          pool,
		PoolBump:      poolBump,
		Authority:     authority,
		AuthorityBump: authorityBump,
		Mint:          mint,
	}, nil
}
