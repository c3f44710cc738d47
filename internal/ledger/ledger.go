// Package ledger defines the token ledger the exchange moves funds through, and an in-memory
// implementation of it.
package ledger

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrNotFound = errors.New("ledger: not found")
	ErrExists   = errors.New("ledger: already exists")
)

// Mint is a fungible token definition.
type Mint struct {
	Address   solana.PublicKey `json:"address"`
	Authority solana.PublicKey `json:"authority"`
	Decimals  uint8            `json:"decimals"`
	Supply    uint64           `json:"supply"`
}

// Account is a token balance of one mint held by one owner.
type Account struct {
	Address solana.PublicKey `json:"address"`
	Mint    solana.PublicKey `json:"mint"`
	Owner   solana.PublicKey `json:"owner"`
	Amount  uint64           `json:"amount"`
}

// Signer authorizes a mutation on behalf of Key. Signers that also implement
// interface{ Verify() error } are verified before use.
type Signer interface {
	Key() solana.PublicKey
}

// KeySigner is a signer whose signature was checked by the host environment.
type KeySigner solana.PublicKey

func (k KeySigner) Key() solana.PublicKey {
	return solana.PublicKey(k)
}

// Reader gives read access to mints and accounts.
type Reader interface {
	GetMint(ctx context.Context, addr solana.PublicKey) (Mint, error)
	GetAccount(ctx context.Context, addr solana.PublicKey) (Account, error)
}

// Ledger is the token-ledger collaborator.
type Ledger interface {
	Reader
	InitializeMint(ctx context.Context, addr, authority solana.PublicKey, decimals uint8) error
	InitializeAccount(ctx context.Context, addr, mint, owner solana.PublicKey) error
	MintTo(ctx context.Context, signer Signer, mint, to solana.PublicKey, amount uint64) error
	Transfer(ctx context.Context, signer Signer, from, to solana.PublicKey, amount uint64) error
	Burn(ctx context.Context, signer Signer, mint, from solana.PublicKey, amount uint64) error
}

// Store is a ledger that can apply a group of mutations atomically. When fn returns an error
// none of the mutations made through tx are visible.
type Store interface {
	Ledger
	Update(ctx context.Context, fn func(tx Ledger) error) error
}
