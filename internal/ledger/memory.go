package ledger

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Memory is an in-process ledger. Update holds the write lock for the whole callback, so
// grouped mutations are applied atomically and in sequence.
type Memory struct {
	mu   sync.RWMutex
	root *state
}

func NewMemory() *Memory {
	return &Memory{root: newState(nil)}
}

func (m *Memory) GetMint(_ context.Context, addr solana.PublicKey) (Mint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root.mint(addr)
}

func (m *Memory) GetAccount(_ context.Context, addr solana.PublicKey) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root.account(addr)
}

func (m *Memory) InitializeMint(ctx context.Context, addr, authority solana.PublicKey, decimals uint8) error {
	return m.Update(ctx, func(tx Ledger) error {
		return tx.InitializeMint(ctx, addr, authority, decimals)
	})
}

func (m *Memory) InitializeAccount(ctx context.Context, addr, mint, owner solana.PublicKey) error {
	return m.Update(ctx, func(tx Ledger) error {
		return tx.InitializeAccount(ctx, addr, mint, owner)
	})
}

func (m *Memory) MintTo(ctx context.Context, signer Signer, mint, to solana.PublicKey, amount uint64) error {
	return m.Update(ctx, func(tx Ledger) error {
		return tx.MintTo(ctx, signer, mint, to, amount)
	})
}

func (m *Memory) Transfer(ctx context.Context, signer Signer, from, to solana.PublicKey, amount uint64) error {
	return m.Update(ctx, func(tx Ledger) error {
		return tx.Transfer(ctx, signer, from, to, amount)
	})
}

func (m *Memory) Burn(ctx context.Context, signer Signer, mint, from solana.PublicKey, amount uint64) error {
	return m.Update(ctx, func(tx Ledger) error {
		return tx.Burn(ctx, signer, mint, from, amount)
	})
}

// Update runs fn against a buffered layer and commits it only when fn succeeds.
func (m *Memory) Update(ctx context.Context, fn func(tx Ledger) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	layer := newState(m.root)
	if err := fn(&txn{state: layer}); err != nil {
		return err
	}
	layer.commit()
	return nil
}

// txn is the view handed to Update callbacks. It must not be used after the callback returns.
type txn struct {
	state *state
}

func (t *txn) GetMint(_ context.Context, addr solana.PublicKey) (Mint, error) {
	return t.state.mint(addr)
}

func (t *txn) GetAccount(_ context.Context, addr solana.PublicKey) (Account, error) {
	return t.state.account(addr)
}

func (t *txn) InitializeMint(_ context.Context, addr, authority solana.PublicKey, decimals uint8) error {
	return t.state.initializeMint(addr, authority, decimals)
}

func (t *txn) InitializeAccount(_ context.Context, addr, mint, owner solana.PublicKey) error {
	return t.state.initializeAccount(addr, mint, owner)
}

func (t *txn) MintTo(_ context.Context, signer Signer, mint, to solana.PublicKey, amount uint64) error {
	return t.state.mintTo(signer, mint, to, amount)
}

func (t *txn) Transfer(_ context.Context, signer Signer, from, to solana.PublicKey, amount uint64) error {
	return t.state.transfer(signer, from, to, amount)
}

func (t *txn) Burn(_ context.Context, signer Signer, mint, from solana.PublicKey, amount uint64) error {
	return t.state.burn(signer, mint, from, amount)
}
