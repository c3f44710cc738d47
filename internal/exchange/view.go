package exchange

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"poolExchange/internal/address"
	"poolExchange/internal/ledger"
	"poolExchange/internal/model"
	"poolExchange/internal/storage"
)

// PoolView is a pool record with its live reserves and pool-token supply.
type PoolView struct {
	Address   solana.PublicKey `json:"address"`
	Authority solana.PublicKey `json:"authority"`
	State     model.PoolState  `json:"state"`
	ReserveA  uint64           `json:"reserve_a"`
	ReserveB  uint64           `json:"reserve_b"`
	Supply    uint64           `json:"supply"`
}

// Pool reads one pool and its live balances.
func (e *Engine) Pool(ctx context.Context, addr solana.PublicKey) (PoolView, error) {
	state, err := e.pools.Get(ctx, addr)
	if err != nil {
		if errors.Is(err, storage.ErrPoolNotFound) {
			return PoolView{}, model.ErrPoolNotFound.Wrap(addr.String())
		}
		return PoolView{}, err
	}
	return e.view(ctx, addr, state)
}

// Pools reads every stored pool.
func (e *Engine) Pools(ctx context.Context) ([]PoolView, error) {
	entries, err := e.pools.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PoolView, 0, len(entries))
	for _, entry := range entries {
		v, err := e.view(ctx, entry.Address, entry.Pool)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Engine) view(ctx context.Context, addr solana.PublicKey, state model.PoolState) (PoolView, error) {
	authority, _, err := address.AuthorityAddress(e.programID, addr)
	if err != nil {
		return PoolView{}, err
	}
	v := PoolView{Address: addr, Authority: authority, State: state}

	a, err := e.ledger.GetAccount(ctx, state.TokenA)
	if err != nil {
		return PoolView{}, fmt.Errorf("pool %s reserve a: %w", addr, err)
	}
	b, err := e.ledger.GetAccount(ctx, state.TokenB)
	if err != nil {
		return PoolView{}, fmt.Errorf("pool %s reserve b: %w", addr, err)
	}
	mint, err := e.ledger.GetMint(ctx, state.Mint)
	if err != nil {
		return PoolView{}, fmt.Errorf("pool %s mint: %w", addr, err)
	}
	v.ReserveA, v.ReserveB, v.Supply = a.Amount, b.Amount, mint.Supply
	return v, nil
}

// UnbackedPools lists stored pools whose pool mint is missing from the ledger. They stay
// unusable until initialize is run again with the same accounts and fees.
func (e *Engine) UnbackedPools(ctx context.Context) ([]solana.PublicKey, error) {
	entries, err := e.pools.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []solana.PublicKey
	for _, entry := range entries {
		_, err := e.ledger.GetMint(ctx, entry.Pool.Mint)
		if errors.Is(err, ledger.ErrNotFound) {
			out = append(out, entry.Address)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("pool %s mint: %w", entry.Address, err)
		}
	}
	return out, nil
}
