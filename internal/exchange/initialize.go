package exchange

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"poolExchange/internal/address"
	"poolExchange/internal/instruction"
	"poolExchange/internal/ledger"
	"poolExchange/internal/model"
	"poolExchange/internal/storage"
)

// Initialize creates the pool for the mints held by the two reserve accounts and the signing
// creator, and mints the initial pool-token supply to the receiver.
//
// The reserves must already be owned by the derived authority. The pool mint is created at
// its derived address, or bound when it already exists with the authority as mint authority
// and no supply. Receiver and fee accounts are created for the creator when absent. A stored
// pool whose pool mint is missing from the ledger is initialized again without a new record.
func (e *Engine) Initialize(ctx context.Context, signer ledger.Signer, accts instruction.InitializeAccounts, fees model.FeeSchedule) (model.Event, error) {
	return e.execute(ctx, model.KindInitialize, func(tx ledger.Ledger) (model.Event, error) {
		if err := fees.Validate(); err != nil {
			return model.Event{}, err
		}
		if err := requireSigner(signer, accts.Creator); err != nil {
			return model.Event{}, err
		}

		tokenA, err := tx.GetAccount(ctx, accts.TokenA)
		if err != nil {
			return model.Event{}, model.ErrAccountMismatch.Wrapf("token a: %v", err)
		}
		tokenB, err := tx.GetAccount(ctx, accts.TokenB)
		if err != nil {
			return model.Event{}, model.ErrAccountMismatch.Wrapf("token b: %v", err)
		}
		if tokenA.Mint.Equals(tokenB.Mint) {
			return model.Event{}, model.ErrSameTokenMints.Wrap(tokenA.Mint.String())
		}

		keys, err := address.Derive(e.programID, tokenA.Mint, tokenB.Mint, accts.Creator)
		if err != nil {
			return model.Event{}, err
		}
		if err := requireKey("pool", accts.Pool, keys.Pool); err != nil {
			return model.Event{}, err
		}
		if err := requireKey("authority", accts.Authority, keys.Authority); err != nil {
			return model.Event{}, err
		}
		if err := requireKey("pool mint", accts.PoolMint, keys.Mint); err != nil {
			return model.Event{}, err
		}
		if err := ownedBy("token a", tokenA, keys.Authority); err != nil {
			return model.Event{}, err
		}
		if err := ownedBy("token b", tokenB, keys.Authority); err != nil {
			return model.Event{}, err
		}

		state := model.PoolState{
			Bump:       keys.PoolBump,
			TokenA:     accts.TokenA,
			TokenB:     accts.TokenB,
			TokenAMint: tokenA.Mint,
			TokenBMint: tokenB.Mint,
			Mint:       keys.Mint,
			Creator:    accts.Creator,
			FeeAccount: accts.FeeAccount,
			Fees:       fees,
		}
		restoring, err := e.unbackedRecord(ctx, tx, keys.Pool, state)
		if err != nil {
			return model.Event{}, err
		}

		if err := bindPoolMint(ctx, tx, keys.Mint, keys.Authority); err != nil {
			return model.Event{}, err
		}
		for _, a := range []struct {
			role string
			addr solana.PublicKey
		}{
			{"receiver", accts.Receiver},
			{"fee account", accts.FeeAccount},
		} {
			if err := ensurePoolTokenAccount(ctx, tx, a.role, a.addr, keys.Mint, accts.Creator); err != nil {
				return model.Event{}, err
			}
		}

		capability, err := address.NewCapability(e.programID, keys.Pool)
		if err != nil {
			return model.Event{}, err
		}
		if err := tx.MintTo(ctx, capability, keys.Mint, accts.Receiver, model.InitialPoolTokenSupply); err != nil {
			return model.Event{}, err
		}

		if restoring {
			e.logger.Info("pool ledger restored", zap.String("pool", keys.Pool.String()))
		} else if err := e.pools.Create(ctx, keys.Pool, state); err != nil {
			// Last step: a failed create rolls back the ledger effects above.
			if errors.Is(err, storage.ErrPoolExists) {
				return model.Event{}, model.ErrPoolAlreadyExists.Wrap(keys.Pool.String())
			}
			return model.Event{}, err
		}

		return model.Event{
			Kind: model.KindInitialize,
			Pool: keys.Pool,
			Data: model.InitializeResult{
				Pool:          keys.Pool,
				Authority:     keys.Authority,
				Mint:          keys.Mint,
				Receiver:      accts.Receiver,
				InitialSupply: model.InitialPoolTokenSupply,
				Fees:          fees,
			},
		}, nil
	})
}

// unbackedRecord reports whether pool already has a stored record whose ledger side is
// missing: the record is durable before the ledger is saved, so a crash in between leaves a
// record with no live pool mint. Such a pool is initialized again with the same state. A
// stored pool with a live mint, or with a different state, already exists.
func (e *Engine) unbackedRecord(ctx context.Context, tx ledger.Reader, pool solana.PublicKey, state model.PoolState) (bool, error) {
	stored, err := e.pools.Get(ctx, pool)
	if errors.Is(err, storage.ErrPoolNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != state {
		return false, model.ErrPoolAlreadyExists.Wrap(pool.String())
	}
	mint, err := tx.GetMint(ctx, state.Mint)
	if err == nil && mint.Supply > 0 {
		return false, model.ErrPoolAlreadyExists.Wrap(pool.String())
	}
	if err != nil && !errors.Is(err, ledger.ErrNotFound) {
		return false, err
	}
	return true, nil
}

func bindPoolMint(ctx context.Context, tx ledger.Ledger, mint, authority solana.PublicKey) error {
	existing, err := tx.GetMint(ctx, mint)
	if errors.Is(err, ledger.ErrNotFound) {
		return tx.InitializeMint(ctx, mint, authority, model.PoolMintDecimals)
	}
	if err != nil {
		return err
	}
	if !existing.Authority.Equals(authority) {
		return model.ErrAccountMismatch.Wrapf("pool mint authority is %s, want %s", existing.Authority, authority)
	}
	if existing.Supply != 0 {
		return model.ErrMintSupplyNotZero.Wrapf("pool mint %s has supply %d", mint, existing.Supply)
	}
	return nil
}

func ensurePoolTokenAccount(ctx context.Context, tx ledger.Ledger, role string, addr, mint, owner solana.PublicKey) error {
	acct, err := tx.GetAccount(ctx, addr)
	if errors.Is(err, ledger.ErrNotFound) {
		return tx.InitializeAccount(ctx, addr, mint, owner)
	}
	if err != nil {
		return err
	}
	if !acct.Mint.Equals(mint) {
		return model.ErrAccountMismatch.Wrapf("%s %s holds mint %s, want %s", role, addr, acct.Mint, mint)
	}
	return nil
}
