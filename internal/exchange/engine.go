// Package exchange executes pool instructions against a pool store and a token ledger.
package exchange

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"poolExchange/internal/address"
	"poolExchange/internal/ledger"
	"poolExchange/internal/model"
	"poolExchange/internal/storage"
)

// Engine runs each instruction as one ledger update: every transfer, mint and burn of an
// instruction is applied, or none is.
type Engine struct {
	programID solana.PublicKey
	pools     storage.PoolStore
	ledger    ledger.Store
	logger    *zap.Logger
}

func New(programID solana.PublicKey, pools storage.PoolStore, l ledger.Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{programID: programID, pools: pools, ledger: l, logger: logger}
}

// ProgramID returns the program the engine derives addresses under.
func (e *Engine) ProgramID() solana.PublicKey {
	return e.programID
}

func (e *Engine) execute(ctx context.Context, kind string, fn func(tx ledger.Ledger) (model.Event, error)) (model.Event, error) {
	var ev model.Event
	err := e.ledger.Update(ctx, func(tx ledger.Ledger) error {
		var err error
		ev, err = fn(tx)
		return err
	})
	if err != nil {
		e.logger.Warn("instruction failed",
			zap.String("kind", kind),
			zap.Uint32("code", model.ErrorCode(err)),
			zap.Error(err),
		)
		return model.Event{}, err
	}
	e.logger.Debug("instruction executed",
		zap.String("kind", kind),
		zap.String("pool", ev.Pool.String()),
	)
	return ev, nil
}

func requireSigner(signer ledger.Signer, key solana.PublicKey) error {
	if signer == nil {
		return model.ErrUnauthorizedSigner.Wrapf("%s did not sign", key)
	}
	if !signer.Key().Equals(key) {
		return model.ErrUnauthorizedSigner.Wrapf("signer %s is not %s", signer.Key(), key)
	}
	return nil
}

func requireKey(role string, got, want solana.PublicKey) error {
	if !got.Equals(want) {
		return model.ErrAccountMismatch.Wrapf("%s is %s, want %s", role, got, want)
	}
	return nil
}

// tokenAccount loads addr and checks that it holds mint.
func tokenAccount(ctx context.Context, tx ledger.Reader, role string, addr, mint solana.PublicKey) (ledger.Account, error) {
	acct, err := tx.GetAccount(ctx, addr)
	if err != nil {
		return ledger.Account{}, model.ErrAccountMismatch.Wrapf("%s: %v", role, err)
	}
	if !acct.Mint.Equals(mint) {
		return ledger.Account{}, model.ErrAccountMismatch.Wrapf("%s %s holds mint %s, want %s", role, addr, acct.Mint, mint)
	}
	return acct, nil
}

func ownedBy(role string, acct ledger.Account, owner solana.PublicKey) error {
	if !acct.Owner.Equals(owner) {
		return model.ErrAccountMismatch.Wrapf("%s %s is owned by %s, want %s", role, acct.Address, acct.Owner, owner)
	}
	return nil
}

// poolContext is the live state of one pool inside an update.
type poolContext struct {
	address   solana.PublicKey
	state     model.PoolState
	authority address.Capability
	reserves  [2]ledger.Account
	mint      ledger.Mint
}

func (p poolContext) reserve(side model.Side) ledger.Account {
	return p.reserves[side]
}

// userAccount loads a user token account and checks its mint and owner. The pool's own
// reserves are never user accounts.
func (p poolContext) userAccount(ctx context.Context, tx ledger.Reader, role string, addr, mint, user solana.PublicKey) (ledger.Account, error) {
	for _, r := range p.reserves {
		if addr.Equals(r.Address) {
			return ledger.Account{}, model.ErrAccountMismatch.Wrapf("%s %s is a pool reserve", role, addr)
		}
	}
	acct, err := tokenAccount(ctx, tx, role, addr, mint)
	if err != nil {
		return ledger.Account{}, err
	}
	if err := ownedBy(role, acct, user); err != nil {
		return ledger.Account{}, err
	}
	return acct, nil
}

// poolAccounts are the accounts every pool instruction after initialize names.
type poolAccounts struct {
	pool       solana.PublicKey
	authority  solana.PublicKey
	poolA      solana.PublicKey
	poolB      solana.PublicKey
	poolMint   solana.PublicKey
	feeAccount solana.PublicKey
}

// loadPool reads the pool record and its live reserves and supply, and checks every pool
// account the instruction named against them.
func (e *Engine) loadPool(ctx context.Context, tx ledger.Reader, accts poolAccounts) (poolContext, error) {
	state, err := e.pools.Get(ctx, accts.pool)
	if err != nil {
		if errors.Is(err, storage.ErrPoolNotFound) {
			return poolContext{}, model.ErrPoolNotFound.Wrap(accts.pool.String())
		}
		return poolContext{}, err
	}

	derived, _, err := address.PoolAddress(e.programID, state.TokenAMint, state.TokenBMint, state.Creator)
	if err != nil {
		return poolContext{}, err
	}
	if err := requireKey("pool", accts.pool, derived); err != nil {
		return poolContext{}, err
	}
	capability, err := address.NewCapability(e.programID, accts.pool)
	if err != nil {
		return poolContext{}, err
	}
	authority := capability.Key()

	checks := []struct {
		role      string
		got, want solana.PublicKey
	}{
		{"authority", accts.authority, authority},
		{"pool token a", accts.poolA, state.TokenA},
		{"pool token b", accts.poolB, state.TokenB},
		{"pool mint", accts.poolMint, state.Mint},
		{"fee account", accts.feeAccount, state.FeeAccount},
	}
	for _, c := range checks {
		if err := requireKey(c.role, c.got, c.want); err != nil {
			return poolContext{}, err
		}
	}

	p := poolContext{address: accts.pool, state: state, authority: capability}
	for _, side := range []model.Side{model.SideA, model.SideB} {
		addr, mint := state.Reserve(side)
		acct, err := tokenAccount(ctx, tx, "reserve "+side.String(), addr, mint)
		if err != nil {
			return poolContext{}, err
		}
		if err := ownedBy("reserve "+side.String(), acct, authority); err != nil {
			return poolContext{}, err
		}
		p.reserves[side] = acct
	}

	mint, err := tx.GetMint(ctx, state.Mint)
	if err != nil {
		return poolContext{}, model.ErrAccountMismatch.Wrapf("pool mint: %v", err)
	}
	if !mint.Authority.Equals(authority) {
		return poolContext{}, model.ErrAccountMismatch.Wrapf("pool mint authority is %s, want %s", mint.Authority, authority)
	}
	p.mint = mint

	if _, err := tokenAccount(ctx, tx, "fee account", state.FeeAccount, state.Mint); err != nil {
		return poolContext{}, err
	}
	return p, nil
}
