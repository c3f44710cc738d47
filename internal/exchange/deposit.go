package exchange

import (
	"context"

	"poolExchange/internal/curve"
	"poolExchange/internal/instruction"
	"poolExchange/internal/ledger"
	"poolExchange/internal/model"
)

// DepositAllTokensIn deposits both tokens in the current reserve ratio, up to the given caps,
// and mints the matching pool tokens to the recipient.
func (e *Engine) DepositAllTokensIn(ctx context.Context, signer ledger.Signer, accts instruction.DepositAllAccounts, minPoolTokensOut, maxTokenA, maxTokenB uint64) (model.Event, error) {
	return e.execute(ctx, model.KindDepositAll, func(tx ledger.Ledger) (model.Event, error) {
		if maxTokenA == 0 || maxTokenB == 0 {
			return model.Event{}, model.ErrZeroAmount.Wrapf("max token a %d, max token b %d", maxTokenA, maxTokenB)
		}
		if err := requireSigner(signer, accts.User); err != nil {
			return model.Event{}, err
		}
		p, err := e.loadPool(ctx, tx, poolAccounts{
			pool:       accts.Pool,
			authority:  accts.Authority,
			poolA:      accts.PoolA,
			poolB:      accts.PoolB,
			poolMint:   accts.PoolMint,
			feeAccount: accts.FeeAccount,
		})
		if err != nil {
			return model.Event{}, err
		}
		if err := requireKey("mint a", accts.MintA, p.state.TokenAMint); err != nil {
			return model.Event{}, err
		}
		if err := requireKey("mint b", accts.MintB, p.state.TokenBMint); err != nil {
			return model.Event{}, err
		}

		userA, err := p.userAccount(ctx, tx, "user token a", accts.UserA, p.state.TokenAMint, accts.User)
		if err != nil {
			return model.Event{}, err
		}
		userB, err := p.userAccount(ctx, tx, "user token b", accts.UserB, p.state.TokenBMint, accts.User)
		if err != nil {
			return model.Event{}, err
		}
		if _, err := tokenAccount(ctx, tx, "recipient", accts.Recipient, p.state.Mint); err != nil {
			return model.Event{}, err
		}

		amounts, err := curve.DepositAll(maxTokenA, maxTokenB, p.reserve(model.SideA).Amount, p.reserve(model.SideB).Amount, p.mint.Supply)
		if err != nil {
			return model.Event{}, err
		}
		if amounts.PoolTokens == 0 {
			return model.Event{}, model.ErrZeroAmount.Wrap("deposit mints no pool tokens")
		}
		if amounts.PoolTokens < minPoolTokensOut {
			return model.Event{}, model.ErrSlippageExceeded.Wrapf("pool tokens %d below minimum %d", amounts.PoolTokens, minPoolTokensOut)
		}
		if userA.Amount < amounts.TokenA || userB.Amount < amounts.TokenB {
			return model.Event{}, model.ErrInsufficientBalance.Wrapf("deposit needs %d/%d, user holds %d/%d",
				amounts.TokenA, amounts.TokenB, userA.Amount, userB.Amount)
		}

		if err := tx.Transfer(ctx, signer, accts.UserA, accts.PoolA, amounts.TokenA); err != nil {
			return model.Event{}, err
		}
		if err := tx.Transfer(ctx, signer, accts.UserB, accts.PoolB, amounts.TokenB); err != nil {
			return model.Event{}, err
		}
		if err := tx.MintTo(ctx, p.authority, p.state.Mint, accts.Recipient, amounts.PoolTokens); err != nil {
			return model.Event{}, err
		}

		return model.Event{
			Kind: model.KindDepositAll,
			Pool: p.address,
			Data: model.DepositAllResult{
				Pool:          p.address,
				User:          accts.User,
				TokenAIn:      amounts.TokenA,
				TokenBIn:      amounts.TokenB,
				PoolTokensOut: amounts.PoolTokens,
			},
		}, nil
	})
}

// DepositSingleTokenIn deposits one token into the reserve holding SourceMint and mints pool
// tokens priced on the square-root curve.
func (e *Engine) DepositSingleTokenIn(ctx context.Context, signer ledger.Signer, accts instruction.DepositSingleAccounts, amountIn uint64) (model.Event, error) {
	return e.execute(ctx, model.KindDepositSingle, func(tx ledger.Ledger) (model.Event, error) {
		if amountIn == 0 {
			return model.Event{}, model.ErrZeroAmount.Wrap("amount in")
		}
		if err := requireSigner(signer, accts.User); err != nil {
			return model.Event{}, err
		}
		p, err := e.loadPool(ctx, tx, poolAccounts{
			pool:       accts.Pool,
			authority:  accts.Authority,
			poolA:      accts.PoolA,
			poolB:      accts.PoolB,
			poolMint:   accts.PoolMint,
			feeAccount: accts.FeeAccount,
		})
		if err != nil {
			return model.Event{}, err
		}
		side, ok := p.state.SideOf(accts.SourceMint)
		if !ok {
			return model.Event{}, model.ErrAccountMismatch.Wrapf("mint %s is not in pool %s", accts.SourceMint, p.address)
		}

		source, err := p.userAccount(ctx, tx, "user source", accts.UserSource, accts.SourceMint, accts.User)
		if err != nil {
			return model.Event{}, err
		}
		if _, err := tokenAccount(ctx, tx, "recipient", accts.Recipient, p.state.Mint); err != nil {
			return model.Event{}, err
		}

		reserve := p.reserve(side)
		minted, err := curve.DepositSingle(amountIn, reserve.Amount, p.mint.Supply)
		if err != nil {
			return model.Event{}, err
		}
		if source.Amount < amountIn {
			return model.Event{}, model.ErrInsufficientBalance.Wrapf("user source holds %d, needs %d", source.Amount, amountIn)
		}

		if err := tx.Transfer(ctx, signer, accts.UserSource, reserve.Address, amountIn); err != nil {
			return model.Event{}, err
		}
		if err := tx.MintTo(ctx, p.authority, p.state.Mint, accts.Recipient, minted); err != nil {
			return model.Event{}, err
		}

		return model.Event{
			Kind: model.KindDepositSingle,
			Pool: p.address,
			Data: model.DepositSingleResult{
				Pool:          p.address,
				User:          accts.User,
				Side:          side,
				AmountIn:      amountIn,
				PoolTokensOut: minted,
			},
		}, nil
	})
}
