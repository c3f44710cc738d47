package exchange

import (
	"context"

	gmath "github.com/ethereum/go-ethereum/common/math"

	"poolExchange/internal/curve"
	"poolExchange/internal/instruction"
	"poolExchange/internal/ledger"
	"poolExchange/internal/model"
)

// WithdrawSingleTokenOut pays exactly amountOut of one token from the reserve holding
// SourceMint. The user burns the pool tokens the square-root curve prices it at, and pays
// the owner withdraw fee on top of that burn, in pool tokens, to the fee account.
func (e *Engine) WithdrawSingleTokenOut(ctx context.Context, signer ledger.Signer, accts instruction.WithdrawSingleAccounts, amountOut uint64) (model.Event, error) {
	return e.execute(ctx, model.KindWithdrawSingle, func(tx ledger.Ledger) (model.Event, error) {
		if amountOut == 0 {
			return model.Event{}, model.ErrZeroAmount.Wrap("amount out")
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

		if _, err := p.userAccount(ctx, tx, "user destination", accts.UserDestination, accts.SourceMint, accts.User); err != nil {
			return model.Event{}, err
		}
		poolTokens, err := tokenAccount(ctx, tx, "user pool token", accts.UserPoolToken, p.state.Mint)
		if err != nil {
			return model.Event{}, err
		}
		if err := ownedBy("user pool token", poolTokens, accts.User); err != nil {
			return model.Event{}, err
		}

		reserve := p.reserve(side)
		burned, err := curve.WithdrawSingle(amountOut, reserve.Amount, p.mint.Supply)
		if err != nil {
			return model.Event{}, err
		}
		fees := p.state.Fees
		withdrawFee, err := curve.Fee(burned, fees.OwnerWithdrawFeeNumerator, fees.OwnerWithdrawFeeDenominator)
		if err != nil {
			return model.Event{}, err
		}
		needed, overflow := gmath.SafeAdd(burned, withdrawFee)
		if overflow {
			return model.Event{}, model.ErrArithmeticOverflow.Wrap("pool tokens burned plus withdraw fee")
		}
		if poolTokens.Amount < needed {
			return model.Event{}, model.ErrInsufficientBalance.Wrapf("user pool token holds %d, needs %d", poolTokens.Amount, needed)
		}

		if withdrawFee > 0 {
			if err := tx.Transfer(ctx, signer, accts.UserPoolToken, p.state.FeeAccount, withdrawFee); err != nil {
				return model.Event{}, err
			}
		}
		if err := tx.Burn(ctx, signer, p.state.Mint, accts.UserPoolToken, burned); err != nil {
			return model.Event{}, err
		}
		if err := tx.Transfer(ctx, p.authority, reserve.Address, accts.UserDestination, amountOut); err != nil {
			return model.Event{}, err
		}

		return model.Event{
			Kind: model.KindWithdrawSingle,
			Pool: p.address,
			Data: model.WithdrawSingleResult{
				Pool:             p.address,
				User:             accts.User,
				Side:             side,
				AmountOut:        amountOut,
				PoolTokensBurned: burned,
				WithdrawFee:      withdrawFee,
			},
		}, nil
	})
}
