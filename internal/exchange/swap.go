package exchange

import (
	"context"

	"poolExchange/internal/curve"
	"poolExchange/internal/instruction"
	"poolExchange/internal/ledger"
	"poolExchange/internal/model"
)

// Swap trades amountIn of the user's source token for the other pool token. The whole input,
// fees included, stays in the source reserve; the owner fee share is also minted to the fee
// account as the pool tokens a single-sided withdrawal of that fee would burn.
func (e *Engine) Swap(ctx context.Context, signer ledger.Signer, accts instruction.SwapAccounts, amountIn uint64) (model.Event, error) {
	return e.execute(ctx, model.KindSwap, func(tx ledger.Ledger) (model.Event, error) {
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

		source, err := tx.GetAccount(ctx, accts.UserSource)
		if err != nil {
			return model.Event{}, model.ErrAccountMismatch.Wrapf("user source: %v", err)
		}
		side, ok := p.state.SideOf(source.Mint)
		if !ok {
			return model.Event{}, model.ErrAccountMismatch.Wrapf("user source holds mint %s, not in pool %s", source.Mint, p.address)
		}
		if source, err = p.userAccount(ctx, tx, "user source", accts.UserSource, source.Mint, accts.User); err != nil {
			return model.Event{}, err
		}
		_, destinationMint := p.state.Reserve(side.Other())
		if _, err := p.userAccount(ctx, tx, "user destination", accts.UserDestination, destinationMint, accts.User); err != nil {
			return model.Event{}, err
		}

		reserveIn, reserveOut := p.reserve(side), p.reserve(side.Other())
		amounts, err := curve.Swap(amountIn, reserveIn.Amount, reserveOut.Amount, p.state.Fees)
		if err != nil {
			return model.Event{}, err
		}
		if source.Amount < amountIn {
			return model.Event{}, model.ErrInsufficientBalance.Wrapf("user source holds %d, needs %d", source.Amount, amountIn)
		}

		var ownerFeePoolTokens uint64
		if amounts.OwnerFee > 0 {
			ownerFeePoolTokens, err = curve.WithdrawSingle(amounts.OwnerFee, amounts.NewSourceReserve, p.mint.Supply)
			if err != nil {
				return model.Event{}, err
			}
		}

		if err := tx.Transfer(ctx, signer, accts.UserSource, reserveIn.Address, amountIn); err != nil {
			return model.Event{}, err
		}
		if err := tx.Transfer(ctx, p.authority, reserveOut.Address, accts.UserDestination, amounts.AmountOut); err != nil {
			return model.Event{}, err
		}
		if ownerFeePoolTokens > 0 {
			if err := tx.MintTo(ctx, p.authority, p.state.Mint, p.state.FeeAccount, ownerFeePoolTokens); err != nil {
				return model.Event{}, err
			}
		}

		return model.Event{
			Kind: model.KindSwap,
			Pool: p.address,
			Data: model.SwapResult{
				Pool:               p.address,
				User:               accts.User,
				Side:               side,
				AmountIn:           amountIn,
				AmountOut:          amounts.AmountOut,
				TradingFee:         amounts.TradingFee,
				OwnerFee:           amounts.OwnerFee,
				OwnerFeePoolTokens: ownerFeePoolTokens,
			},
		}, nil
	})
}
