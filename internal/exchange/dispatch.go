package exchange

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"poolExchange/internal/instruction"
	"poolExchange/internal/ledger"
	"poolExchange/internal/model"
)

// Dispatch decodes ix and runs it. Accounts marked IsSigner form the signer set; the
// instruction's user, or creator for initialize, must be among them.
func (e *Engine) Dispatch(ctx context.Context, ix solana.Instruction) (model.Event, error) {
	if !ix.ProgramID().Equals(e.programID) {
		return model.Event{}, model.ErrInvalidInstruction.Wrapf("program %s, want %s", ix.ProgramID(), e.programID)
	}
	decoded, err := instruction.Decode(ix)
	if err != nil {
		return model.Event{}, err
	}

	signer := func(key solana.PublicKey) ledger.Signer {
		if !decoded.Signed(key) {
			return nil
		}
		return ledger.KeySigner(key)
	}

	switch v := decoded.Value.(type) {
	case *instruction.Initialize:
		return e.Initialize(ctx, signer(v.Accounts.Creator), v.Accounts, v.Args.Fees)
	case *instruction.DepositAll:
		return e.DepositAllTokensIn(ctx, signer(v.Accounts.User), v.Accounts,
			v.Args.MinPoolTokensOut, v.Args.MaxTokenA, v.Args.MaxTokenB)
	case *instruction.DepositSingle:
		return e.DepositSingleTokenIn(ctx, signer(v.Accounts.User), v.Accounts, v.Args.AmountIn)
	case *instruction.WithdrawSingle:
		return e.WithdrawSingleTokenOut(ctx, signer(v.Accounts.User), v.Accounts, v.Args.AmountOut)
	case *instruction.Swap:
		return e.Swap(ctx, signer(v.Accounts.User), v.Accounts, v.Args.AmountIn)
	default:
		return model.Event{}, model.ErrInvalidInstruction.Wrapf("unhandled instruction %s", decoded.Kind)
	}
}
