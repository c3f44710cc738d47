package main

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"poolExchange/internal/address"
	"poolExchange/internal/exchange"
	"poolExchange/internal/instruction"
	"poolExchange/internal/ledger"
	"poolExchange/internal/model"
)

// executor turns instruction records into ledger calls or pool instructions.
type executor struct {
	engine *exchange.Engine
	ledger ledger.Ledger
}

// Execute runs rec. Pool instructions return their event; ledger setup returns nil.
func (x *executor) Execute(ctx context.Context, rec model.InstructionRecord) (*model.Event, error) {
	switch rec.Op {
	case model.OpCreateMint:
		mint, err := recordKey(rec, "mint")
		if err != nil {
			return nil, err
		}
		authority, err := recordKey(rec, "authority")
		if err != nil {
			return nil, err
		}
		return nil, x.ledger.InitializeMint(ctx, mint, authority, rec.Decimals)

	case model.OpCreateAccount:
		account, err := recordKey(rec, "account")
		if err != nil {
			return nil, err
		}
		mint, err := recordKey(rec, "mint")
		if err != nil {
			return nil, err
		}
		owner, err := recordKey(rec, "owner")
		if err != nil {
			return nil, err
		}
		return nil, x.ledger.InitializeAccount(ctx, account, mint, owner)

	case model.OpMintTo:
		signer, err := recordSigner(rec)
		if err != nil {
			return nil, err
		}
		mint, err := recordKey(rec, "mint")
		if err != nil {
			return nil, err
		}
		to, err := recordKey(rec, "to")
		if err != nil {
			return nil, err
		}
		return nil, x.ledger.MintTo(ctx, ledger.KeySigner(signer), mint, to, rec.Amount)

	case model.KindInitialize, model.KindDepositAll, model.KindDepositSingle, model.KindWithdrawSingle, model.KindSwap:
		ix, err := x.buildInstruction(ctx, rec)
		if err != nil {
			return nil, err
		}
		ev, err := x.engine.Dispatch(ctx, ix)
		if err != nil {
			return nil, err
		}
		return &ev, nil

	default:
		return nil, fmt.Errorf("unknown op %q", rec.Op)
	}
}

// buildInstruction encodes a pool record. Accounts the record leaves out are filled from the
// derived addresses or the stored pool; the record signer signs as creator or user.
func (x *executor) buildInstruction(ctx context.Context, rec model.InstructionRecord) (solana.Instruction, error) {
	signer, err := recordSigner(rec)
	if err != nil {
		return nil, err
	}
	programID := x.engine.ProgramID()

	if rec.Op == model.KindInitialize {
		if rec.Fees == nil {
			return nil, fmt.Errorf("initialize record %d has no fees", rec.Seq)
		}
		accts := instruction.InitializeAccounts{Creator: signer}
		for _, f := range []struct {
			role string
			dst  *solana.PublicKey
		}{
			{"token_a", &accts.TokenA},
			{"token_b", &accts.TokenB},
			{"receiver", &accts.Receiver},
			{"fee_account", &accts.FeeAccount},
		} {
			if *f.dst, err = recordKey(rec, f.role); err != nil {
				return nil, err
			}
		}
		keys, err := x.deriveFromReserves(ctx, accts.TokenA, accts.TokenB, signer)
		if err != nil {
			return nil, err
		}
		if accts.Pool, err = optionalKey(rec, "pool", keys.Pool); err != nil {
			return nil, err
		}
		if accts.Authority, err = optionalKey(rec, "authority", keys.Authority); err != nil {
			return nil, err
		}
		if accts.PoolMint, err = optionalKey(rec, "pool_mint", keys.Mint); err != nil {
			return nil, err
		}
		return instruction.NewInitializeInstruction(programID, accts, *rec.Fees)
	}

	poolAddr, err := recordKey(rec, "pool")
	if err != nil {
		return nil, err
	}
	view, err := x.engine.Pool(ctx, poolAddr)
	if err != nil {
		return nil, err
	}
	state := view.State
	pick := func(role string, fallback solana.PublicKey) solana.PublicKey {
		if err != nil {
			return solana.PublicKey{}
		}
		var key solana.PublicKey
		key, err = optionalKey(rec, role, fallback)
		return key
	}
	need := func(role string) solana.PublicKey {
		if err != nil {
			return solana.PublicKey{}
		}
		var key solana.PublicKey
		key, err = recordKey(rec, role)
		return key
	}

	switch rec.Op {
	case model.KindDepositAll:
		accts := instruction.DepositAllAccounts{
			Authority:  pick("authority", view.Authority),
			Pool:       poolAddr,
			PoolA:      pick("pool_a", state.TokenA),
			PoolB:      pick("pool_b", state.TokenB),
			UserA:      need("user_a"),
			UserB:      need("user_b"),
			Recipient:  need("recipient"),
			PoolMint:   pick("pool_mint", state.Mint),
			MintA:      pick("mint_a", state.TokenAMint),
			MintB:      pick("mint_b", state.TokenBMint),
			FeeAccount: pick("fee_account", state.FeeAccount),
			User:       signer,
		}
		if err != nil {
			return nil, err
		}
		return instruction.NewDepositAllInstruction(programID, accts, instruction.DepositAllArgs{
			MinPoolTokensOut: rec.MinPoolTokensOut,
			MaxTokenA:        rec.MaxTokenA,
			MaxTokenB:        rec.MaxTokenB,
		})

	case model.KindDepositSingle:
		source := need("source")
		if err != nil {
			return nil, err
		}
		var sourceMint solana.PublicKey
		if sourceMint, err = x.mintOf(ctx, rec, "source_mint", source); err != nil {
			return nil, err
		}
		accts := instruction.DepositSingleAccounts{
			Authority:  pick("authority", view.Authority),
			Pool:       poolAddr,
			PoolA:      pick("pool_a", state.TokenA),
			PoolB:      pick("pool_b", state.TokenB),
			UserSource: source,
			SourceMint: sourceMint,
			Recipient:  need("recipient"),
			PoolMint:   pick("pool_mint", state.Mint),
			FeeAccount: pick("fee_account", state.FeeAccount),
			User:       signer,
		}
		if err != nil {
			return nil, err
		}
		return instruction.NewDepositSingleInstruction(programID, accts, rec.Amount)

	case model.KindWithdrawSingle:
		destination := need("destination")
		if err != nil {
			return nil, err
		}
		var sourceMint solana.PublicKey
		if sourceMint, err = x.mintOf(ctx, rec, "source_mint", destination); err != nil {
			return nil, err
		}
		accts := instruction.WithdrawSingleAccounts{
			Authority:       pick("authority", view.Authority),
			Pool:            poolAddr,
			PoolA:           pick("pool_a", state.TokenA),
			PoolB:           pick("pool_b", state.TokenB),
			UserDestination: destination,
			SourceMint:      sourceMint,
			UserPoolToken:   need("pool_token"),
			PoolMint:        pick("pool_mint", state.Mint),
			FeeAccount:      pick("fee_account", state.FeeAccount),
			User:            signer,
		}
		if err != nil {
			return nil, err
		}
		return instruction.NewWithdrawSingleInstruction(programID, accts, rec.Amount)

	default:
		accts := instruction.SwapAccounts{
			Authority:       pick("authority", view.Authority),
			Pool:            poolAddr,
			PoolA:           pick("pool_a", state.TokenA),
			PoolB:           pick("pool_b", state.TokenB),
			UserSource:      need("source"),
			UserDestination: need("destination"),
			PoolMint:        pick("pool_mint", state.Mint),
			FeeAccount:      pick("fee_account", state.FeeAccount),
			User:            signer,
		}
		if err != nil {
			return nil, err
		}
		return instruction.NewSwapInstruction(programID, accts, rec.Amount)
	}
}

// deriveFromReserves derives the pool keys for the mints the two reserves hold.
func (x *executor) deriveFromReserves(ctx context.Context, tokenA, tokenB, creator solana.PublicKey) (address.PoolKeys, error) {
	a, err := x.ledger.GetAccount(ctx, tokenA)
	if err != nil {
		return address.PoolKeys{}, fmt.Errorf("token_a: %w", err)
	}
	b, err := x.ledger.GetAccount(ctx, tokenB)
	if err != nil {
		return address.PoolKeys{}, fmt.Errorf("token_b: %w", err)
	}
	return address.Derive(x.engine.ProgramID(), a.Mint, b.Mint, creator)
}

// mintOf returns the record's role key, or the mint held by account when the role is absent.
func (x *executor) mintOf(ctx context.Context, rec model.InstructionRecord, role string, account solana.PublicKey) (solana.PublicKey, error) {
	if rec.Account(role) != "" {
		return recordKey(rec, role)
	}
	acct, err := x.ledger.GetAccount(ctx, account)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s: %w", role, err)
	}
	return acct.Mint, nil
}

func recordKey(rec model.InstructionRecord, role string) (solana.PublicKey, error) {
	value := rec.Account(role)
	if value == "" {
		return solana.PublicKey{}, fmt.Errorf("record %d (%s): account %q is required", rec.Seq, rec.Op, role)
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("record %d (%s): account %q: %w", rec.Seq, rec.Op, role, err)
	}
	return key, nil
}

func optionalKey(rec model.InstructionRecord, role string, fallback solana.PublicKey) (solana.PublicKey, error) {
	if rec.Account(role) == "" {
		return fallback, nil
	}
	return recordKey(rec, role)
}

func recordSigner(rec model.InstructionRecord) (solana.PublicKey, error) {
	if rec.Signer == "" {
		return solana.PublicKey{}, fmt.Errorf("record %d (%s): signer is required", rec.Seq, rec.Op)
	}
	key, err := solana.PublicKeyFromBase58(rec.Signer)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("record %d (%s): signer: %w", rec.Seq, rec.Op, err)
	}
	return key, nil
}
