// Package instruction encodes and decodes pool program instructions. Instruction data is an
// 8-byte discriminator, sha256("global:<name>")[:8], followed by the borsh-encoded arguments.
package instruction

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
	"github.com/samber/lo"

	"poolExchange/internal/model"
)

const discriminatorSize = 8

var (
	InitializeDiscriminator     = bin.Sighash("global", model.KindInitialize)
	DepositAllDiscriminator     = bin.Sighash("global", model.KindDepositAll)
	DepositSingleDiscriminator  = bin.Sighash("global", model.KindDepositSingle)
	WithdrawSingleDiscriminator = bin.Sighash("global", model.KindWithdrawSingle)
	SwapDiscriminator           = bin.Sighash("global", model.KindSwap)
)

type InitializeArgs struct {
	Fees model.FeeSchedule
}

type DepositAllArgs struct {
	MinPoolTokensOut uint64
	MaxTokenA        uint64
	MaxTokenB        uint64
}

type DepositSingleArgs struct {
	AmountIn uint64
}

type WithdrawSingleArgs struct {
	AmountOut uint64
}

type SwapArgs struct {
	AmountIn uint64
}

func build(programID solana.PublicKey, disc []byte, args interface{}, metas solana.AccountMetaSlice) (solana.Instruction, error) {
	body, err := borsh.Serialize(args)
	if err != nil {
		return nil, fmt.Errorf("encode instruction args: %w", err)
	}
	data := make([]byte, 0, len(disc)+len(body))
	data = append(data, disc...)
	data = append(data, body...)

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: metas,
		DataBytes:     data,
	}, nil
}

func NewInitializeInstruction(programID solana.PublicKey, accounts InitializeAccounts, fees model.FeeSchedule) (solana.Instruction, error) {
	return build(programID, InitializeDiscriminator, InitializeArgs{Fees: fees}, accounts.metas())
}

func NewDepositAllInstruction(programID solana.PublicKey, accounts DepositAllAccounts, args DepositAllArgs) (solana.Instruction, error) {
	return build(programID, DepositAllDiscriminator, args, accounts.metas())
}

func NewDepositSingleInstruction(programID solana.PublicKey, accounts DepositSingleAccounts, amountIn uint64) (solana.Instruction, error) {
	return build(programID, DepositSingleDiscriminator, DepositSingleArgs{AmountIn: amountIn}, accounts.metas())
}

func NewWithdrawSingleInstruction(programID solana.PublicKey, accounts WithdrawSingleAccounts, amountOut uint64) (solana.Instruction, error) {
	return build(programID, WithdrawSingleDiscriminator, WithdrawSingleArgs{AmountOut: amountOut}, accounts.metas())
}

func NewSwapInstruction(programID solana.PublicKey, accounts SwapAccounts, amountIn uint64) (solana.Instruction, error) {
	return build(programID, SwapDiscriminator, SwapArgs{AmountIn: amountIn}, accounts.metas())
}

// Initialize is a decoded initialize instruction.
type Initialize struct {
	Accounts InitializeAccounts
	Args     InitializeArgs
}

// DepositAll is a decoded proportional deposit.
type DepositAll struct {
	Accounts DepositAllAccounts
	Args     DepositAllArgs
}

// DepositSingle is a decoded single-sided deposit.
type DepositSingle struct {
	Accounts DepositSingleAccounts
	Args     DepositSingleArgs
}

// WithdrawSingle is a decoded single-sided withdrawal.
type WithdrawSingle struct {
	Accounts WithdrawSingleAccounts
	Args     WithdrawSingleArgs
}

// Swap is a decoded swap.
type Swap struct {
	Accounts SwapAccounts
	Args     SwapArgs
}

// Decoded is a parsed instruction. Value is one of *Initialize, *DepositAll, *DepositSingle,
// *WithdrawSingle or *Swap.
type Decoded struct {
	Kind    string
	Value   interface{}
	signers []solana.PublicKey
}

// Signed reports whether key was marked as a signer of the instruction.
func (d Decoded) Signed(key solana.PublicKey) bool {
	return lo.Contains(d.signers, key)
}

// Decode parses ix. Failures wrap model.ErrInvalidInstruction.
func Decode(ix solana.Instruction) (Decoded, error) {
	data, err := ix.Data()
	if err != nil {
		return Decoded{}, model.ErrInvalidInstruction.Wrapf("read data: %v", err)
	}
	if len(data) < discriminatorSize {
		return Decoded{}, model.ErrInvalidInstruction.Wrapf("data is %d bytes", len(data))
	}
	disc, body := data[:discriminatorSize], data[discriminatorSize:]

	metas := ix.Accounts()
	keys := make([]solana.PublicKey, 0, len(metas))
	var signers []solana.PublicKey
	for _, m := range metas {
		keys = append(keys, m.PublicKey)
		if m.IsSigner {
			signers = append(signers, m.PublicKey)
		}
	}
	out := Decoded{signers: signers}

	switch {
	case bytes.Equal(disc, InitializeDiscriminator):
		v := &Initialize{}
		err = decodeInto(body, &v.Args, keys, 8, v.Accounts.bind)
		out.Kind, out.Value = model.KindInitialize, v
	case bytes.Equal(disc, DepositAllDiscriminator):
		v := &DepositAll{}
		err = decodeInto(body, &v.Args, keys, 12, v.Accounts.bind)
		out.Kind, out.Value = model.KindDepositAll, v
	case bytes.Equal(disc, DepositSingleDiscriminator):
		v := &DepositSingle{}
		err = decodeInto(body, &v.Args, keys, 10, v.Accounts.bind)
		out.Kind, out.Value = model.KindDepositSingle, v
	case bytes.Equal(disc, WithdrawSingleDiscriminator):
		v := &WithdrawSingle{}
		err = decodeInto(body, &v.Args, keys, 10, v.Accounts.bind)
		out.Kind, out.Value = model.KindWithdrawSingle, v
	case bytes.Equal(disc, SwapDiscriminator):
		v := &Swap{}
		err = decodeInto(body, &v.Args, keys, 9, v.Accounts.bind)
		out.Kind, out.Value = model.KindSwap, v
	default:
		return Decoded{}, model.ErrInvalidInstruction.Wrapf("unknown discriminator %x", disc)
	}
	if err != nil {
		return Decoded{}, err
	}
	return out, nil
}

func decodeInto(body []byte, args interface{}, keys []solana.PublicKey, want int, bind func([]solana.PublicKey)) error {
	if len(keys) < want {
		return model.ErrInvalidInstruction.Wrapf("got %d accounts, want %d", len(keys), want)
	}
	if err := borsh.Deserialize(args, body); err != nil {
		return model.ErrInvalidInstruction.Wrapf("decode args: %v", err)
	}
	bind(keys[:want])
	return nil
}
