package model

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// Codespace groups the exchange error codes.
const Codespace = "exchange"

// Exchange error kinds. Every failed instruction returns one of these, possibly wrapped.
var (
	ErrPoolAlreadyExists   = errorsmod.Register(Codespace, 2, "pool already exists")
	ErrInvalidFeeSchedule  = errorsmod.Register(Codespace, 3, "invalid fee schedule")
	ErrUnauthorizedSigner  = errorsmod.Register(Codespace, 4, "unauthorized signer")
	ErrZeroReserve         = errorsmod.Register(Codespace, 5, "zero reserve")
	ErrSlippageExceeded    = errorsmod.Register(Codespace, 6, "slippage exceeded")
	ErrInsufficientBalance = errorsmod.Register(Codespace, 7, "insufficient balance")
	ErrReserveExhausted    = errorsmod.Register(Codespace, 8, "reserve exhausted")
	ErrArithmeticOverflow  = errorsmod.Register(Codespace, 9, "arithmetic overflow")
	ErrAccountMismatch     = errorsmod.Register(Codespace, 10, "account mismatch")
	ErrPoolNotFound        = errorsmod.Register(Codespace, 11, "pool not found")
	ErrSameTokenMints      = errorsmod.Register(Codespace, 12, "token mints must differ")
	ErrInvalidInstruction  = errorsmod.Register(Codespace, 13, "invalid instruction")
	ErrZeroAmount          = errorsmod.Register(Codespace, 14, "amount cannot be zero")
	ErrMintSupplyNotZero   = errorsmod.Register(Codespace, 15, "pool mint supply is not zero")
)

// ErrorCode returns the registered code of err, or 0 when err is not an exchange error.
func ErrorCode(err error) uint32 {
	var kind *errorsmod.Error
	if !errors.As(err, &kind) || kind.Codespace() != Codespace {
		return 0
	}
	return kind.ABCICode()
}
