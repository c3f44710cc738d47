package model

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Event kinds emitted by executed instructions.
const (
	KindInitialize     = "initialize"
	KindDepositAll     = "deposit_all_tokens_in"
	KindDepositSingle  = "deposit_single_token_in"
	KindWithdrawSingle = "withdraw_single_token_out"
	KindSwap           = "swap"
)

// Event is the outcome of one executed pool instruction.
type Event struct {
	Kind string           `json:"kind"`
	Pool solana.PublicKey `json:"pool"`
	Data interface{}      `json:"data"`
}

// InitializeResult is the outcome of a pool initialization.
type InitializeResult struct {
	Pool          solana.PublicKey `json:"pool"`
	Authority     solana.PublicKey `json:"authority"`
	Mint          solana.PublicKey `json:"mint"`
	Receiver      solana.PublicKey `json:"receiver"`
	InitialSupply uint64           `json:"initial_supply"`
	Fees          FeeSchedule      `json:"fees"`
}

// DepositAllResult is the outcome of a proportional deposit.
type DepositAllResult struct {
	Pool          solana.PublicKey `json:"pool"`
	User          solana.PublicKey `json:"user"`
	TokenAIn      uint64           `json:"token_a_in"`
	TokenBIn      uint64           `json:"token_b_in"`
	PoolTokensOut uint64           `json:"pool_tokens_out"`
}

// DepositSingleResult is the outcome of a single-sided deposit.
type DepositSingleResult struct {
	Pool          solana.PublicKey `json:"pool"`
	User          solana.PublicKey `json:"user"`
	Side          Side             `json:"side"`
	AmountIn      uint64           `json:"amount_in"`
	PoolTokensOut uint64           `json:"pool_tokens_out"`
}

// WithdrawSingleResult is the outcome of a single-sided withdrawal.
type WithdrawSingleResult struct {
	Pool             solana.PublicKey `json:"pool"`
	User             solana.PublicKey `json:"user"`
	Side             Side             `json:"side"`
	AmountOut        uint64           `json:"amount_out"`
	PoolTokensBurned uint64           `json:"pool_tokens_burned"`
	WithdrawFee      uint64           `json:"withdraw_fee"`
}

// SwapResult is the outcome of a swap. Side is the source reserve.
type SwapResult struct {
	Pool               solana.PublicKey `json:"pool"`
	User               solana.PublicKey `json:"user"`
	Side               Side             `json:"side"`
	AmountIn           uint64           `json:"amount_in"`
	AmountOut          uint64           `json:"amount_out"`
	TradingFee         uint64           `json:"trading_fee"`
	OwnerFee           uint64           `json:"owner_fee"`
	OwnerFeePoolTokens uint64           `json:"owner_fee_pool_tokens"`
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "a", "A":
		*s = SideA
	case "b", "B":
		*s = SideB
	default:
		return fmt.Errorf("invalid side %q", string(text))
	}
	return nil
}
