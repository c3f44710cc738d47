package model

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	// InitialPoolTokenSupply is minted to the creator's receiver when a pool is initialized.
	InitialPoolTokenSupply uint64 = 1_000_000_000
	// PoolMintDecimals is the decimals of every pool-token mint.
	PoolMintDecimals uint8 = 9
	// PoolAccountSize is the encoded size of a PoolState including its discriminator.
	PoolAccountSize = 8 + 1 + 32*7 + 8*6
)

// PoolAccountDiscriminator prefixes every encoded PoolState.
var PoolAccountDiscriminator = bin.Sighash("account", "Pool")

// PoolState is the persistent record of one pool. It never changes after initialization.
type PoolState struct {
	Bump       uint8            `json:"bump"`
	TokenA     solana.PublicKey `json:"token_a"`
	TokenB     solana.PublicKey `json:"token_b"`
	TokenAMint solana.PublicKey `json:"token_a_mint"`
	TokenBMint solana.PublicKey `json:"token_b_mint"`
	Mint       solana.PublicKey `json:"mint"`
	Creator    solana.PublicKey `json:"creator"`
	FeeAccount solana.PublicKey `json:"fee_account"`
	Fees       FeeSchedule      `json:"fees"`
}

// Side identifies one of the two reserves of a pool.
type Side uint8

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	if s == SideA {
		return "a"
	}
	return "b"
}

// Other returns the opposite reserve.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// SideOf reports which reserve holds mint.
func (p PoolState) SideOf(mint solana.PublicKey) (Side, bool) {
	switch {
	case mint.Equals(p.TokenAMint):
		return SideA, true
	case mint.Equals(p.TokenBMint):
		return SideB, true
	default:
		return 0, false
	}
}

// Reserve returns the reserve account and its mint for side.
func (p PoolState) Reserve(side Side) (account solana.PublicKey, mint solana.PublicKey) {
	if side == SideA {
		return p.TokenA, p.TokenAMint
	}
	return p.TokenB, p.TokenBMint
}

func (p PoolState) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(PoolAccountDiscriminator, false); err != nil {
		return err
	}
	if err := enc.WriteUint8(p.Bump); err != nil {
		return err
	}
	for _, key := range []solana.PublicKey{
		p.TokenA, p.TokenB, p.TokenAMint, p.TokenBMint, p.Mint, p.Creator, p.FeeAccount,
	} {
		if err := enc.WriteBytes(key[:], false); err != nil {
			return err
		}
	}
	for _, v := range []uint64{
		p.Fees.TradeFeeNumerator,
		p.Fees.TradeFeeDenominator,
		p.Fees.OwnerTradeFeeNumerator,
		p.Fees.OwnerTradeFeeDenominator,
		p.Fees.OwnerWithdrawFeeNumerator,
		p.Fees.OwnerWithdrawFeeDenominator,
	} {
		if err := enc.WriteUint64(v, bin.LE); err != nil {
			return err
		}
	}
	return nil
}

func (p *PoolState) UnmarshalWithDecoder(dec *bin.Decoder) error {
	disc, err := dec.ReadNBytes(8)
	if err != nil {
		return fmt.Errorf("read discriminator: %w", err)
	}
	if !bytes.Equal(disc, PoolAccountDiscriminator) {
		return fmt.Errorf("unexpected pool discriminator %x", disc)
	}
	if p.Bump, err = dec.ReadUint8(); err != nil {
		return err
	}
	for _, key := range []*solana.PublicKey{
		&p.TokenA, &p.TokenB, &p.TokenAMint, &p.TokenBMint, &p.Mint, &p.Creator, &p.FeeAccount,
	} {
		raw, err := dec.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return err
		}
		copy(key[:], raw)
	}
	for _, v := range []*uint64{
		&p.Fees.TradeFeeNumerator,
		&p.Fees.TradeFeeDenominator,
		&p.Fees.OwnerTradeFeeNumerator,
		&p.Fees.OwnerTradeFeeDenominator,
		&p.Fees.OwnerWithdrawFeeNumerator,
		&p.Fees.OwnerWithdrawFeeDenominator,
	} {
		if *v, err = dec.ReadUint64(bin.LE); err != nil {
			return err
		}
	}
	return nil
}

// EncodePool returns the account bytes of p.
func EncodePool(p PoolState) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := p.MarshalWithEncoder(bin.NewBorshEncoder(buf)); err != nil {
		return nil, fmt.Errorf("encode pool: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePool parses account bytes produced by EncodePool.
func DecodePool(data []byte) (PoolState, error) {
	if len(data) != PoolAccountSize {
		return PoolState{}, fmt.Errorf("decode pool: size %d, want %d", len(data), PoolAccountSize)
	}
	var p PoolState
	if err := p.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return PoolState{}, fmt.Errorf("decode pool: %w", err)
	}
	return p, nil
}
