package instruction

import (
	"github.com/gagliardetto/solana-go"
)

// InitializeAccounts are the accounts of an initialize instruction, in wire order.
type InitializeAccounts struct {
	Pool       solana.PublicKey
	Authority  solana.PublicKey
	TokenA     solana.PublicKey
	TokenB     solana.PublicKey
	PoolMint   solana.PublicKey
	Receiver   solana.PublicKey
	FeeAccount solana.PublicKey
	Creator    solana.PublicKey
}

func (a InitializeAccounts) metas() solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		{PublicKey: a.Pool, IsSigner: false, IsWritable: true},
		{PublicKey: a.Authority, IsSigner: false, IsWritable: false},
		{PublicKey: a.TokenA, IsSigner: false, IsWritable: false},
		{PublicKey: a.TokenB, IsSigner: false, IsWritable: false},
		{PublicKey: a.PoolMint, IsSigner: false, IsWritable: true},
		{PublicKey: a.Receiver, IsSigner: false, IsWritable: true},
		{PublicKey: a.FeeAccount, IsSigner: false, IsWritable: false},
		{PublicKey: a.Creator, IsSigner: true, IsWritable: true},
	}
}

func (a *InitializeAccounts) bind(keys []solana.PublicKey) {
	a.Pool, a.Authority, a.TokenA, a.TokenB = keys[0], keys[1], keys[2], keys[3]
	a.PoolMint, a.Receiver, a.FeeAccount, a.Creator = keys[4], keys[5], keys[6], keys[7]
}

// DepositAllAccounts are the accounts of a proportional deposit, in wire order.
type DepositAllAccounts struct {
	Authority  solana.PublicKey
	Pool       solana.PublicKey
	PoolA      solana.PublicKey
	PoolB      solana.PublicKey
	UserA      solana.PublicKey
	UserB      solana.PublicKey
	Recipient  solana.PublicKey
	PoolMint   solana.PublicKey
	MintA      solana.PublicKey
	MintB      solana.PublicKey
	FeeAccount solana.PublicKey
	User       solana.PublicKey
}

func (a DepositAllAccounts) metas() solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		{PublicKey: a.Authority, IsSigner: false, IsWritable: false},
		{PublicKey: a.Pool, IsSigner: false, IsWritable: false},
		{PublicKey: a.PoolA, IsSigner: false, IsWritable: true},
		{PublicKey: a.PoolB, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserA, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserB, IsSigner: false, IsWritable: true},
		{PublicKey: a.Recipient, IsSigner: false, IsWritable: true},
		{PublicKey: a.PoolMint, IsSigner: false, IsWritable: true},
		{PublicKey: a.MintA, IsSigner: false, IsWritable: false},
		{PublicKey: a.MintB, IsSigner: false, IsWritable: false},
		{PublicKey: a.FeeAccount, IsSigner: false, IsWritable: false},
		{PublicKey: a.User, IsSigner: true, IsWritable: false},
	}
}

func (a *DepositAllAccounts) bind(keys []solana.PublicKey) {
	a.Authority, a.Pool, a.PoolA, a.PoolB = keys[0], keys[1], keys[2], keys[3]
	a.UserA, a.UserB, a.Recipient, a.PoolMint = keys[4], keys[5], keys[6], keys[7]
	a.MintA, a.MintB, a.FeeAccount, a.User = keys[8], keys[9], keys[10], keys[11]
}

// DepositSingleAccounts are the accounts of a single-sided deposit, in wire order.
// SourceMint selects the reserve being deposited into.
type DepositSingleAccounts struct {
	Authority  solana.PublicKey
	Pool       solana.PublicKey
	PoolA      solana.PublicKey
	PoolB      solana.PublicKey
	UserSource solana.PublicKey
	SourceMint solana.PublicKey
	Recipient  solana.PublicKey
	PoolMint   solana.PublicKey
	FeeAccount solana.PublicKey
	User       solana.PublicKey
}

func (a DepositSingleAccounts) metas() solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		{PublicKey: a.Authority, IsSigner: false, IsWritable: false},
		{PublicKey: a.Pool, IsSigner: false, IsWritable: false},
		{PublicKey: a.PoolA, IsSigner: false, IsWritable: true},
		{PublicKey: a.PoolB, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserSource, IsSigner: false, IsWritable: true},
		{PublicKey: a.SourceMint, IsSigner: false, IsWritable: false},
		{PublicKey: a.Recipient, IsSigner: false, IsWritable: true},
		{PublicKey: a.PoolMint, IsSigner: false, IsWritable: true},
		{PublicKey: a.FeeAccount, IsSigner: false, IsWritable: false},
		{PublicKey: a.User, IsSigner: true, IsWritable: false},
	}
}

func (a *DepositSingleAccounts) bind(keys []solana.PublicKey) {
	a.Authority, a.Pool, a.PoolA, a.PoolB = keys[0], keys[1], keys[2], keys[3]
	a.UserSource, a.SourceMint, a.Recipient = keys[4], keys[5], keys[6]
	a.PoolMint, a.FeeAccount, a.User = keys[7], keys[8], keys[9]
}

// WithdrawSingleAccounts are the accounts of a single-sided withdrawal, in wire order.
// SourceMint selects the reserve being withdrawn from.
type WithdrawSingleAccounts struct {
	Authority       solana.PublicKey
	Pool            solana.PublicKey
	PoolA           solana.PublicKey
	PoolB           solana.PublicKey
	UserDestination solana.PublicKey
	SourceMint      solana.PublicKey
	UserPoolToken   solana.PublicKey
	PoolMint        solana.PublicKey
	FeeAccount      solana.PublicKey
	User            solana.PublicKey
}

func (a WithdrawSingleAccounts) metas() solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		{PublicKey: a.Authority, IsSigner: false, IsWritable: false},
		{PublicKey: a.Pool, IsSigner: false, IsWritable: false},
		{PublicKey: a.PoolA, IsSigner: false, IsWritable: true},
		{PublicKey: a.PoolB, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserDestination, IsSigner: false, IsWritable: true},
		{PublicKey: a.SourceMint, IsSigner: false, IsWritable: false},
		{PublicKey: a.UserPoolToken, IsSigner: false, IsWritable: true},
		{PublicKey: a.PoolMint, IsSigner: false, IsWritable: true},
		{PublicKey: a.FeeAccount, IsSigner: false, IsWritable: true},
		{PublicKey: a.User, IsSigner: true, IsWritable: false},
	}
}

func (a *WithdrawSingleAccounts) bind(keys []solana.PublicKey) {
	a.Authority, a.Pool, a.PoolA, a.PoolB = keys[0], keys[1], keys[2], keys[3]
	a.UserDestination, a.SourceMint, a.UserPoolToken = keys[4], keys[5], keys[6]
	a.PoolMint, a.FeeAccount, a.User = keys[7], keys[8], keys[9]
}

// SwapAccounts are the accounts of a swap, in wire order.
type SwapAccounts struct {
	Authority       solana.PublicKey
	Pool            solana.PublicKey
	PoolA           solana.PublicKey
	PoolB           solana.PublicKey
	UserSource      solana.PublicKey
	UserDestination solana.PublicKey
	PoolMint        solana.PublicKey
	FeeAccount      solana.PublicKey
	User            solana.PublicKey
}

func (a SwapAccounts) metas() solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		{PublicKey: a.Authority, IsSigner: false, IsWritable: false},
		{PublicKey: a.Pool, IsSigner: false, IsWritable: false},
		{PublicKey: a.PoolA, IsSigner: false, IsWritable: true},
		{PublicKey: a.PoolB, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserSource, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserDestination, IsSigner: false, IsWritable: true},
		{PublicKey: a.PoolMint, IsSigner: false, IsWritable: true},
		{PublicKey: a.FeeAccount, IsSigner: false, IsWritable: true},
		{PublicKey: a.User, IsSigner: true, IsWritable: false},
	}
}

func (a *SwapAccounts) bind(keys []solana.PublicKey) {
	a.Authority, a.Pool, a.PoolA, a.PoolB = keys[0], keys[1], keys[2], keys[3]
	a.UserSource, a.UserDestination, a.PoolMint = keys[4], keys[5], keys[6]
	a.FeeAccount, a.User = keys[7], keys[8]
}
