package ledger

import (
	"fmt"

	gmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"

	"poolExchange/internal/model"
)

// state is a layer of mints and accounts. A child layer buffers writes until commit.
type state struct {
	parent   *state
	mints    map[solana.PublicKey]Mint
	accounts map[solana.PublicKey]Account
}

func newState(parent *state) *state {
	return &state{
		parent:   parent,
		mints:    make(map[solana.PublicKey]Mint),
		accounts: make(map[solana.PublicKey]Account),
	}
}

func (s *state) mint(addr solana.PublicKey) (Mint, error) {
	for layer := s; layer != nil; layer = layer.parent {
		if m, ok := layer.mints[addr]; ok {
			return m, nil
		}
	}
	return Mint{}, fmt.Errorf("%w: mint %s", ErrNotFound, addr)
}

func (s *state) account(addr solana.PublicKey) (Account, error) {
	for layer := s; layer != nil; layer = layer.parent {
		if a, ok := layer.accounts[addr]; ok {
			return a, nil
		}
	}
	return Account{}, fmt.Errorf("%w: account %s", ErrNotFound, addr)
}

func (s *state) commit() {
	if s.parent == nil {
		return
	}
	for addr, m := range s.mints {
		s.parent.mints[addr] = m
	}
	for addr, a := range s.accounts {
		s.parent.accounts[addr] = a
	}
}

func authorize(signer Signer, owner solana.PublicKey) error {
	if signer == nil {
		return model.ErrUnauthorizedSigner.Wrap("missing signer")
	}
	if v, ok := signer.(interface{ Verify() error }); ok {
		if err := v.Verify(); err != nil {
			return model.ErrUnauthorizedSigner.Wrap(err.Error())
		}
	}
	if !signer.Key().Equals(owner) {
		return model.ErrUnauthorizedSigner.Wrapf("%s cannot sign for %s", signer.Key(), owner)
	}
	return nil
}

func (s *state) initializeMint(addr, authority solana.PublicKey, decimals uint8) error {
	if _, err := s.mint(addr); err == nil {
		return fmt.Errorf("%w: mint %s", ErrExists, addr)
	}
	s.mints[addr] = Mint{Address: addr, Authority: authority, Decimals: decimals}
	return nil
}

func (s *state) initializeAccount(addr, mint, owner solana.PublicKey) error {
	if _, err := s.account(addr); err == nil {
		return fmt.Errorf("%w: account %s", ErrExists, addr)
	}
	s.accounts[addr] = Account{Address: addr, Mint: mint, Owner: owner}
	return nil
}

func (s *state) mintTo(signer Signer, mintAddr, to solana.PublicKey, amount uint64) error {
	m, err := s.mint(mintAddr)
	if err != nil {
		return err
	}
	dst, err := s.account(to)
	if err != nil {
		return err
	}
	if !dst.Mint.Equals(mintAddr) {
		return model.ErrAccountMismatch.Wrapf("account %s holds mint %s, not %s", to, dst.Mint, mintAddr)
	}
	if err := authorize(signer, m.Authority); err != nil {
		return err
	}

	supply, overflow := gmath.SafeAdd(m.Supply, amount)
	if overflow {
		return model.ErrArithmeticOverflow.Wrapf("supply of %s", mintAddr)
	}
	balance, overflow := gmath.SafeAdd(dst.Amount, amount)
	if overflow {
		return model.ErrArithmeticOverflow.Wrapf("balance of %s", to)
	}
	m.Supply = supply
	dst.Amount = balance
	s.mints[mintAddr] = m
	s.accounts[to] = dst
	return nil
}

func (s *state) transfer(signer Signer, from, to solana.PublicKey, amount uint64) error {
	src, err := s.account(from)
	if err != nil {
		return err
	}
	dst, err := s.account(to)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(dst.Mint) {
		return model.ErrAccountMismatch.Wrapf("transfer from mint %s to mint %s", src.Mint, dst.Mint)
	}
	if err := authorize(signer, src.Owner); err != nil {
		return err
	}
	if src.Amount < amount {
		return model.ErrInsufficientBalance.Wrapf("account %s holds %d, needs %d", from, src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}

	balance, overflow := gmath.SafeAdd(dst.Amount, amount)
	if overflow {
		return model.ErrArithmeticOverflow.Wrapf("balance of %s", to)
	}
	src.Amount -= amount
	dst.Amount = balance
	s.accounts[from] = src
	s.accounts[to] = dst
	return nil
}

func (s *state) burn(signer Signer, mintAddr, from solana.PublicKey, amount uint64) error {
	m, err := s.mint(mintAddr)
	if err != nil {
		return err
	}
	src, err := s.account(from)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(mintAddr) {
		return model.ErrAccountMismatch.Wrapf("account %s holds mint %s, not %s", from, src.Mint, mintAddr)
	}
	if err := authorize(signer, src.Owner); err != nil {
		return err
	}
	if src.Amount < amount {
		return model.ErrInsufficientBalance.Wrapf("account %s holds %d, needs %d", from, src.Amount, amount)
	}
	supply, underflow := gmath.SafeSub(m.Supply, amount)
	if underflow {
		return model.ErrArithmeticOverflow.Wrapf("supply of %s", mintAddr)
	}
	src.Amount -= amount
	m.Supply = supply
	s.accounts[from] = src
	s.mints[mintAddr] = m
	return nil
}
