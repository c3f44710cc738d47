package address

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Capability proves that its holder may sign for a pool authority. The ledger checks it by
// re-deriving the authority from the seeds, so a capability cannot name an arbitrary key.
type Capability struct {
	programID solana.PublicKey
	pool      solana.PublicKey
	authority solana.PublicKey
	bump      uint8
}

// NewCapability derives the authority of pool and returns a capability for it.
func NewCapability(programID, pool solana.PublicKey) (Capability, error) {
	authority, bump, err := AuthorityAddress(programID, pool)
	if err != nil {
		return Capability{}, err
	}
	return Capability{programID: programID, pool: pool, authority: authority, bump: bump}, nil
}

// Key returns the authority address.
func (c Capability) Key() solana.PublicKey {
	return c.authority
}

// Pool returns the pool the authority is bound to.
func (c Capability) Pool() solana.PublicKey {
	return c.pool
}

// Verify re-derives the authority from its seeds and bump.
func (c Capability) Verify() error {
	seeds := append(AuthoritySeeds(c.pool), []byte{c.bump})
	addr, err := solana.CreateProgramAddress(seeds, c.programID)
	if err != nil {
		return fmt.Errorf("verify authority: %w", err)
	}
	if !addr.Equals(c.authority) {
		return fmt.Errorf("verify authority: seeds derive %s, not %s", addr, c.authority)
	}
	return nil
}
