package report

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"

	"poolExchange/internal/ledger"
)

// DecimalsCache caches mint decimals by address.
type DecimalsCache struct {
	mu   sync.RWMutex
	data map[solana.PublicKey]uint8
}

func NewDecimalsCache() *DecimalsCache {
	return &DecimalsCache{data: make(map[solana.PublicKey]uint8)}
}

func (c *DecimalsCache) Get(mint solana.PublicKey) (uint8, bool) {
	c.mu.RLock()
	decimals, ok := c.data[mint]
	c.mu.RUnlock()
	return decimals, ok
}

func (c *DecimalsCache) Set(mint solana.PublicKey, decimals uint8) {
	c.mu.Lock()
	c.data[mint] = decimals
	c.mu.Unlock()
}

// Lookup returns the cached decimals of mint, reading them from the ledger on a miss.
func (c *DecimalsCache) Lookup(ctx context.Context, mints ledger.Reader, mint solana.PublicKey) (uint8, error) {
	if decimals, ok := c.Get(mint); ok {
		return decimals, nil
	}
	m, err := mints.GetMint(ctx, mint)
	if err != nil {
		return 0, err
	}
	c.Set(mint, m.Decimals)
	return m.Decimals, nil
}
