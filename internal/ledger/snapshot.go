package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/samber/lo"
)

// Snapshot is the serialized content of a Memory ledger.
type Snapshot struct {
	Mints     []Mint    `json:"mints"`
	Accounts  []Account `json:"accounts"`
	UpdatedAt string    `json:"updated_at,omitempty"`
}

// Snapshot returns every mint and account ordered by address.
func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mints := lo.Values(m.root.mints)
	sort.Slice(mints, func(i, j int) bool { return mints[i].Address.String() < mints[j].Address.String() })
	accounts := lo.Values(m.root.accounts)
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Address.String() < accounts[j].Address.String() })

	return Snapshot{Mints: mints, Accounts: accounts}
}

// Restore builds a Memory ledger holding the content of s.
func Restore(s Snapshot) *Memory {
	m := NewMemory()
	for _, mint := range s.Mints {
		m.root.mints[mint.Address] = mint
	}
	for _, account := range s.Accounts {
		m.root.accounts[account.Address] = account
	}
	return m
}

// SnapshotFile persists a Memory ledger as a JSON file.
type SnapshotFile struct {
	Path string
}

// Load returns the stored ledger, or an empty ledger and false when the file does not exist.
func (f *SnapshotFile) Load(ctx context.Context) (*Memory, bool, error) {
	if f == nil || f.Path == "" {
		return NewMemory(), false, nil
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewMemory(), false, nil
		}
		return nil, false, fmt.Errorf("read ledger snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("parse ledger snapshot: %w", err)
	}
	return Restore(snap), true, nil
}

// Save writes the ledger atomically through a temporary file.
func (f *SnapshotFile) Save(ctx context.Context, m *Memory) error {
	if f == nil || f.Path == "" {
		return nil
	}
	dir := filepath.Dir(f.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
	}

	snap := m.Snapshot()
	snap.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger snapshot: %w", err)
	}

	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger snapshot tmp: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("rename ledger snapshot: %w", err)
	}
	return nil
}
