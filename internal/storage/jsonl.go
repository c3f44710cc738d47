package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gagliardetto/solana-go"

	"poolExchange/internal/model"
)

// JsonlStore appends pool records to a JSONL file and serves reads from an index built when
// the file is opened.
type JsonlStore struct {
	path  string
	mu    sync.Mutex
	index *MemoryStore
}

// OpenJsonlStore loads every record already in path.
func OpenJsonlStore(path string) (*JsonlStore, error) {
	s := &JsonlStore{path: path, index: NewMemoryStore()}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("open pool store: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	ctx := context.Background()
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("parse pool store line %d: %w", line, err)
		}
		if err := s.index.Create(ctx, entry.Address, entry.Pool); err != nil {
			return nil, fmt.Errorf("pool store line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan pool store: %w", err)
	}
	return s, nil
}

// Create appends the pool and syncs the file before indexing it.
func (s *JsonlStore) Create(ctx context.Context, addr solana.PublicKey, pool model.PoolState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.index.Get(ctx, addr); err == nil {
		return fmt.Errorf("%w: %s", ErrPoolExists, addr)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create pool store dir: %w", err)
		}
	}

	line, err := json.Marshal(Entry{Address: addr, Pool: pool})
	if err != nil {
		return fmt.Errorf("marshal pool: %w", err)
	}
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open pool store: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write pool: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync pool store: %w", err)
	}
	return s.index.Create(ctx, addr, pool)
}

func (s *JsonlStore) Get(ctx context.Context, addr solana.PublicKey) (model.PoolState, error) {
	return s.index.Get(ctx, addr)
}

func (s *JsonlStore) List(ctx context.Context) ([]Entry, error) {
	return s.index.List(ctx)
}

func (s *JsonlStore) Close() error {
	return nil
}
