package ledger

import (
	"context"
	"sync"
)

// MemoryStore keeps the ledger in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]Account
	saves    int
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: map[string]Account{}}
}

func (m *MemoryStore) LoadAll(ctx context.Context) (map[string]Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyAccounts(m.accounts), nil
}

func (m *MemoryStore) SaveAll(ctx context.Context, accounts map[string]Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = copyAccounts(accounts)
	m.saves++
	return nil
}

// Saves reports how many times SaveAll ran.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func copyAccounts(in map[string]Account) map[string]Account {
	out := make(map[string]Account, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
