package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/storage/object"
)

// documentEntry is the on-disk shape of one account:
// {"someone@example.com": {"tokens": 3, "name": "Someone"}}.
type documentEntry struct {
	Tokens int    `json:"tokens"`
	Name   string `json:"name"`
}

// DocumentStore keeps the ledger as a single JSON object in an object store
// (a local file or an S3 object).
type DocumentStore struct {
	Objects object.Store
	Key     string
}

// NewDocumentStore constructs a DocumentStore.
func NewDocumentStore(objects object.Store, key string) *DocumentStore {
	return &DocumentStore{Objects: objects, Key: key}
}

// LoadAll reads the ledger. A missing or empty document is an empty ledger.
func (s *DocumentStore) LoadAll(ctx context.Context) (map[string]Account, error) {
	data, err := s.Objects.Get(ctx, s.Key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return map[string]Account{}, nil
		}
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]Account{}, nil
	}

	var raw map[string]documentEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	accounts := make(map[string]Account, len(raw))
	for email, entry := range raw {
		key := normalizeEmail(email)
		accounts[key] = Account{Email: key, DisplayName: entry.Name, Credits: entry.Tokens}
	}
	return accounts, nil
}

// SaveAll rewrites the whole document.
func (s *DocumentStore) SaveAll(ctx context.Context, accounts map[string]Account) error {
	raw := make(map[string]documentEntry, len(accounts))
	for email, acct := range accounts {
		raw[email] = documentEntry{Tokens: acct.Credits, Name: acct.DisplayName}
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := s.Objects.Put(ctx, s.Key, "application/json", data); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}
