package ledger

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/telemetry"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/util"
)

// Service reads and mutates the ledger through a Store. Every mutation loads
// the whole ledger, changes it, and saves it back under a process-wide lock.
type Service struct {
	Store          Store
	StarterCredits int

	mu sync.Mutex
}

// NewService constructs a Service. A negative starterCredits means the default.
func NewService(store Store, starterCredits int) *Service {
	if starterCredits < 0 {
		starterCredits = DefaultStarterCredits
	}
	return &Service{Store: store, StarterCredits: starterCredits}
}

// EnsureAccount returns the account for email, creating it with the starter
// credits on first sign-in. An existing account without a name picks up name.
func (s *Service) EnsureAccount(ctx context.Context, email, name string) (Account, error) {
	if s == nil || s.Store == nil {
		return Account{}, errors.New("ledger service not configured")
	}
	key := normalizeEmail(email)
	if key == "" {
		return Account{}, errors.New("email is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.Store.LoadAll(ctx)
	if err != nil {
		return Account{}, err
	}
	name = strings.TrimSpace(name)
	if acct, ok := accounts[key]; ok {
		if acct.DisplayName != "" || name == "" {
			return acct, nil
		}
		acct.DisplayName = name
		accounts[key] = acct
		if err := s.Store.SaveAll(ctx, accounts); err != nil {
			return Account{}, err
		}
		return acct, nil
	}

	acct := Account{Email: key, DisplayName: name, Credits: s.StarterCredits}
	accounts[key] = acct
	if err := s.Store.SaveAll(ctx, accounts); err != nil {
		return Account{}, err
	}
	telemetry.Info("ledger.account_created", map[string]any{
		"user_key": util.Fingerprint(key),
		"credits":  acct.Credits,
	})
	return acct, nil
}

// Get returns the account for email.
func (s *Service) Get(ctx context.Context, email string) (Account, error) {
	if s == nil || s.Store == nil {
		return Account{}, errors.New("ledger service not configured")
	}
	key := normalizeEmail(email)
	if key == "" {
		return Account{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.Store.LoadAll(ctx)
	if err != nil {
		return Account{}, err
	}
	acct, ok := accounts[key]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acct, nil
}
