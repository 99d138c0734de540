package ledger

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when no account exists for an email.
var ErrNotFound = errors.New("account not found")

// DefaultStarterCredits is granted to every new account.
const DefaultStarterCredits = 3

// Account is one signed-in user's credit balance.
type Account struct {
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	Credits     int    `json:"tokens"`
}

// Store persists the whole ledger at once. Implementations replace the stored
// ledger wholesale on SaveAll; there are no partial updates.
type Store interface {
	LoadAll(ctx context.Context) (map[string]Account, error)
	SaveAll(ctx context.Context, accounts map[string]Account) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
