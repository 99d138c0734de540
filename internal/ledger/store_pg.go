package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// PGStore keeps the ledger in the ledger_accounts table.
type PGStore struct {
	DB *sql.DB
}

func (s *PGStore) LoadAll(ctx context.Context) (map[string]Account, error) {
	const query = `
SELECT email, display_name, credits
FROM ledger_accounts`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	defer rows.Close()

	accounts := map[string]Account{}
	for rows.Next() {
		var acct Account
		if err := rows.Scan(&acct.Email, &acct.DisplayName, &acct.Credits); err != nil {
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		accounts[acct.Email] = acct
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return accounts, nil
}

// SaveAll replaces every row inside one transaction.
func (s *PGStore) SaveAll(ctx context.Context, accounts map[string]Account) (err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM ledger_accounts`); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}

	const insert = `
INSERT INTO ledger_accounts (email, display_name, credits, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())`
	emails := make([]string, 0, len(accounts))
	for email := range accounts {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	for _, email := range emails {
		acct := accounts[email]
		if _, err = tx.ExecContext(ctx, insert, email, acct.DisplayName, acct.Credits); err != nil {
			return fmt.Errorf("insert ledger account: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger save: %w", err)
	}
	return nil
}
