package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/telemetry"
)

// ErrLedgerMissing means the database answered but ledger_accounts is not
// there, usually because migrations have not run.
var ErrLedgerMissing = errors.New("ledger table missing")

const defaultPingTimeout = 5 * time.Second

// Purpose sizes the connection pool for the process opening it.
type Purpose int

const (
	// ForServer is the API process. Ledger writes are serialized by the
	// ledger service, so a small pool is enough.
	ForServer Purpose = iota
	// ForMigrate is a one-shot goose run.
	ForMigrate
)

// Options controls how Open prepares the ledger database.
type Options struct {
	Purpose Purpose
	// Migrate applies the embedded goose migrations after connecting.
	Migrate bool
	// CheckLedger fails Open with ErrLedgerMissing unless ledger_accounts
	// can be queried.
	CheckLedger bool
	PingTimeout time.Duration
}

var (
	openDB        = sql.Open
	runMigrations = RunMigrations
)

// Open connects to Postgres through pgx, verifies connectivity and readies
// the ledger schema as opts asks. The handle is closed on any failure.
func Open(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sizePool(db, opts.Purpose)

	if err := prepare(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func prepare(ctx context.Context, db *sql.DB, opts Options) error {
	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if opts.Migrate {
		if err := runMigrations(ctx, db); err != nil {
			return fmt.Errorf("migrate ledger: %w", err)
		}
	}
	if !opts.CheckLedger {
		return nil
	}
	accounts, err := LedgerAccounts(ctx, db)
	if err != nil {
		return err
	}
	stats := db.Stats()
	telemetry.Info("db.ledger_ready", map[string]any{
		"accounts": accounts,
		"max_open": stats.MaxOpenConnections,
		"migrated": opts.Migrate,
	})
	return nil
}

// LedgerAccounts counts the rows in ledger_accounts.
func LedgerAccounts(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLedgerMissing, err)
	}
	return n, nil
}

func sizePool(db *sql.DB, p Purpose) {
	switch p {
	case ForMigrate:
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	default:
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
		db.SetConnMaxIdleTime(2 * time.Minute)
	}
	db.SetConnMaxLifetime(time.Hour)
}
