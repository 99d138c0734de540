package main

// Run ledger migrations:
//   go run ./cmd/migrate
//   go run ./cmd/migrate -down
//   go run ./cmd/migrate -status

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/config"
	"github.com/amanghuman/Resume-Audit-Pro/internal/shared/storage/db"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	status := flag.Bool("status", false, "print applied and pending migrations")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL, db.Options{Purpose: db.ForMigrate})
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	switch {
	case *status:
		err = db.MigrationStatus(ctx, sqlDB)
	case *down:
		err = db.RollbackMigration(ctx, sqlDB)
	default:
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		log.Printf("migration failed: %v", err)
		os.Exit(1)
	}
}
