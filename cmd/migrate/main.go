package main

// Prepare a file-backed session database:
//   SESSION_DSN=file:./data/sessions.db go run ./cmd/migrate

import (
	"context"
	"log"
	"os"

	"mealplan-backend/internal/shared/config"
	"mealplan-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if db.IsMemoryDSN(cfg.SessionDSN) {
		log.Printf("SESSION_DSN %q is in-memory; migrations run at startup instead", cfg.SessionDSN)
		return
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.SessionDSN, opts)
	if err != nil {
		log.Printf("failed to connect session database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}
	log.Printf("session database migrated")
}
