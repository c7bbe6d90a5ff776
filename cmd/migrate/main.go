// Command migrate creates or updates the database schema and exits.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	authadapters "account_backend/internal/feature/auth/adapters"
	platformdb "account_backend/internal/platform/db"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := platformdb.LoadConfigFromEnv()
	if err != nil {
		slog.Error("failed to load db config", "error", err)
		os.Exit(1)
	}

	cfg.RunMigrations = true
	if _, err := platformdb.OpenDB(cfg, authadapters.Models()...); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("migration complete")
}
