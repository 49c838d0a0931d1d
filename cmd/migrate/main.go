// Command migrate applies the embedded database migrations and verifies the
// database is reachable with the configured pool settings. Intended to run
// before the application in deploy pipelines, and safe to run repeatedly.
package main

import (
	"context"
	"os"
	"time"

	"github.com/KevalMGajjar/ExpenseTrackerBackend/config"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/db"
	"github.com/KevalMGajjar/ExpenseTrackerBackend/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	logger.InitLogger()
	defer logger.Close()
	log := logger.GetLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Errorw("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Errorw("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	poolConfig, err := config.ConfigurePostgresPool(&cfg.Database)
	if err != nil {
		log.Errorw("Failed to configure connection pool", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Errorw("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Errorw("Database ping failed", "error", err)
		os.Exit(1)
	}

	log.Info("Migrations applied and database reachable")
}
