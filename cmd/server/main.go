// Package main implements the entry point for the LearnFlow API server,
// which generates study articles and multi-chapter documents with an LLM
// and serves them alongside notes and interview practice.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/learnflow/learnflow-api/internal/config"
	"github.com/learnflow/learnflow-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status) and exit; empty starts the server")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("learnflow-api: %v", err)
	}
}

func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDatabase(db, appLogger)
		return runMigrationCommand(db, migrateCmd, appLogger)
	}

	// Schema is brought up to date on every start; the skipped case is
	// a no-op for goose.
	if err := runMigrationCommand(db, "up", appLogger); err != nil {
		closeDatabase(db, appLogger)
		return err
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		closeDatabase(db, appLogger)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func closeDatabase(db interface{ Close() error }, appLogger *slog.Logger) {
	if err := db.Close(); err != nil {
		appLogger.Error("failed to close database connection", slog.String("error", err.Error()))
	}
}
