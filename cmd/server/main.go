// Package main implements the entry point for the task list API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/tasklist-api/internal/config"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/redact"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a goose migration command (up, down, status, version, reset) and exit")
	flag.Parse()

	cfg, log, err := initializeApp()
	if err != nil {
		logFatal("Failed to initialize application", err)
	}

	ctx := context.Background()

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		logFatal("Failed to connect to database", err)
	}

	if *migrateCmd != "" {
		err := runMigrations(ctx, db, *migrateCmd, log)
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Error closing database connection", "error", closeErr)
		}
		if err != nil {
			logFatal("Migration failed", err)
		}
		return
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(ctx, db, "up", log); err != nil {
			_ = db.Close()
			logFatal("Migration failed", err)
		}
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		logFatal("Failed to initialize application", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("Server stopped with error", "error", redact.Error(err))
		os.Exit(1)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)
	l.Debug("Optional integrations",
		"amqp_enabled", cfg.Notification.AMQPURL != "",
		"rate_limit_enabled", cfg.RateLimit.RedisURL != "")

	return cfg, l, nil
}

// logFatal logs through slog when it is set up and exits.
// logFatal logs err with connection credentials stripped, then exits.
func logFatal(msg string, err error) {
	safe := redact.Error(err)
	slog.Error(msg, "error", safe)
	log.Fatalf("%s: %s", msg, safe)
}
