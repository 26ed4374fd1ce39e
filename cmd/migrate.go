package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fadhelhaji/90Plus-backend/config"
	"github.com/fadhelhaji/90Plus-backend/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE:  runMigrate,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback all migrations",
	RunE:  runMigrateDown,
}

func init() {
	migrateCmd.AddCommand(migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	return withDatabase(func(cfg *config.Config) error {
		return migrateWith(cfg, db.MigrateUp, "migrations applied successfully")
	})
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	return withDatabase(func(cfg *config.Config) error {
		return migrateWith(cfg, db.MigrateDown, "migrations rolled back successfully")
	})
}

func withDatabase(fn func(cfg *config.Config) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.StorageDriver != config.StorageDriverPostgres {
		return fmt.Errorf("migrations need STORAGE_DRIVER=%s, got %q", config.StorageDriverPostgres, cfg.StorageDriver)
	}
	slog.SetDefault(newLogger(cfg.LogLevel))
	return fn(cfg)
}

func migrateWith(cfg *config.Config, run func(*sql.DB) error, done string) error {
	conn, err := db.Connect(cfg.DatabaseURL, dbConnectTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := run(conn); err != nil {
		return err
	}
	slog.Info(done)
	return nil
}
