package main

import (
	"log/slog"

	"github.com/fadhelhaji/90Plus-backend/config"
	"github.com/spf13/cobra"
)

var syncClubIDsCmd = &cobra.Command{
	Use:     "sync-club-ids",
	Aliases: []string{"reconcile"},
	Short:   "Repair users whose club_id disagrees with their approved membership",
	RunE:    runSyncClubIDs,
}

func init() {
	rootCmd.AddCommand(syncClubIDsCmd)
}

func runSyncClubIDs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := newApplication(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.runReconcile(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("reconcile finished",
		slog.Int("clubs_scanned", result.ClubsScanned),
		slog.Int64("users_updated", result.UsersUpdated),
	)
	return nil
}
