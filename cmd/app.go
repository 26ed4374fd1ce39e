package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fadhelhaji/90Plus-backend/config"
	"github.com/fadhelhaji/90Plus-backend/db"
	"github.com/fadhelhaji/90Plus-backend/live"
	"github.com/fadhelhaji/90Plus-backend/metrics"
	"github.com/fadhelhaji/90Plus-backend/repositories"
	"github.com/fadhelhaji/90Plus-backend/repositories/memory"
	"github.com/fadhelhaji/90Plus-backend/services"
	"github.com/fadhelhaji/90Plus-backend/storage"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

const dbConnectTimeout = 5 * time.Second

type repositorySet struct {
	users repositories.UserRepository
	clubs repositories.ClubRepository
	teams repositories.TeamRepository
	games repositories.GameRepository

	conn *sql.DB
}

func (r *repositorySet) Close(logger *slog.Logger) {
	if r.conn == nil {
		return
	}
	if err := r.conn.Close(); err != nil {
		logger.Error("failed to close database connection", slog.Any("error", err))
		return
	}
	logger.Info("database connection closed")
}

type application struct {
	cfg     *config.Config
	logger  *slog.Logger
	clock   clockwork.Clock
	metrics *metrics.Metrics
	hub     *live.Hub

	repos    *repositorySet
	uploader storage.FileUploader
	// uploadDir is set when photos live on local disk and must be served by the API.
	uploadDir string

	authService       services.AuthService
	clubService       services.ClubService
	membershipService services.MembershipService
	teamService       services.TeamService
	gameService       services.GameService
	playerService     services.PlayerService
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func openRepositories(cfg *config.Config, logger *slog.Logger, clock clockwork.Clock) (*repositorySet, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStoreWithClock(clock)
		return &repositorySet{
			users: memory.NewUserRepository(store),
			clubs: memory.NewClubRepository(store),
			teams: memory.NewTeamRepository(store),
			games: memory.NewGameRepository(store),
		}, nil
	}

	conn, err := db.Connect(cfg.DatabaseURL, dbConnectTimeout)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")
	if err := db.MigrateUp(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	logger.Info("database migrations applied")

	return &repositorySet{
		users: repositories.NewPostgresUserRepository(conn),
		clubs: repositories.NewPostgresClubRepository(conn),
		teams: repositories.NewPostgresTeamRepository(conn),
		games: repositories.NewPostgresGameRepository(conn),
		conn:  conn,
	}, nil
}

func newUploader(ctx context.Context, cfg *config.Config) (storage.FileUploader, string, error) {
	if cfg.R2Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		return uploader, "", nil
	}

	local, err := storage.NewLocalUploader(cfg.UploadDir, cfg.PublicURL+"/uploads")
	if err != nil {
		return nil, "", err
	}
	return local, local.Root(), nil
}

func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		cfg:     cfg,
		logger:  logger,
		clock:   clockwork.NewRealClock(),
		metrics: metrics.New(),
		hub:     live.NewHub(logger),
	}

	repos, err := openRepositories(cfg, logger, app.clock)
	if err != nil {
		return nil, err
	}
	app.repos = repos

	uploader, uploadDir, err := newUploader(ctx, cfg)
	if err != nil {
		repos.Close(logger)
		return nil, err
	}
	app.uploader = &meteredUploader{FileUploader: uploader, metrics: app.metrics}
	app.uploadDir = uploadDir
	if uploadDir != "" {
		logger.Info("storing photos on local disk", slog.String("dir", uploadDir))
	} else {
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	}

	publisher := &meteredPublisher{next: app.hub, metrics: app.metrics}

	app.authService = services.NewAuthService(repos.users, bcrypt.DefaultCost)
	app.clubService = services.NewClubService(repos.clubs, repos.teams, repos.users)
	app.membershipService = services.NewMembershipService(repos.clubs, repos.users, logger)
	app.teamService = services.NewTeamService(repos.clubs, repos.teams)
	app.gameService = services.NewGameService(repos.clubs, repos.teams, repos.games, app.uploader, publisher, app.clock, logger)
	app.playerService = services.NewPlayerService(repos.users, repos.clubs)
	logger.Info("services initialized")

	return app, nil
}

func (a *application) Close() {
	a.repos.Close(a.logger)
}

// runReconcile fixes users whose club_id disagrees with their approved memberships.
func (a *application) runReconcile(ctx context.Context) (*services.ReconcileResult, error) {
	result, err := a.membershipService.Reconcile(ctx)
	var updated int64
	if result != nil {
		updated = result.UsersUpdated
	}
	a.metrics.ObserveReconcile(updated, err)
	return result, err
}
