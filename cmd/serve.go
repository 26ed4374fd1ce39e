package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/fadhelhaji/90Plus-backend/config"
	"github.com/fadhelhaji/90Plus-backend/handlers"
	"github.com/fadhelhaji/90Plus-backend/routes"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	go app.hub.Run()
	defer app.hub.Stop()
	logger.Info("WebSocket hub started")

	if cfg.ReconcileInterval > 0 {
		go app.reconcileLoop(ctx, cfg.ReconcileInterval)
	}

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        app.metrics,
		UploadDir:      app.uploadDir,
	}, routes.Handlers{
		Auth:      handlers.NewAuthHandler(app.authService, cfg.JWTSecretKey, cfg.JWTTTL, app.clock),
		Club:      handlers.NewClubHandler(app.clubService, app.membershipService),
		Team:      handlers.NewTeamHandler(app.teamService),
		Game:      handlers.NewGameHandler(app.gameService),
		Player:    handlers.NewPlayerHandler(app.playerService),
		WebSocket: handlers.NewWebSocketHandler(app.hub, app.clubService, cfg.AllowedOrigins),
	})
	logger.Info("routes configured")

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		logger.Info("starting in Lambda mode")
		lambda.Start(httpadapter.New(router).ProxyWithContext)
		return nil
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped")
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return err
	}
	logger.Info("server shutdown complete")
	return nil
}

func (a *application) reconcileLoop(ctx context.Context, interval time.Duration) {
	ticker := a.clock.NewTicker(interval)
	defer ticker.Stop()
	a.logger.Info("membership reconcile scheduler started", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			result, err := a.runReconcile(ctx)
			if err != nil {
				a.logger.Error("scheduled reconcile failed", slog.Any("error", err))
				continue
			}
			if result.UsersUpdated > 0 {
				a.logger.Info("scheduled reconcile repaired users", slog.Int64("users_updated", result.UsersUpdated))
			}
		}
	}
}
