package routes

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/fadhelhaji/90Plus-backend/docs"
	"github.com/fadhelhaji/90Plus-backend/handlers"
	"github.com/fadhelhaji/90Plus-backend/metrics"
	"github.com/fadhelhaji/90Plus-backend/middleware"
	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Club      *handlers.ClubHandler
	Team      *handlers.TeamHandler
	Game      *handlers.GameHandler
	Player    *handlers.PlayerHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	// UploadDir is served under /uploads/ when photos are stored on local disk.
	UploadDir string
}

func SetupRoutes(router chi.Router, opts Options, h Handlers) {
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	router.Use(slogRequestLogger)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}
	router.Use(cors.Handler(corsOptions(opts.AllowedOrigins)))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics.Handler())
	}
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	if opts.UploadDir != "" {
		router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))))
	}

	router.Route("/auth", func(r chi.Router) {
		r.Post("/sign-up", h.Auth.SignUp)
		r.Post("/sign-in", h.Auth.SignIn)
	})

	router.Get("/players/market", h.Player.Market)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))

		r.Get("/ws/clubs/{clubID}", h.WebSocket.ServeWs)

		r.Get("/players/me", h.Player.Me)
		r.Get("/players/{playerID}", h.Player.GetPlayer)

		r.Route("/club", func(r chi.Router) {
			r.Get("/", h.Club.ListClubs)
			r.With(middleware.Authorize(models.RoleCoach)).Post("/create", h.Club.CreateClub)

			r.Route("/{clubID}", func(r chi.Router) {
				r.Get("/", h.Club.GetClubDetails)
				r.Post("/invite/{playerID}", h.Club.InvitePlayer)
				r.Post("/accept", h.Club.AcceptInvite)
				r.Post("/reject", h.Club.RejectInvite)
				r.Delete("/players/{playerID}", h.Club.RemoveMember)

				r.Route("/teams", func(r chi.Router) {
					r.Post("/create", h.Team.CreateTeam)
					r.Get("/{teamID}", h.Team.GetTeam)
					r.Put("/{teamID}/formation", h.Team.UpdateFormation)
					r.Post("/{teamID}/add-player", h.Team.AddPlayer)
					r.Delete("/{teamID}/players/{playerID}", h.Team.RemovePlayer)
				})

				r.Route("/games", func(r chi.Router) {
					r.Get("/", h.Game.ListGames)
					r.Post("/create", h.Game.CreateGame)
					r.Get("/{gameID}", h.Game.GetGame)
					r.Put("/{gameID}/score", h.Game.UpdateScore)
					r.Put("/{gameID}/rate/{playerID}", h.Game.RatePlayer)
					r.Put("/{gameID}/mvp/{playerID}", h.Game.SetMVP)
					r.Post("/{gameID}/photos", h.Game.AddPhoto)
					r.Delete("/{gameID}/photos/{photoID}", h.Game.DeletePhoto)
					r.Put("/{gameID}/photos/{photoID}/tags", h.Game.TagPhoto)
				})
			})
		})
	})
}

func corsOptions(allowedOrigins []string) cors.Options {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}

func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
