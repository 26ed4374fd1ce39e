package handlers

import (
	"net/http"
	"time"

	"github.com/fadhelhaji/90Plus-backend/middleware"
	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/services"
	"github.com/jonboulle/clockwork"
)

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   []byte
	tokenTTL    time.Duration
	clock       clockwork.Clock
}

func NewAuthHandler(authService services.AuthService, jwtSecret string, tokenTTL time.Duration, clock clockwork.Clock) *AuthHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AuthHandler{
		authService: authService,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		clock:       clock,
	}
}

// SignUp registers a user and returns it with a signed token.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, user)
}

// SignIn checks credentials and returns the user with a signed token.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := middleware.IssueToken(h.jwtSecret, user, h.tokenTTL, h.clock.Now())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{
		"user":  user,
		"token": token,
	}
	if err := writeJSON(w, status, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
