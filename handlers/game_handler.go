package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/services"
)

const (
	// maxPhotoBytes caps the whole multipart body of a photo upload.
	maxPhotoBytes   = 10 << 20
	maxPhotoMemory  = 8 << 20
	photoFormField  = "photo"
	sniffPhotoBytes = 512
)

type GameHandler struct {
	gameService   services.GameService
	maxPhotoBytes int64
}

func NewGameHandler(gs services.GameService) *GameHandler {
	return &GameHandler{
		gameService:   gs,
		maxPhotoBytes: maxPhotoBytes,
	}
}

type tagPhotoRequest struct {
	TaggedPlayerIDs json.RawMessage `json:"tagged_player_ids"`
}

func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.CreateGame(r.Context(), actor, clubID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeGame(w, r, http.StatusCreated, game)
}

func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	clubID, err := getIDFromURL(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.gameService.ListGames(r.Context(), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, games, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	ids, ok := getIDsFromURL(w, r, "clubID", "gameID")
	if !ok {
		return
	}

	game, err := h.gameService.GetGame(r.Context(), ids[0], ids[1])
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, game)
}

func (h *GameHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	ids, ok := getIDsFromURL(w, r, "clubID", "gameID")
	if !ok {
		return
	}

	var input services.UpdateScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.UpdateScore(r.Context(), actor, ids[0], ids[1], input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, game)
}

func (h *GameHandler) RatePlayer(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	ids, ok := getIDsFromURL(w, r, "clubID", "gameID", "playerID")
	if !ok {
		return
	}

	var input services.RatePlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.RatePlayer(r.Context(), actor, ids[0], ids[1], ids[2], input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, game)
}

func (h *GameHandler) SetMVP(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	ids, ok := getIDsFromURL(w, r, "clubID", "gameID", "playerID")
	if !ok {
		return
	}

	game, err := h.gameService.SetMVP(r.Context(), actor, ids[0], ids[1], ids[2])
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, game)
}

func (h *GameHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	ids, ok := getIDsFromURL(w, r, "clubID", "gameID")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoMemory); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			errorResponse(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("photo upload must not be larger than %d bytes", maxBytesError.Limit))
			return
		}
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(photoFormField)
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("%w: form field %q", services.ErrPhotoRequired, photoFormField))
		return
	}
	defer file.Close()

	reader := bufio.NewReaderSize(file, sniffPhotoBytes)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		head, _ := reader.Peek(sniffPhotoBytes)
		contentType = http.DetectContentType(head)
	}

	game, err := h.gameService.AddPhoto(r.Context(), actor, ids[0], ids[1], reader, contentType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, game)
}

func (h *GameHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	ids, ok := getIDsFromURL(w, r, "clubID", "gameID", "photoID")
	if !ok {
		return
	}

	game, err := h.gameService.DeletePhoto(r.Context(), actor, ids[0], ids[1], ids[2])
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, game)
}

func (h *GameHandler) TagPhoto(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	ids, ok := getIDsFromURL(w, r, "clubID", "gameID", "photoID")
	if !ok {
		return
	}

	var input tagPhotoRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.TagPhoto(r.Context(), actor, ids[0], ids[1], ids[2], parseTagList(input.TaggedPlayerIDs))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, game)
}

// parseTagList keeps the integral numbers of a JSON array. Anything else yields an empty list.
func parseTagList(raw json.RawMessage) []int {
	var values []interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &values) != nil {
		return []int{}
	}
	ids := make([]int, 0, len(values))
	for _, v := range values {
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) || f > math.MaxInt32 {
			continue
		}
		ids = append(ids, int(f))
	}
	return ids
}

func (h *GameHandler) writeGame(w http.ResponseWriter, r *http.Request, status int, game *models.Game) {
	if err := writeJSON(w, status, game, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
