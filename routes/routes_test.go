package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fadhelhaji/90Plus-backend/handlers"
	"github.com/fadhelhaji/90Plus-backend/live"
	"github.com/fadhelhaji/90Plus-backend/metrics"
	"github.com/fadhelhaji/90Plus-backend/repositories/memory"
	"github.com/fadhelhaji/90Plus-backend/services"
	"github.com/fadhelhaji/90Plus-backend/storage"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "routes-test-secret"

type testServer struct {
	handler   http.Handler
	uploadDir string
	hub       *live.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := clockwork.NewFakeClockAt(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
	store := memory.NewStoreWithClock(clock)
	users := memory.NewUserRepository(store)
	clubs := memory.NewClubRepository(store)
	teams := memory.NewTeamRepository(store)
	games := memory.NewGameRepository(store)

	uploadDir := t.TempDir()
	uploader, err := storage.NewLocalUploader(uploadDir, "http://example.test/uploads")
	require.NoError(t, err)

	hub := live.NewHub(logger)
	go hub.Run()
	t.Cleanup(hub.Stop)

	clubService := services.NewClubService(clubs, teams, users)
	h := Handlers{
		Auth:      handlers.NewAuthHandler(services.NewAuthService(users, bcrypt.MinCost), testJWTSecret, time.Hour, nil),
		Club:      handlers.NewClubHandler(clubService, services.NewMembershipService(clubs, users, logger)),
		Team:      handlers.NewTeamHandler(services.NewTeamService(clubs, teams)),
		Game:      handlers.NewGameHandler(services.NewGameService(clubs, teams, games, uploader, hub, clock, logger)),
		Player:    handlers.NewPlayerHandler(services.NewPlayerService(users, clubs)),
		WebSocket: handlers.NewWebSocketHandler(hub, clubService, nil),
	}

	router := chi.NewRouter()
	SetupRoutes(router, Options{
		JWTSecret: []byte(testJWTSecret),
		Metrics:   metrics.New(),
		UploadDir: uploadDir,
	}, h)

	return &testServer{handler: router, uploadDir: uploadDir, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

type authResult struct {
	Token string `json:"token"`
	User  struct {
		ID   int    `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func (s *testServer) signUp(t *testing.T, username, role string) authResult {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/sign-up", "", map[string]string{
		"username": username,
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res authResult
	decode(t, rec, &res)
	require.NotEmpty(t, res.Token)
	return res
}

func (s *testServer) createClub(t *testing.T, token, name string) int {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/club/create", token, map[string]string{"club_name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var club struct {
		ID int `json:"id"`
	}
	decode(t, rec, &club)
	return club.ID
}

func TestHealthAndOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/club/{clubID}/games/{gameID}/photos")

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ninetyplus_http_requests_total")
}

func TestRedsScenario(t *testing.T) {
	s := newTestServer(t)

	coach := s.signUp(t, "coach_c", "Coach")
	player := s.signUp(t, "player_p", "Player")
	assert.Equal(t, "Coach", coach.User.Role)

	clubID := s.createClub(t, coach.Token, "Reds")

	rec := s.do(t, http.MethodPost, fmt.Sprintf("/club/%d/invite/%d", clubID, player.User.ID), coach.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/players/me", player.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Invitations []int `json:"invitations"`
	}
	decode(t, rec, &me)
	assert.Equal(t, []int{clubID}, me.Invitations)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/club/%d/accept", clubID), player.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/club/%d/teams/create", clubID), coach.Token, map[string]interface{}{
		"team_name": "A",
		"formation": "1-2-2-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var team struct {
		ID int `json:"id"`
	}
	decode(t, rec, &team)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/club/%d/teams/%d/add-player", clubID, team.ID), coach.Token, map[string]interface{}{
		"player_id": player.User.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var roster struct {
		Players []map[string]interface{} `json:"players"`
	}
	decode(t, rec, &roster)
	require.Len(t, roster.Players, 1)
	assert.EqualValues(t, player.User.ID, roster.Players[0]["player_id"])
	assert.NotContains(t, roster.Players[0], "position")

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/club/%d", clubID), player.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var details struct {
		Club struct {
			Coach struct {
				Username string `json:"username"`
			} `json:"coach"`
		} `json:"club"`
		Teams       []json.RawMessage `json:"teams"`
		ClubPlayers []struct {
			ID int `json:"id"`
		} `json:"clubPlayers"`
	}
	decode(t, rec, &details)
	assert.Equal(t, "coach_c", details.Club.Coach.Username)
	assert.Len(t, details.Teams, 1)
	require.Len(t, details.ClubPlayers, 1)
	assert.Equal(t, player.User.ID, details.ClubPlayers[0].ID)
}

func TestAuthAndErrorMapping(t *testing.T) {
	s := newTestServer(t)

	coach := s.signUp(t, "coach_c", "Coach")
	player := s.signUp(t, "player_p", "Player")
	clubID := s.createClub(t, coach.Token, "Reds")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       interface{}
		wantStatus int
	}{
		{"no token", http.MethodGet, "/players/me", "", nil, http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/club", "not-a-token", nil, http.StatusUnauthorized},
		{"market is public", http.MethodGet, "/players/market", "", nil, http.StatusOK},
		{"player cannot create club", http.MethodPost, "/club/create", player.Token, map[string]string{"club_name": "X"}, http.StatusForbidden},
		{"second club", http.MethodPost, "/club/create", coach.Token, map[string]string{"club_name": "Y"}, http.StatusBadRequest},
		{"unknown club", http.MethodGet, "/club/999", coach.Token, nil, http.StatusNotFound},
		{"bad club id", http.MethodGet, "/club/abc", coach.Token, nil, http.StatusBadRequest},
		{"accept without invite", http.MethodPost, fmt.Sprintf("/club/%d/accept", clubID), player.Token, nil, http.StatusNotFound},
		{"reject without invite", http.MethodPost, fmt.Sprintf("/club/%d/reject", clubID), player.Token, nil, http.StatusOK},
		{"invalid formation", http.MethodPost, fmt.Sprintf("/club/%d/teams/create", clubID), coach.Token, map[string]string{"team_name": "A", "formation": "4-4-2"}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, fmt.Sprintf("/club/%d/teams/create", clubID), coach.Token, map[string]string{"team_name": "A", "colour": "red"}, http.StatusBadRequest},
		{"wrong password", http.MethodPost, "/auth/sign-in", "", map[string]string{"username": "coach_c", "password": "nope-nope"}, http.StatusUnauthorized},
		{"duplicate username", http.MethodPost, "/auth/sign-up", "", map[string]string{"username": "coach_c", "password": "secret123"}, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			if tc.wantStatus >= 400 {
				var body map[string]interface{}
				decode(t, rec, &body)
				assert.Contains(t, body, "error")
			}
		})
	}

	invitePath := fmt.Sprintf("/club/%d/invite/%d", clubID, player.User.ID)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, invitePath, coach.Token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, invitePath, coach.Token, nil).Code)

	rec := s.do(t, http.MethodPost, "/auth/sign-in", "", map[string]string{"username": "player_p", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login authResult
	decode(t, rec, &login)
	assert.Equal(t, player.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func multipartPhoto(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestGamePhotoLifecycle(t *testing.T) {
	s := newTestServer(t)

	coach := s.signUp(t, "coach_c", "Coach")
	clubID := s.createClub(t, coach.Token, "Reds")

	var teamIDs []int
	for _, name := range []string{"A", "B"} {
		rec := s.do(t, http.MethodPost, fmt.Sprintf("/club/%d/teams/create", clubID), coach.Token, map[string]string{
			"team_name": name,
			"formation": "1-2-2-1",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var team struct {
			ID int `json:"id"`
		}
		decode(t, rec, &team)
		teamIDs = append(teamIDs, team.ID)
	}

	rec := s.do(t, http.MethodPost, fmt.Sprintf("/club/%d/games/create", clubID), coach.Token, map[string]interface{}{
		"team_a_id":  teamIDs[0],
		"team_b_id":  teamIDs[0],
		"match_date": "2025-06-01T18:00:00Z",
		"location":   "Pitch 3",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/club/%d/games/create", clubID), coach.Token, map[string]interface{}{
		"team_a_id":  teamIDs[0],
		"team_b_id":  teamIDs[1],
		"match_date": "2025-06-01T18:00:00Z",
		"location":   "Pitch 3",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var game struct {
		ID int `json:"id"`
	}
	decode(t, rec, &game)
	gamePath := fmt.Sprintf("/club/%d/games/%d", clubID, game.ID)

	rec = s.do(t, http.MethodPut, gamePath+"/score", coach.Token, map[string]int{"score_team_a": 2, "score_team_b": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body, contentType := multipartPhoto(t, "goal.png", "image/png", []byte("\x89PNG\r\n\x1a\nfake"))
	req := httptest.NewRequest(http.MethodPost, gamePath+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+coach.Token)
	upload := httptest.NewRecorder()
	s.handler.ServeHTTP(upload, req)
	require.Equal(t, http.StatusOK, upload.Code, upload.Body.String())

	var withPhoto struct {
		ScoreTeamA int `json:"score_team_a"`
		Photos     []struct {
			ID       int    `json:"id"`
			URL      string `json:"url"`
			PublicID string `json:"public_id"`
			Tags     []int  `json:"tagged_player_ids"`
		} `json:"photos"`
	}
	decode(t, upload, &withPhoto)
	assert.Equal(t, 2, withPhoto.ScoreTeamA)
	require.Len(t, withPhoto.Photos, 1)
	photo := withPhoto.Photos[0]
	assert.True(t, strings.HasPrefix(photo.URL, "http://example.test/uploads/games/"), photo.URL)
	assert.Equal(t, []int{}, photo.Tags)

	_, err := os.Stat(filepath.Join(s.uploadDir, filepath.FromSlash(photo.PublicID)))
	require.NoError(t, err)

	rec = s.do(t, http.MethodGet, "/uploads/"+photo.PublicID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, fmt.Sprintf("%s/photos/%d/tags", gamePath, photo.ID), coach.Token, map[string]interface{}{
		"tagged_player_ids": []interface{}{3, 1, 3, -2, "x"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &withPhoto)
	assert.Equal(t, []int{1, 3}, withPhoto.Photos[0].Tags)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("%s/photos/%d", gamePath, photo.ID), coach.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &withPhoto)
	assert.Empty(t, withPhoto.Photos)

	_, err = os.Stat(filepath.Join(s.uploadDir, filepath.FromSlash(photo.PublicID)))
	assert.True(t, os.IsNotExist(err))

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("%s/photos/%d", gamePath, photo.ID), coach.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLiveGameEventsRequireAuthentication(t *testing.T) {
	s := newTestServer(t)
	coach := s.signUp(t, "coach_c", "Coach")
	clubID := s.createClub(t, coach.Token, "Reds")

	srv := httptest.NewServer(s.handler)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + fmt.Sprintf("/ws/clubs/%d", clubID)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL+"?token=not.a.token", nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/clubs/999?token="+coach.Token, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+coach.Token, nil)
	require.NoError(t, err)
	defer conn.Close()
	room := live.ClubRoom(clubID)
	require.Eventually(t, func() bool { return s.hub.RoomSize(room) == 1 }, time.Second, 10*time.Millisecond)

	s.hub.Publish(clubID, services.EventGameScoreUpdated, map[string]int{"id": 5})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, services.EventGameScoreUpdated, event.Type)
}
