package live

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClubRoom(t *testing.T) {
	assert.Equal(t, "club_42", ClubRoom(42))
}

func TestPublishReachesRoomSubscribers(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, ClubRoom(1))
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.RoomSize(ClubRoom(1)) == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(2, "GAME_SCORE_UPDATED", map[string]int{"id": 99})
	hub.Publish(1, "GAME_SCORE_UPDATED", map[string]int{"id": 7})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type    string         `json:"type"`
		Payload map[string]int `json:"payload"`
		RoomID  string         `json:"room_id"`
	}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "GAME_SCORE_UPDATED", event.Type)
	assert.Equal(t, 7, event.Payload["id"])
	assert.Equal(t, "club_1", event.RoomID)
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub(nil)
	assert.NotPanics(t, func() { hub.BroadcastToRoom("club_3", Event{Type: "X"}) })
}
