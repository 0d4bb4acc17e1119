package controller

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sharetube/syncroom/internal/repository/connection/inmemory"
	roomRedis "github.com/sharetube/syncroom/internal/repository/room/redis"
	"github.com/sharetube/syncroom/internal/service/room"
	"github.com/sharetube/syncroom/pkg/mediainfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	connRepo := inmemory.NewRepo(logger)
	roomService := room.NewService(&room.ServiceParams{
		Store:    roomRedis.NewRepo(rc, time.Hour),
		Sender:   connRepo,
		Resolver: mediainfo.New(mediainfo.Config{}),
		Logger:   logger,
	})

	srv := httptest.NewServer(NewController(roomService, connRepo, logger).GetMux())
	t.Cleanup(func() {
		srv.Close()
		roomService.Close(context.Background())
		rc.Close()
	})

	return srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readUntil(t *testing.T, conn *websocket.Conn, msgType string) json.RawMessage {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == msgType {
			return msg.Payload
		}
	}
}

func TestJoinRoom(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv, "/api/v1/ws/room/lobby/join?username=alice")

	var login struct {
		Success bool   `json:"success"`
		Name    string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "LOGIN"), &login))
	assert.True(t, login.Success)
	assert.Equal(t, "alice", login.Name)
	readUntil(t, conn, "MOTD")
	t.Log("joined")

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":    "CHAT_MSG",
		"payload": map[string]any{"msg": "hello <world>"},
	}))

	var chat struct {
		Username string `json:"username"`
		Msg      string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "CHAT_MESSAGE"), &chat))
	assert.Equal(t, "alice", chat.Username)
	assert.Equal(t, "hello &lt;world&gt;", chat.Msg)
	t.Log("chat echoed")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "QUEUE", "payload": map[string]any{"id": "x", "type": "yt", "pos": "sideways"}}))
	var errPayload struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "ERROR"), &errPayload))
	assert.Contains(t, errPayload.Message, "pos must be one of")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "NOT_A_THING"}))
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "ERROR"), &errPayload))
	assert.Contains(t, errPayload.Message, "unknown message type")

	resp, err := http.Get(srv.URL + "/api/v1/rooms/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var rooms struct {
		Data []room.RoomInfo `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rooms))
	require.Len(t, rooms.Data, 1)
	assert.Equal(t, "lobby", rooms.Data[0].Name)
	assert.Equal(t, 1, rooms.Data[0].UserCount)
}

func TestJoinRoomRejectsBadNames(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/ws/room/bad.name/join")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/ws/room/lobby/join?username=no%20spaces")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidateJoin(t *testing.T) {
	srv := newTestServer(t)

	validate := func(body string) (*http.Response, map[string]any) {
		resp, err := http.Post(srv.URL+"/api/v1/rooms/lobby/validate-join", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()

		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp, out
	}

	resp, out := validate(`{"username":"alice"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["data"].(map[string]any)["available"])

	conn := dial(t, srv, "/api/v1/ws/room/lobby/join?username=alice")
	readUntil(t, conn, "LOGIN")

	_, out = validate(`{"username":"alice"}`)
	assert.Equal(t, false, out["data"].(map[string]any)["available"])

	resp, _ = validate(`{"username":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = validate(`{"username":"alice","extra":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}
