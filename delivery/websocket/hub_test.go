package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/board"
)

type received struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func dial(t *testing.T, hub *Hub, current func() board.Snapshot) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/ws", hub.Handler(current))

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHubSendsSnapshotThenBroadcasts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	hub.Start(ctx)

	conn := dial(t, hub, func() board.Snapshot { return board.Snapshot{TotalTasks: 3} })

	first := read(t, conn)
	assert.Equal(t, TypeBoard, first.Type)
	var snap board.Snapshot
	require.NoError(t, json.Unmarshal(first.Data, &snap))
	assert.Equal(t, 3, snap.TotalTasks)

	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(board.Notification{Level: board.LevelSuccess, Message: board.MsgCreated})
	msg := read(t, conn)
	assert.Equal(t, TypeNotification, msg.Type)
	var n board.Notification
	require.NoError(t, json.Unmarshal(msg.Data, &n))
	assert.Equal(t, board.MsgCreated, n.Message)

	hub.PublishSnapshot(board.Snapshot{TotalTasks: 4, ShowArchived: true})
	msg = read(t, conn)
	assert.Equal(t, TypeBoard, msg.Type)
	require.NoError(t, json.Unmarshal(msg.Data, &snap))
	assert.True(t, snap.ShowArchived)
}

func TestHubDropsClientOnDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	hub.Start(ctx)

	conn := dial(t, hub, nil)
	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.GetClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubRefusesClientsWhenNotRunning(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)
	engine := gin.New()
	engine.GET("/ws", hub.Handler(func() board.Snapshot { return board.Snapshot{} }))
	srv := httptest.NewServer(engine)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()

	ctx, cancel := context.WithCancel(context.Background())
	hub.Start(ctx)
	assert.True(t, hub.Running())
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	assert.Equal(t, TypeBoard, read(t, conn).Type)
	conn.Close()

	cancel()
	require.Eventually(t, func() bool { return !hub.Running() }, time.Second, 10*time.Millisecond)
	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp.Body.Close()

	hub.Start(context.Background())
	assert.False(t, hub.Running())
}
