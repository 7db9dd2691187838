// Package websocket pushes board snapshots and notifications to connected
// browsers.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"taskflow/board"
)

// Message types
const (
	TypeBoard        = "board"
	TypeNotification = "notification"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Message represents a WebSocket message
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Client represents a WebSocket client
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub
}

// Hub maintains active client set and broadcasts messages
type Hub struct {
	log        *zap.Logger
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
	launched   atomic.Bool
	running    atomic.Bool
	done       chan struct{}
}

// NewHub creates a new WebSocket hub
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
	}
}

// Start marks the hub running and launches its event loop. The hub accepts
// connections as soon as Start returns. A hub runs once; later calls are no-ops.
func (h *Hub) Start(ctx context.Context) {
	if !h.launched.CompareAndSwap(false, true) {
		return
	}
	h.running.Store(true)
	go h.run(ctx)
}

// Run runs the event loop in the caller's goroutine until ctx is done
func (h *Hub) Run(ctx context.Context) {
	if !h.launched.CompareAndSwap(false, true) {
		return
	}
	h.running.Store(true)
	h.run(ctx)
}

// Running reports whether the event loop accepts clients
func (h *Hub) Running() bool {
	return h.running.Load()
}

func (h *Hub) run(ctx context.Context) {
	defer close(h.done)
	defer h.running.Store(false)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client registered", zap.String("client_id", client.ID), zap.Int("total", total))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client unregistered", zap.String("client_id", client.ID), zap.Int("total", total))

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					h.log.Warn("Client send buffer full, closing", zap.String("client_id", client.ID))
					delete(h.clients, client)
					close(client.Send)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(messageType string, data any) {
	bytes, err := encode(messageType, data)
	if err != nil {
		h.log.Error("Failed to marshal message", zap.String("type", messageType), zap.Error(err))
		return
	}

	select {
	case h.broadcast <- bytes:
	default:
		h.log.Warn("Broadcast buffer full, message dropped", zap.String("type", messageType))
	}
}

// Notify forwards a board notification to every client
func (h *Hub) Notify(n board.Notification) {
	h.Broadcast(TypeNotification, n)
}

// PublishSnapshot forwards a board snapshot to every client.
// Pass it to board.Controller.Subscribe.
func (h *Hub) PublishSnapshot(s board.Snapshot) {
	h.Broadcast(TypeBoard, s)
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Upgrader is used to upgrade HTTP to WebSocket
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades the connection, sends the current snapshot and then
// streams every later broadcast
func (h *Hub) Handler(current func() board.Snapshot) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.running.Load() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":   "unavailable",
				"message": "Board updates are not running",
			})
			return
		}

		conn, err := Upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.log.Warn("Failed to upgrade connection", zap.Error(err))
			return
		}

		client := &Client{
			ID:   uuid.NewString(),
			Conn: conn,
			Send: make(chan []byte, sendBuffer),
			Hub:  h,
		}

		if current != nil {
			if first, err := encode(TypeBoard, current()); err == nil {
				client.Send <- first
			}
		}

		select {
		case h.register <- client:
		case <-h.done:
			conn.Close()
			return
		}

		go client.readPump()
		go client.writePump()
	}
}

func encode(messageType string, data any) ([]byte, error) {
	return json.Marshal(Message{Type: messageType, Data: data})
}

// readPump drains the connection; clients only ever send control frames
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Debug("Unexpected close", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.log.Debug("Failed to write message", zap.String("client_id", c.ID), zap.Error(err))
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var _ board.Notifier = (*Hub)(nil)
