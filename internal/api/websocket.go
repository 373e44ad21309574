package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wellsgz/vigil/internal/report"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WireMeasurement is the per-target payload streamed after every cycle.
type WireMeasurement struct {
	Name           string  `json:"name"`
	Timestamp      string  `json:"timestamp"`
	StatusCode     *int    `json:"status_code"`
	ResponseTimeMs float64 `json:"response_time_ms"`
	Success        bool    `json:"success"`
	Error          string  `json:"error,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type string `json:"type"` // "measurement" or "error"
	Data any    `json:"data"`
}

// ReportSource is the subscription surface the hub consumes; satisfied by
// the collector.
type ReportSource interface {
	Subscribe() <-chan report.CycleReport
	Unsubscribe(<-chan report.CycleReport)
}

// Hub maintains the set of connected clients and fans cycle results out to
// them as they arrive from the collector.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan ServerMessage
	register   chan *Client
	unregister chan *Client

	source    ReportSource
	sourceSub <-chan report.CycleReport

	done   chan struct{}
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan ServerMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// SetSource subscribes the hub to a report source.
func (h *Hub) SetSource(s ReportSource) {
	h.source = s
	h.sourceSub = s.Subscribe()
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.sourceSub != nil {
		go h.listenSource()
	}

	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("websocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("websocket client connected", zap.Int("total", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("websocket client disconnected", zap.Int("total", total))

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client can't keep up; it will be unregistered by its
					// write pump when the connection breaks.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop signals the hub to shut down and close client connections.
func (h *Hub) Stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
	if h.source != nil && h.sourceSub != nil {
		h.source.Unsubscribe(h.sourceSub)
	}
}

// listenSource forwards collector reports into the broadcast channel.
func (h *Hub) listenSource() {
	for r := range h.sourceSub {
		if r.Measurement == nil {
			if r.Err != nil {
				h.broadcast <- ServerMessage{Type: "error", Data: gin.H{
					"name":    r.Target.Name,
					"message": r.Err.Error(),
				}}
			}
			continue
		}
		m := r.Measurement
		h.broadcast <- ServerMessage{Type: "measurement", Data: WireMeasurement{
			Name:           m.Name,
			Timestamp:      m.Timestamp.Format(time.RFC3339Nano),
			StatusCode:     m.StatusCode,
			ResponseTimeMs: m.ResponseTimeMs,
			Success:        m.Success,
			Error:          m.ErrorString(),
		}}
	}
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan ServerMessage
}

// ServeWebSocket upgrades an HTTP request and registers the client.
func ServeWebSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.logger.Error("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			hub:  hub,
			conn: conn,
			send: make(chan ServerMessage, 64),
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// readPump discards client messages and watches for disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump streams hub messages to the peer and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
