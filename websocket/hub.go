package websocket

import (
	"log/slog"
	"net/http"
	"time"

	"gymdash-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Client represents a websocket connection bound to a user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// Hub manages active clients and per-user delivery of schedule events.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	notify     chan notification
	// Map of userID to set of clients, owned by the run loop.
	clientsByUser map[string]map[*Client]bool
}

type notification struct {
	userID  string
	payload []byte
}

// NewHub creates and starts a new Hub loop.
func NewHub() *Hub {
	h := &Hub{
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		notify:        make(chan notification, 64),
		clientsByUser: make(map[string]map[*Client]bool),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			set, ok := h.clientsByUser[c.userID]
			if !ok {
				set = make(map[*Client]bool)
				h.clientsByUser[c.userID] = set
			}
			set[c] = true
		case c := <-h.unregister:
			if set, ok := h.clientsByUser[c.userID]; ok {
				if _, exists := set[c]; exists {
					delete(set, c)
					close(c.send)
					if len(set) == 0 {
						delete(h.clientsByUser, c.userID)
					}
				}
			}
		case n := <-h.notify:
			set, ok := h.clientsByUser[n.userID]
			if !ok {
				continue
			}
			for c := range set {
				select {
				case c.send <- n.payload:
				default:
					// Backpressure: drop and disconnect slow clients
					close(c.send)
					delete(set, c)
				}
			}
			if len(set) == 0 {
				delete(h.clientsByUser, n.userID)
			}
		}
	}
}

// NotifyUser queues a payload for all connected clients of a given user.
func (h *Hub) NotifyUser(userID string, payload []byte) {
	if h == nil || userID == "" {
		return
	}
	select {
	case h.notify <- notification{userID: userID, payload: payload}:
	default:
		slog.Warn("websocket notify queue full, dropping event", "userId", userID)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients send no Origin header.
			return true
		}
		return middleware.OriginAllowed(origin)
	},
}

// ServeWS upgrades the HTTP connection to WebSocket and registers the client.
// JWT is not parsed here to avoid duplication; the auth middleware must have
// set userId in the gin context.
func ServeWS(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userId")
		if userID == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", "err", err)
			return
		}
		client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), userID: userID}
		h.register <- client

		// Reader goroutine
		go func() {
			defer func() {
				h.unregister <- client
				_ = conn.Close()
			}()
			conn.SetReadLimit(1024)
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
		}()

		// Writer loop (same goroutine)
		for msg := range client.send {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}
}
