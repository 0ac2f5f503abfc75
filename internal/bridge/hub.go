package bridge

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one connected desktop companion socket.
type Client struct {
	hub  *Hub
	uid  string
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks desktop companion connections keyed by user id.
type Hub struct {
	mu      sync.RWMutex
	clients map[string][]*Client
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string][]*Client),
		logger:  logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.uid] = append(h.clients[c.uid], c)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.clients[c.uid]
	for i, other := range conns {
		if other == c {
			h.clients[c.uid] = append(conns[:i], conns[i+1:]...)
			close(c.send)
			break
		}
	}
	if len(h.clients[c.uid]) == 0 {
		delete(h.clients, c.uid)
	}
}

// Connected reports whether at least one companion socket is open for uid.
func (h *Hub) Connected(uid string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[uid]) > 0
}

// Send pushes payload to every companion socket registered for uid and
// reports whether any delivery was attempted. The whole fan-out runs under
// the registry lock: the hub is the only goroutine that closes a send
// channel, and it never does so while a send is in flight. Sends are
// select-guarded, so the lock is never held on a blocked channel.
func (h *Hub) Send(uid string, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode bridge payload", "error", err)
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conns := append([]*Client(nil), h.clients[uid]...)
	delivered := false
	for _, c := range conns {
		select {
		case c.send <- data:
			delivered = true
		default:
			h.dropLocked(c)
		}
	}
	return delivered
}

func (h *Hub) dropLocked(c *Client) {
	conns := h.clients[c.uid]
	for i, other := range conns {
		if other == c {
			h.clients[c.uid] = append(conns[:i], conns[i+1:]...)
			close(c.send)
			break
		}
	}
	if len(h.clients[c.uid]) == 0 {
		delete(h.clients, c.uid)
	}
}

// ServeWS upgrades an HTTP request to a companion socket for uid.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, uid string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{hub: h, uid: uid, conn: conn, send: make(chan []byte, 16)}
	h.register(client)

	go client.writePump()
	go client.readPump()
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
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
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
