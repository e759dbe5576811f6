package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rustyeddy/fxdesk/sim"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub streams tick results to websocket clients as JSON text frames.
type Hub struct {
	clients  map[*websocket.Conn]bool
	lock     sync.Mutex
	latest   []byte // last broadcast frame
	closed   bool
	snapshot func() sim.TickResult
	log      zerolog.Logger
}

// NewHub builds a hub. snapshot supplies the first frame a new client gets.
func NewHub(snapshot func() sim.TickResult, log zerolog.Logger) *Hub {
	return &Hub{
		clients:  make(map[*websocket.Conn]bool),
		snapshot: snapshot,
		log:      log,
	}
}

// Run forwards every result from ticks until ctx is done or ticks closes,
// then disconnects all clients.
func (h *Hub) Run(ctx context.Context, ticks <-chan sim.TickResult) {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return
		case res, ok := <-ticks:
			if !ok {
				return
			}
			msg, err := json.Marshal(res)
			if err != nil {
				h.log.Error().Err(err).Uint64("seq", res.Seq).Msg("encode tick")
				continue
			}
			h.Broadcast(msg)
		}
	}
}

// Broadcast writes msg to every client, dropping the ones that fail.
func (h *Hub) Broadcast(msg []byte) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.latest = msg
	for client := range h.clients {
		if err := h.write(client, msg); err != nil {
			h.log.Debug().Err(err).Str("remote", client.RemoteAddr().String()).Msg("ws client dropped")
			client.Close()
			delete(h.clients, client)
		}
	}
}

func (h *Hub) write(c *websocket.Conn, msg []byte) error {
	_ = c.SetWriteDeadline(time.Now().Add(writeWait))
	return c.WriteMessage(websocket.TextMessage, msg)
}

// Clients is the number of connected clients.
func (h *Hub) Clients() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request, sends the latest frame and registers the
// connection for broadcasts. The first frame and registration happen under
// the broadcast lock, so a client sees every tick after its first frame.
// Once the hub has shut down new clients get 503.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.lock.Lock()
	closed := h.closed
	h.lock.Unlock()
	if closed {
		writeError(w, http.StatusServiceUnavailable, "tick stream stopped")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade")
		return
	}

	h.lock.Lock()
	defer h.lock.Unlock()
	if h.closed {
		conn.Close()
		return
	}

	msg := h.latest
	if msg == nil {
		if msg, err = json.Marshal(h.snapshot()); err != nil {
			h.log.Error().Err(err).Msg("encode snapshot")
			conn.Close()
			return
		}
	}
	if err := h.write(conn, msg); err != nil {
		conn.Close()
		return
	}
	h.clients[conn] = true

	go h.readPump(conn)
}

// readPump discards client frames and unregisters the client once the
// connection fails or closes.
func (h *Hub) readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.lock.Lock()
			delete(h.clients, conn)
			h.lock.Unlock()
			conn.Close()
			return
		}
	}
}

func (h *Hub) closeAll() {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.closed = true
	for client := range h.clients {
		_ = client.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "desk stopped"),
			time.Now().Add(writeWait))
		client.Close()
		delete(h.clients, client)
	}
}
