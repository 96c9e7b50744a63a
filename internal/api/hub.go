package api

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snakeboard/internal/leaderboard"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The feed is read-only public data.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans leaderboard views out to websocket subscribers.
type Hub struct {
	mu      sync.Mutex
	clients map[*liveClient]struct{}
	closed  bool
	logger  *log.Logger
}

// NewHub creates an empty hub. logger may be nil.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		clients: make(map[*liveClient]struct{}),
		logger:  logger,
	}
}

// liveClient is one subscriber with its outbound queue.
type liveClient struct {
	ws   *websocket.Conn
	send chan []byte
}

// enqueue drops the frame when the client is behind; the next one carries
// the full view anyway.
func (c *liveClient) enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
	}
}

// ServeWS upgrades the request and registers the connection. initial, when
// non-nil, is sent as the first frame.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, initial []leaderboard.Entry) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &liveClient{ws: ws, send: make(chan []byte, sendBuffer)}
	if initial != nil {
		if frame, err := encodeFrame(initial); err == nil {
			c.send <- frame
		}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = ws.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("live client connected", "remote", r.RemoteAddr)
	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast queues entries for every subscriber.
func (h *Hub) Broadcast(entries []leaderboard.Entry) {
	frame, err := encodeFrame(entries)
	if err != nil {
		h.logger.Error("cannot encode live frame", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.enqueue(frame)
	}
}

// Len returns the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// remove unregisters c; its write pump exits once send is closed.
func (h *Hub) remove(c *liveClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) writePump(c *liveClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only services control frames; client messages are ignored.
func (h *Hub) readPump(c *liveClient) {
	defer func() {
		h.remove(c)
		_ = c.ws.Close()
	}()

	c.ws.SetReadLimit(512)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func encodeFrame(entries []leaderboard.Entry) ([]byte, error) {
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return json.Marshal(ScoresResponse{Scores: entries})
}
