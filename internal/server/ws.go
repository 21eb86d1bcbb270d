package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ayusman/signspeak/internal/app"
	"github.com/ayusman/signspeak/internal/logging"
)

// overlayInterval is the snapshot broadcast period, about 15 updates per second.
const overlayInterval = 66 * time.Millisecond

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// SnapshotSource provides overlay state.
type SnapshotSource interface {
	Snapshot() app.Snapshot
}

// OverlayHandler broadcasts the recognition snapshot to WebSocket clients.
type OverlayHandler struct {
	source  SnapshotSource
	clients map[*websocket.Conn]*sync.Mutex
	mu      sync.RWMutex
	stopCh  chan struct{}
	once    sync.Once
	logger  zerolog.Logger
}

// NewOverlayHandler creates an OverlayHandler and starts its broadcast loop.
func NewOverlayHandler(source SnapshotSource) *OverlayHandler {
	h := &OverlayHandler{
		source:  source,
		clients: make(map[*websocket.Conn]*sync.Mutex),
		stopCh:  make(chan struct{}),
		logger:  logging.WithComponent("overlay"),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests. The current snapshot is sent
// immediately, then on every broadcast tick.
func (h *OverlayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}
	defer conn.Close()

	writeMu := &sync.Mutex{}
	if msg, err := json.Marshal(h.source.Snapshot()); err == nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteMessage(websocket.TextMessage, msg)
	}

	h.mu.Lock()
	h.clients[conn] = writeMu
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *OverlayHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops the broadcast loop.
func (h *OverlayHandler) Close() {
	h.once.Do(func() { close(h.stopCh) })
}

// broadcast sends the snapshot to all connected clients when it changes.
func (h *OverlayHandler) broadcast() {
	ticker := time.NewTicker(overlayInterval)
	defer ticker.Stop()

	var lastFrame uint64
	var lastEnabled bool
	sent := false

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
		}

		if h.Clients() == 0 {
			continue
		}

		snap := h.source.Snapshot()
		if sent && snap.Frame == lastFrame && snap.Enabled == lastEnabled {
			continue
		}
		lastFrame, lastEnabled, sent = snap.Frame, snap.Enabled, true

		msg, err := json.Marshal(snap)
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn, writeMu := range h.clients {
			writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug().Err(err).Msg("Overlay write failed")
			}
			writeMu.Unlock()
		}
		h.mu.RUnlock()
	}
}
