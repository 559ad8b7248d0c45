package realtime

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/padelista/padel-stats/internal/domain/user"
	"github.com/padelista/padel-stats/internal/platform/logging"
)

// TokenVerifier authenticates the query token a browser presents on the
// websocket upgrade.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (user.Principal, error)
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second

	// sendBufferSize bounds the per-viewer queue. A viewer that cannot keep
	// up loses messages rather than stalling the broadcast.
	sendBufferSize = 32

	broadcastWorkers = 64
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// close signals the writer to shut down. The send channel itself is never
// closed so concurrent broadcasts stay safe.
func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// Hub keeps one room per match and fans broadcast messages out to every
// viewer of that room. It implements the notifier contract of the services.
type Hub struct {
	verifier TokenVerifier
	logger   *logging.Logger
	upgrader websocket.Upgrader
	pool     *ants.Pool
	writers  conc.WaitGroup

	mu     sync.RWMutex
	rooms  map[string]map[*client]struct{}
	closed bool
}

func NewHub(verifier TokenVerifier, checkOrigin func(*http.Request) bool, logger *logging.Logger) (*Hub, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	pool, err := ants.NewPool(broadcastWorkers)
	if err != nil {
		return nil, err
	}

	return &Hub{
		verifier: verifier,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		pool:  pool,
		rooms: make(map[string]map[*client]struct{}),
	}, nil
}

// ServeHTTP upgrades a viewer connection and joins it to the match room from
// the path. Authentication uses the token query parameter because browsers
// cannot set headers on websocket upgrades.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("matchID")
	if strings.TrimSpace(matchID) == "" {
		http.Error(w, "match id is required", http.StatusBadRequest)
		return
	}

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		http.Error(w, "token query parameter is required", http.StatusUnauthorized)
		return
	}
	principal, err := h.verifier.VerifyAccessToken(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error.
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "match_id", matchID, "error", err)
		return
	}

	viewer := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
	if !h.join(matchID, viewer) {
		_ = conn.Close()
		return
	}

	h.logger.InfoContext(r.Context(), "viewer joined match room",
		"match_id", matchID,
		"user_id", principal.UserID,
	)

	h.writers.Go(func() { h.writeLoop(viewer) })
	h.readLoop(matchID, viewer)
}

func (h *Hub) join(matchID string, viewer *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	room, ok := h.rooms[matchID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[matchID] = room
	}
	room[viewer] = struct{}{}
	return true
}

func (h *Hub) leave(matchID string, viewer *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[matchID]
	if !ok {
		return
	}
	delete(room, viewer)
	if len(room) == 0 {
		delete(h.rooms, matchID)
	}
}

// readLoop drains inbound frames. Viewers are read-only; the loop exists to
// detect closes and keep pong handling alive.
func (h *Hub) readLoop(matchID string, viewer *client) {
	defer func() {
		h.leave(matchID, viewer)
		viewer.close()
		_ = viewer.conn.Close()
	}()

	viewer.conn.SetReadLimit(512)
	_ = viewer.conn.SetReadDeadline(time.Now().Add(pongWait))
	viewer.conn.SetPongHandler(func(string) error {
		return viewer.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := viewer.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(viewer *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = viewer.conn.Close()
	}()

	for {
		select {
		case <-viewer.done:
			_ = viewer.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = viewer.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-viewer.send:
			_ = viewer.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := viewer.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = viewer.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := viewer.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Publish fans a message out to every viewer of the match room. Delivery is
// best effort: marshalling failures are logged, slow viewers drop messages,
// and the caller never blocks on the broadcast.
func (h *Hub) Publish(ctx context.Context, matchID string, message any) {
	payload, err := sonic.Marshal(message)
	if err != nil {
		h.logger.WarnContext(ctx, "marshal broadcast message failed", "match_id", matchID, "error", err)
		return
	}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	viewers := make([]*client, 0, len(h.rooms[matchID]))
	for viewer := range h.rooms[matchID] {
		viewers = append(viewers, viewer)
	}
	h.mu.RUnlock()

	for _, viewer := range viewers {
		viewer := viewer
		if err := h.pool.Submit(func() {
			select {
			case viewer.send <- payload:
			case <-viewer.done:
			default:
				// Queue full, drop for this viewer.
			}
		}); err != nil {
			h.logger.WarnContext(ctx, "broadcast submit failed", "match_id", matchID, "error", err)
		}
	}
}

// Close disconnects every viewer and stops the broadcast pool.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	viewers := make([]*client, 0)
	for _, room := range h.rooms {
		for viewer := range room {
			viewers = append(viewers, viewer)
		}
	}
	h.rooms = make(map[string]map[*client]struct{})
	h.mu.Unlock()

	for _, viewer := range viewers {
		viewer.close()
	}
	h.writers.Wait()
	h.pool.Release()
}
