// Package socket is the realtime transport and orchestrator: it accepts
// websocket connections, decodes named events, and maps them onto the
// registry and the vote/split/payment engines, broadcasting every
// resulting state change to the table's room.
//
// Concurrency model: a single hub goroutine executes every inbound event,
// disconnect and timer callback, one at a time. Mutation of table state is
// therefore fully serialized; logical races (e.g. the last vote deciding a
// tie) are resolved by arrival order, deterministically. Cross-table work
// shares nothing but the hub loop itself.
package socket

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ArtP10/prototype-partela-server/internal/config"
	"github.com/ArtP10/prototype-partela-server/internal/metrics"
	"github.com/ArtP10/prototype-partela-server/internal/registry"
)

// Hub owns the rooms, the registry handle and all pending timers. All
// fields below tasks are touched only from the run loop.
type Hub struct {
	cfg     *config.Config
	reg     *registry.Registry
	metrics *metrics.Metrics

	upgrader websocket.Upgrader

	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once

	rooms map[string]map[*client]struct{}

	// Cancellable deferred work, keyed by table (revote, eviction) or
	// table/guest (payment confirmation).
	revoteCancels  map[string]func()
	confirmCancels map[string]func()
	evictCancels   map[string]func()
}

// NewHub wires the orchestrator. Run must be called before serving.
func NewHub(cfg *config.Config, reg *registry.Registry, m *metrics.Metrics) *Hub {
	h := &Hub{
		cfg:            cfg,
		reg:            reg,
		metrics:        m,
		tasks:          make(chan func(), 256),
		done:           make(chan struct{}),
		rooms:          make(map[string]map[*client]struct{}),
		revoteCancels:  make(map[string]func()),
		confirmCancels: make(map[string]func()),
		evictCancels:   make(map[string]func()),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// Run processes tasks until Close. It is the single thread of control for
// all table mutation.
func (h *Hub) Run() {
	for {
		select {
		case fn := <-h.tasks:
			fn()
		case <-h.done:
			return
		}
	}
}

// Close stops the run loop. Timers that fire afterwards find the loop
// gone and their callbacks are dropped.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Do enqueues fn onto the hub loop. Safe to call from any goroutine; a
// no-op once the hub is closed.
func (h *Hub) Do(fn func()) {
	select {
	case h.tasks <- fn:
	case <-h.done:
	}
}

// schedule runs fn on the hub loop after d and returns a cancel func.
// Callbacks must re-validate table/guest state when they fire: the world
// may have moved on while the timer was pending.
func (h *Hub) schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() { h.Do(fn) })
	return func() { t.Stop() }
}

func (h *Hub) cancelTableTimers(tableID string) {
	if cancel, ok := h.revoteCancels[tableID]; ok {
		cancel()
		delete(h.revoteCancels, tableID)
	}
	prefix := tableID + "/"
	for key, cancel := range h.confirmCancels {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			cancel()
			delete(h.confirmCancels, key)
		}
	}
}

// Room bookkeeping. Rooms are the multicast groups behind broadcast; one
// room per table.

func (h *Hub) joinRoom(roomID string, c *client) {
	room, ok := h.rooms[roomID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[roomID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leaveRoom(roomID string, c *client) {
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, roomID)
	}
}

func (h *Hub) leaveAllRooms(c *client) {
	for roomID := range h.rooms {
		h.leaveRoom(roomID, c)
	}
}

// broadcast sends an event to every connection in the room.
func (h *Hub) broadcast(roomID, event string, data any) {
	h.broadcastExcept(roomID, nil, event, data)
}

// broadcastExcept sends an event to every connection in the room but one.
func (h *Hub) broadcastExcept(roomID string, except *client, event string, data any) {
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	msg, err := marshalEnvelope(event, data)
	if err != nil {
		slog.Error("Failed to marshal broadcast", "event", event, "error", err)
		return
	}
	for c := range room {
		if c == except {
			continue
		}
		h.deliver(c, msg)
	}
}

// sendTo unicasts an event to a single connection.
func (h *Hub) sendTo(c *client, event string, data any) {
	msg, err := marshalEnvelope(event, data)
	if err != nil {
		slog.Error("Failed to marshal event", "event", event, "error", err)
		return
	}
	h.deliver(c, msg)
}

func (h *Hub) sendError(c *client, code, message string) {
	h.metrics.ErrorsTotal.WithLabelValues(code).Inc()
	h.sendTo(c, evError, errorPayload{Code: code, Message: message})
}

// deliver pushes a frame onto the client's buffered send channel. A
// client that cannot keep up is dropped rather than allowed to stall the
// loop.
func (h *Hub) deliver(c *client, msg []byte) {
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		slog.Warn("Dropping slow client", "conn_id", c.id)
		h.closeClient(c)
	}
}

// closeClient closes the send channel (stopping the writePump) exactly
// once. Hub loop only.
func (h *Hub) closeClient(c *client) {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	h.leaveAllRooms(c)
}
