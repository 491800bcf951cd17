package socket

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 32
)

// client is one websocket connection. Its readPump forwards decoded
// events onto the hub loop; its writePump drains the buffered send
// channel. The hub loop is the only goroutine that touches client rooms
// or closes the send channel.
type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn

	// send carries marshaled frames to the writePump. Closed by the hub
	// loop, never by the pumps.
	send chan []byte

	// closed is owned by the hub loop and guards double-closing send.
	closed bool
}

// ServeWS upgrades an HTTP request into a table connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.metrics.ConnectionsActive.Inc()
	slog.Info("Client connected", "conn_id", c.id, "remote_addr", r.RemoteAddr)

	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.hub.Do(func() { c.hub.handleDisconnect(c) })
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("Unexpected close", "conn_id", c.id, "error", err)
			}
			return
		}

		ev, err := decodeClientEvent(raw)
		if err != nil {
			slog.Warn("Undecodable frame", "conn_id", c.id, "error", err)
			c.hub.Do(func() {
				c.hub.sendError(c, CodeUnknownError, "Evento desconocido")
			})
			continue
		}

		c.hub.Do(func() { c.hub.handleEvent(c, ev) })
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
