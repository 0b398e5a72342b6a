package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8 << 10
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origins are filtered by the CORS layer; the socket accepts any.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one WebSocket connection. Lifecycle: anonymous on upgrade,
// bound to an identity after user_connected, then subscribed to 0..n rooms.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// guarded by hub.mu
	userID string
	joined map[string]struct{}
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		joined: make(map[string]struct{}),
	}
}

// ServeWS upgrades the request and runs the connection's pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := newClient(h, conn)
	h.attach(c)

	go c.writePump()
	c.readPump(r)
}

// trySend queues a frame without blocking the hub. A client whose buffer is
// full misses the frame; delivery is best-effort with no replay beyond the
// history endpoint.
func (c *Client) trySend(frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.hub.log.Warn("send buffer full, dropping frame", "user_id", c.userID)
	}
}

func (c *Client) readPump(r *http.Request) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		close(c.send)
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) // nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("websocket read error", "user_id", c.userID, "err", err)
			}
			return
		}
		c.dispatch(r, raw)
	}
}

func (c *Client) dispatch(r *http.Request, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.hub.log.Warn("malformed frame", "user_id", c.userID, "err", err)
		return
	}
	switch env.Event {
	case EventUserConnected:
		var p userConnectedPayload
		if json.Unmarshal(env.Data, &p) == nil && p.UserID != "" {
			c.hub.Register(c, p.UserID)
		}
	case EventJoinRoom:
		var p joinRoomPayload
		if json.Unmarshal(env.Data, &p) == nil && p.UserID != "" && p.OtherUserID != "" {
			c.hub.JoinRoom(c, p.UserID, p.OtherUserID)
		}
	case EventSendMessage:
		var p sendMessagePayload
		if json.Unmarshal(env.Data, &p) == nil {
			c.hub.SendMessage(r.Context(), p.SenderID, p.ReceiverID, p.Body)
		}
	default:
		c.hub.log.Warn("unknown event", "event", env.Event)
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
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) // nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) // nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) // nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
