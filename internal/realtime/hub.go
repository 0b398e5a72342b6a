package realtime

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/campusmatch/api/internal/application/chat"
)

// Hub owns all process-local connection state: which identities are online
// and which connections subscribe to which pairwise rooms. It is constructed
// once per process and injected into the transport layer; nothing else
// mutates presence.
//
// Presence does not survive the process and is not shared across instances.
type Hub struct {
	mu       sync.Mutex
	clients  map[*Client]struct{}
	presence map[string]*Client
	rooms    map[string]map[*Client]struct{}

	chat chat.Service
	log  *slog.Logger
}

func NewHub(chatSvc chat.Service, log *slog.Logger) *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		presence: make(map[string]*Client),
		rooms:    make(map[string]map[*Client]struct{}),
		chat:     chatSvc,
		log:      log,
	}
}

// RoomKey returns the canonical room identifier for a pair: the two ids
// sorted and joined, so (a,b) and (b,a) land in the same room.
func RoomKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, ":")
}

// attach adds a freshly upgraded, still-anonymous connection.
func (h *Hub) attach(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Register binds an identity to the connection. The last handle wins on
// reconnect. Every connection receives the updated online set.
func (h *Hub) Register(c *Client, userID string) {
	h.mu.Lock()
	c.userID = userID
	h.presence[userID] = c
	h.broadcastOnlineUsersLocked()
	h.mu.Unlock()
	h.log.Info("user connected", "user_id", userID)
}

// JoinRoom subscribes the connection to the pair's room. Idempotent.
func (h *Hub) JoinRoom(c *Client, userID, otherUserID string) {
	key := RoomKey(userID, otherUserID)
	h.mu.Lock()
	room, ok := h.rooms[key]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[key] = room
	}
	room[c] = struct{}{}
	c.joined[key] = struct{}{}
	h.mu.Unlock()
}

// SendMessage persists the message and, only on successful persistence,
// relays the stored record to the room. A failed write is logged and
// dropped; the sender is not notified.
func (h *Hub) SendMessage(ctx context.Context, senderID, receiverID, body string) {
	m, err := h.chat.Save(ctx, senderID, receiverID, body)
	if err != nil {
		h.log.Error("message not persisted, dropping", "sender_id", senderID, "receiver_id", receiverID, "err", err)
		return
	}
	frame := mustEnvelope(EventReceiveMessage, m)
	key := RoomKey(senderID, receiverID)

	h.mu.Lock()
	for c := range h.rooms[key] {
		c.trySend(frame)
	}
	h.mu.Unlock()
}

// Unregister removes the connection. The presence entry is pruned only when
// this connection is still the registered handle for its identity, so a
// reconnect that already overwrote the entry keeps the identity online.
// The source system never pruned on disconnect; doing so here keeps the
// online set truthful and bounded.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	for key := range c.joined {
		if room, ok := h.rooms[key]; ok {
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, key)
			}
		}
	}
	pruned := false
	if c.userID != "" && h.presence[c.userID] == c {
		delete(h.presence, c.userID)
		pruned = true
	}
	if pruned {
		h.broadcastOnlineUsersLocked()
	}
	h.mu.Unlock()
	h.log.Info("connection closed", "user_id", c.userID, "presence_pruned", pruned)
}

// Online returns the registered identities, for tests and introspection.
func (h *Hub) Online() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.onlineLocked()
}

func (h *Hub) onlineLocked() []string {
	ids := make([]string, 0, len(h.presence))
	for id := range h.presence {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (h *Hub) broadcastOnlineUsersLocked() {
	frame := mustEnvelope(EventOnlineUsers, h.onlineLocked())
	for c := range h.clients {
		c.trySend(frame)
	}
}
