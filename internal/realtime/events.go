package realtime

import "encoding/json"

// Wire event names. Inbound events arrive from clients; outbound events are
// written by the hub.
const (
	EventUserConnected  = "user_connected"  // inbound: bind identity to this connection
	EventJoinRoom       = "join_room"       // inbound: subscribe to a pairwise room
	EventSendMessage    = "send_message"    // inbound: persist and relay a message
	EventOnlineUsers    = "online_users"    // outbound: full set of registered identities
	EventReceiveMessage = "receive_message" // outbound: persisted message, to room subscribers
)

// Envelope is the frame exchanged over the socket.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type userConnectedPayload struct {
	UserID string `json:"userId"`
}

type joinRoomPayload struct {
	UserID      string `json:"userId"`
	OtherUserID string `json:"otherUserId"`
}

type sendMessagePayload struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Body       string `json:"body"`
}

func mustEnvelope(event string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	b, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		panic(err)
	}
	return b
}
