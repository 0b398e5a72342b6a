package domain

import "time"

// ChatMessage is one direct message between two users. Room membership is
// derived from the participant pair, never stored.
type ChatMessage struct {
	MessageID  string    `json:"id" db:"id"`
	SenderID   string    `json:"sender_id" db:"sender_id"`
	ReceiverID string    `json:"receiver_id" db:"receiver_id"`
	Body       string    `json:"body" db:"body"`
	CreatedAt  time.Time `json:"created" db:"created_at"`
}
