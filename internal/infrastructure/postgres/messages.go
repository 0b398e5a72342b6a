package postgres

import (
	"context"
	"fmt"

	"github.com/campusmatch/api/internal/domain"
)

// MessageRepo provides typed Postgres operations for the messages table.
type MessageRepo struct{ db *DB }

func NewMessageRepo(db *DB) *MessageRepo { return &MessageRepo{db: db} }

// Insert persists a message and fills in the server-assigned timestamp.
func (r *MessageRepo) Insert(ctx context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error) {
	const q = `
INSERT INTO messages (id, sender_id, receiver_id, body)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	if err := r.db.Pool.QueryRow(ctx, q, m.MessageID, m.SenderID, m.ReceiverID, m.Body).Scan(&m.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("message %s: %w", m.MessageID, domain.ErrConflict)
		}
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

// HistoryBetween returns every message exchanged by the pair in either
// direction, oldest first. The read is unbounded; there is no pagination.
func (r *MessageRepo) HistoryBetween(ctx context.Context, userA, userB string) ([]domain.ChatMessage, error) {
	const q = `
SELECT id, sender_id, receiver_id, body, created_at
FROM messages
WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
ORDER BY created_at ASC`
	rows, err := r.db.Pool.Query(ctx, q, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.MessageID, &m.SenderID, &m.ReceiverID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
