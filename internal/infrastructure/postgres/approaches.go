package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusmatch/api/internal/domain"
)

// ApproachRepo provides typed Postgres operations for the approaches table.
type ApproachRepo struct{ db *DB }

func NewApproachRepo(db *DB) *ApproachRepo { return &ApproachRepo{db: db} }

// Create debits the sender and inserts the approach row in one transaction.
// The conditional UPDATE only matches when the balance covers the cost, so
// an underfunded sender mutates nothing.
func (r *ApproachRepo) Create(ctx context.Context, a *domain.Approach, cost int) (*domain.Approach, error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	const debit = `UPDATE users SET coins = coins - $2, updated_at = now() WHERE id = $1 AND coins >= $2`
	tag, err := tx.Exec(ctx, debit, a.FromUserID, cost)
	if err != nil {
		return nil, fmt.Errorf("debit coins: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("user %s balance below %d: %w", a.FromUserID, cost, domain.ErrInsufficientCoins)
	}

	const ins = `
INSERT INTO approaches (id, from_user_id, to_user_id, request_line)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	if err := tx.QueryRow(ctx, ins, a.ApproachID, a.FromUserID, a.ToUserID, a.RequestLine).Scan(&a.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert approach: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// ListReceived returns approaches addressed to the user, newest first.
func (r *ApproachRepo) ListReceived(ctx context.Context, userID string) ([]domain.Approach, error) {
	const q = `
SELECT id, from_user_id, to_user_id, request_line, created_at
FROM approaches WHERE to_user_id = $1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Approach
	for rows.Next() {
		var a domain.Approach
		if err := rows.Scan(&a.ApproachID, &a.FromUserID, &a.ToUserID, &a.RequestLine, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
