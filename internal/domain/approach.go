package domain

import "time"

// Approach is a paid introduction from one user to another.
// Rows are append-only and created atomically with the coin debit.
type Approach struct {
	ApproachID  string    `json:"id" db:"id"`
	FromUserID  string    `json:"from_user_id" db:"from_user_id"`
	ToUserID    string    `json:"to_user_id" db:"to_user_id"`
	RequestLine string    `json:"request_line" db:"request_line"`
	CreatedAt   time.Time `json:"created" db:"created_at"`
}
