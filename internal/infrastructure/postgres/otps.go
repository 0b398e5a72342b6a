package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campusmatch/api/internal/domain"
)

// OTPRepo provides typed Postgres operations for the one_time_codes table.
type OTPRepo struct{ db *DB }

func NewOTPRepo(db *DB) *OTPRepo { return &OTPRepo{db: db} }

// Replace removes every prior code for the email and inserts the new one in
// a single transaction, so concurrent issue requests cannot leave zero or
// two live codes behind.
func (r *OTPRepo) Replace(ctx context.Context, c *domain.OneTimeCode) error {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM one_time_codes WHERE email = $1`, c.Email); err != nil {
		return fmt.Errorf("delete prior codes: %w", err)
	}
	const ins = `INSERT INTO one_time_codes (email, code, issued_at, expires_at) VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, ins, c.Email, c.Code, c.IssuedAt, c.ExpiresAt); err != nil {
		return fmt.Errorf("insert code: %w", err)
	}
	return tx.Commit(ctx)
}

// Latest returns the most recently issued code for the email.
func (r *OTPRepo) Latest(ctx context.Context, email string) (*domain.OneTimeCode, error) {
	const q = `
SELECT email, code, issued_at, expires_at
FROM one_time_codes WHERE email = $1
ORDER BY issued_at DESC LIMIT 1`
	var c domain.OneTimeCode
	err := r.db.Pool.QueryRow(ctx, q, email).Scan(&c.Email, &c.Code, &c.IssuedAt, &c.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Consume deletes all codes for the email. Verification calls this once the
// submitted code matches, enforcing single use.
func (r *OTPRepo) Consume(ctx context.Context, email string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM one_time_codes WHERE email = $1`, email)
	return err
}
