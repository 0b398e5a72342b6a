package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campusmatch/api/internal/domain"
)

// UserRepo provides typed Postgres operations for the users table.
type UserRepo struct{ db *DB }

func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, name, gender, pitch_line, personality, toxic_traits, interests, avatar, coins, created_at, updated_at`

// Upsert inserts a profile with the given starting coin grant. Re-submitting
// an existing email updates the profile fields only; the coin balance is
// never re-granted or reset.
func (r *UserRepo) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (id, email, name, gender, pitch_line, personality, toxic_traits, interests, avatar, coins)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (email) DO UPDATE SET
    name = EXCLUDED.name,
    gender = EXCLUDED.gender,
    pitch_line = EXCLUDED.pitch_line,
    personality = EXCLUDED.personality,
    toxic_traits = EXCLUDED.toxic_traits,
    interests = EXCLUDED.interests,
    avatar = EXCLUDED.avatar,
    updated_at = now()
RETURNING ` + userColumns
	row := r.db.Pool.QueryRow(ctx, q,
		u.UserID, u.Email, u.Name, u.Gender, u.PitchLine,
		u.Personality, u.ToxicTraits, u.Interests, u.Avatar, u.Coins)
	return scanUser(row)
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.Pool.QueryRow(ctx, q, userID))
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.Pool.QueryRow(ctx, q, email))
}

// ListSuggestions returns every user except the requester, optionally
// filtered by gender, newest first.
func (r *UserRepo) ListSuggestions(ctx context.Context, userID, gender string, limit int) ([]domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id <> $1`
	args := []any{userID}
	if gender != "" {
		q += ` AND gender = $2`
		args = append(args, gender)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.UserID, &u.Email, &u.Name, &u.Gender, &u.PitchLine,
			&u.Personality, &u.ToxicTraits, &u.Interests, &u.Avatar, &u.Coins,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateAvatar writes the stored avatar URL for the user.
func (r *UserRepo) UpdateAvatar(ctx context.Context, userID, url string) error {
	const q = `UPDATE users SET avatar = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, userID, url, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.UserID, &u.Email, &u.Name, &u.Gender, &u.PitchLine,
		&u.Personality, &u.ToxicTraits, &u.Interests, &u.Avatar, &u.Coins,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
