package domain

import "time"

// OneTimeCode is a short-lived login code bound to an email identity.
// At most one live code exists per email: issuing a new code replaces
// all prior rows, and a successful verification consumes the row.
type OneTimeCode struct {
	Email     string    `json:"email" db:"email"`
	Code      string    `json:"code" db:"code"`
	IssuedAt  time.Time `json:"issued_at" db:"issued_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}
