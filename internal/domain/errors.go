package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrBadRequest        = errors.New("bad request")
	ErrCodeExpired       = errors.New("code expired")
	ErrCodeMismatch      = errors.New("code mismatch")
	ErrInsufficientCoins = errors.New("insufficient coins")
)
