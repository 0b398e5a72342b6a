package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/campusmatch/api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SendOTPEnvelope wraps send-otp responses. OTP is populated only when the
// deployment explicitly opts in to echoing codes.
type SendOTPEnvelope struct {
	Success   bool   `json:"success"`
	IsNewUser bool   `json:"isNewUser"`
	OTP       string `json:"otp,omitempty"`
	Error     string `json:"error,omitempty"`
}

// VerifyOTPEnvelope wraps verify-otp responses.
type VerifyOTPEnvelope struct {
	Success   bool         `json:"success"`
	IsNewUser bool         `json:"isNewUser"`
	User      *domain.User `json:"user,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// UserEnvelope wraps single-user responses.
type UserEnvelope struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// UsersEnvelope wraps suggestion lists.
type UsersEnvelope struct {
	Users []domain.User `json:"users"`
	Error string        `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps domain sentinels to a 400 with a specific message;
// anything else is a 500 with a generic body, full detail logged only
// server-side.
func writeDomainError(w http.ResponseWriter, log *slog.Logger, route string, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest), errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCodeExpired):
		writeError(w, http.StatusBadRequest, "code expired, request a new one")
	case errors.Is(err, domain.ErrCodeMismatch):
		writeError(w, http.StatusBadRequest, "incorrect code")
	case errors.Is(err, domain.ErrInsufficientCoins):
		writeError(w, http.StatusBadRequest, "not enough coins")
	default:
		log.Error("request failed", "route", route, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
