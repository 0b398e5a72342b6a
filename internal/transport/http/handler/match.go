package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/campusmatch/api/internal/application/match"
	"github.com/campusmatch/api/internal/domain"
)

// MatchHandler handles suggestion and approach endpoints.
type MatchHandler struct {
	svc match.Service
	log *slog.Logger
}

func NewMatchHandler(svc match.Service, log *slog.Logger) *MatchHandler {
	return &MatchHandler{svc: svc, log: log}
}

func (h *MatchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	gender := r.URL.Query().Get("gender")
	users, err := h.svc.Suggestions(r.Context(), userID, gender)
	if err != nil {
		writeDomainError(w, h.log, "suggestions", err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, UsersEnvelope{Users: users})
}

type approachRequest struct {
	FromUserID  string `json:"fromUserId"`
	ToUserID    string `json:"toUserId"`
	RequestLine string `json:"requestLine"`
}

func (h *MatchHandler) Approach(w http.ResponseWriter, r *http.Request) {
	var req approachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := h.svc.Approach(r.Context(), req.FromUserID, req.ToUserID, req.RequestLine); err != nil {
		writeDomainError(w, h.log, "approach", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true})
}

func (h *MatchHandler) Received(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}
	approaches, err := h.svc.Received(r.Context(), userID)
	if err != nil {
		writeDomainError(w, h.log, "approaches-received", err)
		return
	}
	if approaches == nil {
		approaches = []domain.Approach{}
	}
	writeJSON(w, http.StatusOK, approaches)
}
