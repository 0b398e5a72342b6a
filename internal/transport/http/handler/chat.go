package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusmatch/api/internal/application/chat"
	"github.com/campusmatch/api/internal/domain"
)

// ChatHandler handles the conversation history endpoint.
type ChatHandler struct {
	svc chat.Service
	log *slog.Logger
}

func NewChatHandler(svc chat.Service, log *slog.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, log: log}
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	otherID := chi.URLParam(r, "otherUserId")
	msgs, err := h.svc.History(r.Context(), userID, otherID)
	if err != nil {
		writeDomainError(w, h.log, "chat-history", err)
		return
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}
