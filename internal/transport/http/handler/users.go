package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusmatch/api/internal/application/user"
	"github.com/campusmatch/api/internal/domain"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	svc user.Service
	log *slog.Logger
}

func NewUserHandler(svc user.Service, log *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

func (h *UserHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.svc.CreateProfile(r.Context(), req)
	if err != nil {
		writeDomainError(w, h.log, "create-profile", err)
		return
	}
	writeJSON(w, http.StatusCreated, UserEnvelope{Success: true, User: u})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, h.log, "get-user", err)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{Success: true, User: u})
}

type uploadAvatarRequest struct {
	Filename string `json:"filename"`
	Data     string `json:"data"` // base64-encoded image
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	var req uploadAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Filename == "" || req.Data == "" {
		writeError(w, http.StatusBadRequest, "filename and data required")
		return
	}
	url, err := h.svc.UploadAvatar(r.Context(), chi.URLParam(r, "id"), req.Filename, req.Data)
	if err != nil {
		writeDomainError(w, h.log, "upload-avatar", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "url": url})
}
