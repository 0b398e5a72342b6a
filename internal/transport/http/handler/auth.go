package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/campusmatch/api/internal/application/auth"
	"github.com/campusmatch/api/internal/pkg/validate"
)

// AuthHandler handles the OTP login endpoints.
type AuthHandler struct {
	svc        auth.Service
	exposeCode bool
	log        *slog.Logger
}

func NewAuthHandler(svc auth.Service, exposeCode bool, log *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, exposeCode: exposeCode, log: log}
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.IssueCode(r.Context(), req.Email)
	if err != nil {
		writeDomainError(w, h.log, "send-otp", err)
		return
	}
	env := SendOTPEnvelope{Success: true, IsNewUser: res.IsNewUser}
	if h.exposeCode {
		env.OTP = res.Code
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.VerifyCode(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeDomainError(w, h.log, "verify-otp", err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyOTPEnvelope{
		Success:   true,
		IsNewUser: res.IsNewUser,
		User:      res.User,
	})
}
