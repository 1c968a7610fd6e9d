package handler

import (
	"net/http"

	"github.com/school-api/internal/application/auth"
	"github.com/school-api/internal/domain"
)

// AuthHandler handles phone OTP login.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.RequestOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	if err := h.svc.RequestOTP(r.Context(), req); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "if the number is registered, a code has been sent"})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, r, err)
		return
	}
	res, err := h.svc.VerifyOTP(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Bearer: res.Token, User: res.User})
}
