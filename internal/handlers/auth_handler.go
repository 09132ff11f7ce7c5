package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"gate-backend/internal/auth"
	"gate-backend/internal/middleware"
	"gate-backend/internal/models"
	"gate-backend/internal/services"
)

type AuthHandler struct {
	Users      *services.UserService
	TOTP       *services.TOTPService
	JWTManager *auth.JWTManager
}

func NewAuthHandler(users *services.UserService, totp *services.TOTPService, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{Users: users, TOTP: totp, JWTManager: jwtManager}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Users.Login(context.Background(), &req, clientIP(r), r.UserAgent())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// VerifyTOTP completes a two-factor login: it validates the temp token
// from the first step plus the authenticator code, then issues a real
// session token.
func (h *AuthHandler) VerifyTOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TempToken string `json:"temp_token"`
		Code      string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	claims, err := h.JWTManager.ValidateTempToken(req.TempToken)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	if err := h.TOTP.Verify(context.Background(), claims.UserID, req.Code); err != nil {
		respondError(w, err)
		return
	}

	resp, err := h.Users.CompleteTOTPLogin(context.Background(), claims.UserID, clientIP(r), r.UserAgent())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Me returns the authenticated user's own record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.Get(context.Background(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
