package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"gate-backend/internal/middleware"
	"gate-backend/internal/services"
)

type TOTPHandler struct {
	Service *services.TOTPService
}

func NewTOTPHandler(s *services.TOTPService) *TOTPHandler {
	return &TOTPHandler{Service: s}
}

// Setup starts 2FA enrollment for the authenticated user.
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	resp, err := h.Service.GenerateSetup(context.Background(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Enable confirms enrollment with a code from the authenticator app.
func (h *TOTPHandler) Enable(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.VerifyAndEnable(context.Background(), userID, req.Code); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"enabled": true})
}

// Disable turns 2FA off; requires the password and a current code.
func (h *TOTPHandler) Disable(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		Password string `json:"password"`
		Code     string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Disable(context.Background(), userID, req.Password, req.Code); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"enabled": false})
}
