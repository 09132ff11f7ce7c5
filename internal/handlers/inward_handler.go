package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"gate-backend/internal/middleware"
	"gate-backend/internal/models"
	"gate-backend/internal/services"

	"github.com/gorilla/mux"
)

type InwardHandler struct {
	Service *services.InwardService
}

func NewInwardHandler(s *services.InwardService) *InwardHandler {
	return &InwardHandler{Service: s}
}

// NextSerial previews the serial for the entry form. Advisory only; the
// authoritative serial is assigned at creation.
func (h *InwardHandler) NextSerial(w http.ResponseWriter, r *http.Request) {
	serial := h.Service.NextSerial(context.Background())
	respondJSON(w, http.StatusOK, map[string]string{"serial_number": serial})
}

func (h *InwardHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	var req models.CreateInwardEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PartyName == "" || req.EntryType == "" {
		http.Error(w, "party name and entry type are required", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.Create(context.Background(), principal, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

func (h *InwardHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	entries, err := h.Service.List(context.Background(), principal)
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []*models.InwardEntry{}
	}

	respondJSON(w, http.StatusOK, entries)
}

func (h *InwardHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.Get(context.Background(), principal, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// SetTimeOut stamps the vehicle's departure time with the server clock.
func (h *InwardHandler) SetTimeOut(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.SetTimeOut(context.Background(), principal, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}
