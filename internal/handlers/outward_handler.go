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

type OutwardHandler struct {
	Service *services.OutwardService
}

func NewOutwardHandler(s *services.OutwardService) *OutwardHandler {
	return &OutwardHandler{Service: s}
}

func (h *OutwardHandler) NextSerial(w http.ResponseWriter, r *http.Request) {
	serial := h.Service.NextSerial(context.Background())
	respondJSON(w, http.StatusOK, map[string]string{"serial_number": serial})
}

func (h *OutwardHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	var req models.CreateOutwardEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.Create(context.Background(), principal, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

// Update fills in commercial details on an open entry. Only the creator
// may update, and completed entries are locked.
func (h *OutwardHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateOutwardEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.Update(context.Background(), principal, id, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

func (h *OutwardHandler) List(w http.ResponseWriter, r *http.Request) {
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
		entries = []*models.OutwardEntry{}
	}

	respondJSON(w, http.StatusOK, entries)
}

func (h *OutwardHandler) Get(w http.ResponseWriter, r *http.Request) {
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

func (h *OutwardHandler) SetTimeOut(w http.ResponseWriter, r *http.Request) {
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
