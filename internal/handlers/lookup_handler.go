package handlers

import (
	"context"
	"errors"
	"net/http"

	"gate-backend/internal/apperrors"
	"gate-backend/internal/repositories"
	"gate-backend/internal/services"

	"github.com/gorilla/mux"
)

// LookupHandler serves the small reference endpoints the entry forms use:
// driver and vehicle autofill, and the advisory bill number pre-check.
type LookupHandler struct {
	Drivers  *repositories.DriverRepository
	Vehicles *repositories.VehicleRepository
	Bills    *services.BillService
}

func NewLookupHandler(drivers *repositories.DriverRepository, vehicles *repositories.VehicleRepository, bills *services.BillService) *LookupHandler {
	return &LookupHandler{Drivers: drivers, Vehicles: vehicles, Bills: bills}
}

func (h *LookupHandler) GetDriver(w http.ResponseWriter, r *http.Request) {
	driver, err := h.Drivers.GetByMobile(context.Background(), mux.Vars(r)["mobile"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, driver)
}

func (h *LookupHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.Drivers.List(context.Background())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, drivers)
}

func (h *LookupHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.Vehicles.GetByNumber(context.Background(), mux.Vars(r)["number"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

func (h *LookupHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Vehicles.List(context.Background())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

// CheckBill is the interactive duplicate pre-check used while a user
// types a bill number. Advisory only; the authoritative check runs
// inside entry creation.
func (h *LookupHandler) CheckBill(w http.ResponseWriter, r *http.Request) {
	billNumber := r.URL.Query().Get("bill_number")
	if billNumber == "" {
		http.Error(w, "bill_number query parameter required", http.StatusBadRequest)
		return
	}

	err := h.Bills.CheckAvailable(context.Background(), billNumber)
	if err != nil && !errors.Is(err, apperrors.ErrDuplicateBill) {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"available": err == nil})
}
