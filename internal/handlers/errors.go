package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gate-backend/internal/apperrors"
	"gate-backend/internal/services"
)

// respondError maps service errors to HTTP statuses. Unexpected errors
// are logged with their cause and surfaced as a generic 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrDuplicateBill),
		errors.Is(err, apperrors.ErrInvalidMaterial),
		errors.Is(err, apperrors.ErrMissingRequiredFields),
		errors.Is(err, services.ErrInvalidRole):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperrors.ErrAccessDenied):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, apperrors.ErrEditLocked):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, services.ErrEmailTaken):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidTOTPCode),
		errors.Is(err, services.ErrInvalidPassword):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, services.ErrAccountDisabled):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, services.ErrNoTOTPSecret),
		errors.Is(err, services.ErrTOTPNotEnabled):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrEntryCreationFailed):
		log.Printf("[HTTP] %v", err)
		message = apperrors.ErrEntryCreationFailed.Error()
	case errors.Is(err, apperrors.ErrEntryUpdateFailed):
		log.Printf("[HTTP] %v", err)
		message = apperrors.ErrEntryUpdateFailed.Error()
	default:
		log.Printf("[HTTP] internal error: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
