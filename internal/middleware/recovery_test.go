package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gate-backend/internal/middleware"

	"github.com/stretchr/testify/assert"
)

func TestPanicRecoveryReturns500(t *testing.T) {
	handler := middleware.PanicRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inward", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestPanicRecoveryPassesThrough(t *testing.T) {
	handler := middleware.PanicRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
