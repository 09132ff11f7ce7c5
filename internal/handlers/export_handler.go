package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gate-backend/internal/middleware"
	"gate-backend/internal/services"
	"gate-backend/internal/timeutil"
)

// ExportHandler streams a register download in the requested format.
type ExportHandler struct {
	Inward  *services.InwardService
	Outward *services.OutwardService
	Exports *services.ExportService
}

func NewExportHandler(inward *services.InwardService, outward *services.OutwardService, exports *services.ExportService) *ExportHandler {
	return &ExportHandler{Inward: inward, Outward: outward, Exports: exports}
}

// ExportInward handles GET /api/inward/export?format=csv&date=2024-11-03
func (h *ExportHandler) ExportInward(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	date, ok := parseDateParam(r)
	if !ok {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	data, err := h.Inward.ExportRows(context.Background(), principal, date)
	if err != nil {
		respondError(w, err)
		return
	}

	h.serve(w, r, data, "inward_register")
}

// ExportOutward handles GET /api/outward/export?format=csv&date=2024-11-03
func (h *ExportHandler) ExportOutward(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	date, ok := parseDateParam(r)
	if !ok {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	data, err := h.Outward.ExportRows(context.Background(), principal, date)
	if err != nil {
		respondError(w, err)
		return
	}

	h.serve(w, r, data, "outward_register")
}

func (h *ExportHandler) serve(w http.ResponseWriter, r *http.Request, data *services.ExportData, baseName string) {
	format := strings.ToLower(r.URL.Query().Get("format"))

	file, err := h.Exports.Render(data, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", baseName, timeutil.Now().Format(timeutil.DateLayout), file.Extension)
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(file.Content)
}

func parseDateParam(r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return "", true
	}
	if _, err := time.Parse(timeutil.DateLayout, date); err != nil {
		return "", false
	}
	return date, true
}
