package http

import (
	"net/http"

	"gate-backend/internal/handlers"
	"gate-backend/internal/live"
	"gate-backend/internal/middleware"
	"gate-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	totpHandler *handlers.TOTPHandler,
	userHandler *handlers.UserHandler,
	inwardHandler *handlers.InwardHandler,
	outwardHandler *handlers.OutwardHandler,
	lookupHandler *handlers.LookupHandler,
	exportHandler *handlers.ExportHandler,
	monitoringHandler *handlers.MonitoringHandler,
	healthHandler *handlers.HealthHandler,
	hub *live.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	writer := middleware.RequireRole(models.RoleAdmin, models.RoleUser)
	admin := middleware.RequireRole(models.RoleAdmin)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/totp/verify", authHandler.VerifyTOTP).Methods("POST")

	// Protected API routes - Session and 2FA management
	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/me", authHandler.Me).Methods("GET")
	authAPI.HandleFunc("/totp/setup", totpHandler.Setup).Methods("POST")
	authAPI.HandleFunc("/totp/enable", totpHandler.Enable).Methods("POST")
	authAPI.HandleFunc("/totp/disable", totpHandler.Disable).Methods("POST")

	// Protected API routes - Inward register. Viewers may read but not write.
	inwardAPI := r.PathPrefix("/api/inward").Subrouter()
	inwardAPI.Use(authMiddleware.Authenticate)
	inwardAPI.HandleFunc("", inwardHandler.List).Methods("GET")
	inwardAPI.HandleFunc("", writer(http.HandlerFunc(inwardHandler.Create)).ServeHTTP).Methods("POST")
	inwardAPI.HandleFunc("/next-serial", writer(http.HandlerFunc(inwardHandler.NextSerial)).ServeHTTP).Methods("GET")
	inwardAPI.HandleFunc("/export", exportHandler.ExportInward).Methods("GET")
	inwardAPI.HandleFunc("/{id}", inwardHandler.Get).Methods("GET")
	inwardAPI.HandleFunc("/{id}/time-out", writer(http.HandlerFunc(inwardHandler.SetTimeOut)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Outward register
	outwardAPI := r.PathPrefix("/api/outward").Subrouter()
	outwardAPI.Use(authMiddleware.Authenticate)
	outwardAPI.HandleFunc("", outwardHandler.List).Methods("GET")
	outwardAPI.HandleFunc("", writer(http.HandlerFunc(outwardHandler.Create)).ServeHTTP).Methods("POST")
	outwardAPI.HandleFunc("/next-serial", writer(http.HandlerFunc(outwardHandler.NextSerial)).ServeHTTP).Methods("GET")
	outwardAPI.HandleFunc("/export", exportHandler.ExportOutward).Methods("GET")
	outwardAPI.HandleFunc("/{id}", outwardHandler.Get).Methods("GET")
	outwardAPI.HandleFunc("/{id}", writer(http.HandlerFunc(outwardHandler.Update)).ServeHTTP).Methods("PUT")
	outwardAPI.HandleFunc("/{id}/time-out", writer(http.HandlerFunc(outwardHandler.SetTimeOut)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Driver/vehicle autofill and bill pre-check
	lookupAPI := r.PathPrefix("/api/lookup").Subrouter()
	lookupAPI.Use(authMiddleware.Authenticate)
	lookupAPI.HandleFunc("/drivers", lookupHandler.ListDrivers).Methods("GET")
	lookupAPI.HandleFunc("/drivers/{mobile}", lookupHandler.GetDriver).Methods("GET")
	lookupAPI.HandleFunc("/vehicles", lookupHandler.ListVehicles).Methods("GET")
	lookupAPI.HandleFunc("/vehicles/{number}", lookupHandler.GetVehicle).Methods("GET")
	lookupAPI.HandleFunc("/bill-check", lookupHandler.CheckBill).Methods("GET")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", admin(http.HandlerFunc(userHandler.ListUsers)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("", admin(http.HandlerFunc(userHandler.CreateUser)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/{id}", admin(http.HandlerFunc(userHandler.GetUser)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/{id}/disabled", admin(http.HandlerFunc(userHandler.SetDisabled)).ServeHTTP).Methods("PATCH")
	usersAPI.HandleFunc("/{id}/password", admin(http.HandlerFunc(userHandler.ChangePassword)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Admin audit and monitoring
	adminAPI := r.PathPrefix("/api/admin").Subrouter()
	adminAPI.Use(authMiddleware.Authenticate)
	adminAPI.HandleFunc("/login-logs", admin(http.HandlerFunc(userHandler.LoginLogs)).ServeHTTP).Methods("GET")
	adminAPI.HandleFunc("/system-stats", admin(http.HandlerFunc(monitoringHandler.Stats)).ServeHTTP).Methods("GET")

	// Live gate activity feed (authenticated via token in the upgrade request)
	liveAPI := r.PathPrefix("/api/live").Subrouter()
	liveAPI.Use(authMiddleware.Authenticate)
	liveAPI.HandleFunc("/feed", hub.ServeWS).Methods("GET")

	// Health endpoints (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
