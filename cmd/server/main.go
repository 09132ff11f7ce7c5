package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"gate-backend/internal/auth"
	"gate-backend/internal/config"
	"gate-backend/internal/database"
	"gate-backend/internal/handlers"
	h "gate-backend/internal/http"
	"gate-backend/internal/live"
	"gate-backend/internal/middleware"
	"gate-backend/internal/repositories"
	"gate-backend/internal/services"
	"gate-backend/internal/timeutil"
	"gate-backend/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

func connectDatabase(cfg *config.Config) *pgxpool.Pool {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		log.Fatalf("Invalid database config: %v", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.PoolSize)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to database %s@%s:%d: %v",
			cfg.Database.Name, cfg.Database.Host, cfg.Database.Port, err)
	}

	log.Printf("[DB] connected to %s@%s:%d (pool size %d)",
		cfg.Database.Name, cfg.Database.Host, cfg.Database.Port, cfg.Database.PoolSize)
	return pool
}

func main() {
	var skipMigrations bool
	flag.BoolVar(&skipMigrations, "skip-migrations", false, "skip running database migrations on startup")
	flag.Parse()

	cfg := config.Load()
	pool := connectDatabase(cfg)
	defer pool.Close()

	ctx := context.Background()

	if !skipMigrations {
		migrator := database.NewMigrator(pool, migrations.FS)
		if err := migrator.RunMigrations(ctx); err != nil {
			log.Fatalf("Migrations failed: %v", err)
		}
	}

	clock := timeutil.SystemClock{}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	loginLogRepo := repositories.NewLoginLogRepository(pool)
	inwardRepo := repositories.NewInwardEntryRepository(pool)
	outwardRepo := repositories.NewOutwardEntryRepository(pool)
	driverRepo := repositories.NewDriverRepository(pool)
	vehicleRepo := repositories.NewVehicleRepository(pool)

	// Live feed
	hub := live.NewHub()
	go hub.Run()

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, loginLogRepo, jwtManager)
	totpService := services.NewTOTPService(userRepo)
	serialService := services.NewSerialService(clock)
	billService := services.NewBillService(inwardRepo, outwardRepo)
	inwardService := services.NewInwardService(inwardRepo, serialService, billService, clock, hub)
	outwardService := services.NewOutwardService(outwardRepo, serialService, billService, clock, hub)
	exportService := services.NewExportService(clock)
	archiveService := services.NewArchiveService(cfg, inwardService, outwardService, exportService, clock)

	// Seed the first admin so a fresh install is reachable
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		if err := userService.EnsureDefaultAdmin(ctx, adminEmail, adminPassword); err != nil {
			log.Fatalf("Admin seed failed: %v", err)
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, totpService, jwtManager)
	totpHandler := handlers.NewTOTPHandler(totpService)
	userHandler := handlers.NewUserHandler(userService)
	inwardHandler := handlers.NewInwardHandler(inwardService)
	outwardHandler := handlers.NewOutwardHandler(outwardService)
	lookupHandler := handlers.NewLookupHandler(driverRepo, vehicleRepo, billService)
	exportHandler := handlers.NewExportHandler(inwardService, outwardService, exportService)
	monitoringHandler := handlers.NewMonitoringHandler(pool)
	healthHandler := handlers.NewHealthHandler(pool)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		totpHandler,
		userHandler,
		inwardHandler,
		outwardHandler,
		lookupHandler,
		exportHandler,
		monitoringHandler,
		healthHandler,
		hub,
		authMiddleware,
	)

	go archiveService.Run(ctx)

	handler := middleware.PanicRecovery(
		middleware.RequestLogging(
			middleware.MetricsMiddleware(
				corsMiddleware(router))))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Server] gate register listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
