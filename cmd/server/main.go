package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"parcel-backend/internal/auth"
	"parcel-backend/internal/cache"
	"parcel-backend/internal/config"
	"parcel-backend/internal/database"
	"parcel-backend/internal/db"
	"parcel-backend/internal/handlers"
	"parcel-backend/internal/health"
	h "parcel-backend/internal/http"
	"parcel-backend/internal/logger"
	"parcel-backend/internal/middleware"
	"parcel-backend/internal/monitoring"
	"parcel-backend/internal/repositories"
	"parcel-backend/internal/services"
	"parcel-backend/internal/storage"
	"parcel-backend/migrations"
)

func main() {
	// Parse command-line flags
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Warnf("[Redis] Cache unavailable: %v (statements will be rebuilt on every request)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
		defer cache.Close()
	}

	// Run database migrations
	log.Println("Running database migrations...")
	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err := database.NewMigrator(pool, migrations.FS).RunMigrations(migrateCtx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Statement archive (optional)
	var archive services.Archiver
	archiver, err := storage.New(ctx, cfg)
	if err != nil {
		log.Warnf("[Storage] Archive disabled: %v", err)
	} else if archiver != nil {
		archive = archiver
		log.Printf("[Storage] Archiving statements to bucket %s", cfg.Storage.Bucket)
	}

	hub := monitoring.NewHub()
	go hub.Run(ctx)

	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	vendorRepo := repositories.NewVendorRepository(pool)
	recordRepo := repositories.NewDeliveryRecordRepository(pool)

	// Initialize services
	ledgerStore := cache.Store{}
	userService := services.NewUserService(userRepo, jwtManager)
	vendorService := services.NewVendorService(vendorRepo, ledgerStore)
	ledgerService := services.NewLedgerService(
		recordRepo,
		vendorRepo,
		ledgerStore,
		time.Duration(cfg.Ledger.CacheTTLMinutes)*time.Minute,
		cfg.Ledger.BalanceWorkers,
	)
	recordService := services.NewDeliveryRecordService(recordRepo, ledgerService, hub)
	exportService := services.NewExportService(ledgerService, archive)

	// Initialize handlers
	healthChecker := health.NewHealthChecker(pool, cache.IsHealthy, hub)
	router := h.NewRouter(
		handlers.NewAuthHandler(userService),
		handlers.NewVendorHandler(vendorService),
		handlers.NewDeliveryRecordHandler(recordService),
		handlers.NewLedgerHandler(ledgerService, exportService),
		handlers.NewMonitoringHandler(hub),
		handlers.NewHealthHandler(healthChecker),
		middleware.NewAuthMiddleware(jwtManager, userRepo),
	)

	// Wrap with panic recovery, request logging and CORS
	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.RequestLogger(corsMiddleware(router)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}
