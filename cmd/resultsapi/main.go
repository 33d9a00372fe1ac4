package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"btebresults/internal/config"
	"btebresults/internal/database"
	"btebresults/internal/handlers"
	"btebresults/internal/repository"
	"btebresults/internal/resultsapi"
	"btebresults/internal/security"
)

func main() {
	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	api := resultsapi.NewServer(
		repository.NewResultRepository(db),
		repository.NewAdminRepository(db),
		repository.NewDocumentRepository(db),
		security.NewRateLimiter(10, time.Minute),
		cfg.Debug,
	)
	if err := api.Seed(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	addr := ":" + cfg.APIPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.Logging(api.Routes()),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Results API starting on http://localhost%s/api", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Results API failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Results API shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
