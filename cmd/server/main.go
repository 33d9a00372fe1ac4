package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"btebresults/internal/config"
	"btebresults/internal/gateway"
	"btebresults/internal/handlers"
	"btebresults/internal/security"
	"btebresults/internal/service"
	"btebresults/internal/validation"
)

const (
	loginRateLimit  = 30
	cleanupInterval = 10 * time.Minute
)

func main() {
	cfg := config.Load()

	if cfg.UploadReportEmail != "" {
		if err := validation.ValidateEmail(cfg.UploadReportEmail); err != nil {
			log.Fatalf("Invalid UPLOAD_REPORT_EMAIL: %v", err)
		}
	}

	templates, err := handlers.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := gateway.NewHTTPClient(ctx, cfg.ResultsAPITimeout, gateway.AuthConfig{
		ClientID:     cfg.ResultsAPIClientID,
		ClientSecret: cfg.ResultsAPIClientSecret,
		TokenURL:     cfg.ResultsAPITokenURL,
	})
	resultsAPI := gateway.NewClient(cfg.ResultsAPIURL, httpClient)
	resultsAPI.Debug = cfg.Debug

	log.Printf("Results API: %s (timeout %s)", cfg.ResultsAPIURL, cfg.ResultsAPITimeout)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.Debug)
	if err != nil {
		log.Printf("Warning: Upload report email disabled: %v", err)
		emailService = nil
	} else if emailService.IsEnabled() && cfg.UploadReportEmail == "" {
		log.Println("Warning: UPLOAD_REPORT_EMAIL not set, upload reports will not be sent")
	}

	sessionService := service.NewSessionService(cfg.SessionDuration)
	resultService := service.NewResultService(resultsAPI, cfg.Debug)
	adminService := service.NewAdminService(resultsAPI, cfg.SessionDuration, cfg.Debug)
	uploadService := service.NewUploadService(resultsAPI, emailService, cfg.UploadReportEmail, cfg.Debug)

	limiter := security.NewRateLimiter(loginRateLimit, time.Minute)
	middleware := handlers.NewMiddleware(
		sessionService,
		security.NewTokenIssuer(cfg.SessionSecret, cfg.SessionDuration),
		security.NewCSRFGenerator(cfg.SessionSecret),
		limiter,
		cfg.Debug,
	)
	resultsHandler := handlers.NewResultsHandler(templates, resultService)
	adminHandler := handlers.NewAdminHandler(templates, adminService, uploadService, middleware)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.NewRouter(cfg.StaticFilesPath, resultsHandler, adminHandler, middleware),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.ResultsAPITimeout + 30*time.Second, // uploads wait for the results API
		IdleTimeout:  60 * time.Second,
	}

	go cleanupLoop(ctx, sessionService, limiter)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupLoop forgets idle visitors and stale rate limit buckets
func cleanupLoop(ctx context.Context, sessions *service.SessionService, limiter *security.RateLimiter) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.CleanupExpiredSessions()
			limiter.Cleanup()
		}
	}
}
