package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	httpapi "invite-redirector/internal/api/http"
	"invite-redirector/internal/config"
	"invite-redirector/internal/jobs"
	"invite-redirector/internal/logger"
	"invite-redirector/internal/notify"
	"invite-redirector/internal/scheduler"
	"invite-redirector/internal/security"
	"invite-redirector/internal/service"
	"invite-redirector/internal/storage"
	"invite-redirector/internal/validator"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to configuration file (optional, env vars always apply)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Invite Redirector...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Invite policy", "ttl_days", cfg.Invite.TTLDays, "warning_days", cfg.Invite.WarningDays, "key", cfg.Invite.Key)

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set, admin endpoints will reject every request")
	}
	if cfg.Auth.CronSecret == "" {
		logger.Warn("CRON_SECRET is not set, the cron endpoint will reject every request")
	}

	// Initialize record store
	ctx := context.Background()
	store, closeStore, err := storage.Open(ctx, cfg.Storage, cfg.Invite.Key)
	if err != nil {
		logger.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer closeStore()

	// Initialize services
	linkValidator := validator.New(validator.Options{
		AllowedHosts: cfg.Invite.AllowedHosts,
		Timeout:      cfg.Invite.ValidateTimeout(),
		UserAgent:    cfg.Invite.UserAgent,
	})
	notifier := notify.FromConfig(cfg.Notify)
	inviteSvc := service.NewInviteService(store, linkValidator, notifier, service.Policy{
		TTLDays:     cfg.Invite.TTLDays,
		WarningDays: cfg.Invite.WarningDays,
	})

	// Initialize security
	tokenManager := security.NewTokenManager(jwtSecretOrRandom(cfg.Auth.JWTSecret), cfg.Auth.AdminEmails)

	// Set up HTTP server
	handler := httpapi.NewInviteHandler(inviteSvc, cfg.AdminURL)
	router := httpapi.NewRouter(handler, httpapi.NewAuthMiddleware(tokenManager, cfg.Auth.CronSecret))

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Invite.ValidateTimeout() + 20*time.Second,
	}

	// In-process scheduler for deployments without an external cron caller
	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		cronScheduler = scheduler.NewScheduler(jobs.NewJobRunner(inviteSvc, cfg))
		cronScheduler.Start()
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

// jwtSecretOrRandom keeps an unset secret from accepting tokens signed with
// an empty key.
func jwtSecretOrRandom(secret string) string {
	if secret != "" {
		return secret
	}
	return uuid.NewString() + uuid.NewString()
}
