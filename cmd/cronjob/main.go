package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"invite-redirector/internal/config"
	"invite-redirector/internal/jobs"
	"invite-redirector/internal/logger"
	"invite-redirector/internal/notify"
	"invite-redirector/internal/scheduler"
	"invite-redirector/internal/service"
	"invite-redirector/internal/storage"
	"invite-redirector/internal/validator"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to configuration file (optional, env vars always apply)")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'check-invite')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Invite Cronjob Runner...", "log_level", cfg.Log.Level)

	store, closeStore, err := storage.Open(context.Background(), cfg.Storage, cfg.Invite.Key)
	if err != nil {
		logger.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer closeStore()

	inviteSvc := service.NewInviteService(
		store,
		validator.New(validator.Options{
			AllowedHosts: cfg.Invite.AllowedHosts,
			Timeout:      cfg.Invite.ValidateTimeout(),
			UserAgent:    cfg.Invite.UserAgent,
		}),
		notify.FromConfig(cfg.Notify),
		service.Policy{TTLDays: cfg.Invite.TTLDays, WarningDays: cfg.Invite.WarningDays},
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(inviteSvc, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			closeStore()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)
	if !cronScheduler.IsRunning() {
		log.Fatalf("No jobs registered, check scheduler.check_invite")
	}

	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "next_run", cronScheduler.NextRun())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and prints its result
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	switch jobName {
	case "check-invite":
		result := jobRunner.CheckInvite()
		if result == nil {
			return false
		}
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		return true
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - check-invite\n")
		return false
	}
}
