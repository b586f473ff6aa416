package jobs

import (
	"context"
	"time"

	"invite-redirector/internal/config"
	"invite-redirector/internal/domain"
	"invite-redirector/internal/logger"
	"invite-redirector/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	invites service.InviteService
	config  *config.Config
	timeout time.Duration
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(invites service.InviteService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		invites: invites,
		config:  cfg,
		timeout: 2 * time.Minute,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// CheckInvite runs the scheduled invitation check and returns its result.
// The result is nil if the check panicked.
func (jr *JobRunner) CheckInvite() *domain.CheckResult {
	var result *domain.CheckResult
	jr.runWithRecovery("CheckInvite", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
		defer cancel()

		result = jr.invites.Check(ctx)
		if !result.Checked {
			logger.Info("No invite link to check")
			return
		}
		logger.Info("Invite check finished",
			"action", result.Action,
			"days_left", result.DaysLeft,
			"is_valid", result.IsValid,
			"is_active", result.IsActive,
			"notification_sent", result.NotificationSent)
	})
	return result
}

// RunCheckInvite is CheckInvite without a result, for the cron scheduler
func (jr *JobRunner) RunCheckInvite() {
	jr.CheckInvite()
}
