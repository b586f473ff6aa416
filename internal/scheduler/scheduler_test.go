package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"invite-redirector/internal/config"
	"invite-redirector/internal/jobs"
)

func newRunner(schedule string) *jobs.JobRunner {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{Enabled: true, CheckInvite: schedule}}
	return jobs.NewJobRunner(nil, cfg)
}

func TestNewScheduler_RegistersCheckInvite(t *testing.T) {
	s := NewScheduler(newRunner("0 0 9 * * *"))

	assert.True(t, s.IsRunning())

	next := s.NextRun()
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.Equal(t, time.UTC, next.Location())
	assert.True(t, next.After(time.Now()))
}

func TestNewScheduler_BadSchedule(t *testing.T) {
	s := NewScheduler(newRunner("every day"))

	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun().IsZero())
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(newRunner("0 0 9 * * *"))
	s.Start()
	s.Stop()
}
