package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"laundrybot/internal/core/application/usecases/commands"
	"laundrybot/internal/core/registry"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	dispatchJob          *DispatchJob
	timeoutSupervisorJob *TimeoutSupervisorJob
	livenessSweepJob     *LivenessSweepJob
}

// NewJobManager creates a job manager with all required jobs.
// Takes command handlers and the fleet registry as dependencies.
func NewJobManager(
	uowFactory commands.RequestUoWFactory,
	dispatchHandler commands.DispatchRobotCommandHandler,
	superviseHandler commands.SuperviseTimeoutsCommandHandler,
	fleet *registry.Registry,
	heartbeatGrace time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		dispatchJob:          NewDispatchJob(uowFactory, dispatchHandler, logger),
		timeoutSupervisorJob: NewTimeoutSupervisorJob(superviseHandler, logger),
		livenessSweepJob:     NewLivenessSweepJob(fleet, heartbeatGrace, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start dispatch job: %w", err)
	}

	if err := jm.timeoutSupervisorJob.Start(); err != nil {
		jm.dispatchJob.Stop()
		return fmt.Errorf("failed to start timeout supervisor job: %w", err)
	}

	if err := jm.livenessSweepJob.Start(); err != nil {
		jm.timeoutSupervisorJob.Stop()
		jm.dispatchJob.Stop()
		return fmt.Errorf("failed to start liveness sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.livenessSweepJob.Stop()
	jm.timeoutSupervisorJob.Stop()
	jm.dispatchJob.Stop()
}
