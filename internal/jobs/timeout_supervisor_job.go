package jobs

import (
	"context"
	"log/slog"

	"laundrybot/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// TimeoutSupervisorJob runs the timeout supervisor every 30 seconds. The
// supervisor recomputes dwell from persisted timestamps on every pass, so
// the schedule only bounds detection latency, never correctness.
type TimeoutSupervisorJob struct {
	handler commands.SuperviseTimeoutsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewTimeoutSupervisorJob creates the supervisor schedule.
func NewTimeoutSupervisorJob(handler commands.SuperviseTimeoutsCommandHandler, logger *slog.Logger) *TimeoutSupervisorJob {
	return &TimeoutSupervisorJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "timeout_supervisor_job"),
	}
}

// Start begins the supervision passes.
func (j *TimeoutSupervisorJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewSuperviseTimeoutsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Timeout supervision pass failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Timeout supervisor job started (running every 30 seconds)")
	return nil
}

// Stop stops the supervision passes.
func (j *TimeoutSupervisorJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Timeout supervisor job stopped")
}
