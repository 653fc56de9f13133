package jobs

import (
	"context"
	"log/slog"
	"time"

	"laundrybot/internal/core/registry"

	"github.com/robfig/cron/v3"
)

// LivenessSweepJob marks robots offline when their heartbeats stop. It runs
// every 10 seconds against the registry; bound requests are left alone, the
// timeout supervisor deals with them on its own schedule.
type LivenessSweepJob struct {
	fleet  *registry.Registry
	grace  time.Duration
	cron   *cron.Cron
	logger *slog.Logger
}

// NewLivenessSweepJob creates the sweep schedule with the given heartbeat
// grace period.
func NewLivenessSweepJob(fleet *registry.Registry, grace time.Duration, logger *slog.Logger) *LivenessSweepJob {
	return &LivenessSweepJob{
		fleet:  fleet,
		grace:  grace,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "liveness_sweep_job"),
	}
}

// Start begins the liveness sweeps.
func (j *LivenessSweepJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()

		swept, err := j.fleet.SweepOffline(ctx, j.grace, time.Now())
		if err != nil {
			j.logger.ErrorContext(ctx, "Liveness sweep failed", "error", err)
			return
		}
		if len(swept) > 0 {
			j.logger.WarnContext(ctx, "Robots marked offline", "robots", swept)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Liveness sweep job started (running every 10 seconds)")
	return nil
}

// Stop stops the liveness sweeps.
func (j *LivenessSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Liveness sweep job stopped")
}
