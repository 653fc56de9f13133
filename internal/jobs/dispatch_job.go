package jobs

import (
	"context"
	"errors"
	"log/slog"

	"laundrybot/internal/core/application/usecases/commands"
	"laundrybot/internal/core/domain/model/request"

	"github.com/robfig/cron/v3"
)

// DispatchJob matches requests that need a robot with the available fleet.
// It runs every 5 seconds and picks up both pickup legs (Accepted) and
// delivery legs (FinishedWashing). A tick with no free robot is normal;
// the request simply waits for the next one.
type DispatchJob struct {
	uowFactory commands.RequestUoWFactory
	handler    commands.DispatchRobotCommandHandler
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewDispatchJob creates the dispatch schedule.
func NewDispatchJob(
	uowFactory commands.RequestUoWFactory,
	handler commands.DispatchRobotCommandHandler,
	logger *slog.Logger,
) *DispatchJob {
	return &DispatchJob{
		uowFactory: uowFactory,
		handler:    handler,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "dispatch_job"),
	}
}

// Start begins the dispatch ticks.
func (j *DispatchJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()
		if err := j.tick(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Dispatch tick failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch job started (running every 5 seconds)")
	return nil
}

// Stop stops the dispatch ticks.
func (j *DispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Dispatch job stopped")
}

func (j *DispatchJob) tick(ctx context.Context) error {
	waiting, err := j.scan(ctx)
	if err != nil {
		return err
	}

	for _, id := range waiting {
		cmd, err := commands.NewDispatchRobotCommand(id)
		if err != nil {
			return err
		}

		err = j.handler.Handle(ctx, cmd)
		if errors.Is(err, commands.ErrNoRobotAvailable) {
			// The whole fleet is busy; later requests cannot do better.
			return nil
		}
		if err != nil {
			j.logger.ErrorContext(ctx, "Dispatch failed", "request_id", id, "error", err)
		}
	}
	return nil
}

// scan lists requests waiting for a robot, oldest first. The dispatch
// handler re-checks the status under the request lock, so a stale result
// here costs one wasted handler call at most.
func (j *DispatchJob) scan(ctx context.Context) ([]int64, error) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	active, err := uow.RequestRepository().GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	var waiting []int64
	for _, aggregate := range active {
		if aggregate.Status() == request.Accepted || aggregate.Status() == request.FinishedWashing {
			waiting = append(waiting, aggregate.ID())
		}
	}
	return waiting, nil
}
