package commands

import (
	"context"
	"log/slog"
	"time"

	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/core/ports"
	"laundrybot/internal/core/registry"
	"laundrybot/internal/pkg/locker"
)

// ReportStageCommandHandler applies manually confirmed lifecycle steps.
type ReportStageCommandHandler struct {
	uowFactory RequestUoWFactory
	locks      *locker.KeyedLocker
	fleet      *registry.Registry
	commander  ports.RobotCommander
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewReportStageCommandHandler creates a handler for stage reports.
func NewReportStageCommandHandler(
	uowFactory RequestUoWFactory,
	locks *locker.KeyedLocker,
	fleet *registry.Registry,
	commander ports.RobotCommander,
	notifier ports.Notifier,
	logger *slog.Logger,
) ReportStageCommandHandler {
	return ReportStageCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		fleet:      fleet,
		commander:  commander,
		notifier:   notifier,
		logger:     logger.With("component", "report_stage"),
	}
}

// Handle applies the confirmed step and runs its follow-up: a loaded or
// handed-over robot is recalled to base, a payment request notifies the
// customer, completion frees the robot.
func (h ReportStageCommandHandler) Handle(ctx context.Context, command ReportStageCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	release, err := h.locks.Acquire(ctx, requestKey(command.RequestID()))
	if err != nil {
		return err
	}
	defer release()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	requestRepo := uow.RequestRepository()

	aggregate, err := requestRepo.Get(ctx, command.RequestID())
	if err != nil {
		return err
	}
	robotName := aggregate.RobotName()

	now := time.Now()
	switch command.Action() {
	case ActionLoaded:
		err = aggregate.MarkLoaded(now)
	case ActionHandover:
		err = aggregate.MarkHandover(now)
	case ActionRequestPayment:
		err = aggregate.RequestPayment(now)
	case ActionFinishWashing:
		err = aggregate.FinishWashing(now)
	case ActionComplete:
		err = aggregate.Complete(now)
	}
	if err != nil {
		return err
	}

	if err = requestRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.followUp(ctx, command.Action(), aggregate, robotName)
	return nil
}

func (h ReportStageCommandHandler) followUp(ctx context.Context, action StageAction, aggregate *request.LaundryRequest, robotName string) {
	switch action {
	case ActionLoaded, ActionHandover:
		if robotName == "" {
			return
		}
		if err := h.commander.Recall(ctx, robotName); err != nil {
			h.logger.Error("recall command failed",
				"robot", robotName, "request_id", aggregate.ID(), "error", err)
		}

	case ActionRequestPayment:
		notify(ctx, h.notifier, h.logger, ports.Notification{
			Kind:       ports.NotificationPaymentDue,
			CustomerID: aggregate.CustomerID(),
			RequestID:  aggregate.ID(),
			Title:      "Payment due",
			Body:       "Your laundry total is " + aggregate.TotalCost().String() + ".",
		})

	case ActionComplete:
		if robotName != "" {
			if err := h.fleet.Release(ctx, robotName); err != nil {
				h.logger.Error("failed to release robot on completion",
					"robot", robotName, "error", err)
			}
		}
		notify(ctx, h.notifier, h.logger, ports.Notification{
			Kind:       ports.NotificationRequestCompleted,
			CustomerID: aggregate.CustomerID(),
			RequestID:  aggregate.ID(),
			Title:      "Laundry done",
			Body:       "Your clean laundry is ready. Thanks for using the service.",
		})

	case ActionFinishWashing:
		// The dispatch job picks the request up for the delivery leg.
	}
}
