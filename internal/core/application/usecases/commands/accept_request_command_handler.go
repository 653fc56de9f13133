package commands

import (
	"context"
	"log/slog"
	"time"

	"laundrybot/internal/core/ports"
	"laundrybot/internal/pkg/locker"
)

// AcceptRequestCommandHandler approves a pending request, snapshots the
// tariff, and tells the customer.
type AcceptRequestCommandHandler struct {
	uowFactory RequestUoWFactory
	locks      *locker.KeyedLocker
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewAcceptRequestCommandHandler creates a handler for request acceptance.
func NewAcceptRequestCommandHandler(
	uowFactory RequestUoWFactory,
	locks *locker.KeyedLocker,
	notifier ports.Notifier,
	logger *slog.Logger,
) AcceptRequestCommandHandler {
	return AcceptRequestCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		notifier:   notifier,
		logger:     logger.With("component", "accept_request"),
	}
}

// Handle moves the request from Pending to Accepted.
func (h AcceptRequestCommandHandler) Handle(ctx context.Context, command AcceptRequestCommand) error {
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

	if err = aggregate.Accept(command.PricePerKg(), command.MinimumCharge(), time.Now()); err != nil {
		return err
	}

	if err = requestRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notify(ctx, h.notifier, h.logger, ports.Notification{
		Kind:       ports.NotificationRequestAccepted,
		CustomerID: aggregate.CustomerID(),
		RequestID:  aggregate.ID(),
		Title:      "Request accepted",
		Body:       "A robot will be dispatched to " + aggregate.Room().Name() + " shortly.",
	})
	return nil
}
