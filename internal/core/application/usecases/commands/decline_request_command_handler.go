package commands

import (
	"context"
	"log/slog"
	"time"

	"laundrybot/internal/core/ports"
	"laundrybot/internal/pkg/locker"
)

// DeclineRequestCommandHandler rejects a pending request.
type DeclineRequestCommandHandler struct {
	uowFactory RequestUoWFactory
	locks      *locker.KeyedLocker
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewDeclineRequestCommandHandler creates a handler for declines.
func NewDeclineRequestCommandHandler(
	uowFactory RequestUoWFactory,
	locks *locker.KeyedLocker,
	notifier ports.Notifier,
	logger *slog.Logger,
) DeclineRequestCommandHandler {
	return DeclineRequestCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		notifier:   notifier,
		logger:     logger.With("component", "decline_request"),
	}
}

// Handle moves the request from Pending to Declined.
func (h DeclineRequestCommandHandler) Handle(ctx context.Context, command DeclineRequestCommand) error {
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

	if err = aggregate.Decline(command.Reason(), time.Now()); err != nil {
		return err
	}

	if err = requestRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notify(ctx, h.notifier, h.logger, ports.Notification{
		Kind:       ports.NotificationRequestDeclined,
		CustomerID: aggregate.CustomerID(),
		RequestID:  aggregate.ID(),
		Title:      "Request declined",
		Body:       command.Reason(),
	})
	return nil
}
