package commands

import (
	"context"
	"log/slog"
	"time"

	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/core/ports"
	"laundrybot/internal/pkg/locker"
)

// RecordPaymentCommandHandler settles payment for a request. PickupOnly
// and DeliveryOnly requests complete here; PickupAndDelivery requests
// continue into the washing branch.
type RecordPaymentCommandHandler struct {
	uowFactory RequestUoWFactory
	locks      *locker.KeyedLocker
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewRecordPaymentCommandHandler creates a handler for payment settlement.
func NewRecordPaymentCommandHandler(
	uowFactory RequestUoWFactory,
	locks *locker.KeyedLocker,
	notifier ports.Notifier,
	logger *slog.Logger,
) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		notifier:   notifier,
		logger:     logger.With("component", "record_payment"),
	}
}

// Handle moves the request out of PaymentPending.
func (h RecordPaymentCommandHandler) Handle(ctx context.Context, command RecordPaymentCommand) error {
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

	if err = aggregate.CompletePayment(
		command.Method(), command.Reference(), command.Notes(), time.Now()); err != nil {
		return err
	}

	if err = requestRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if aggregate.Status() == request.Completed {
		notify(ctx, h.notifier, h.logger, ports.Notification{
			Kind:       ports.NotificationRequestCompleted,
			CustomerID: aggregate.CustomerID(),
			RequestID:  aggregate.ID(),
			Title:      "All settled",
			Body:       "Payment received. Thanks for using the service.",
		})
	}
	return nil
}
