package commands

import (
	"context"
	"time"

	"laundrybot/internal/core/domain/model/payment"
	"laundrybot/internal/pkg/locker"
)

// RecordAdjustmentCommandHandler appends a ledger entry. The request is
// loaded first so entries can never reference a request that does not
// exist, and the append shares the request's lock so it cannot interleave
// with a concurrent cancellation refund.
type RecordAdjustmentCommandHandler struct {
	uowFactory LedgerUoWFactory
	locks      *locker.KeyedLocker
}

// NewRecordAdjustmentCommandHandler creates a handler for ledger entries.
func NewRecordAdjustmentCommandHandler(uowFactory LedgerUoWFactory, locks *locker.KeyedLocker) RecordAdjustmentCommandHandler {
	return RecordAdjustmentCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle appends the entry.
func (h RecordAdjustmentCommandHandler) Handle(ctx context.Context, command RecordAdjustmentCommand) error {
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

	if _, err = uow.RequestRepository().Get(ctx, command.RequestID()); err != nil {
		return err
	}

	entry, err := payment.NewAdjustment(
		command.RequestID(), command.Kind(), command.AmountCents(),
		command.Reason(), command.Actor(), time.Now())
	if err != nil {
		return err
	}

	if err = uow.AdjustmentRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
