package commands

import (
	"context"
	"time"

	"laundrybot/internal/pkg/locker"
)

// RecordWeightCommandHandler stores the measured weight and computes the
// total from the tariff snapshotted at acceptance.
type RecordWeightCommandHandler struct {
	uowFactory RequestUoWFactory
	locks      *locker.KeyedLocker
}

// NewRecordWeightCommandHandler creates a handler for weight recording.
func NewRecordWeightCommandHandler(uowFactory RequestUoWFactory, locks *locker.KeyedLocker) RecordWeightCommandHandler {
	return RecordWeightCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle moves the request from ReturnedToBase to WeighingComplete.
func (h RecordWeightCommandHandler) Handle(ctx context.Context, command RecordWeightCommand) error {
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

	if err = aggregate.RecordWeight(command.WeightKg(), time.Now()); err != nil {
		return err
	}

	if err = requestRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
