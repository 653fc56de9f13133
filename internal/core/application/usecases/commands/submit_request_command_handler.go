package commands

import (
	"context"
	"errors"
	"time"

	"laundrybot/internal/core/domain/model/kernel"
	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/pkg/errs"
	"laundrybot/internal/pkg/locker"
)

// ErrCustomerHasActiveRequest is returned when a customer submits while an
// earlier request of theirs is still in flight.
var ErrCustomerHasActiveRequest = errors.New("customer already has an active request")

// SubmitRequestCommandHandler creates a new laundry request in Pending.
//
// Submissions are serialized per customer through the keyed locker, so two
// rapid submits from the same customer cannot both pass the one-active
// check.
type SubmitRequestCommandHandler struct {
	uowFactory SubmitUoWFactory
	locks      *locker.KeyedLocker
}

// NewSubmitRequestCommandHandler creates a handler for request submission.
func NewSubmitRequestCommandHandler(uowFactory SubmitUoWFactory, locks *locker.KeyedLocker) SubmitRequestCommandHandler {
	return SubmitRequestCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle creates the request and returns its assigned id. The room's
// beacon is matched from the catalog when one is installed; a room without
// a beacon is accepted and matched later.
func (h SubmitRequestCommandHandler) Handle(ctx context.Context, command SubmitRequestCommand) (int64, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	release, err := h.locks.Acquire(ctx, "customer:"+command.CustomerID())
	if err != nil {
		return 0, err
	}
	defer release()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	requestRepo := uow.RequestRepository()

	_, err = requestRepo.GetActiveByCustomer(ctx, command.CustomerID())
	if err == nil {
		return 0, ErrCustomerHasActiveRequest
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return 0, err
	}

	room, err := kernel.NewRoom(command.RoomName(), "")
	if err != nil {
		return 0, err
	}

	aggregate, err := request.NewLaundryRequest(
		command.CustomerID(), command.CustomerName(), command.Flow(), room, time.Now())
	if err != nil {
		return 0, err
	}

	catalogBeacon, err := uow.BeaconRepository().GetByRoom(ctx, command.RoomName())
	switch {
	case err == nil:
		if err = aggregate.MatchBeacon(catalogBeacon.Mac()); err != nil {
			return 0, err
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		// No beacon installed yet; arrival will need a later match.
	default:
		return 0, err
	}

	if err = requestRepo.Add(ctx, aggregate); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return aggregate.ID(), nil
}
