package commands

import (
	"context"
)

// BeaconUoW manages transactions for catalog-only operations.
type BeaconUoW interface {
	TxManager
	BeaconRepoFactory
}

// BeaconUoWFactory creates catalog unit of work instances.
type BeaconUoWFactory interface {
	Create() BeaconUoW
}

// RegisterBeaconCommandHandler maintains the beacon catalog.
type RegisterBeaconCommandHandler struct {
	uowFactory BeaconUoWFactory
}

// NewRegisterBeaconCommandHandler creates a handler for catalog updates.
func NewRegisterBeaconCommandHandler(uowFactory BeaconUoWFactory) RegisterBeaconCommandHandler {
	return RegisterBeaconCommandHandler{uowFactory: uowFactory}
}

// Handle upserts the beacon.
func (h RegisterBeaconCommandHandler) Handle(ctx context.Context, command RegisterBeaconCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.BeaconRepository().Save(ctx, command.Beacon()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
