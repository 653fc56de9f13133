package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"laundrybot/internal/core/domain/model/request"
	"laundrybot/internal/core/ports"
	"laundrybot/internal/core/registry"
	"laundrybot/internal/pkg/errs"
	"laundrybot/internal/pkg/locker"
)

// BeaconProximityCommandHandler turns raw beacon sightings into lifecycle
// transitions.
//
// A room beacon that matches the bound request's room raises the arrival
// event; the base beacon raises the returned-to-base event and frees the
// robot. Everything else, unknown MACs, weak signals, beacons of other
// rooms passed en route, replays of a stage already reached, is silently
// ignored so the robot can spam reports without breaking anything.
type BeaconProximityCommandHandler struct {
	uowFactory SubmitUoWFactory
	locks      *locker.KeyedLocker
	fleet      *registry.Registry
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewBeaconProximityCommandHandler creates a handler for proximity reports.
func NewBeaconProximityCommandHandler(
	uowFactory SubmitUoWFactory,
	locks *locker.KeyedLocker,
	fleet *registry.Registry,
	notifier ports.Notifier,
	logger *slog.Logger,
) BeaconProximityCommandHandler {
	return BeaconProximityCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		fleet:      fleet,
		notifier:   notifier,
		logger:     logger.With("component", "beacon_proximity"),
	}
}

// Handle applies a proximity report to the reporting robot's bound request.
func (h BeaconProximityCommandHandler) Handle(ctx context.Context, command BeaconProximityCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	reporter, ok := h.fleet.Get(command.RobotName())
	if !ok || reporter.BoundRequestID() == nil {
		// Idle robots roam past beacons all the time.
		return nil
	}
	requestID := *reporter.BoundRequestID()

	release, err := h.locks.Acquire(ctx, requestKey(requestID))
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

	sighted, err := uow.BeaconRepository().GetByMac(ctx, command.BeaconMac())
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.Debug("sighting of uncataloged beacon",
			"robot", command.RobotName(), "mac", command.BeaconMac())
		return nil
	}
	if err != nil {
		return err
	}

	if !sighted.IsActive() || !sighted.InRange(command.Rssi()) {
		return nil
	}

	requestRepo := uow.RequestRepository()
	aggregate, err := requestRepo.Get(ctx, requestID)
	if err != nil {
		return err
	}

	var (
		atBase  = sighted.IsBase()
		arrived bool
	)
	switch {
	case atBase:
		err = aggregate.MarkReturnedToBase(time.Now())
	case h.matchesRoom(aggregate, sighted.Mac(), sighted.RoomName()):
		if !aggregate.Room().HasBeacon() {
			if err = aggregate.MatchBeacon(sighted.Mac()); err != nil {
				return err
			}
		}
		err = aggregate.MarkArrivedAtRoom(time.Now())
		arrived = err == nil
	default:
		// A beacon of some other room passed en route.
		return nil
	}

	if errors.Is(err, request.ErrAlreadyInState) {
		return nil
	}
	if errors.Is(err, request.ErrInvalidTransition) {
		h.logger.Debug("out-of-order beacon report dropped",
			"robot", command.RobotName(), "mac", command.BeaconMac(),
			"status", aggregate.Status().String())
		return nil
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

	if atBase {
		// Back at the dock the robot's trip is over, with dirty laundry
		// after pickup or empty after delivery.
		if err = h.fleet.Release(ctx, command.RobotName()); err != nil {
			h.logger.Error("failed to release robot at base",
				"robot", command.RobotName(), "error", err)
		}
	}

	if arrived {
		notify(ctx, h.notifier, h.logger, ports.Notification{
			Kind:       ports.NotificationArrivedAtRoom,
			CustomerID: aggregate.CustomerID(),
			RequestID:  aggregate.ID(),
			Title:      "Robot at your door",
			Body:       command.RobotName() + " arrived at " + aggregate.Room().Name() + ".",
		})
	}
	return nil
}

// matchesRoom reports whether a sighted room beacon belongs to the
// request. A request whose room had no beacon at submission matches by
// room name and is bound on first sight.
func (h BeaconProximityCommandHandler) matchesRoom(aggregate *request.LaundryRequest, mac, roomName string) bool {
	if aggregate.Room().HasBeacon() {
		return aggregate.Room().BeaconMac() == mac
	}
	return aggregate.Room().Name() == roomName
}
