package commands

import (
	"context"
	"log/slog"
	"time"

	"laundrybot/internal/core/domain/model/robot"
	"laundrybot/internal/core/domain/services"
	"laundrybot/internal/core/ports"
	"laundrybot/internal/core/registry"
	"laundrybot/internal/pkg/locker"
)

// ErrNoRobotAvailable is re-exported so HTTP callers can map the outcome
// without importing the domain services package.
var ErrNoRobotAvailable = services.ErrNoRobotAvailable

// DispatchRobotCommandHandler reserves a robot for a request and sends it
// on its way.
//
// The flow is select, reserve, assign: the selector proposes a candidate
// from the registry's fleet view, TryReserve performs the atomic bind, and
// only then does the request transition and the navigation command go out.
// Losing the reservation race simply retries with the remaining
// candidates. When no robot can be reserved the request is left untouched
// and ErrNoRobotAvailable is returned; the dispatch job retries on its
// next tick.
type DispatchRobotCommandHandler struct {
	uowFactory RequestUoWFactory
	locks      *locker.KeyedLocker
	fleet      *registry.Registry
	selector   services.RobotSelector
	commander  ports.RobotCommander
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewDispatchRobotCommandHandler creates a handler for robot dispatch.
func NewDispatchRobotCommandHandler(
	uowFactory RequestUoWFactory,
	locks *locker.KeyedLocker,
	fleet *registry.Registry,
	commander ports.RobotCommander,
	notifier ports.Notifier,
	logger *slog.Logger,
) DispatchRobotCommandHandler {
	return DispatchRobotCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		fleet:      fleet,
		selector:   services.NewRobotSelector(),
		commander:  commander,
		notifier:   notifier,
		logger:     logger.With("component", "dispatch_robot"),
	}
}

// Handle binds a robot to the request and commands it to the room.
func (h DispatchRobotCommandHandler) Handle(ctx context.Context, command DispatchRobotCommand) error {
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

	reservedName, err := h.reserveOne(ctx, command.RequestID())
	if err != nil {
		return err
	}

	if err = aggregate.AssignRobot(reservedName, time.Now()); err != nil {
		// The request cannot take a robot in its current status; give the
		// reservation back.
		if releaseErr := h.fleet.Release(ctx, reservedName); releaseErr != nil {
			h.logger.Error("failed to release robot after rejected assign",
				"robot", reservedName, "error", releaseErr)
		}
		return err
	}

	if err = requestRepo.Update(ctx, aggregate); err != nil {
		if releaseErr := h.fleet.Release(ctx, reservedName); releaseErr != nil {
			h.logger.Error("failed to release robot after update failure",
				"robot", reservedName, "error", releaseErr)
		}
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		if releaseErr := h.fleet.Release(ctx, reservedName); releaseErr != nil {
			h.logger.Error("failed to release robot after commit failure",
				"robot", reservedName, "error", releaseErr)
		}
		return err
	}

	// The bind is durable; from here failures are reported, not rolled
	// back. A robot that never confirms the task is the supervisor's
	// problem.
	if err = h.commander.NavigateTo(ctx, reservedName, aggregate.Room().Name()); err != nil {
		h.logger.Error("navigation command failed",
			"robot", reservedName, "request_id", aggregate.ID(), "error", err)
	}

	notify(ctx, h.notifier, h.logger, ports.Notification{
		Kind:       ports.NotificationRobotEnRoute,
		CustomerID: aggregate.CustomerID(),
		RequestID:  aggregate.ID(),
		Title:      "Robot on its way",
		Body:       reservedName + " is heading to " + aggregate.Room().Name() + ".",
	})
	return nil
}

// reserveOne picks candidates until a reservation sticks. Candidates lost
// to concurrent dispatches are skipped and selection repeats on the rest.
func (h DispatchRobotCommandHandler) reserveOne(ctx context.Context, requestID int64) (string, error) {
	candidates := h.fleet.List()

	for len(candidates) > 0 {
		chosen, err := h.selector.Select(candidates)
		if err != nil {
			return "", err
		}

		outcome, err := h.fleet.TryReserve(ctx, chosen.Name(), requestID)
		if err != nil {
			return "", err
		}
		if outcome == registry.Reserved {
			return chosen.Name(), nil
		}

		h.logger.Debug("reservation lost, reselecting",
			"robot", chosen.Name(), "outcome", outcome.String())
		candidates = withoutRobot(candidates, chosen.Name())
	}

	return "", ErrNoRobotAvailable
}

func withoutRobot(robots []*robot.Robot, name string) []*robot.Robot {
	out := robots[:0]
	for _, r := range robots {
		if r.Name() != name {
			out = append(out, r)
		}
	}
	return out
}
