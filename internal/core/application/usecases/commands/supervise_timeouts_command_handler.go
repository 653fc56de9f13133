package commands

import (
	"context"
	"log/slog"
	"time"

	"laundrybot/internal/core/domain/services"
	"laundrybot/internal/core/ports"
	"laundrybot/internal/core/registry"
	"laundrybot/internal/pkg/locker"
)

// SuperviseTimeoutsCommandHandler is the timeout supervisor. On every pass
// it recomputes each active request's dwell from the persisted stage
// timestamp, so supervision picks up exactly where it left off after a
// restart; there are no in-memory timers to lose.
//
// Escalation repeats on every pass until an operator intervenes. The
// cancel action never decides refunds: a cancelled post-invoicing request
// keeps its ledger untouched and the escalation notification tells the
// operator to settle it.
//
// Each pass also walks the fleet: a robot that has held its reservation
// past the policy ceiling without heartbeating is presumed lost, so its
// binding is force-released and the bound request escalated. The request
// itself stays in its stage for the operator to redispatch or cancel.
type SuperviseTimeoutsCommandHandler struct {
	uowFactory RequestUoWFactory
	locks      *locker.KeyedLocker
	fleet      *registry.Registry
	commander  ports.RobotCommander
	notifier   ports.Notifier
	policy     services.TimeoutPolicy
	logger     *slog.Logger
}

// NewSuperviseTimeoutsCommandHandler creates the timeout supervisor.
func NewSuperviseTimeoutsCommandHandler(
	uowFactory RequestUoWFactory,
	locks *locker.KeyedLocker,
	fleet *registry.Registry,
	commander ports.RobotCommander,
	notifier ports.Notifier,
	policy services.TimeoutPolicy,
	logger *slog.Logger,
) SuperviseTimeoutsCommandHandler {
	return SuperviseTimeoutsCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		fleet:      fleet,
		commander:  commander,
		notifier:   notifier,
		policy:     policy,
		logger:     logger.With("component", "timeout_supervisor"),
	}
}

// Handle runs one supervision pass.
func (h SuperviseTimeoutsCommandHandler) Handle(ctx context.Context, command SuperviseTimeoutsCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	overdueIDs, err := h.scan(ctx)
	if err != nil {
		return err
	}

	for _, id := range overdueIDs {
		if err = h.superviseOne(ctx, id); err != nil {
			h.logger.Error("supervision failed", "request_id", id, "error", err)
		}
	}

	h.superviseFleet(ctx)
	return nil
}

// superviseFleet force-releases robots that have held a reservation past
// the policy ceiling without heartbeating. The stage timers above only
// fire when the request dwells; a robot that dies right after binding
// leaves its request moving through stages normally while the unit is
// gone, and this pass is what catches that.
func (h SuperviseTimeoutsCommandHandler) superviseFleet(ctx context.Context) {
	ceiling := h.policy.ReservationCeiling()
	now := time.Now()

	for _, r := range h.fleet.List() {
		if r.BoundRequestID() == nil || now.Sub(r.LastSeen()) < ceiling {
			continue
		}
		if err := h.releaseStalledRobot(ctx, r.Name(), *r.BoundRequestID()); err != nil {
			h.logger.Error("stalled robot release failed",
				"robot", r.Name(), "request_id", *r.BoundRequestID(), "error", err)
		}
	}
}

func (h SuperviseTimeoutsCommandHandler) releaseStalledRobot(ctx context.Context, robotName string, requestID int64) error {
	release, err := h.locks.Acquire(ctx, requestKey(requestID))
	if err != nil {
		return err
	}
	defer release()

	// Re-check under the lock; the robot may have heartbeated, or another
	// pass may have released it already.
	r, ok := h.fleet.Get(robotName)
	if !ok || r.BoundRequestID() == nil || *r.BoundRequestID() != requestID {
		return nil
	}
	silence := time.Since(r.LastSeen())
	if silence < h.policy.ReservationCeiling() {
		return nil
	}

	if err = h.commander.Recall(ctx, robotName); err != nil {
		h.logger.Error("recall command failed",
			"robot", robotName, "request_id", requestID, "error", err)
	}
	if err = h.fleet.Release(ctx, robotName); err != nil {
		return err
	}

	h.logger.Warn("robot reservation force-released",
		"robot", robotName, "request_id", requestID, "silence", silence.Round(time.Second).String())

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.RequestRepository().Get(ctx, requestID)
	if err != nil {
		return err
	}

	notify(ctx, h.notifier, h.logger, ports.Notification{
		Kind:       ports.NotificationStageTimedOut,
		CustomerID: aggregate.CustomerID(),
		RequestID:  requestID,
		Title:      "Robot lost contact",
		Body: "Robot " + robotName + " went silent for " +
			silence.Round(time.Second).String() + " while assigned; it was released for redispatch.",
	})
	return nil
}

// scan collects the ids of overdue requests in one read transaction. The
// decision is re-taken under the request lock before acting, so a stale
// scan result cannot cancel a request that moved on.
func (h SuperviseTimeoutsCommandHandler) scan(ctx context.Context) ([]int64, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	active, err := uow.RequestRepository().GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var overdue []int64
	for _, aggregate := range active {
		if _, isOverdue := h.policy.IsOverdue(aggregate.Status(), aggregate.StatusChangedAt(), now); isOverdue {
			overdue = append(overdue, aggregate.ID())
		}
	}
	return overdue, nil
}

func (h SuperviseTimeoutsCommandHandler) superviseOne(ctx context.Context, requestID int64) error {
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

	requestRepo := uow.RequestRepository()

	aggregate, err := requestRepo.Get(ctx, requestID)
	if err != nil {
		return err
	}

	now := time.Now()
	rule, isOverdue := h.policy.IsOverdue(aggregate.Status(), aggregate.StatusChangedAt(), now)
	if !isOverdue {
		// The request moved on between the scan and the lock.
		return nil
	}

	dwell := now.Sub(aggregate.StatusChangedAt()).Round(time.Second)
	stage := aggregate.Status().String()
	robotName := aggregate.RobotName()

	if rule.Action == services.ActionCancel {
		if err = aggregate.Cancel("stage timeout in "+stage, "supervisor", now); err != nil {
			return err
		}
		if err = requestRepo.Update(ctx, aggregate); err != nil {
			return err
		}
		if err = uow.Commit(ctx); err != nil {
			return err
		}

		if robotName != "" {
			if err = h.commander.Recall(ctx, robotName); err != nil {
				h.logger.Error("recall command failed",
					"robot", robotName, "request_id", requestID, "error", err)
			}
			if err = h.fleet.Release(ctx, robotName); err != nil {
				h.logger.Error("failed to force-release robot",
					"robot", robotName, "error", err)
			}
		}

		h.logger.Warn("request cancelled by timeout",
			"request_id", requestID, "stage", stage, "dwell", dwell.String())
	}

	notify(ctx, h.notifier, h.logger, ports.Notification{
		Kind:       ports.NotificationStageTimedOut,
		CustomerID: aggregate.CustomerID(),
		RequestID:  requestID,
		Title:      "Request stalled",
		Body: "Request has been in " + stage + " for " + dwell.String() +
			", action: " + rule.Action.String() + ".",
	})
	return nil
}
