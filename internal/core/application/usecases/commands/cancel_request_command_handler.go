package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"laundrybot/internal/core/domain/model/kernel"
	"laundrybot/internal/core/domain/model/payment"
	"laundrybot/internal/core/ports"
	"laundrybot/internal/core/registry"
	"laundrybot/internal/pkg/locker"
)

// ErrRefundRequired is returned when cancelling a request that already
// reached invoicing without providing a refund decision.
var ErrRefundRequired = errors.New("cancellation past invoicing requires a refund decision")

// CancelRequestCommandHandler aborts a request from any non-terminal
// stage.
//
// Past the invoicing point the customer has seen a bill, so cancellation
// must carry a refund decision unless the ledger already holds a refund
// for the request; the refund lands in the money ledger in the same
// transaction as the cancellation. Any bound robot is recalled and
// released.
type CancelRequestCommandHandler struct {
	uowFactory LedgerUoWFactory
	locks      *locker.KeyedLocker
	fleet      *registry.Registry
	commander  ports.RobotCommander
	logger     *slog.Logger
}

// NewCancelRequestCommandHandler creates a handler for cancellations.
func NewCancelRequestCommandHandler(
	uowFactory LedgerUoWFactory,
	locks *locker.KeyedLocker,
	fleet *registry.Registry,
	commander ports.RobotCommander,
	logger *slog.Logger,
) CancelRequestCommandHandler {
	return CancelRequestCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
		fleet:      fleet,
		commander:  commander,
		logger:     logger.With("component", "cancel_request"),
	}
}

// Handle cancels the request, records the refund when due, and frees the
// robot.
func (h CancelRequestCommandHandler) Handle(ctx context.Context, command CancelRequestCommand) error {
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
	robotName := aggregate.RobotName()

	if aggregate.PaymentWasRequested() && command.RefundCents() == 0 {
		// A refund recorded on an earlier attempt satisfies the gate; a
		// retried cancellation must not demand or duplicate one.
		refunded, ledgerErr := h.alreadyRefunded(ctx, uow, aggregate.ID())
		if ledgerErr != nil {
			return ledgerErr
		}
		if !refunded {
			return ErrRefundRequired
		}
	}

	now := time.Now()
	if err = aggregate.Cancel(command.Reason(), command.Actor(), now); err != nil {
		return err
	}

	if command.RefundCents() > 0 {
		refundReason := command.RefundReason()
		if refundReason == "" {
			refundReason = command.Reason()
		}

		entry, entryErr := payment.NewAdjustment(
			aggregate.ID(), payment.KindRefund, command.RefundCents(),
			refundReason, command.Actor(), now)
		if entryErr != nil {
			return entryErr
		}
		if err = uow.AdjustmentRepository().Add(ctx, entry); err != nil {
			return err
		}

		refund, moneyErr := kernel.NewMoneyFromCents(command.RefundCents())
		if moneyErr != nil {
			return moneyErr
		}
		aggregate.RecordRefund(refund, refundReason)
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
				"robot", robotName, "request_id", aggregate.ID(), "error", err)
		}
		if err = h.fleet.Release(ctx, robotName); err != nil {
			h.logger.Error("failed to release robot on cancel",
				"robot", robotName, "error", err)
		}
	}

	h.logger.Info("request cancelled",
		"request_id", aggregate.ID(), "actor", command.Actor(),
		"refund_cents", command.RefundCents())
	return nil
}

func (h CancelRequestCommandHandler) alreadyRefunded(ctx context.Context, uow LedgerUoW, requestID int64) (bool, error) {
	entries, err := uow.AdjustmentRepository().GetByRequest(ctx, requestID)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.Kind() == payment.KindRefund {
			return true, nil
		}
	}
	return false, nil
}
